package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/repository"
	"github.com/carelink/carelink/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

type fakeContactUsecase struct {
	listByUser   func(ctx context.Context, userID string) ([]*domain.EmergencyContact, error)
	listByHelper func(ctx context.Context, helperID string) ([]*domain.EmergencyContact, error)
	get          func(ctx context.Context, userID, helperID string) (*domain.EmergencyContact, error)
	create       func(ctx context.Context, contact domain.EmergencyContact) (*domain.EmergencyContact, error)
	update       func(ctx context.Context, userID, helperID string, input repository.UpdateContactInput) (*domain.EmergencyContact, error)
	delete       func(ctx context.Context, userID, helperID string) error
}

func (f *fakeContactUsecase) ListByUser(ctx context.Context, userID string) ([]*domain.EmergencyContact, error) {
	return f.listByUser(ctx, userID)
}

func (f *fakeContactUsecase) ListByHelper(ctx context.Context, helperID string) ([]*domain.EmergencyContact, error) {
	return f.listByHelper(ctx, helperID)
}

func (f *fakeContactUsecase) Get(ctx context.Context, userID, helperID string) (*domain.EmergencyContact, error) {
	return f.get(ctx, userID, helperID)
}

func (f *fakeContactUsecase) Create(ctx context.Context, contact domain.EmergencyContact) (*domain.EmergencyContact, error) {
	return f.create(ctx, contact)
}

func (f *fakeContactUsecase) Update(ctx context.Context, userID, helperID string, input repository.UpdateContactInput) (*domain.EmergencyContact, error) {
	return f.update(ctx, userID, helperID, input)
}

func (f *fakeContactUsecase) Delete(ctx context.Context, userID, helperID string) error {
	return f.delete(ctx, userID, helperID)
}

func newContactEngine(uc *fakeContactUsecase, principalID string, role domain.Role) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewContactHandler(uc, logger)

	r := gin.New()
	r.Use(asPrincipal(principalID, role))
	r.GET("/contacts", h.List)
	r.GET("/contacts/:helperId", h.Get)
	r.POST("/contacts", h.Create)
	r.DELETE("/contacts/:helperId", h.Delete)
	return r
}

// ---- Get ----

func TestGetContact_ReturnsPairContact(t *testing.T) {
	mail := "yuki@example.com"
	uc := &fakeContactUsecase{
		get: func(_ context.Context, userID, helperID string) (*domain.EmergencyContact, error) {
			if userID != "user-1" || helperID != "helper-1" {
				t.Errorf("get(%q, %q), want (user-1, helper-1)", userID, helperID)
			}
			return &domain.EmergencyContact{
				UserID: userID, HelperID: helperID, Name: "Yuki",
				Relationship: "daughter", PhoneNumber: "080-0000-0000", Mail: &mail,
			}, nil
		},
	}
	r := newContactEngine(uc, "user-1", domain.RoleUser)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/contacts/helper-1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	for _, want := range []string{`"name":"Yuki"`, `"mail":"yuki@example.com"`} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("body %q lacks %s", w.Body.String(), want)
		}
	}
}

func TestGetContact_Unknown_Returns404(t *testing.T) {
	uc := &fakeContactUsecase{
		get: func(context.Context, string, string) (*domain.EmergencyContact, error) {
			return nil, domain.ErrContactNotFound
		},
	}
	r := newContactEngine(uc, "user-1", domain.RoleUser)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/contacts/ghost", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// ---- Create ----

func TestCreateContact_DuplicatePair_Returns409(t *testing.T) {
	uc := &fakeContactUsecase{
		create: func(context.Context, domain.EmergencyContact) (*domain.EmergencyContact, error) {
			return nil, domain.ErrDuplicateContact
		},
	}
	r := newContactEngine(uc, "user-1", domain.RoleUser)

	w := postJSON(t, r, "/contacts",
		`{"helper_id":"helper-1","name":"Yuki","relationship":"daughter","phone_number":"080-0000-0000"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestCreateContact_OwnerTakenFromSession(t *testing.T) {
	var captured domain.EmergencyContact
	uc := &fakeContactUsecase{
		create: func(_ context.Context, contact domain.EmergencyContact) (*domain.EmergencyContact, error) {
			captured = contact
			return &contact, nil
		},
	}
	r := newContactEngine(uc, "user-1", domain.RoleUser)

	w := postJSON(t, r, "/contacts",
		`{"helper_id":"helper-1","name":"Yuki","relationship":"daughter","phone_number":"080-0000-0000"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if captured.UserID != "user-1" {
		t.Errorf("contact owner = %q, want the session subject", captured.UserID)
	}
}

// ---- Delete ----

func TestDeleteContact_Unknown_Returns404(t *testing.T) {
	uc := &fakeContactUsecase{
		delete: func(context.Context, string, string) error {
			return domain.ErrContactNotFound
		},
	}
	r := newContactEngine(uc, "user-1", domain.RoleUser)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/contacts/ghost", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
