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
	"github.com/carelink/carelink/internal/transport/http/handler"
	"github.com/carelink/carelink/internal/transport/http/middleware"
	"github.com/carelink/carelink/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	login    func(ctx context.Context, mail, password string) (*usecase.Session, error)
	register func(ctx context.Context, input usecase.RegisterInput) (*usecase.Session, error)
	profile  func(ctx context.Context, id string, role domain.Role) (*usecase.Profile, error)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, mail, password string) (*usecase.Session, error) {
	return f.login(ctx, mail, password)
}

func (f *fakeAuthUsecase) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.Session, error) {
	return f.register(ctx, input)
}

func (f *fakeAuthUsecase) Profile(ctx context.Context, id string, role domain.Role) (*usecase.Profile, error) {
	return f.profile(ctx, id, role)
}

// asPrincipal stands in for the auth middleware on guarded routes.
func asPrincipal(id string, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxSubjectID, id)
		c.Set(middleware.CtxRole, role)
		c.Next()
	}
}

func newAuthEngine(uc *fakeAuthUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewAuthHandler(uc, logger)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/register", h.Register)
	r.GET("/auth/me", asPrincipal("user-1", domain.RoleUser), h.Me)
	r.POST("/auth/logout", h.Logout)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

var testSession = &usecase.Session{
	Token:     "header.payload.signature",
	Principal: domain.Principal{ID: "user-1", Name: "Taro", Mail: "taro@example.com", Role: domain.RoleUser},
}

// ---- Login ----

func TestLogin_InvalidJSON_Returns400(t *testing.T) {
	w := postJSON(t, newAuthEngine(&fakeAuthUsecase{}), "/auth/login", `{bad json}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogin_ShortPassword_Returns400(t *testing.T) {
	w := postJSON(t, newAuthEngine(&fakeAuthUsecase{}), "/auth/login",
		`{"mail":"taro@example.com","password":"short"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogin_InvalidCredentials_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(context.Context, string, string) (*usecase.Session, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/login",
		`{"mail":"taro@example.com","password":"wrong-password"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLogin_PasswordNotSet_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(context.Context, string, string) (*usecase.Session, error) {
			return nil, domain.ErrPasswordNotSet
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/login",
		`{"mail":"invited@example.com","password":"anything8"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLogin_Success_ReturnsTokenAndRole(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(context.Context, string, string) (*usecase.Session, error) {
			return testSession, nil
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/login",
		`{"mail":"taro@example.com","password":"hunter2222"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), testSession.Token) {
		t.Errorf("body %q does not contain the session token", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"role":"user"`) {
		t.Errorf("body %q does not tag the role", w.Body.String())
	}
}

// ---- Register ----

func TestRegister_DuplicateMail_Returns409(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(context.Context, usecase.RegisterInput) (*usecase.Session, error) {
			return nil, domain.ErrDuplicateMail
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/register",
		`{"role":"user","name":"Taro","mail":"taro@example.com","password":"hunter2222"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestRegister_UnknownRole_Returns400(t *testing.T) {
	w := postJSON(t, newAuthEngine(&fakeAuthUsecase{}), "/auth/register",
		`{"role":"admin","name":"X","mail":"x@example.com","password":"hunter2222"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_HelperMissingFields_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(context.Context, usecase.RegisterInput) (*usecase.Session, error) {
			return nil, domain.ErrMissingHelperFields
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/register",
		`{"role":"helper","name":"Hana","mail":"hana@example.com","password":"hunter2222"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_Success_Returns201(t *testing.T) {
	var captured usecase.RegisterInput
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, input usecase.RegisterInput) (*usecase.Session, error) {
			captured = input
			return testSession, nil
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/register",
		`{"role":"user","name":"Taro","mail":"taro@example.com","password":"hunter2222"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if captured.Role != domain.RoleUser || captured.Mail != "taro@example.com" {
		t.Errorf("usecase got %+v, want the posted user fields", captured)
	}
}

// ---- Me ----

func TestMe_AccountGone_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		profile: func(context.Context, string, domain.Role) (*usecase.Profile, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	newAuthEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestMe_ReturnsRoleSpecificFields(t *testing.T) {
	age := 78
	uc := &fakeAuthUsecase{
		profile: func(_ context.Context, id string, role domain.Role) (*usecase.Profile, error) {
			return &usecase.Profile{
				Principal: domain.Principal{ID: id, Name: "Taro", Mail: "taro@example.com", Role: role},
				User:      &domain.User{ID: id, Age: &age},
			}, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	newAuthEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"age":78`) {
		t.Errorf("body %q lacks the user-side age field", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "nickname") {
		t.Errorf("body %q leaks helper-side fields for a user profile", w.Body.String())
	}
}

// ---- Logout ----

func TestLogout_Returns200(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	newAuthEngine(&fakeAuthUsecase{}).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"success":true`) {
		t.Errorf("body = %q, want success confirmation", w.Body.String())
	}
}
