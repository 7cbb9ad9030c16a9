package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/repository"
	"github.com/carelink/carelink/internal/transport/http/middleware"
	"github.com/carelink/carelink/internal/usecase"
	"github.com/gin-gonic/gin"
)

type contactUsecaser interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.EmergencyContact, error)
	ListByHelper(ctx context.Context, helperID string) ([]*domain.EmergencyContact, error)
	Get(ctx context.Context, userID, helperID string) (*domain.EmergencyContact, error)
	Create(ctx context.Context, contact domain.EmergencyContact) (*domain.EmergencyContact, error)
	Update(ctx context.Context, userID, helperID string, input repository.UpdateContactInput) (*domain.EmergencyContact, error)
	Delete(ctx context.Context, userID, helperID string) error
}

type ContactHandler struct {
	contacts contactUsecaser
	logger   *slog.Logger
}

func NewContactHandler(contacts contactUsecaser, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		logger:   logger.With("component", "contact_handler"),
	}
}

type createContactRequest struct {
	HelperID     string  `json:"helper_id"    binding:"required"`
	Name         string  `json:"name"         binding:"required"`
	Relationship string  `json:"relationship" binding:"required"`
	PhoneNumber  string  `json:"phone_number" binding:"required"`
	Mail         *string `json:"mail"         binding:"omitempty,email"`
	Address      *string `json:"address"`
	IsMain       bool    `json:"is_main"`
}

type updateContactRequest struct {
	Name         *string `json:"name"`
	Relationship *string `json:"relationship"`
	PhoneNumber  *string `json:"phone_number"`
	Mail         *string `json:"mail" binding:"omitempty,email"`
	Address      *string `json:"address"`
	IsMain       *bool   `json:"is_main"`
}

type contactResponse struct {
	UserID       string    `json:"user_id"`
	HelperID     string    `json:"helper_id"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	PhoneNumber  string    `json:"phone_number"`
	Mail         *string   `json:"mail,omitempty"`
	Address      *string   `json:"address,omitempty"`
	IsMain       bool      `json:"is_main"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GET /contacts — a user sees their own contacts, a helper the ones
// naming them.
func (h *ContactHandler) List(c *gin.Context) {
	principalID, role := middleware.Subject(c)

	var (
		contacts []*domain.EmergencyContact
		err      error
	)
	if role == domain.RoleHelper {
		contacts, err = h.contacts.ListByHelper(c.Request.Context(), principalID)
	} else {
		contacts, err = h.contacts.ListByUser(c.Request.Context(), principalID)
	}
	if err != nil {
		h.logger.Error("list contacts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]contactResponse, 0, len(contacts))
	for _, contact := range contacts {
		out = append(out, newContactResponse(contact))
	}
	c.JSON(http.StatusOK, out)
}

// GET /contacts/:helperId  (user only)
func (h *ContactHandler) Get(c *gin.Context) {
	userID, _ := middleware.Subject(c)

	contact, err := h.contacts.Get(c.Request.Context(), userID, c.Param("helperId"))
	if err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errContactNotFound})
			return
		}
		h.logger.Error("get contact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, newContactResponse(contact))
}

// POST /contacts  (user only)
func (h *ContactHandler) Create(c *gin.Context) {
	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := middleware.Subject(c)
	contact, err := h.contacts.Create(c.Request.Context(), domain.EmergencyContact{
		UserID:       userID,
		HelperID:     req.HelperID,
		Name:         req.Name,
		Relationship: req.Relationship,
		PhoneNumber:  req.PhoneNumber,
		Mail:         req.Mail,
		Address:      req.Address,
		IsMain:       req.IsMain,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateContact):
			c.JSON(http.StatusConflict, gin.H{"error": errDuplicateContact})
		case errors.Is(err, usecase.ErrMissingContactFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("create contact", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, newContactResponse(contact))
}

// PUT /contacts/:helperId  (user only)
func (h *ContactHandler) Update(c *gin.Context) {
	var req updateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := middleware.Subject(c)
	contact, err := h.contacts.Update(c.Request.Context(), userID, c.Param("helperId"), repository.UpdateContactInput{
		Name:         req.Name,
		Relationship: req.Relationship,
		PhoneNumber:  req.PhoneNumber,
		Mail:         req.Mail,
		Address:      req.Address,
		IsMain:       req.IsMain,
	})
	if err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errContactNotFound})
			return
		}
		h.logger.Error("update contact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, newContactResponse(contact))
}

// DELETE /contacts/:helperId  (user only)
func (h *ContactHandler) Delete(c *gin.Context) {
	userID, _ := middleware.Subject(c)

	if err := h.contacts.Delete(c.Request.Context(), userID, c.Param("helperId")); err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errContactNotFound})
			return
		}
		h.logger.Error("delete contact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.Status(http.StatusNoContent)
}

func newContactResponse(contact *domain.EmergencyContact) contactResponse {
	return contactResponse{
		UserID:       contact.UserID,
		HelperID:     contact.HelperID,
		Name:         contact.Name,
		Relationship: contact.Relationship,
		PhoneNumber:  contact.PhoneNumber,
		Mail:         contact.Mail,
		Address:      contact.Address,
		IsMain:       contact.IsMain,
		CreatedAt:    contact.CreatedAt,
		UpdatedAt:    contact.UpdatedAt,
	}
}
