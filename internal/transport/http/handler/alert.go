package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/transport/http/middleware"
	"github.com/carelink/carelink/internal/usecase"
	"github.com/gin-gonic/gin"
)

type alertUsecaser interface {
	Create(ctx context.Context, input usecase.CreateAlertInput) (*domain.Alert, error)
	ListForPrincipal(ctx context.Context, principalID string, role domain.Role) ([]*domain.Alert, error)
	MarkChecked(ctx context.Context, alertID, principalID string, role domain.Role) error
}

type AlertHandler struct {
	alerts alertUsecaser
	logger *slog.Logger
}

func NewAlertHandler(alerts alertUsecaser, logger *slog.Logger) *AlertHandler {
	return &AlertHandler{
		alerts: alerts,
		logger: logger.With("component", "alert_handler"),
	}
}

type createAlertRequest struct {
	Title       string `json:"title"       binding:"required"`
	Description string `json:"description"`
	Importance  int    `json:"importance"  binding:"required,min=1,max=5"`
	AlertType   string `json:"alert_type"  binding:"required"`
}

type alertResponse struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Importance        int        `json:"importance"`
	AlertType         string     `json:"alert_type"`
	CheckedByUserAt   *time.Time `json:"checked_by_user_at,omitempty"`
	CheckedByHelperAt *time.Time `json:"checked_by_helper_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// POST /alerts  (user only)
func (h *AlertHandler) Create(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := middleware.Subject(c)
	alert, err := h.alerts.Create(c.Request.Context(), usecase.CreateAlertInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Importance:  req.Importance,
		AlertType:   req.AlertType,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrMissingAlertFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("create alert", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, newAlertResponse(alert))
}

// GET /alerts — a user sees their own alerts, a helper the alerts of every
// connected user.
func (h *AlertHandler) List(c *gin.Context) {
	principalID, role := middleware.Subject(c)

	alerts, err := h.alerts.ListForPrincipal(c.Request.Context(), principalID, role)
	if err != nil {
		h.logger.Error("list alerts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]alertResponse, 0, len(alerts))
	for _, alert := range alerts {
		out = append(out, newAlertResponse(alert))
	}
	c.JSON(http.StatusOK, out)
}

// POST /alerts/:id/check
func (h *AlertHandler) MarkChecked(c *gin.Context) {
	principalID, role := middleware.Subject(c)
	id := c.Param("id")

	if err := h.alerts.MarkChecked(c.Request.Context(), id, principalID, role); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlertNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errAlertNotFound})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		default:
			h.logger.Error("mark alert checked", "alert_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func newAlertResponse(alert *domain.Alert) alertResponse {
	return alertResponse{
		ID:                alert.ID,
		UserID:            alert.UserID,
		Title:             alert.Title,
		Description:       alert.Description,
		Importance:        alert.Importance,
		AlertType:         alert.AlertType,
		CheckedByUserAt:   alert.CheckedByUserAt,
		CheckedByHelperAt: alert.CheckedByHelperAt,
		CreatedAt:         alert.CreatedAt,
	}
}
