package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/metrics"
	"github.com/carelink/carelink/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

type connectionUsecaser interface {
	Request(ctx context.Context, userID, helperID string) (*domain.Connection, error)
	ListPending(ctx context.Context, helperID string) ([]*domain.ConnectionWithParty, error)
	Approve(ctx context.Context, id, helperID string) error
	Reject(ctx context.Context, id, helperID string) error
	ListApproved(ctx context.Context, principalID string, role domain.Role) ([]*domain.ConnectionWithParty, error)
	Remove(ctx context.Context, id, principalID string, role domain.Role) error
}

type ConnectionHandler struct {
	connections connectionUsecaser
	logger      *slog.Logger
}

func NewConnectionHandler(connections connectionUsecaser, logger *slog.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		connections: connections,
		logger:      logger.With("component", "connection_handler"),
	}
}

type requestConnectionRequest struct {
	HelperID string `json:"helper_id" binding:"required"`
}

type connectionResponse struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"user_id"`
	HelperID  string                  `json:"helper_id"`
	Status    domain.ConnectionStatus `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

type connectionWithPartyResponse struct {
	connectionResponse
	Party partyResponse `json:"party"`
}

type partyResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Mail string `json:"mail"`
}

// POST /connections  (user only)
func (h *ConnectionHandler) Request(c *gin.Context) {
	var req requestConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := middleware.Subject(c)
	conn, err := h.connections.Request(c.Request.Context(), userID, req.HelperID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHelperNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errHelperNotFound})
		case errors.Is(err, domain.ErrAlreadyRequested):
			c.JSON(http.StatusConflict, gin.H{"error": errAlreadyRequested})
		case errors.Is(err, domain.ErrAlreadyConnected):
			c.JSON(http.StatusConflict, gin.H{"error": errAlreadyConnected})
		default:
			h.logger.Error("request connection", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.ConnectionTransitionsTotal.WithLabelValues("request").Inc()
	c.JSON(http.StatusCreated, newConnectionResponse(conn))
}

// GET /connections/pending  (helper only)
func (h *ConnectionHandler) ListPending(c *gin.Context) {
	helperID, _ := middleware.Subject(c)

	conns, err := h.connections.ListPending(c.Request.Context(), helperID)
	if err != nil {
		h.logger.Error("list pending connections", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, newConnectionListResponse(conns))
}

// POST /connections/:id/approve  (helper only)
func (h *ConnectionHandler) Approve(c *gin.Context) {
	h.settle(c, "approve", h.connections.Approve)
}

// POST /connections/:id/reject  (helper only)
func (h *ConnectionHandler) Reject(c *gin.Context) {
	h.settle(c, "reject", h.connections.Reject)
}

func (h *ConnectionHandler) settle(c *gin.Context, transition string, fn func(ctx context.Context, id, helperID string) error) {
	helperID, _ := middleware.Subject(c)
	id := c.Param("id")

	if err := fn(c.Request.Context(), id, helperID); err != nil {
		switch {
		case errors.Is(err, domain.ErrConnectionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errConnectionNotFound})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		case errors.Is(err, domain.ErrAlreadyResolved):
			c.JSON(http.StatusConflict, gin.H{"error": errAlreadyResolved})
		default:
			h.logger.Error("settle connection", "transition", transition, "connection_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.ConnectionTransitionsTotal.WithLabelValues(transition).Inc()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /connections
func (h *ConnectionHandler) ListApproved(c *gin.Context) {
	principalID, role := middleware.Subject(c)

	conns, err := h.connections.ListApproved(c.Request.Context(), principalID, role)
	if err != nil {
		h.logger.Error("list approved connections", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, newConnectionListResponse(conns))
}

// DELETE /connections/:id
func (h *ConnectionHandler) Remove(c *gin.Context) {
	principalID, role := middleware.Subject(c)
	id := c.Param("id")

	if err := h.connections.Remove(c.Request.Context(), id, principalID, role); err != nil {
		switch {
		case errors.Is(err, domain.ErrConnectionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errConnectionNotFound})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		case errors.Is(err, domain.ErrAlreadyResolved):
			c.JSON(http.StatusConflict, gin.H{"error": errAlreadyResolved})
		default:
			h.logger.Error("remove connection", "connection_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.ConnectionTransitionsTotal.WithLabelValues("remove").Inc()
	c.Status(http.StatusNoContent)
}

func newConnectionResponse(conn *domain.Connection) connectionResponse {
	return connectionResponse{
		ID:        conn.ID,
		UserID:    conn.UserID,
		HelperID:  conn.HelperID,
		Status:    conn.Status,
		CreatedAt: conn.CreatedAt,
		UpdatedAt: conn.UpdatedAt,
	}
}

func newConnectionListResponse(conns []*domain.ConnectionWithParty) []connectionWithPartyResponse {
	out := make([]connectionWithPartyResponse, 0, len(conns))
	for _, conn := range conns {
		out = append(out, connectionWithPartyResponse{
			connectionResponse: newConnectionResponse(&conn.Connection),
			Party: partyResponse{
				ID:   conn.Party.ID,
				Name: conn.Party.Name,
				Mail: conn.Party.Mail,
			},
		})
	}
	return out
}
