package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/metrics"
	"github.com/carelink/carelink/internal/transport/http/middleware"
	"github.com/carelink/carelink/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Login(ctx context.Context, mail, password string) (*usecase.Session, error)
	Register(ctx context.Context, input usecase.RegisterInput) (*usecase.Session, error)
	Profile(ctx context.Context, id string, role domain.Role) (*usecase.Profile, error)
}

type AuthHandler struct {
	auth   authUsecaser
	logger *slog.Logger
}

func NewAuthHandler(auth authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With("component", "auth_handler"),
	}
}

type loginRequest struct {
	Mail     string `json:"mail"     binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type registerRequest struct {
	Role     domain.Role `json:"role"     binding:"required,oneof=user helper"`
	Name     string      `json:"name"     binding:"required"`
	Mail     string      `json:"mail"     binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`

	Age     *int    `json:"age"     binding:"omitempty,gt=0"`
	Icon    *string `json:"icon"    binding:"omitempty,url"`
	Address *string `json:"address"`
	Comment *string `json:"comment"`

	Nickname     string `json:"nickname"`
	PhoneNumber  string `json:"phone_number"`
	Relationship string `json:"relationship"`
}

type sessionResponse struct {
	Token string            `json:"token"`
	Role  domain.Role       `json:"role"`
	User  principalResponse `json:"user"`
}

type principalResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Mail string `json:"mail"`
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Mail, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
		case errors.Is(err, domain.ErrPasswordNotSet):
			metrics.LoginsTotal.WithLabelValues("not_configured").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errPasswordNotSet})
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
			h.logger.Error("login", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, newSessionResponse(session))
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Role:         req.Role,
		Name:         req.Name,
		Mail:         req.Mail,
		Password:     req.Password,
		Age:          req.Age,
		Icon:         req.Icon,
		Address:      req.Address,
		Comment:      req.Comment,
		Nickname:     req.Nickname,
		PhoneNumber:  req.PhoneNumber,
		Relationship: req.Relationship,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateMail):
			c.JSON(http.StatusConflict, gin.H{"error": errDuplicateMail})
		case errors.Is(err, domain.ErrMissingHelperFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": errMissingHelperFields})
		default:
			h.logger.Error("register", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, newSessionResponse(session))
}

type profileResponse struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
	Name string      `json:"name"`
	Mail string      `json:"mail"`

	Age     *int    `json:"age,omitempty"`
	Icon    *string `json:"icon,omitempty"`
	Address *string `json:"address,omitempty"`
	Comment *string `json:"comment,omitempty"`

	Nickname     string `json:"nickname,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	id, role := middleware.Subject(c)

	profile, err := h.auth.Profile(c.Request.Context(), id, role)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrHelperNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}
		h.logger.Error("load profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	resp := profileResponse{
		ID:   profile.Principal.ID,
		Role: profile.Principal.Role,
		Name: profile.Principal.Name,
		Mail: profile.Principal.Mail,
	}
	if profile.User != nil {
		resp.Age = profile.User.Age
		resp.Icon = profile.User.Icon
		resp.Address = profile.User.Address
		resp.Comment = profile.User.Comment
	}
	if profile.Helper != nil {
		resp.Nickname = profile.Helper.Nickname
		resp.PhoneNumber = profile.Helper.PhoneNumber
		resp.Relationship = profile.Helper.Relationship
	}
	c.JSON(http.StatusOK, resp)
}

// POST /auth/logout
// Tokens are stateless; logout is client-side token removal. This endpoint
// only confirms the action.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func newSessionResponse(s *usecase.Session) sessionResponse {
	return sessionResponse{
		Token: s.Token,
		Role:  s.Principal.Role,
		User: principalResponse{
			ID:   s.Principal.ID,
			Name: s.Principal.Name,
			Mail: s.Principal.Mail,
		},
	}
}
