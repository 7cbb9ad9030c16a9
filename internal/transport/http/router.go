package httptransport

import (
	"log/slog"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/token"
	"github.com/carelink/carelink/internal/transport/http/handler"
	"github.com/carelink/carelink/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	tokens *token.Manager,
	authHandler *handler.AuthHandler,
	connectionHandler *handler.ConnectionHandler,
	contactHandler *handler.ContactHandler,
	alertHandler *handler.AlertHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	guard := middleware.Auth(tokens)
	userOnly := middleware.RequireRole(domain.RoleUser)
	helperOnly := middleware.RequireRole(domain.RoleHelper)

	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", guard, authHandler.Me)
	auth.POST("/logout", guard, authHandler.Logout)

	connections := r.Group("/connections", guard)
	connections.POST("", userOnly, connectionHandler.Request)
	connections.GET("", connectionHandler.ListApproved)
	connections.GET("/pending", helperOnly, connectionHandler.ListPending)
	connections.POST("/:id/approve", helperOnly, connectionHandler.Approve)
	connections.POST("/:id/reject", helperOnly, connectionHandler.Reject)
	connections.DELETE("/:id", connectionHandler.Remove)

	contacts := r.Group("/contacts", guard)
	contacts.GET("", contactHandler.List)
	contacts.GET("/:helperId", userOnly, contactHandler.Get)
	contacts.POST("", userOnly, contactHandler.Create)
	contacts.PUT("/:helperId", userOnly, contactHandler.Update)
	contacts.DELETE("/:helperId", userOnly, contactHandler.Delete)

	alerts := r.Group("/alerts", guard)
	alerts.POST("", userOnly, alertHandler.Create)
	alerts.GET("", alertHandler.List)
	alerts.POST("/:id/check", alertHandler.MarkChecked)

	return r
}
