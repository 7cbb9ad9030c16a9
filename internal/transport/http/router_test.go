package httptransport

import (
	"log/slog"
	"testing"

	"github.com/carelink/carelink/internal/token"
	"github.com/carelink/carelink/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Handlers are never invoked here, only registered, so nil usecases are fine.
func newRouterForInspection() *gin.Engine {
	logger := slog.New(slog.DiscardHandler)
	tokens := token.NewManager([]byte("test-jwt-secret-at-least-32-chars!!"))
	return NewRouter(
		logger,
		tokens,
		handler.NewAuthHandler(nil, logger),
		handler.NewConnectionHandler(nil, logger),
		handler.NewContactHandler(nil, logger),
		handler.NewAlertHandler(nil, logger),
	)
}

func TestRouterServesEveryOperation(t *testing.T) {
	registered := make(map[string]bool)
	for _, route := range newRouterForInspection().Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /auth/register",
		"POST /auth/login",
		"GET /auth/me",
		"POST /auth/logout",
		"POST /connections",
		"GET /connections",
		"GET /connections/pending",
		"POST /connections/:id/approve",
		"POST /connections/:id/reject",
		"DELETE /connections/:id",
		"GET /contacts",
		"GET /contacts/:helperId",
		"POST /contacts",
		"PUT /contacts/:helperId",
		"DELETE /contacts/:helperId",
		"POST /alerts",
		"GET /alerts",
		"POST /alerts/:id/check",
	} {
		if !registered[want] {
			t.Errorf("route %s is not registered", want)
		}
	}
}
