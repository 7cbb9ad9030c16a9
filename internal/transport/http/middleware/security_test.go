package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carelink/carelink/internal/requestid"
	"github.com/carelink/carelink/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func serveWith(mw gin.HandlerFunc, handler gin.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(mw)
	r.GET("/", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSecurity_StampsHardeningHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := serveWith(middleware.Security(), func(c *gin.Context) { c.Status(http.StatusOK) }, req)

	want := map[string]string{
		"X-Frame-Options":           "DENY",
		"X-Content-Type-Options":    "nosniff",
		"Strict-Transport-Security": "max-age=63072000; includeSubDomains",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
		"Permissions-Policy":        "camera=(), microphone=(), geolocation=()",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var inCtx string
	handler := func(c *gin.Context) {
		inCtx = requestid.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := serveWith(middleware.RequestID(), handler, req)

	echoed := w.Header().Get("X-Request-ID")
	if echoed == "" {
		t.Fatal("X-Request-ID header not set")
	}
	if inCtx != echoed {
		t.Errorf("context request ID = %q, header = %q", inCtx, echoed)
	}
}

func TestRequestID_KeepsIncomingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-supplied-id")

	w := serveWith(middleware.RequestID(), func(c *gin.Context) { c.Status(http.StatusOK) }, req)

	if got := w.Header().Get("X-Request-ID"); got != "caller-supplied-id" {
		t.Errorf("X-Request-ID = %q, want caller-supplied-id", got)
	}
}
