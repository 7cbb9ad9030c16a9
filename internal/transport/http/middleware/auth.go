package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/token"
	"github.com/gin-gonic/gin"
)

// Gin context keys populated by Auth.
const (
	CtxSubjectID = "subjectID"
	CtxMail      = "mail"
	CtxRole      = "role"
)

const (
	errUnauthorized = "Unauthorized"
	errTokenExpired = "Token has expired"
	errStaleToken   = "Session predates the current sign-in scheme, please sign in again"
)

// Auth validates a Bearer session token and sets the subject id, mail and
// role in the gin context. Verification itself is pure: same header, same
// key, same result.
func Auth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errTokenExpired})
			case errors.Is(err, domain.ErrStaleToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errStaleToken})
			default:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			}
			return
		}

		c.Set(CtxSubjectID, claims.SubjectID)
		c.Set(CtxMail, claims.Mail)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRole runs after Auth and rejects principals of the wrong role.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, _ := c.Get(CtxRole)
		r, ok := got.(domain.Role)
		if !ok || r != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// Subject extracts the authenticated principal from the gin context.
func Subject(c *gin.Context) (string, domain.Role) {
	id := c.GetString(CtxSubjectID)
	role, _ := c.Get(CtxRole)
	r, _ := role.(domain.Role)
	return id, r
}
