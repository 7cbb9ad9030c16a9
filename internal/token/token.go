// Package token issues and verifies the signed session tokens that prove
// identity and role. Tokens are stateless: validity is signature + expiry,
// nothing is stored server-side.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/carelink/carelink/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 7 * 24 * time.Hour

// Claims is the verified content of a session token.
type Claims struct {
	SubjectID string
	Mail      string
	Role      domain.Role
}

type Manager struct {
	key []byte
	ttl time.Duration
}

func NewManager(key []byte) *Manager {
	return &Manager{key: key, ttl: defaultTTL}
}

// Issue signs a session token for the principal. The role claim is always
// present; verification treats its absence as a hard failure.
func (m *Manager) Issue(p domain.Principal) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  p.ID,
		"mail": p.Mail,
		"role": string(p.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a raw token. Tokens issued before the role
// claim existed verify fine cryptographically but are rejected with
// ErrStaleToken so their holders re-authenticate under the current scheme.
func (m *Manager) Verify(raw string) (Claims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, domain.ErrTokenExpired
		}
		return Claims{}, domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return Claims{}, domain.ErrTokenInvalid
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, domain.ErrTokenInvalid
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return Claims{}, domain.ErrTokenInvalid
	}

	roleStr, ok := mapClaims["role"].(string)
	if !ok || roleStr == "" {
		return Claims{}, domain.ErrStaleToken
	}
	role := domain.Role(roleStr)
	if !role.Valid() {
		return Claims{}, domain.ErrTokenInvalid
	}

	mail, _ := mapClaims["mail"].(string)

	return Claims{SubjectID: sub, Mail: mail, Role: role}, nil
}
