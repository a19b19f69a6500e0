package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an issued admin session stays valid.
const SessionTTL = 7 * 24 * time.Hour

type JWTAuthenticator struct {
	secret string
	iss    string
}

func NewJWTAuthenticator(secret, iss string) *JWTAuthenticator {
	return &JWTAuthenticator{secret: secret, iss: iss}
}

// IssueToken signs a token asserting admin identity, expiring in SessionTTL.
func (a *JWTAuthenticator) IssueToken() (string, error) {
	claims := jwt.MapClaims{
		"isAdmin": true,
		"exp":     time.Now().Add(SessionTTL).Unix(),
		"iat":     time.Now().Unix(),
		"iss":     a.iss,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.secret))
}

// Verify reports whether the token is present, signature-valid, unexpired
// and carries the isAdmin claim. Any parse or validation failure is a plain
// false, never an error, so callers can treat it uniformly as "not logged in".
func (a *JWTAuthenticator) Verify(token string) bool {
	if token == "" {
		return false
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.secret), nil
	}, jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !parsed.Valid {
		return false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}

	isAdmin, ok := claims["isAdmin"].(bool)
	return ok && isAdmin
}
