// Package auth is the identity collaborator: JWT session tokens plus a
// mock-credential user store. The credential check is a storefront
// convenience, not a security boundary.
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the sole authorization gate for inventory and order
// mutation.
const RoleAdmin = "admin"

// RoleCustomer is the default role of registered users.
const RoleCustomer = "customer"

var signingSecret []byte

// SetSecret installs the HMAC secret used to sign and verify tokens.
func SetSecret(secret string) {
	signingSecret = []byte(secret)
}

// Claims carried by a session token.
type Claims struct {
	Email  string   `json:"email"`
	Nombre string   `json:"nombre"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the given user.
func IssueToken(email, nombre string, roles []string, ttl time.Duration) (string, error) {
	if len(signingSecret) == 0 {
		return "", fmt.Errorf("signing secret not set")
	}
	claims := Claims{
		Email:  email,
		Nombre: nombre,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(signingSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates and parses a session token.
func ParseToken(tokenStr string) (*Claims, error) {
	if len(signingSecret) == 0 {
		return nil, fmt.Errorf("signing secret not set")
	}

	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return signingSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token failed: %w", err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// GetBearerToken extracts the Bearer token from the Authorization header.
func GetBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// HasRole checks if the user has a specific role.
func HasRole(userRoles []string, required string) bool {
	for _, r := range userRoles {
		if r == required {
			return true
		}
	}
	return false
}
