package auth

import (
	"net/http"

	"unishop/internal/logger"
)

// Identity resolves the identity scope of a request: the token's email
// when a valid session token is present, "" otherwise. Cart and filter
// state for anonymous requests is scoped as guest by the callers.
func Identity(r *http.Request) string {
	tokenStr := GetBearerToken(r)
	if tokenStr == "" {
		return ""
	}
	claims, err := ParseToken(tokenStr)
	if err != nil {
		return ""
	}
	return claims.Email
}

// RequireAuth rejects requests without a valid session token and hands the
// claims to the wrapped handler.
func RequireAuth(next func(http.ResponseWriter, *http.Request, *Claims)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := GetBearerToken(r)
		if tokenStr == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		claims, err := ParseToken(tokenStr)
		if err != nil {
			logger.Debugf("RequireAuth: %v", err)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r, claims)
	}
}

// RequireAdmin additionally demands the admin role.
func RequireAdmin(next func(http.ResponseWriter, *http.Request, *Claims)) http.HandlerFunc {
	return RequireAuth(func(w http.ResponseWriter, r *http.Request, claims *Claims) {
		if !HasRole(claims.Roles, RoleAdmin) {
			logger.Debugf("RequireAdmin: %s lacks admin role", claims.Email)
			http.Error(w, "forbidden - admin role required", http.StatusForbidden)
			return
		}
		next(w, r, claims)
	})
}
