package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Slivix/Projet-AOS/pkg/auth"
	"github.com/Slivix/Projet-AOS/pkg/httputil"
)

const (
	ClaimsKey   = "claims"
	UserIDKey   = "user_id"
	UsernameKey = "username"
)

// RevocationChecker reports tokens invalidated by logout.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, tokenID string) bool
}

// AuthMiddleware validates the JWT from the header or cookie and rejects
// revoked tokens.
func AuthMiddleware(revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}

		claims, err := auth.ValidateAccessToken(tokenString)
		if err != nil {
			httputil.ClearAuthCookie(c.Writer)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}

		if revocations != nil && revocations.IsTokenRevoked(c.Request.Context(), claims.ID) {
			httputil.ClearAuthCookie(c.Writer)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Session logged out"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

// OptionalAuthMiddleware stores the claims of a valid, unrevoked token and
// lets anonymous requests through untouched.
func OptionalAuthMiddleware(revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.Next()
			return
		}
		claims, err := auth.ValidateAccessToken(tokenString)
		if err != nil || (revocations != nil && revocations.IsTokenRevoked(c.Request.Context(), claims.ID)) {
			c.Next()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

// GetClaims returns the claims stored by AuthMiddleware.
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
