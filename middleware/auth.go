package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/flashdeck-backend/services"
	"github.com/vnkhanh/flashdeck-backend/utils"
)

// ExtractBearerToken pulls the token out of an Authorization header value.
// Only the exact form "Bearer <token>" counts: case-sensitive prefix,
// exactly one space, non-empty token. Everything else means no credential.
func ExtractBearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return ""
	}
	return parts[1]
}

// RequireAuth admits only requests carrying a valid, non-revoked token and
// stores the token's user in the context.
func RequireAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractBearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			utils.AbortError(c, http.StatusUnauthorized, "not logged in")
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			utils.AbortError(c, http.StatusUnauthorized, "not logged in")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("token", tokenString)
		c.Next()
	}
}

// RequireGuest is the inverse gate for register/login routes: a valid,
// non-revoked session blocks the request; absent, malformed, expired or
// revoked tokens all pass as "guest".
func RequireGuest(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractBearerToken(c.GetHeader("Authorization"))
		if tokenString != "" {
			if _, err := tokens.Verify(tokenString); err == nil {
				utils.AbortError(c, http.StatusForbidden, "not logged out")
				return
			}
		}
		c.Next()
	}
}

// OptionalAuth never rejects; it attaches the user to the context when a
// valid, non-revoked token is presented and stays silent otherwise.
func OptionalAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractBearerToken(c.GetHeader("Authorization"))
		if tokenString != "" {
			if claims, err := tokens.Verify(tokenString); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("username", claims.Username)
				c.Set("token", tokenString)
			}
		}
		c.Next()
	}
}
