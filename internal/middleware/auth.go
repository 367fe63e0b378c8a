package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AdminCookieName is the httpOnly cookie carrying the admin session token.
const AdminCookieName = "adminToken"

// AdminTokenTTL bounds an admin session to 24 hours.
const AdminTokenTTL = 24 * time.Hour

// GenerateAdminToken signs a token asserting admin access for AdminTokenTTL.
func GenerateAdminToken(secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"admin": true,
		"exp":   time.Now().Add(AdminTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAdminToken reports whether tokenStr is a live token signed with
// secret that carries the admin claim.
func ValidateAdminToken(secret []byte, tokenStr string) bool {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	admin, ok := claims["admin"].(bool)
	return ok && admin
}

// adminTokenFromRequest checks the Authorization header first, then falls
// back to the session cookie.
func adminTokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(AdminCookieName); err == nil {
		return cookie
	}
	return ""
}

// RequireAdmin gates a route group on a valid admin token. Handlers behind it
// assume authentication already happened and never re-check.
func RequireAdmin(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := adminTokenFromRequest(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing admin token"})
			return
		}
		if !ValidateAdminToken(secret, tokenStr) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Next()
	}
}
