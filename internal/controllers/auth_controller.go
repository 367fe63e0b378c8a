package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/AhmadWajid/kfmruns/internal/middleware"
)

// AuthController handles the single-admin session: one bcrypt-hashed
// password from the environment, exchanged for a 24h cookie token.
type AuthController struct {
	jwtSecret    []byte
	passwordHash string
}

func NewAuthController(jwtSecret []byte, passwordHash string) *AuthController {
	return &AuthController{jwtSecret: jwtSecret, passwordHash: passwordHash}
}

type loginInput struct {
	Password string `json:"password" binding:"required"`
}

// Login verifies the admin password and sets the session cookie.
func (ac *AuthController) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}

	if ac.passwordHash == "" {
		logrus.Error("ADMIN_PASSWORD_HASH is not set; admin login is disabled")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Admin login is not configured"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ac.passwordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := middleware.GenerateAdminToken(ac.jwtSecret)
	if err != nil {
		logrus.WithError(err).Error("could not generate admin token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AdminCookieName, token, int(middleware.AdminTokenTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout expires the session cookie.
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AdminCookieName, "", -1, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Verify reports whether the caller holds a live admin session.
func (ac *AuthController) Verify(c *gin.Context) {
	tokenStr, err := c.Cookie(middleware.AdminCookieName)
	authenticated := err == nil && middleware.ValidateAdminToken(ac.jwtSecret, tokenStr)
	c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
}
