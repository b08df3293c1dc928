package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Slivix/Projet-AOS/internal/service/user"
	"github.com/Slivix/Projet-AOS/internal/transport/http/middleware"
	"github.com/Slivix/Projet-AOS/pkg/httputil"
)

type loginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	Users *user.Service
}

func NewAuthHandler(users *user.Service) *AuthHandler {
	return &AuthHandler{Users: users}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, "name and password are required")
		return
	}

	token, u, err := h.Users.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	httputil.SetAuthCookie(c.Writer, token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful!",
		"token":   token,
		"user":    u,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		abortWithDetail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.Users.Logout(c.Request.Context(), claims); err != nil {
		// the cookie is still cleared, the token just stays valid until expiry
		log.Printf("[AUTH] Failed to revoke token of %s: %v", claims.Username, err)
	}
	httputil.ClearAuthCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Users.GetByID(c.Request.Context(), c.GetInt64(middleware.UserIDKey))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
