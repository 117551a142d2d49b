package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Xiaobonor/Migo-Backend/internal/service"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

// NewAuthHandler creates the handler set.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// GoogleSignIn exchanges a Google ID token for a session token pair.
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "id_token is required."})
		return
	}

	resp, err := h.Auth.SignIn(c.Request.Context(), req.IDToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh trades a refresh token for a fresh access token, rotating the
// refresh token when it nears expiry.
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, ok := bearerToken(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authorization header missing or invalid."})
		return
	}

	resp, err := h.Auth.Refresh(c.Request.Context(), raw)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the profile of the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	raw, ok := bearerToken(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authorization header missing or invalid."})
		return
	}

	user, err := h.Auth.CurrentUser(c.Request.Context(), raw)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
