package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xiaobonor/Migo-Backend/internal/repository"
	"github.com/Xiaobonor/Migo-Backend/internal/service"
	"github.com/Xiaobonor/Migo-Backend/internal/token"
)

func respondServiceError(c *gin.Context, err error) {
	logger := zap.L()

	var wrongType *token.WrongTypeError
	var expired *token.ExpiredError

	switch {
	case errors.Is(err, service.ErrExternalAuth):
		logger.Warn("external identity rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Identity token could not be verified."})
	case errors.As(err, &wrongType), errors.As(err, &expired),
		errors.Is(err, token.ErrMalformed),
		errors.Is(err, token.ErrSignatureInvalid),
		errors.Is(err, token.ErrMissingExpiry),
		errors.Is(err, token.ErrMissingSubject):
		logger.Warn("token rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Token could not be verified."})
	case errors.Is(err, repository.ErrNotFound):
		logger.Warn("resource missing", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "Resource not found."})
	default:
		logger.Error("service failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Internal server error."})
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authz := c.GetHeader("Authorization")
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
