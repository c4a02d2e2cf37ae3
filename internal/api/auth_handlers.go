package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"medtriage/internal/auth"
	"medtriage/internal/config"
)

type TokenRequest struct {
	APIKey string `json:"api_key"`
}

type TokenResponse struct {
	Token    string `json:"token"`
	ClientID string `json:"clientId"`
}

// POST /auth/token exchanges the configured service API key for a JWT.
func TokenHandler(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Server.APIKeyHash == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "API key auth not configured"}})
			return
		}
		var req TokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(cfg.Server.APIKeyHash), []byte(req.APIKey)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Invalid API key"}})
			return
		}
		clientID := uuid.NewString()
		token, err := auth.GenerateJWT(cfg.Server.JWTSecret, clientID, 7*24*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to generate token"}})
			return
		}
		_ = auth.SetSession(rdb, clientID, token, 7*24*time.Hour)
		c.JSON(http.StatusOK, TokenResponse{Token: token, ClientID: clientID})
	}
}
