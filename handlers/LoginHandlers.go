package handlers

import (
	"backend/utils"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

type sessionRequest struct {
	Email  string `json:"email" binding:"required"`
	APIKey string `json:"api_key" binding:"required"`
}

// CreateSession godoc
// @Summary      Issue a session token
// @Description  Exchanges the service API key for a short-lived session JWT used by all other endpoints.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Success      200  {object}  object
// @Failure      400  {object}  models.ErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/session [post]
func CreateSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		expected := os.Getenv("SERVICE_API_KEY")
		if expected == "" || req.APIKey != expected {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		token, err := utils.GenerateJWT(req.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
