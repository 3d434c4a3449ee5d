package handlers

import (
	"backend/utils"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// requireSession extracts and validates the session token from the
// Authorization header. It writes the error response itself; callers just
// return when ok is false.
func requireSession(c *gin.Context) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Authorization header"})
		return "", false
	}

	sessionToken := authHeader
	const bearerPrefix = "Bearer "
	if strings.HasPrefix(sessionToken, bearerPrefix) {
		sessionToken = strings.TrimSpace(strings.TrimPrefix(sessionToken, bearerPrefix))
	}

	if sessionToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization header missing token"})
		return "", false
	}

	parsedToken, err := utils.ValidateJWT(sessionToken)
	if err != nil || !parsedToken.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return "", false
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return "", false
	}

	email, _ := claims["email"].(string)
	return email, true
}

// ValidateSession validates user session
// @Summary Validate session
// @Description Validate user session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} models.ValidateSessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/validate-session [post]
func ValidateSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := requireSession(c)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"valid":        true,
			"email":        email,
			"validated_at": time.Now().UTC(),
		})
	}
}
