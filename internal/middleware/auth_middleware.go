package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "vibework/backend/internal/errors"
	"vibework/backend/internal/service"
)

const DeviceIDContextKey = "deviceID"

// Auth requires a bearer token when the service has a passcode configured.
// Otherwise requests pass through without a device id.
func Auth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authService.Enabled() {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			writeError(c, apperrors.Unauthorized("missing authorization header"))
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(c, apperrors.Unauthorized("invalid authorization format"))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			writeError(c, apperrors.Unauthorized("invalid authorization format"))
			return
		}

		deviceID, apiErr := authService.ParseToken(token)
		if apiErr != nil {
			writeError(c, apiErr)
			return
		}

		c.Set(DeviceIDContextKey, deviceID)
		c.Next()
	}
}

func DeviceID(c *gin.Context) string {
	value, ok := c.Get(DeviceIDContextKey)
	if !ok {
		return ""
	}
	deviceID, ok := value.(string)
	if !ok {
		return ""
	}
	return deviceID
}

func writeError(c *gin.Context, apiErr *apperrors.APIError) {
	body := gin.H{
		"code":    apiErr.Code,
		"message": apiErr.Message,
	}
	if apiErr.Details != nil {
		body["details"] = apiErr.Details
	}
	c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": body})
}
