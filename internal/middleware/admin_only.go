// admin_only.go
package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminOnly va después de AuthMiddleware: lee los permisos que dejó en el contexto.
func AdminOnly(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		perms := c.GetStringSlice("userPermissions")
		if !slices.Contains(perms, "admin") {
			log.Info("acceso al dashboard denegado",
				zap.String("user_id", c.GetString("userID")),
				zap.Strings("permissions", perms),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			return
		}
		c.Next()
	}
}
