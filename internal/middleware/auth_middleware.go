// auth_middleware.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stats-dashboard-service/internal/service"
)

// TokenValidator es lo que el middleware necesita del servicio de auth.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*service.AuthUser, error)
}

// Middleware que valida el token y guarda la info del usuario en el contexto
func AuthMiddleware(authService TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)
		user, err := authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		// Guardamos los datos del usuario en el contexto
		c.Set("userID", user.ID)
		c.Set("userName", user.Name)
		c.Set("userPermissions", user.Permissions)
		c.Next()
	}
}
