package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rideshare-backend/internal/models"
	"rideshare-backend/internal/utils"
)

// JWTAuth проверяет Bearer-токен и кладет user_id и role в контекст.
// Отсутствие токена — 401, недействительный токен — 403 (семантика границы
// "нет авторизации" / "авторизация не принята").
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Отсутствует токен авторизации"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный формат токена"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Недействительный токен"})
			c.Abort()
			return
		}

		// Для админского токена user_id может быть нулевым
		if claims.UserID == 0 && claims.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Недействительный ID пользователя"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", string(claims.Role))
		c.Next()
	}
}

// RequireRole пропускает только пользователей с указанной ролью (и админов)
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := models.UserRole(c.GetString("role"))
		if current != role && current != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Доступ запрещен для вашей роли"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin пропускает только администраторов
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// CurrentUserID возвращает идентификатор пользователя из контекста
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}
