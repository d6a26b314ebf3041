package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare-backend/internal/models"
	"rideshare-backend/internal/repository"
	"rideshare-backend/internal/services"
)

// matchingError переводит ошибки движка подбора в HTTP-ответ:
// NotFound — 404, нарушение владения — 401, чужая роль — 403,
// недопустимый переход и нехватка мест — 409, остальное — 500 без деталей.
func matchingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Поездка или запрос не найдены"})
	case errors.Is(err, services.ErrNotOwner):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Нет прав на эту операцию"})
	case errors.Is(err, services.ErrWrongRole), errors.Is(err, models.ErrWrongActor):
		c.JSON(http.StatusForbidden, gin.H{"error": "Операция недоступна для вашей роли"})
	case errors.Is(err, services.ErrNoSeats):
		c.JSON(http.StatusConflict, gin.H{"error": "Нет свободных мест в поездке"})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Ошибка движка подбора: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Внутренняя ошибка сервера"})
	}
}
