package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rideshare-backend/internal/models"
)

type VehicleRequest struct {
	Make        string `json:"make" binding:"required"`
	Model       string `json:"model" binding:"required"`
	Year        int    `json:"year"`
	Color       string `json:"color" binding:"required"`
	PlateNumber string `json:"plate_number" binding:"required"`
	Description string `json:"description"`
	Seats       int    `json:"seats" binding:"required,min=1"`
	Avatar      string `json:"avatar"`
	Available   *bool  `json:"available" binding:"required"`
	Location    string `json:"location" binding:"required"`
}

// VehicleCreate регистрирует автомобиль водителя. У водителя может быть
// только один автомобиль — повторное создание отклоняется.
func VehicleCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var req VehicleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("Ошибка валидации данных: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных"})
			return
		}

		// Проверяем, что у водителя еще нет автомобиля
		var existing models.Vehicle
		if err := db.Where("driver_id = ?", userID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "У водителя уже есть автомобиль. Обновите его при необходимости"})
			return
		}

		vehicle := models.Vehicle{
			DriverID:    userID,
			Make:        req.Make,
			Model:       req.Model,
			Year:        req.Year,
			Color:       req.Color,
			PlateNumber: req.PlateNumber,
			Description: req.Description,
			Seats:       req.Seats,
			Avatar:      req.Avatar,
			Available:   *req.Available,
			Location:    req.Location,
		}

		if err := db.Create(&vehicle).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Автомобиль с таким номером уже зарегистрирован"})
				return
			}
			log.Printf("Ошибка при создании автомобиля: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании автомобиля"})
			return
		}

		c.JSON(http.StatusOK, vehicle.ToResponse())
	}
}

// VehicleGet возвращает автомобиль авторизованного водителя
func VehicleGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var vehicle models.Vehicle
		if err := db.Where("driver_id = ?", userID).First(&vehicle).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Автомобиль не найден"})
			return
		}

		c.JSON(http.StatusOK, vehicle.ToResponse())
	}
}

// VehicleUpdate обновляет автомобиль водителя
func VehicleUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var req struct {
			Make        string `json:"make"`
			Model       string `json:"model"`
			Year        int    `json:"year"`
			Color       string `json:"color"`
			PlateNumber string `json:"plate_number"`
			Description string `json:"description"`
			Seats       int    `json:"seats"`
			Avatar      string `json:"avatar"`
			Available   *bool  `json:"available"`
			Location    string `json:"location"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных"})
			return
		}

		var vehicle models.Vehicle
		if err := db.Where("driver_id = ?", userID).First(&vehicle).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Автомобиль не найден"})
			return
		}

		// Обновляем только переданные поля
		updates := map[string]interface{}{}
		if req.Make != "" {
			updates["make"] = req.Make
		}
		if req.Model != "" {
			updates["model"] = req.Model
		}
		if req.Year != 0 {
			updates["year"] = req.Year
		}
		if req.Color != "" {
			updates["color"] = req.Color
		}
		if req.PlateNumber != "" {
			updates["plate_number"] = req.PlateNumber
		}
		if req.Description != "" {
			updates["description"] = req.Description
		}
		if req.Seats != 0 {
			updates["seats"] = req.Seats
		}
		if req.Avatar != "" {
			updates["avatar"] = req.Avatar
		}
		if req.Available != nil {
			updates["available"] = *req.Available
		}
		if req.Location != "" {
			updates["location"] = req.Location
		}

		if len(updates) > 0 {
			if err := db.Model(&vehicle).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					c.JSON(http.StatusConflict, gin.H{"error": "Автомобиль с таким номером уже зарегистрирован"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении автомобиля"})
				return
			}
		}

		if err := db.Where("driver_id = ?", userID).First(&vehicle).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении обновленных данных"})
			return
		}

		c.JSON(http.StatusOK, vehicle.ToResponse())
	}
}

// VehicleDelete удаляет автомобиль водителя
func VehicleDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		result := db.Where("driver_id = ?", userID).Delete(&models.Vehicle{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении автомобиля"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Автомобиль не найден"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Автомобиль успешно удален"})
	}
}
