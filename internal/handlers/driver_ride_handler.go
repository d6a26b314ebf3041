package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rideshare-backend/internal/models"
	"rideshare-backend/internal/repository"
	"rideshare-backend/internal/services"
)

// parseIDParam читает числовой параметр пути
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный идентификатор"})
		return 0, false
	}
	return uint(id), true
}

// isAdmin сообщает, является ли текущий пользователь администратором
func isAdmin(c *gin.Context) bool {
	return models.UserRole(c.GetString("role")) == models.RoleAdmin
}

type RideCreateRequest struct {
	PickupLocation  string  `json:"pickup_location" binding:"required"`
	DropoffLocation string  `json:"dropoff_location" binding:"required"`
	SeatsAvailable  int     `json:"seats_available" binding:"required,min=1"`
	Price           float64 `json:"price" binding:"required,min=0"`
}

// RideCreate публикует новую поездку водителя. Перед созданием проверяется,
// что аккаунт подтвержден и у водителя зарегистрирован автомобиль.
func RideCreate(db *gorm.DB, vehicles *repository.VehicleRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var req RideCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("Ошибка валидации данных: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных"})
			return
		}

		var driver models.User
		if err := db.First(&driver, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
			return
		}
		if !driver.Verified {
			c.JSON(http.StatusForbidden, gin.H{"error": "Номер телефона не подтвержден"})
			return
		}

		vehicle, err := vehicles.FindByDriver(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Сначала зарегистрируйте автомобиль"})
			return
		}
		if req.SeatsAvailable > vehicle.Seats {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Количество мест превышает вместимость автомобиля"})
			return
		}

		ride := models.DriverRide{
			DriverID:        userID,
			VehicleID:       vehicle.ID,
			PickupLocation:  req.PickupLocation,
			DropoffLocation: req.DropoffLocation,
			SeatsAvailable:  req.SeatsAvailable,
			Price:           req.Price,
		}
		if err := db.Create(&ride).Error; err != nil {
			log.Printf("Ошибка при создании поездки: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании поездки"})
			return
		}

		c.JSON(http.StatusOK, ride.ToResponse())
	}
}

// RideList возвращает поездки авторизованного водителя
func RideList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var rides []models.DriverRide
		if err := db.Where("driver_id = ?", userID).Order("created_at DESC").Find(&rides).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении поездок"})
			return
		}

		response := make([]models.DriverRideResponse, 0, len(rides))
		for i := range rides {
			response = append(response, rides[i].ToResponse())
		}
		c.JSON(http.StatusOK, response)
	}
}

// loadOwnedRide загружает поездку и проверяет права: отсутствие поездки —
// 404, чужая поездка без прав администратора — 401
func loadOwnedRide(c *gin.Context, db *gorm.DB, rideID uint) (*models.DriverRide, bool) {
	var ride models.DriverRide
	if err := db.First(&ride, rideID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Поездка не найдена"})
		return nil, false
	}
	if ride.DriverID != c.GetUint("user_id") && !isAdmin(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Нет прав на эту поездку"})
		return nil, false
	}
	return &ride, true
}

// RideGetByID возвращает поездку водителя по идентификатору
func RideGetByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, ok := parseIDParam(c, "rideId")
		if !ok {
			return
		}
		ride, ok := loadOwnedRide(c, db, rideID)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, ride.ToResponse())
	}
}

// RideUpdate обновляет параметры поездки. Забронированные места при
// уменьшении вместимости не освобождаются, поэтому новое значение не может
// быть меньше уже забронированного.
func RideUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, ok := parseIDParam(c, "rideId")
		if !ok {
			return
		}
		ride, ok := loadOwnedRide(c, db, rideID)
		if !ok {
			return
		}

		var req struct {
			PickupLocation  string   `json:"pickup_location"`
			DropoffLocation string   `json:"dropoff_location"`
			SeatsAvailable  int      `json:"seats_available"`
			Price           *float64 `json:"price"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных"})
			return
		}

		updates := map[string]interface{}{}
		if req.PickupLocation != "" {
			updates["pickup_location"] = req.PickupLocation
		}
		if req.DropoffLocation != "" {
			updates["dropoff_location"] = req.DropoffLocation
		}
		if req.SeatsAvailable != 0 {
			if req.SeatsAvailable < ride.BookedSeats {
				c.JSON(http.StatusConflict, gin.H{"error": "Нельзя установить мест меньше, чем уже забронировано"})
				return
			}
			updates["seats_available"] = req.SeatsAvailable
		}
		if req.Price != nil {
			updates["price"] = *req.Price
		}

		if len(updates) > 0 {
			if err := db.Model(ride).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении поездки"})
				return
			}
		}

		if err := db.First(ride, rideID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении обновленных данных"})
			return
		}
		c.JSON(http.StatusOK, ride.ToResponse())
	}
}

// RideDelete удаляет поездку водителя
func RideDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, ok := parseIDParam(c, "rideId")
		if !ok {
			return
		}
		ride, ok := loadOwnedRide(c, db, rideID)
		if !ok {
			return
		}

		if err := db.Delete(ride).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении поездки"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Поездка успешно удалена"})
	}
}

// RideRequestsList возвращает все запросы пассажиров к поездке
func RideRequestsList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, ok := parseIDParam(c, "rideId")
		if !ok {
			return
		}
		if _, ok := loadOwnedRide(c, db, rideID); !ok {
			return
		}

		var requests []models.PassengerRide
		if err := db.Preload("Passenger").Where("ride_id = ?", rideID).Order("created_at DESC").Find(&requests).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении запросов"})
			return
		}

		response := make([]models.PassengerRideResponse, 0, len(requests))
		for i := range requests {
			response = append(response, requests[i].ToResponse())
		}
		c.JSON(http.StatusOK, response)
	}
}

// RideRequestGet возвращает один запрос к поездке
func RideRequestGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, ok := parseIDParam(c, "rideId")
		if !ok {
			return
		}
		requestID, ok := parseIDParam(c, "requestId")
		if !ok {
			return
		}
		if _, ok := loadOwnedRide(c, db, rideID); !ok {
			return
		}

		var request models.PassengerRide
		if err := db.Preload("Passenger").Where("id = ? AND ride_id = ?", requestID, rideID).First(&request).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Запрос не найден"})
			return
		}
		c.JSON(http.StatusOK, request.ToResponse())
	}
}

type RideRequestDecision struct {
	Status models.RideRequestStatus `json:"status" binding:"required"`
	Reason string                   `json:"reason"`
}

// RideRequestUpdateStatus обрабатывает решение водителя по запросу:
// accepted резервирует места и добавляет пассажира в состав поездки,
// cancelled отклоняет запрос. Остальные статусы водителю недоступны.
func RideRequestUpdateStatus(matching *services.MatchingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		rideID, ok := parseIDParam(c, "rideId")
		if !ok {
			return
		}
		requestID, ok := parseIDParam(c, "requestId")
		if !ok {
			return
		}

		var req RideRequestDecision
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных"})
			return
		}
		if !models.IsValidRequestStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неизвестный статус"})
			return
		}

		var (
			request *models.PassengerRide
			err     error
		)
		switch req.Status {
		case models.RequestStatusAccepted:
			request, err = matching.Accept(c.Request.Context(), userID, rideID, requestID)
		case models.RequestStatusCancelled:
			request, err = matching.Cancel(c.Request.Context(), userID, rideID, requestID, req.Reason)
		default:
			c.JSON(http.StatusForbidden, gin.H{"error": "Водитель может только принять или отменить запрос"})
			return
		}
		if err != nil {
			matchingError(c, err)
			return
		}

		c.JSON(http.StatusOK, request.ToResponse())
	}
}
