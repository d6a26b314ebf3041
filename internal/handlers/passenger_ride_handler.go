package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rideshare-backend/internal/models"
	"rideshare-backend/internal/services"
)

// buildAvailableRide собирает публичную карточку поездки: имя водителя,
// имена уже принятых пассажиров и автомобиль
func buildAvailableRide(db *gorm.DB, ride *models.DriverRide) models.AvailableRideResponse {
	resp := models.AvailableRideResponse{
		ID:             ride.ID,
		Driver:         ride.Driver.FirstName + " " + ride.Driver.LastName,
		PickupLocation: ride.PickupLocation,
		SeatsAvailable: ride.SeatsAvailable,
		BookedSeats:    ride.BookedSeats,
		Price:          ride.Price,
		Passengers:     []string{},
	}
	if ride.Vehicle.ID != 0 {
		vehicle := ride.Vehicle.ToResponse()
		resp.Vehicle = &vehicle
	}

	if len(ride.Passengers) > 0 {
		ids := make([]uint, 0, len(ride.Passengers))
		for _, p := range ride.Passengers {
			ids = append(ids, p.PassengerID)
		}
		var users []models.User
		if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
			log.Printf("Ошибка при получении пассажиров поездки %d: %v", ride.ID, err)
		}
		for _, u := range users {
			resp.Passengers = append(resp.Passengers, u.FirstName)
		}
	}
	return resp
}

// AvailableRidesList ищет опубликованные поездки по месту посадки.
// Результаты поиска кэшируются в Redis.
func AvailableRidesList(db *gorm.DB, cache *services.CacheService) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		ctx := c.Request.Context()

		cacheKey := cache.GenerateSearchKey(search)
		var cached []models.AvailableRideResponse
		if hit, err := cache.Get(ctx, cacheKey, &cached); err != nil {
			log.Printf("Ошибка кэша поиска: %v", err)
		} else if hit {
			c.JSON(http.StatusOK, cached)
			return
		}

		query := db.Preload("Driver").Preload("Vehicle").Preload("Passengers").
			Where("seats_available > booked_seats")
		if search != "" {
			query = query.Where("pickup_location LIKE ?", "%"+search+"%")
		}

		var rides []models.DriverRide
		if err := query.Order("created_at DESC").Find(&rides).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске поездок"})
			return
		}

		response := make([]models.AvailableRideResponse, 0, len(rides))
		for i := range rides {
			response = append(response, buildAvailableRide(db, &rides[i]))
		}

		if err := cache.Set(ctx, cacheKey, response); err != nil {
			log.Printf("Ошибка при сохранении кэша поиска: %v", err)
		}
		c.JSON(http.StatusOK, response)
	}
}

// AvailableRideGet возвращает публичные детали одной поездки
func AvailableRideGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, ok := parseIDParam(c, "rideId")
		if !ok {
			return
		}

		var ride models.DriverRide
		if err := db.Preload("Driver").Preload("Vehicle").Preload("Passengers").First(&ride, rideID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Поездка не найдена"})
			return
		}
		c.JSON(http.StatusOK, buildAvailableRide(db, &ride))
	}
}

type PassengerRequestBody struct {
	PickupLocation     string  `json:"pickup_location" binding:"required"`
	DropoffLocation    string  `json:"dropoff_location" binding:"required"`
	NumberOfPassengers int     `json:"number_of_passengers" binding:"required,min=1"`
	Price              float64 `json:"price" binding:"required,min=0"`
}

// PassengerRequestCreate создает запрос пассажира на участие в поездке
func PassengerRequestCreate(matching *services.MatchingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		rideID, ok := parseIDParam(c, "rideId")
		if !ok {
			return
		}

		var req PassengerRequestBody
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("Ошибка валидации данных: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных"})
			return
		}

		request, err := matching.CreateRequest(c.Request.Context(), userID, rideID, services.CreateRequestInput{
			PickupLocation:     req.PickupLocation,
			DropoffLocation:    req.DropoffLocation,
			NumberOfPassengers: req.NumberOfPassengers,
			Price:              req.Price,
		})
		if err != nil {
			matchingError(c, err)
			return
		}
		c.JSON(http.StatusOK, request.ToResponse())
	}
}

// PassengerRequestsList возвращает запросы авторизованного пассажира
func PassengerRequestsList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var requests []models.PassengerRide
		if err := db.Where("passenger_id = ?", userID).Order("created_at DESC").Find(&requests).Error; err != nil {
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

// loadOwnRequest загружает запрос и проверяет, что он принадлежит пассажиру
func loadOwnRequest(c *gin.Context, db *gorm.DB, requestID uint) (*models.PassengerRide, bool) {
	var request models.PassengerRide
	if err := db.First(&request, requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Запрос не найден"})
		return nil, false
	}
	if request.PassengerID != c.GetUint("user_id") && !isAdmin(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Нет прав на этот запрос"})
		return nil, false
	}
	return &request, true
}

// PassengerRequestGet возвращает запрос пассажира по идентификатору
func PassengerRequestGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := parseIDParam(c, "requestId")
		if !ok {
			return
		}
		request, ok := loadOwnRequest(c, db, requestID)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, request.ToResponse())
	}
}

// PassengerRequestUpdate обновляет содержимое запроса. Запрос в конечном
// статусе менять нельзя.
func PassengerRequestUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, ok := parseIDParam(c, "rideId")
		if !ok {
			return
		}
		requestID, ok := parseIDParam(c, "requestId")
		if !ok {
			return
		}
		request, ok := loadOwnRequest(c, db, requestID)
		if !ok {
			return
		}
		if request.RideID != rideID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Запрос не найден"})
			return
		}
		if request.Status.Terminal() {
			c.JSON(http.StatusConflict, gin.H{"error": "Запрос в конечном статусе, изменение невозможно"})
			return
		}

		var req struct {
			PickupLocation     string   `json:"pickup_location"`
			DropoffLocation    string   `json:"dropoff_location"`
			NumberOfPassengers int      `json:"number_of_passengers"`
			Price              *float64 `json:"price"`
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
		if req.NumberOfPassengers != 0 {
			updates["number_of_passengers"] = req.NumberOfPassengers
		}
		if req.Price != nil {
			updates["price"] = *req.Price
		}

		if len(updates) > 0 {
			if err := db.Model(request).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении запроса"})
				return
			}
		}

		if err := db.First(request, requestID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении обновленных данных"})
			return
		}
		c.JSON(http.StatusOK, request.ToResponse())
	}
}

type PassengerStatusBody struct {
	Status models.RideRequestStatus `json:"status" binding:"required"`
}

// PassengerRequestUpdateStatus обрабатывает переход статуса со стороны
// пассажира: доступен только completed для принятого запроса
func PassengerRequestUpdateStatus(matching *services.MatchingService) gin.HandlerFunc {
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

		var req PassengerStatusBody
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных"})
			return
		}
		if !models.IsValidRequestStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неизвестный статус"})
			return
		}
		if req.Status != models.RequestStatusCompleted {
			c.JSON(http.StatusForbidden, gin.H{"error": "Пассажир может только завершить принятый запрос"})
			return
		}

		request, err := matching.Complete(c.Request.Context(), userID, rideID, requestID)
		if err != nil {
			matchingError(c, err)
			return
		}
		c.JSON(http.StatusOK, request.ToResponse())
	}
}

// PassengerRequestDelete удаляет запрос пассажира
func PassengerRequestDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, ok := parseIDParam(c, "rideId")
		if !ok {
			return
		}
		requestID, ok := parseIDParam(c, "requestId")
		if !ok {
			return
		}
		request, ok := loadOwnRequest(c, db, requestID)
		if !ok {
			return
		}
		if request.RideID != rideID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Запрос не найден"})
			return
		}

		if err := db.Delete(request).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении запроса"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Запрос успешно удален"})
	}
}
