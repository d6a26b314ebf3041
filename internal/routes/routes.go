package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"rideshare-backend/internal/handlers"
	"rideshare-backend/internal/middleware"
	"rideshare-backend/internal/models"
	"rideshare-backend/internal/repository"
	"rideshare-backend/internal/services"
)

func SetupRoutes(api *gin.RouterGroup, db *gorm.DB, rdb *redis.Client) {
	users := repository.NewUserRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	rides := repository.NewRideRepo(db)
	requests := repository.NewRequestRepo(db)
	matching := services.NewMatchingService(users, rides, requests)
	verify := services.NewVerifyService(rdb)
	cache := services.NewCacheService(rdb)

	// Публичные маршруты
	api.POST("/users", handlers.AuthRegister(db))
	api.POST("/auth", handlers.AuthLogin(db))

	// Защищенные маршруты (требуют аутентификации)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth())
	{
		// Аккаунт и подтверждение номера
		protected.GET("/auth", handlers.GetCurrentUser(db))
		protected.PUT("/auth/:id", handlers.AuthUpdateUser(db))
		protected.DELETE("/auth/:id", handlers.AuthDeleteUser(db))
		protected.POST("/auth/request-code", handlers.RequestVerificationCode(db, verify))
		protected.POST("/auth/verify", handlers.VerifyPhone(db, verify))

		// Административные маршруты
		admin := protected.Group("/users", middleware.RequireAdmin())
		{
			admin.GET("/find/:id", handlers.UserGetByID(db))
			admin.PUT("/:id/verify", handlers.UserVerify(db))
		}

		// Роуты для автомобилей водителя
		vehicleRoutes := protected.Group("/vehicles", middleware.RequireRole(models.RoleDriver))
		{
			vehicleRoutes.POST("", handlers.VehicleCreate(db))
			vehicleRoutes.GET("", handlers.VehicleGet(db))
			vehicleRoutes.PUT("", handlers.VehicleUpdate(db))
			vehicleRoutes.DELETE("", handlers.VehicleDelete(db))
		}
		protected.POST("/upload", middleware.RequireRole(models.RoleDriver), handlers.UploadPhoto)

		// Роуты для поездок водителя
		driverRides := protected.Group("/rides", middleware.RequireRole(models.RoleDriver))
		{
			driverRides.POST("", handlers.RideCreate(db, vehicles))
			driverRides.GET("", handlers.RideList(db))
			driverRides.GET("/:rideId", handlers.RideGetByID(db))
			driverRides.PUT("/:rideId", handlers.RideUpdate(db))
			driverRides.DELETE("/:rideId", handlers.RideDelete(db))
			driverRides.GET("/:rideId/requests", handlers.RideRequestsList(db))
			driverRides.GET("/:rideId/requests/:requestId", handlers.RideRequestGet(db))
			driverRides.PUT("/:rideId/requests/:requestId", handlers.RideRequestUpdateStatus(matching))
		}

		// Роуты для пассажиров
		passengers := protected.Group("/passengers", middleware.RequireRole(models.RolePassenger))
		{
			passengers.GET("/available-drivers", handlers.AvailableRidesList(db, cache))
			passengers.GET("/available-drivers/:rideId", handlers.AvailableRideGet(db))
			passengers.POST("/available-drivers/:rideId/requests", handlers.PassengerRequestCreate(matching))
			passengers.GET("/requests", handlers.PassengerRequestsList(db))
			passengers.GET("/requests/:requestId", handlers.PassengerRequestGet(db))
			passengers.PUT("/available-drivers/:rideId/requests/:requestId", handlers.PassengerRequestUpdate(db))
			passengers.PUT("/available-drivers/:rideId/requests/:requestId/status", handlers.PassengerRequestUpdateStatus(matching))
			passengers.DELETE("/available-drivers/:rideId/requests/:requestId", handlers.PassengerRequestDelete(db))
		}
	}
}
