package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rideshare-backend/internal/models"
	"rideshare-backend/internal/services"
	"rideshare-backend/internal/utils"
)

type RegisterRequest struct {
	FirstName   string `json:"firstname" binding:"required"`
	LastName    string `json:"lastname" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Token   string               `json:"token,omitempty"`
	User    *models.UserResponse `json:"user,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// AuthRegister регистрирует пользователя и выдает токен
func AuthRegister(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("Ошибка валидации данных: %v", err)
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Неверный формат данных",
				Error:   err.Error(),
			})
			return
		}

		// Роль admin через регистрацию недоступна
		role := models.RolePassenger
		switch req.Role {
		case "", string(models.RolePassenger):
		case string(models.RoleDriver):
			role = models.RoleDriver
		default:
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Недопустимая роль",
			})
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Ошибка при обработке пароля",
			})
			return
		}

		user := models.User{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			Password:    string(hashed),
			Role:        role,
		}

		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusBadRequest, AuthResponse{
					Success: false,
					Message: "Пользователь с таким email или телефоном уже существует",
				})
				return
			}
			log.Printf("Ошибка при создании пользователя: %v", err)
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Ошибка при создании пользователя",
			})
			return
		}

		token, err := utils.GenerateJWT(user.ID, user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Ошибка при создании токена",
			})
			return
		}

		resp := user.ToResponse()
		c.JSON(http.StatusOK, AuthResponse{
			Success: true,
			Token:   token,
			User:    &resp,
		})
	}
}

// AuthLogin аутентифицирует пользователя по email и паролю
func AuthLogin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Неверный формат данных",
			})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Неверный email",
			})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Неверный пароль",
			})
			return
		}

		token, err := utils.GenerateJWT(user.ID, user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Ошибка при создании токена",
			})
			return
		}

		resp := user.ToResponse()
		c.JSON(http.StatusOK, AuthResponse{
			Success: true,
			Token:   token,
			User:    &resp,
		})
	}
}

// GetCurrentUser возвращает данные авторизованного пользователя
func GetCurrentUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var user models.User
		if err := db.Preload("Vehicle").First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, AuthResponse{
				Success: false,
				Message: "Пользователь не найден",
			})
			return
		}

		resp := user.ToResponse()
		c.JSON(http.StatusOK, AuthResponse{
			Success: true,
			User:    &resp,
		})
	}
}

// AuthUpdateUser обновляет профиль. Смена пароля требует текущий пароль.
func AuthUpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var req struct {
			FirstName       string `json:"firstname"`
			LastName        string `json:"lastname"`
			PhoneNumber     string `json:"phone_number"`
			Password        string `json:"password"`
			CurrentPassword string `json:"current_password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
			return
		}

		updates := map[string]interface{}{}
		if req.FirstName != "" {
			updates["firstname"] = req.FirstName
		}
		if req.LastName != "" {
			updates["lastname"] = req.LastName
		}
		if req.PhoneNumber != "" {
			updates["phone_number"] = req.PhoneNumber
		}

		// Смена пароля только после проверки текущего
		if req.Password != "" {
			if req.CurrentPassword == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Укажите текущий пароль для смены пароля"})
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Текущий пароль неверен"})
				return
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обработке пароля"})
				return
			}
			updates["password"] = string(hashed)
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Телефон уже используется"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении профиля"})
				return
			}
		}

		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении обновленных данных"})
			return
		}

		c.JSON(http.StatusOK, user.ToResponse())
	}
}

// AuthDeleteUser удаляет учетную запись пользователя
func AuthDeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		result := db.Delete(&models.User{}, userID)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении пользователя"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Пользователь не существует"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Пользователь успешно удален"})
	}
}

// RequestVerificationCode выдает код подтверждения телефона
func RequestVerificationCode(db *gorm.DB, verify *services.VerifyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
			return
		}

		if user.Verified {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Пользователь уже подтвержден"})
			return
		}

		code := verify.GenerateVerificationCode()
		if err := verify.StoreCode(c.Request.Context(), user.PhoneNumber, code); err != nil {
			log.Printf("Ошибка при сохранении кода подтверждения: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при отправке кода подтверждения"})
			return
		}

		log.Printf("Сгенерирован код подтверждения для номера %s", user.PhoneNumber)
		c.JSON(http.StatusOK, gin.H{"message": "Код подтверждения отправлен"})
	}
}

// VerifyPhone проверяет код и помечает пользователя подтвержденным
func VerifyPhone(db *gorm.DB, verify *services.VerifyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var req struct {
			Code string `json:"code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат данных"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
			return
		}

		if err := verify.CheckCode(c.Request.Context(), user.PhoneNumber, req.Code); err != nil {
			switch {
			case errors.Is(err, services.ErrCodeExpired), errors.Is(err, services.ErrCodeInvalid):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				log.Printf("Ошибка при проверке кода: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при проверке кода"})
			}
			return
		}

		if err := db.Model(&user).Update("verified", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении пользователя"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Телефон подтвержден"})
	}
}
