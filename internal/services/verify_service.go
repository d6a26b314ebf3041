package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	ErrCodeExpired       = errors.New("код подтверждения не найден или истек")
	ErrCodeInvalid       = errors.New("неверный код подтверждения")
	ErrVerifyUnavailable = errors.New("сервис подтверждения временно недоступен")
)

// VerifyService хранит коды подтверждения телефона в Redis с TTL.
// Доставка кода (SMS/мессенджер) выполняется внешней системой.
type VerifyService struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewVerifyService(client *redis.Client) *VerifyService {
	return &VerifyService{
		redisClient: client,
		ttl:         10 * time.Minute,
	}
}

// GenerateVerificationCode генерирует четырехзначный код
func (s *VerifyService) GenerateVerificationCode() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}

// StoreCode сохраняет код для номера телефона
func (s *VerifyService) StoreCode(ctx context.Context, phoneNumber, code string) error {
	if s.redisClient == nil {
		return ErrVerifyUnavailable
	}
	key := s.codeKey(phoneNumber)
	if err := s.redisClient.Set(ctx, key, code, s.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка при сохранении кода подтверждения: %w", err)
	}
	return nil
}

// CheckCode сверяет код и удаляет его при успехе (код одноразовый)
func (s *VerifyService) CheckCode(ctx context.Context, phoneNumber, code string) error {
	if s.redisClient == nil {
		return ErrVerifyUnavailable
	}
	key := s.codeKey(phoneNumber)

	stored, err := s.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrCodeExpired
	} else if err != nil {
		return fmt.Errorf("ошибка при получении кода подтверждения: %w", err)
	}

	if stored != code {
		return ErrCodeInvalid
	}

	s.redisClient.Del(ctx, key)
	return nil
}

func (s *VerifyService) codeKey(phoneNumber string) string {
	return fmt.Sprintf("verification_code:%s", phoneNumber)
}
