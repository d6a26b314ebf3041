package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"rideshare-backend/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET не задан")
	}

	token, err := utils.GenerateAdminJWT()
	if err != nil {
		log.Fatalf("Ошибка генерации админского токена: %v", err)
	}

	fmt.Println(token)
}
