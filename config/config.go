package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"lunch-backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

const (
	defaultOrderCutoffHour = 11
	defaultPageSize        = 10
)

func InitDB() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Menu{},
		&models.MenuItem{},
		&models.Order{},
		&models.UserDevice{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// OrderCutoffHour is the local hour (0-23) from which orders against today's
// menu are no longer accepted.
func OrderCutoffHour() int {
	return getEnvInt("ORDER_HOUR_LIMIT", defaultOrderCutoffHour)
}

// PageSize is the number of rows per page on the home and order listings.
func PageSize() int {
	return getEnvInt("PAGE_SIZE", defaultPageSize)
}

// SiteDomain is used to build absolute menu links inside notifications.
func SiteDomain() string {
	return getEnv("SITE_DOMAIN", "localhost:8080")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
