package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// InitDB opens the database from environment configuration. DB_DRIVER
// selects mysql (default) or sqlite for local runs.
func InitDB() (*gorm.DB, error) {
	driver := getEnv("DB_DRIVER", "mysql")

	cfg := &gorm.Config{TranslateError: true}

	if driver == "sqlite" {
		path := getEnv("DB_PATH", "food_delivery.db")
		return gorm.Open(sqlite.Open(path), cfg)
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		getEnv("DB_USER", "root"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "3306"),
		getEnv("DB_NAME", "food_delivery"),
	)
	return gorm.Open(mysql.Open(dsn), cfg)
}
