package utils

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// BookingConfig carries booking policy knobs. InitialStatus is the status a
// newly created booking gets ("pending" or "confirmed"); the audit log
// starts at the first transition, not at creation.
type BookingConfig struct {
	InitialStatus   string
	DefaultCurrency string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("BOOKING_INITIAL_STATUS", "confirmed")
	viper.SetDefault("DEFAULT_CURRENCY", "USD")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Booking: BookingConfig{
			InitialStatus:   viper.GetString("BOOKING_INITIAL_STATUS"),
			DefaultCurrency: viper.GetString("DEFAULT_CURRENCY"),
		},
	}

	switch config.Booking.InitialStatus {
	case "pending", "confirmed":
	default:
		return nil, fmt.Errorf("BOOKING_INITIAL_STATUS must be pending or confirmed, got %q", config.Booking.InitialStatus)
	}

	return config, nil
}
