package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/attendance"
	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Kiosk      KioskConfig
	Attendance AttendanceConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// StorageConfig selects the ledger backend: "postgres" for the shared
// multi-kiosk deployment, "sqlite" for a standalone kiosk, "memory" for dev.
type StorageConfig struct {
	Driver     string
	SQLitePath string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds kiosk token configuration
type JWTConfig struct {
	Secret     string
	Expiration string
}

// KioskConfig holds the shared kiosk enrollment key (bcrypt hash).
type KioskConfig struct {
	KeyHash string
}

// AttendanceConfig holds the resolver policy thresholds as HH:MM strings.
type AttendanceConfig struct {
	Timezone                string
	LateCutoff              string
	EarlyShiftMinClockOut   string
	RegularShiftMinClockOut string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// Storage configuration
	config.Storage = StorageConfig{
		Driver:     getEnv("STORAGE_DRIVER", "postgres"),
		SQLitePath: getEnv("SQLITE_PATH", "data/attendance.db"),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance-core"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:     getEnv("JWT_SECRET_KEY", ""),
		Expiration: getEnv("JWT_EXPIRATION_TIME", "12h"),
	}

	// Kiosk configuration
	config.Kiosk = KioskConfig{
		KeyHash: getEnv("KIOSK_KEY_HASH", ""),
	}

	// Attendance policy configuration
	config.Attendance = AttendanceConfig{
		Timezone:                getEnv("ATTENDANCE_TIMEZONE", "Local"),
		LateCutoff:              getEnv("LATE_CUTOFF", "08:00"),
		EarlyShiftMinClockOut:   getEnv("EARLY_SHIFT_MIN_CLOCKOUT", "17:00"),
		RegularShiftMinClockOut: getEnv("REGULAR_SHIFT_MIN_CLOCKOUT", "17:15"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres driver")
		}
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER: %s", c.Storage.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Kiosk.KeyHash == "" {
		return fmt.Errorf("KIOSK_KEY_HASH is required")
	}

	if _, err := attendance.ParseTimeOfDay(c.Attendance.LateCutoff); err != nil {
		return fmt.Errorf("invalid LATE_CUTOFF: %w", err)
	}
	if _, err := attendance.ParseTimeOfDay(c.Attendance.EarlyShiftMinClockOut); err != nil {
		return fmt.Errorf("invalid EARLY_SHIFT_MIN_CLOCKOUT: %w", err)
	}
	if _, err := attendance.ParseTimeOfDay(c.Attendance.RegularShiftMinClockOut); err != nil {
		return fmt.Errorf("invalid REGULAR_SHIFT_MIN_CLOCKOUT: %w", err)
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}

	return nil
}

// Policy builds the resolver policy from the validated configuration.
func (c *Config) Policy() attendance.Policy {
	policy := attendance.DefaultPolicy()
	policy.LateCutoff, _ = attendance.ParseTimeOfDay(c.Attendance.LateCutoff)
	policy.EarlyShiftMinClockOut, _ = attendance.ParseTimeOfDay(c.Attendance.EarlyShiftMinClockOut)
	policy.RegularShiftMinClockOut, _ = attendance.ParseTimeOfDay(c.Attendance.RegularShiftMinClockOut)
	policy.Timezone, _ = time.LoadLocation(c.Attendance.Timezone)
	return policy
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	return strings.Split(value, ",")
}
