package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Storage  StorageConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// StorageConfig selects the ledger store backend.
type StorageConfig struct {
	Driver string // "postgres" or "memory"
}

// PayrollConfig holds engine policy knobs.
type PayrollConfig struct {
	// CurrencyPlaces is the number of minor-unit decimal places amounts
	// are rounded to (2 for most currencies).
	CurrencyPlaces int32
	// WorkHoursPerDay derives the base hourly rate from a monthly basic
	// salary when overtime is computed.
	WorkHoursPerDay int
	// WorkDaysPerMonth is the divisor used with WorkHoursPerDay.
	WorkDaysPerMonth int
}

func Load() (*Config, error) {
	// Missing .env is fine; variables may come from the environment itself.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	dbMinConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "payflow"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: dbMaxConns,
		MinConns: dbMinConns,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.Storage = StorageConfig{
		Driver: strings.ToLower(getEnv("STORAGE_DRIVER", "postgres")),
	}

	currencyPlaces, err := strconv.Atoi(getEnv("CURRENCY_PLACES", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid CURRENCY_PLACES: %w", err)
	}
	workHours, err := strconv.Atoi(getEnv("WORK_HOURS_PER_DAY", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORK_HOURS_PER_DAY: %w", err)
	}
	workDays, err := strconv.Atoi(getEnv("WORK_DAYS_PER_MONTH", "22"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORK_DAYS_PER_MONTH: %w", err)
	}
	config.Payroll = PayrollConfig{
		CurrencyPlaces:   int32(currencyPlaces),
		WorkHoursPerDay:  workHours,
		WorkDaysPerMonth: workDays,
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
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case "memory":
		// No database required.
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER: %s", c.Storage.Driver)
	}
	if c.Payroll.CurrencyPlaces < 0 || c.Payroll.CurrencyPlaces > 4 {
		return fmt.Errorf("CURRENCY_PLACES must be between 0 and 4")
	}
	if c.Payroll.WorkHoursPerDay < 1 || c.Payroll.WorkHoursPerDay > 24 {
		return fmt.Errorf("WORK_HOURS_PER_DAY must be between 1 and 24")
	}
	if c.Payroll.WorkDaysPerMonth < 1 || c.Payroll.WorkDaysPerMonth > 31 {
		return fmt.Errorf("WORK_DAYS_PER_MONTH must be between 1 and 31")
	}
	return nil
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
