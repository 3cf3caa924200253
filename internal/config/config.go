package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	LogLevel string
	Database DatabaseConfig
	JWT      JWTConfig
	Loan     LoanConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// JWTConfig holds bearer token verification settings
type JWTConfig struct {
	Secret string
}

// LoanConfig holds the lending policy: fees, charge percentages, reward
// amounts and the overdue sweep schedule.
type LoanConfig struct {
	LateFee                    decimal.Decimal
	PrepaymentChargePercent    decimal.Decimal
	ForeclosureChargePercent   decimal.Decimal
	RestructureFee             decimal.Decimal
	PenaltyRatePerDay          decimal.Decimal
	CashbackPercent            decimal.Decimal
	ClosureBonusPoints         int
	OnTimeRepaymentPoints      int
	RestructureExtensionMonths int
	OverdueSweepSpec           string
	OverdueSweepLease          time.Duration
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		logrus.Warn("⚠️ .env file not found, using environment variables")
	}

	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	loan, err := loadLoanConfig()
	if err != nil {
		return nil, err
	}
	database, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: database,
		JWT:      loadJWTConfig(appMode),
		Loan:     loan,
	}

	logrus.WithField("mode", appMode).Info("✅ Configuration loaded successfully")
	return config, nil
}

// loadDatabaseConfig loads database config based on mode. Pool sizing is
// shared by both modes.
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	cfg := DatabaseConfig{
		Host:            getEnv(prefix+"DB_HOST", "localhost"),
		Port:            getEnv(prefix+"DB_PORT", "3306"),
		User:            getEnv(prefix+"DB_USER", "root"),
		Password:        getEnv(prefix+"DB_PASS", ""),
		DBName:          getEnv(prefix+"DB_NAME", "loanhub"),
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
	}

	for _, pool := range []struct {
		key string
		dst *int
	}{
		{"DB_MAX_IDLE_CONNS", &cfg.MaxIdleConns},
		{"DB_MAX_OPEN_CONNS", &cfg.MaxOpenConns},
	} {
		raw := os.Getenv(pool.key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || v < 1 {
			return cfg, fmt.Errorf("invalid %s: '%s'", pool.key, raw)
		}
		*pool.dst = v
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME"); raw != "" {
		lifetime, err := time.ParseDuration(raw)
		if err != nil || lifetime <= 0 {
			return cfg, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: '%s'", raw)
		}
		cfg.ConnMaxLifetime = lifetime
	}
	return cfg, nil
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return JWTConfig{
		Secret: getEnv(prefix+"JWT_SECRET", "default_secret"),
	}
}

// DefaultLoanConfig returns the lending policy used when no overrides are set
func DefaultLoanConfig() LoanConfig {
	return LoanConfig{
		LateFee:                    decimal.NewFromInt(500),
		PrepaymentChargePercent:    decimal.NewFromInt(2),
		ForeclosureChargePercent:   decimal.NewFromInt(4),
		RestructureFee:             decimal.NewFromInt(1000),
		PenaltyRatePerDay:          decimal.RequireFromString("0.001"),
		CashbackPercent:            decimal.NewFromInt(2),
		ClosureBonusPoints:         500,
		OnTimeRepaymentPoints:      25,
		RestructureExtensionMonths: 12,
		OverdueSweepSpec:           "@every 1h",
		OverdueSweepLease:          10 * time.Minute,
	}
}

// loadLoanConfig overlays environment overrides on DefaultLoanConfig
func loadLoanConfig() (LoanConfig, error) {
	cfg := DefaultLoanConfig()

	decimals := []struct {
		key string
		dst *decimal.Decimal
	}{
		{"LATE_FEE", &cfg.LateFee},
		{"PREPAYMENT_CHARGE_PERCENT", &cfg.PrepaymentChargePercent},
		{"FORECLOSURE_CHARGE_PERCENT", &cfg.ForeclosureChargePercent},
		{"RESTRUCTURE_FEE", &cfg.RestructureFee},
		{"PENALTY_RATE_PER_DAY", &cfg.PenaltyRatePerDay},
		{"CASHBACK_PERCENT", &cfg.CashbackPercent},
	}
	for _, d := range decimals {
		raw := os.Getenv(d.key)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil || v.IsNegative() {
			return cfg, fmt.Errorf("invalid %s: '%s'", d.key, raw)
		}
		*d.dst = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"CLOSURE_BONUS_POINTS", &cfg.ClosureBonusPoints},
		{"ON_TIME_REPAYMENT_POINTS", &cfg.OnTimeRepaymentPoints},
		{"RESTRUCTURE_DEFAULT_EXTENSION_MONTHS", &cfg.RestructureExtensionMonths},
	}
	for _, i := range ints {
		raw := os.Getenv(i.key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || v < 0 {
			return cfg, fmt.Errorf("invalid %s: '%s'", i.key, raw)
		}
		*i.dst = v
	}

	cfg.OverdueSweepSpec = getEnv("OVERDUE_SWEEP_SPEC", cfg.OverdueSweepSpec)
	if raw := os.Getenv("OVERDUE_SWEEP_LEASE"); raw != "" {
		lease, err := time.ParseDuration(raw)
		if err != nil || lease <= 0 {
			return cfg, fmt.Errorf("invalid OVERDUE_SWEEP_LEASE: '%s'", raw)
		}
		cfg.OverdueSweepLease = lease
	}

	return cfg, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://loanhub.example.com"
	}
	return origins
}
