package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DevJWTSecret signs tokens when JWT_SECRET is unset. Refused in production.
const DevJWTSecret = "dev-secret-change-in-production"

type Config struct {
	Port        string
	AppEnv      string
	JWTSecret   string
	CORSOrigins []string
	TableCount  int
	SeatCharge  decimal.Decimal
	// StaffRoster holds "name:ROLE:bcrypt-hash" entries; see cmd/seed.
	StaffRoster []string
	LogLevel    string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8081"),
		AppEnv:      getEnv("APP_ENV", "development"),
		JWTSecret:   getEnv("JWT_SECRET", DevJWTSecret),
		CORSOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		TableCount:  getEnvAsInt("TABLE_COUNT", 12),
		SeatCharge:  getEnvAsDecimal("SEAT_CHARGE", decimal.Zero),
		StaffRoster: getEnvAsSlice("STAFF_ROSTER", nil),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate rejects settings that are only acceptable in development.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == DevJWTSecret {
		return errors.New("JWT_SECRET is required in production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if v, err := decimal.NewFromString(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
