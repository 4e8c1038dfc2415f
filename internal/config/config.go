package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	JWTSecret  string

	CORSOrigins []string

	// Checkout pricing knobs. Shipping is free above the threshold,
	// otherwise the flat fee applies. Tax is a flat percentage of the
	// order subtotal.
	FreeShippingThreshold decimal.Decimal
	ShippingFlatFee       decimal.Decimal
	TaxRatePercent        decimal.Decimal
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),
		JWTSecret:  os.Getenv("JWT_SECRET"),

		CORSOrigins: envList("CORS_ORIGINS", "http://localhost:3000"),

		FreeShippingThreshold: envDecimal("FREE_SHIPPING_THRESHOLD", "500000"),
		ShippingFlatFee:       envDecimal("SHIPPING_FLAT_FEE", "30000"),
		TaxRatePercent:        envDecimal("TAX_RATE_PERCENT", "10"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func envList(key, fallback string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		raw = fallback
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func envDecimal(key, fallback string) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		raw = fallback
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Fatalf("invalid decimal for %s: %v", key, err)
	}
	return d
}
