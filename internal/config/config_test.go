package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "store")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "store")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := LoadConfig()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.True(t, cfg.FreeShippingThreshold.Equal(decimal.NewFromInt(500000)))
	assert.True(t, cfg.ShippingFlatFee.Equal(decimal.NewFromInt(30000)))
	assert.True(t, cfg.TaxRatePercent.Equal(decimal.NewFromInt(10)))
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("FREE_SHIPPING_THRESHOLD", "100")
	t.Setenv("SHIPPING_FLAT_FEE", "7.50")
	t.Setenv("TAX_RATE_PERCENT", "21")

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.True(t, cfg.FreeShippingThreshold.Equal(decimal.NewFromInt(100)))
	assert.True(t, cfg.ShippingFlatFee.Equal(decimal.RequireFromString("7.50")))
	assert.True(t, cfg.TaxRatePercent.Equal(decimal.NewFromInt(21)))
}
