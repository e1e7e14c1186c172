package config

import (
	"testing"
	"time"

	"github.com/chris/rotmarket/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, time.Minute, cfg.HoldingWindow)
		assert.Equal(t, int32(50), cfg.SweepBatchSize)
		assert.Equal(t, int64(70), cfg.DefaultSellerPct)
		assert.Equal(t, 3, cfg.RetryAttempts)
		assert.Equal(t, "sales", cfg.Tables.Sales)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("HOLDING_WINDOW", "5m")
		t.Setenv("SALES_TABLE_NAME", "rot-sales")
		t.Setenv("COMMISSION_ROLE_OVERRIDES", "verified=80")
		t.Setenv("PLATFORM_ACCOUNT_ID", " founder-1 ")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 5*time.Minute, cfg.HoldingWindow)
		assert.Equal(t, "rot-sales", cfg.Tables.Sales)
		assert.Equal(t, "founder-1", cfg.PlatformAccountID)

		fees, err := cfg.FeeSchedule()
		require.NoError(t, err)
		assert.Equal(t, int64(80), fees.SellerPct(models.RoleVerified))
	})

	t.Run("Invalid Holding Window", func(t *testing.T) {
		t.Setenv("HOLDING_WINDOW", "soon")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("Invalid Seller Pct", func(t *testing.T) {
		t.Setenv("COMMISSION_SELLER_PCT", "120")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidateAPI(t *testing.T) {
	cfg := &Config{JWTSecret: "short"}
	assert.Error(t, cfg.ValidateAPI())

	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.ValidateAPI())
}
