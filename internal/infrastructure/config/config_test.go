package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "backoffice-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.Checkout.ReservationTTL)
	assert.Equal(t, time.Minute, cfg.Scheduler.SweepInterval)
	assert.Equal(t, 100, cfg.Scheduler.SweepBatchSize)
	assert.False(t, cfg.Exchange.AllowFullReversal, "removal keeps the voided profit unless explicitly allowed")
	assert.Equal(t, "https://api.mercadopago.com", cfg.MercadoPago.BaseURL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BACKOFFICE_APP_PORT", "9090")
	t.Setenv("BACKOFFICE_EXCHANGE_ALLOW_FULL_REVERSAL", "true")
	t.Setenv("BACKOFFICE_CHECKOUT_RESERVATION_TTL", "45m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.Exchange.AllowFullReversal)
	assert.Equal(t, 45*time.Minute, cfg.Checkout.ReservationTTL)
}

func TestProductionValidation(t *testing.T) {
	t.Setenv("BACKOFFICE_APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "app",
		Password: "p@ss/word",
		DBName:   "backoffice",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss/word", "password must be URL-escaped")
}
