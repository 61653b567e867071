package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Inventory.StorageDriver)
	assert.Equal(t, "0.19", cfg.Inventory.TaxRate.String())
	assert.False(t, cfg.Inventory.AllowNegativeStock)
	assert.Equal(t, 5*time.Minute, cfg.Redis.PriceCheckTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("INVENTORY_ALLOW_NEGATIVE_STOCK", "true")
	t.Setenv("PURCHASE_TAX_RATE", "0.21")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("PRICE_CHECK_TTL_SECONDS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Inventory.StorageDriver)
	assert.True(t, cfg.Inventory.AllowNegativeStock)
	assert.Equal(t, "0.21", cfg.Inventory.TaxRate.String())
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Second, cfg.Redis.PriceCheckTTL)
}

func TestLoad_RechazaDriverDesconocido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaContraseña(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "tiendas", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/tiendas?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
