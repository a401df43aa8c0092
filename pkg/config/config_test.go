package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_STORAGE", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorageMemory, cfg.App.Storage)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.False(t, cfg.Redis.Enabled(), "sin REDIS_ADDR la caché queda desactivada")
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLife)
	assert.False(t, cfg.DB.ForceIPv4)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("APP_STORAGE", "POSTGRES")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_TTL", "2m")
	t.Setenv("OTEL_ENDPOINT", "collector:4318")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoragePostgres, cfg.App.Storage)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "collector:4318", cfg.Tracing.Endpoint)
}

func TestLoad_StorageInvalido(t *testing.T) {
	t.Setenv("APP_STORAGE", "sqlite")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_PoolInconsistente(t *testing.T) {
	t.Setenv("APP_STORAGE", "memory")
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "5")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "x", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/x?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://other"
	assert.Equal(t, "postgres://other", c.ConnectionString())
}
