package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eta-einvoice/pkg/config"
)

func TestLoad_ValoresPorDefectoETA(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "preprod", cfg.ETA.Environment)
	assert.Equal(t, 3, cfg.ETA.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.ETA.RetryInitial)
	assert.Equal(t, "0.01", cfg.ETA.TotalsTolerance.String())
	assert.Equal(t, 5*time.Minute, cfg.ETA.PollInterval)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("ETA_ENVIRONMENT", "production")
	t.Setenv("ETA_MAX_RETRIES", "5")
	t.Setenv("ETA_TOTALS_TOLERANCE", "0.05")
	t.Setenv("ETA_POLL_INTERVAL_SECONDS", "0")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.ETA.Environment)
	assert.Equal(t, 5, cfg.ETA.MaxRetries)
	assert.Equal(t, "0.05", cfg.ETA.TotalsTolerance.String())
	assert.Equal(t, time.Duration(0), cfg.ETA.PollInterval, "0 desactiva la conciliación periódica")
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "eta", Password: "p@ss:w/rd", DBName: "eta", SSLMode: "disable"}
	assert.Equal(t, "postgres://eta:p%40ss%3Aw%2Frd@db:5432/eta?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestLoad_TamañoDelPool(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "40")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, int32(40), cfg.DB.MaxConns)
	assert.Equal(t, int32(2), cfg.DB.MinConns)
}
