package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eta-einvoice/pkg/logger"
)

func TestNew_JSONConNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("descartado")
	l.Component("eta").Warn().Str("invoice_id", "inv-1").Msg("aviso")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), "debe haber una sola línea JSON")
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "eta", entry["component"])
	assert.Equal(t, "inv-1", entry["invoice_id"])
	assert.Equal(t, "aviso", entry["message"])
}

func TestNop_NoEscribe(t *testing.T) {
	l := logger.Nop()
	assert.NotPanics(t, func() { l.Error().Msg("nada") })
}

func TestNew_ServicioYNivelDesconocido(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "verbose", Service: "eta-einvoice", Output: &buf})

	l.Debug().Msg("descartado")
	l.Info().Msg("arranque")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), "nivel desconocido equivale a info")
	assert.Equal(t, "eta-einvoice", entry["service"])
	assert.Equal(t, "info", entry["level"])
}
