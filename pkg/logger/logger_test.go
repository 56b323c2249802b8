package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

// En production la salida es JSON con el campo fijo `service`.
func TestNew_ProductionJSONConService(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{
		Env:     "production",
		Level:   "info",
		Service: "puntoventa-api",
		Writer:  &buf,
	})

	log.Info().Str("venta", "TRX-1").Msg("venta registrada")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "la salida debe ser JSON: %s", buf.String())
	assert.Equal(t, "puntoventa-api", line["service"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "TRX-1", line["venta"])
	assert.Equal(t, "venta registrada", line["message"])
}

// El nivel configurado filtra los eventos por debajo.
func TestNew_NivelFiltra(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Writer: &buf})

	log.Info().Msg("no debe salir")
	log.Warn().Msg("sí debe salir")

	out := buf.String()
	assert.NotContains(t, out, "no debe salir")
	assert.Contains(t, out, "sí debe salir")
}

func TestComponent_EtiquetaSublogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Writer: &buf})

	log.Component("kardex").Info().Msg("ajuste aplicado")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kardex", line["component"])
}

// En development la salida es consola legible, no JSON.
func TestNew_DevelopmentConsola(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "development", Level: "info", Writer: &buf})

	log.Info().Msg("iniciando")

	out := buf.String()
	assert.Contains(t, out, "iniciando")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "development no debe emitir JSON: %s", out)
}
