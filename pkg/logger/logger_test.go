package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/pkg/logger"
)

func TestNew_JSONConServicio(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Service: "kardex-api", Output: &buf})

	log.Info().Str("item_id", "i1").Msg("movimiento aplicado")
	log.Debug().Msg("no debe salir")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "kardex-api", ev["service"])
	assert.Equal(t, "i1", ev["item_id"])
	assert.Equal(t, "info", ev["level"])
	assert.Equal(t, "movimiento aplicado", ev["message"])
}

func TestNew_NivelDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "DEBUG", Output: &buf})
	log.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
