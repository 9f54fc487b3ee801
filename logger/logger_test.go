package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alanherrera2015-beep/examexperts/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfigByEnv(t *testing.T) {
	prod := logger.Config("production")
	assert.Equal(t, "timestamp", prod.EncoderConfig.TimeKey)
	assert.Equal(t, "json", prod.Encoding)

	dev := logger.Config("development")
	assert.Equal(t, "console", dev.Encoding)
	assert.True(t, dev.Development)
}

func TestNewWithoutSink(t *testing.T) {
	log, err := logger.New("production", nil)
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewTeesIntoSink(t *testing.T) {
	var sink bytes.Buffer
	log, err := logger.New("production", &sink)
	require.NoError(t, err)

	log.Info("checkout session created", zap.String("product_id", "sat-math-workbook"))

	line := strings.TrimSpace(sink.String())
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "checkout session created", entry["msg"])
	assert.Equal(t, "sat-math-workbook", entry["product_id"])
	assert.Equal(t, zapcore.InfoLevel.CapitalString(), entry["level"])
	assert.Contains(t, entry, "timestamp")
}
