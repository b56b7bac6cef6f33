package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithFormat_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithFormat("production", "", &buf)

	log.Info("session opened", "wallets", 3)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "session opened", record["msg"])
	assert.Equal(t, "INFO", record["level"])
	assert.EqualValues(t, 3, record["wallets"])
	assert.Contains(t, record["source"], "logger_test.go:")
}

func TestNewWithFormat_ProductionSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithFormat("production", "", &buf)

	log.Debug("noisy")
	assert.Empty(t, buf.String())
}

func TestNewWithFormat_DevelopmentText(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithFormat("development", "", &buf)

	log.Debug("cache miss", "key", "report:monthly:2026-10")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "key=report:monthly:2026-10")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithFormat("development", "json", &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = WithSessionID(ctx, "sess-9")

	log.WithContext(ctx).Info("closing")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "sess-9", record["session_id"])
	assert.NotContains(t, record, "user_id")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithFormat("development", "json", &buf)

	log.WithError(errors.New("boom")).WithField("component", "report").Warn("cache failed")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, "report", record["component"])
}
