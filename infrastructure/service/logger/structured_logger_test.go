package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) Logger {
	return NewStructuredLogger(LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "storedesk-test",
		Output:      buf,
	})
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestStructuredLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	ctx := WithCorrelationID(context.Background(), "cid-123")
	log.Error(ctx, "write failed", errors.New("boom"), map[string]interface{}{"log_id": "l-1"})

	line := decodeLine(t, &buf)
	assert.Equal(t, "write failed", line["msg"])
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "cid-123", line["correlation_id"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "l-1", line["log_id"])
	assert.Equal(t, "storedesk-test", line["service"])
	assert.NotEmpty(t, line["caller"])
}

func TestStructuredLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf).WithFields(map[string]interface{}{"component": "revert"})

	log.Info(context.Background(), "done", nil)

	line := decodeLine(t, &buf)
	assert.Equal(t, "revert", line["component"])
	assert.NotContains(t, line, "correlation_id")
}

func TestLogPerformance(t *testing.T) {
	var buf bytes.Buffer
	LogPerformance(context.Background(), newBufferLogger(&buf), "audit_revert", 1500*time.Millisecond, nil)

	line := decodeLine(t, &buf)
	assert.Equal(t, "performance", line["event_type"])
	assert.Equal(t, float64(1500), line["duration_ms"])
}

func TestCorrelationID_Missing(t *testing.T) {
	assert.Equal(t, "", CorrelationID(context.Background()))
}
