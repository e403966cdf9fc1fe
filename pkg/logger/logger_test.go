package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSONWithRequestID(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup("debug", "json", &buf)

	ctx := WithRequestID(context.Background(), "req-1")
	FromContext(ctx).Debug("query executed", "results", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "query executed", record["msg"])
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, float64(3), record["results"])
}

func TestSetupLevelFiltersRecords(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup("warn", "text", &buf)
	WithComponent("engine").Info("hidden")
	assert.Empty(t, buf.String())

	WithComponent("engine").Warn("shown")
	assert.Contains(t, buf.String(), "component=engine")
}

func TestRequestIDMissing(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}
