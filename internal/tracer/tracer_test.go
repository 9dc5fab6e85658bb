package tracer_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/vango-cn/internal/tracer"
)

func TestLogExporter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tp := tracer.NewProvider(tracer.NewLogExporter(logger))
	_, span := tp.Tracer("test").Start(context.Background(), "merge")
	span.SetAttributes(attribute.Int("cn.tokens", 3))
	span.End()

	require.NoError(t, tp.Shutdown(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "span merge")
	assert.Contains(t, out, "cn.tokens=3")
	assert.Contains(t, out, "trace_id=")
}

func TestInit_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	shutdown := tracer.Init(false, logger)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "tracing disabled")
}
