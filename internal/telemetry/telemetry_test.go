package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTracerNone(t *testing.T) {
	shutdown, err := SetupTracer(context.Background(), "mini-shop", ExporterNone, "", "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupTracerStdout(t *testing.T) {
	shutdown, err := SetupTracer(context.Background(), "mini-shop", ExporterStdout, "", "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupTracerUnknownExporter(t *testing.T) {
	_, err := SetupTracer(context.Background(), "mini-shop", "jaeger", "", "test")
	assert.Error(t, err)
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "collector:4317", stripScheme("http://collector:4317"))
	assert.Equal(t, "collector:4317", stripScheme("https://collector:4317"))
	assert.Equal(t, "collector:4317", stripScheme("collector:4317"))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(false, "api")
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NotNil(t, OrNop(nil))
}
