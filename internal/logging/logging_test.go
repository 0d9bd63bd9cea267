package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("filtered out")
	logger.Warn().Msg("kept")

	out := buf.String()
	assert.NotContains(t, out, "filtered out")
	assert.Contains(t, out, "kept")
}

func TestNewWithWriterDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "not-a-level", Format: "json"}, &buf)

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)

	componentLogger := ComponentLogger(logger, "cache")
	componentLogger.Info().Msg("sweep done")

	assert.Contains(t, buf.String(), `"component":"cache"`)
}

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(Config{Level: "debug", Format: "json"}, &buf)
		ctx := logger.WithContext(context.Background())

		ctxLogger := FromContext(ctx)
		ctxLogger.Debug().Msg("through context")

		assert.Contains(t, buf.String(), "through context")
	})

	t.Run("falls back to default when absent", func(t *testing.T) {
		logger := FromContext(context.Background())
		// The fallback must be usable, not the disabled logger.
		assert.NotEqual(t, zerolog.Disabled, logger.GetLevel())
	})
}

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TraceIDFromContext(ctx))

	ctx = ContextWithTraceID(ctx, "01J0000000000000000000000T")
	assert.Equal(t, "01J0000000000000000000000T", TraceIDFromContext(ctx))
}

func TestGetOrGenerateTraceID(t *testing.T) {
	t.Run("reuses existing", func(t *testing.T) {
		ctx := ContextWithTraceID(context.Background(), "existing-id")
		assert.Equal(t, "existing-id", GetOrGenerateTraceID(ctx))
	})

	t.Run("mints a ulid when missing", func(t *testing.T) {
		id := GetOrGenerateTraceID(context.Background())
		require.Len(t, id, 26)

		other := GetOrGenerateTraceID(context.Background())
		assert.NotEqual(t, id, other)
	})
}
