package resilience

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echozyr2001/BrewDeck/internal/errdefs"
)

func TestWithFallbackPrimarySucceeds(t *testing.T) {
	fallbackCalled := false

	got, err := WithFallback(context.Background(),
		func(context.Context) ([]string, error) { return []string{"wget", "curl"}, nil },
		func(context.Context) ([]string, error) {
			fallbackCalled = true
			return nil, nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"wget", "curl"}, got)
	assert.False(t, fallbackCalled, "fallback must not run when primary succeeds")
}

func TestWithFallbackFallbackSucceeds(t *testing.T) {
	got, err := WithFallback(context.Background(),
		func(context.Context) (string, error) { return "", errdefs.Networkf("catalog unreachable") },
		func(context.Context) (string, error) { return "from local tool", nil },
	)

	require.NoError(t, err)
	assert.Equal(t, "from local tool", got)
}

func TestWithFallbackBothFailReturnsPrimaryError(t *testing.T) {
	primaryErr := errdefs.Networkf("primary down")
	fallbackErr := errdefs.Executionf("fallback broke too")

	_, err := WithFallback(context.Background(),
		func(context.Context) (int, error) { return 0, primaryErr },
		func(context.Context) (int, error) { return 0, fallbackErr },
	)

	require.Error(t, err)
	assert.Equal(t, primaryErr, err, "the preferred path's error must win")
	assert.NotErrorIs(t, err, errdefs.ErrExecution)
}

func TestWithFallbackZeroValueOnFailure(t *testing.T) {
	got, err := WithFallback(context.Background(),
		func(context.Context) ([]string, error) { return []string{"partial"}, errdefs.Timeoutf("slow") },
		func(context.Context) ([]string, error) { return nil, errdefs.Networkf("down") },
	)

	require.Error(t, err)
	assert.Nil(t, got, "no partial value escapes a failed composition")
}
