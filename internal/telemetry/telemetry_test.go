package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailwatch/sailwatch/internal/telemetry"
)

func TestSetup_Disabled(t *testing.T) {
	ctx := context.Background()

	provider, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    "sailwatch-test",
		ServiceVersion: "0.0.0",
		Environment:    "test",
		OTLPEndpoint:   "localhost:4317",
		Enabled:        false,
	})
	require.NoError(t, err)

	assert.NotNil(t, provider.Tracer)
	assert.NotNil(t, provider.Meter)
	assert.NoError(t, provider.Shutdown(ctx))
}

func TestProvider_Shutdown_Empty(t *testing.T) {
	provider := &telemetry.Provider{}
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestGlobalAccessors(t *testing.T) {
	assert.NotNil(t, telemetry.Tracer("sailwatch-test"))
	assert.NotNil(t, telemetry.Meter("sailwatch-test"))
}
