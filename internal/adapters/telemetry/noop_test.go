package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/prep/internal/adapters/telemetry"
	"go.trai.ch/prep/internal/core/ports"
	"go.trai.ch/zerr"
)

func TestNoopRecorder(t *testing.T) {
	rec := telemetry.NewNoop()

	ctx, vertex := rec.Record(context.Background(), "install chromium")
	require.NotNil(t, vertex)

	// The noop recorder does not thread a vertex through the context.
	_, ok := ports.VertexFromContext(ctx)
	assert.False(t, ok)

	n, err := vertex.Stdout().Write([]byte("ignored"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	vertex.Complete(zerr.New("ignored"))
	vertex.Cached()
	require.NoError(t, rec.Close())
}
