package progrock_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/prep/internal/adapters/telemetry/progrock"
	"go.trai.ch/zerr"
)

func TestConsoleWriter_RendersVertexLifecycle(t *testing.T) {
	var out bytes.Buffer
	rec := progrock.NewRecorder(progrock.NewConsoleWriter(&out))

	_, vertex := rec.Record(context.Background(), "install chromium")
	vertex.Complete(nil)
	require.NoError(t, rec.Close())

	assert.Contains(t, out.String(), "=> install chromium\n")
	assert.Contains(t, out.String(), "=> install chromium DONE\n")
}

func TestConsoleWriter_RendersFailure(t *testing.T) {
	var out bytes.Buffer
	rec := progrock.NewRecorder(progrock.NewConsoleWriter(&out))

	_, vertex := rec.Record(context.Background(), "install chromium")
	vertex.Complete(zerr.New("exit status 100"))
	require.NoError(t, rec.Close())

	assert.Contains(t, out.String(), "=> install chromium FAILED: exit status 100\n")
}

func TestConsoleWriter_RendersSkipAsCached(t *testing.T) {
	var out bytes.Buffer
	rec := progrock.NewRecorder(progrock.NewConsoleWriter(&out))

	_, vertex := rec.Record(context.Background(), "verify chromium")
	vertex.Cached()
	require.NoError(t, rec.Close())

	assert.Contains(t, out.String(), "=> verify chromium SKIPPED\n")
}

func TestConsoleWriter_SettlesEachVertexOnce(t *testing.T) {
	var out bytes.Buffer
	rec := progrock.NewRecorder(progrock.NewConsoleWriter(&out))

	_, a := rec.Record(context.Background(), "install chromium")
	_, b := rec.Record(context.Background(), "install chromium-driver")
	a.Complete(nil)
	b.Complete(nil)
	require.NoError(t, rec.Close())

	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("=> install chromium DONE")))
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("=> install chromium-driver DONE")))
}
