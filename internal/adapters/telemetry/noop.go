// Package telemetry provides progress-recording implementations.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/prep/internal/core/ports"
)

// NoopRecorder is a no-op implementation of ports.Telemetry, used when
// progress recording is suppressed (--quiet) and in tests.
type NoopRecorder struct{}

// NewNoop creates a new NoopRecorder.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

// Record returns a no-op vertex without touching the context.
func (r *NoopRecorder) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, &noopVertex{}
}

// Close does nothing.
func (r *NoopRecorder) Close() error {
	return nil
}

type noopVertex struct{}

func (v *noopVertex) Stdout() io.Writer { return io.Discard }
func (v *noopVertex) Stderr() io.Writer { return io.Discard }
func (v *noopVertex) Complete(error)    {}
func (v *noopVertex) Cached()           {}
