// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// RunSpec describes one external command invocation.
type RunSpec struct {
	// Command is the argv to execute; Command[0] is resolved against PATH
	// unless absolute.
	Command []string

	// Env contains additional environment variables in "KEY=VALUE" format.
	// They are layered over the process environment.
	Env []string

	// Stdout and Stderr receive the command's output streams. Either may be
	// nil, in which case the stream is discarded.
	Stdout io.Writer
	Stderr io.Writer
}

// CommandRunner executes external commands on the host.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes the spec and blocks until the command exits.
	//
	// A non-zero exit status is returned as an error carrying the exit code
	// and a tail of the command's stderr.
	Run(ctx context.Context, spec RunSpec) error
}
