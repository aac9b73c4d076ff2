// Package app implements the application layer for prep.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.trai.ch/prep/internal/adapters/telemetry"
	"go.trai.ch/prep/internal/core/ports"
	"go.trai.ch/prep/internal/engine/bootstrap"
	"go.trai.ch/zerr"
)

// RunOptions carries the per-invocation settings from the CLI.
type RunOptions struct {
	// ManifestPath is the path to the manifest file.
	ManifestPath string

	// KeepGoing selects the fail-complete policy: attempt every package and
	// report all failures together instead of aborting on the first.
	KeepGoing bool

	// VerifyOnly skips index refresh and installation.
	VerifyOnly bool

	// Quiet suppresses progress recording; logs still go to stderr.
	Quiet bool
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	step         *bootstrap.Step
	telemetry    ports.Telemetry
	logger       ports.Logger
	out          io.Writer
}

// New creates a new App instance. tel must be the recorder the step was
// built with; Run closes it once the bootstrap is finished.
func New(loader ports.ConfigLoader, step *bootstrap.Step, tel ports.Telemetry, log ports.Logger) *App {
	return &App{
		configLoader: loader,
		step:         step,
		telemetry:    tel,
		logger:       log,
		out:          os.Stdout,
	}
}

// WithOutput redirects the version lines the bootstrap emits.
// This is primarily used for testing.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// Run loads the manifest and executes the bootstrap step.
//
// On success the captured version line of every requirement is printed to
// stdout, one per line, in manifest declaration order. On failure the lines
// of the requirements that did verify are still printed, and the error of
// the failing stage is returned.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	manifest, err := a.configLoader.Load(opts.ManifestPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}

	step := a.step
	tel := a.telemetry
	if opts.Quiet {
		tel = telemetry.NewNoop()
		step = step.WithTelemetry(tel)
	}
	defer func() {
		_ = tel.Close()
	}()

	policy := bootstrap.FailFast
	if opts.KeepGoing {
		policy = bootstrap.FailComplete
	}

	report, runErr := step.Run(ctx, manifest, bootstrap.Options{
		Policy:     policy,
		VerifyOnly: opts.VerifyOnly,
	})

	for _, line := range report.Versions() {
		_, _ = fmt.Fprintln(a.out, line)
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info(fmt.Sprintf("bootstrap %s reached %s", report.Fingerprint, report.Step))
	return nil
}
