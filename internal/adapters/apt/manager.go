// Package apt implements the package manager port over the APT family of
// tools, the package manager of the hosted runtimes prep targets.
package apt

import (
	"bytes"
	"context"
	"io"
	"strings"

	"go.trai.ch/prep/internal/core/domain"
	"go.trai.ch/prep/internal/core/ports"
	"go.trai.ch/zerr"
)

// nonInteractive suppresses debconf prompts; a hosted provisioning step has
// no terminal to answer them on.
var nonInteractive = []string{"DEBIAN_FRONTEND=noninteractive"}

// Manager implements ports.PackageManager by invoking apt-get.
type Manager struct {
	runner ports.CommandRunner

	// aptGet is the binary to invoke, overridable for tests.
	aptGet string
}

// NewManager creates a Manager that invokes the system apt-get.
func NewManager(runner ports.CommandRunner) *Manager {
	return &Manager{
		runner: runner,
		aptGet: "apt-get",
	}
}

// NewManagerWithBinary creates a Manager invoking the given binary instead
// of apt-get. Used by tests to substitute a stub.
func NewManagerWithBinary(runner ports.CommandRunner, binary string) *Manager {
	return &Manager{
		runner: runner,
		aptGet: binary,
	}
}

// RefreshIndex runs `apt-get update`. A non-zero exit is returned as
// ErrIndexRefresh with the stderr tail attached.
func (m *Manager) RefreshIndex(ctx context.Context) error {
	var stderr bytes.Buffer
	spec := m.spec(ctx, &stderr, m.aptGet, "update")

	if err := m.runner.Run(ctx, spec); err != nil {
		// Wrap the sentinel so it stays in the cause chain for errors.Is.
		failure := zerr.With(zerr.Wrap(domain.ErrIndexRefresh, "apt-get update failed"), "cause", err.Error())
		return zerr.With(failure, "stderr", stderrTail(&stderr))
	}
	return nil
}

// Install runs `apt-get install -y --no-install-recommends <name>`.
// A non-zero exit is returned as ErrInstall carrying the package name.
// Installing an already-present package is a no-op for apt, which is what
// makes the bootstrap step idempotent.
func (m *Manager) Install(ctx context.Context, name string) error {
	var stderr bytes.Buffer
	spec := m.spec(ctx, &stderr, m.aptGet, "install", "-y", "--no-install-recommends", name)

	if err := m.runner.Run(ctx, spec); err != nil {
		failure := zerr.With(zerr.Wrap(domain.ErrInstall, "apt-get install failed"), "package", name)
		failure = zerr.With(failure, "cause", err.Error())
		return zerr.With(failure, "stderr", stderrTail(&stderr))
	}
	return nil
}

// spec builds a RunSpec routing output to the active telemetry vertex (if
// any) and teeing stderr into the given buffer for error reporting.
func (m *Manager) spec(ctx context.Context, stderr *bytes.Buffer, command ...string) ports.RunSpec {
	spec := ports.RunSpec{
		Command: command,
		Env:     nonInteractive,
		Stderr:  stderr,
	}
	if v, ok := ports.VertexFromContext(ctx); ok {
		spec.Stdout = v.Stdout()
		spec.Stderr = io.MultiWriter(stderr, v.Stderr())
	}
	return spec
}

const stderrTailLines = 10

// stderrTail returns the last few lines of captured stderr, enough to make
// an apt failure diagnosable without scrolling through the full transcript.
func stderrTail(buf *bytes.Buffer) string {
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) > stderrTailLines {
		lines = lines[len(lines)-stderrTailLines:]
	}
	return strings.Join(lines, "\n")
}
