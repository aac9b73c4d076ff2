// Package probe implements post-install verification by running each
// requirement's verify command and capturing the version line it prints.
package probe

import (
	"bytes"
	"context"
	"io"
	"strings"

	"go.trai.ch/prep/internal/core/domain"
	"go.trai.ch/prep/internal/core/ports"
	"go.trai.ch/zerr"
)

// Verifier implements ports.Verifier on top of a CommandRunner.
type Verifier struct {
	runner ports.CommandRunner
}

// NewVerifier creates a new Verifier.
func NewVerifier(runner ports.CommandRunner) *Verifier {
	return &Verifier{
		runner: runner,
	}
}

// Verify runs the requirement's verify command and returns the first line of
// its stdout. A non-zero exit or empty output is ErrVerification: a tool
// that cannot report its version is not considered usable.
func (v *Verifier) Verify(ctx context.Context, req domain.PackageRequirement) (string, error) {
	var stdout bytes.Buffer
	spec := ports.RunSpec{
		Command: req.VerifyCommand,
		Stdout:  &stdout,
	}
	if vertex, ok := ports.VertexFromContext(ctx); ok {
		spec.Stdout = io.MultiWriter(&stdout, vertex.Stdout())
		spec.Stderr = vertex.Stderr()
	}

	if err := v.runner.Run(ctx, spec); err != nil {
		failure := zerr.With(zerr.Wrap(domain.ErrVerification, "verify command failed"), "package", req.Name)
		return "", zerr.With(failure, "cause", err.Error())
	}

	version := firstLine(stdout.String())
	if version == "" {
		failure := zerr.With(zerr.Wrap(domain.ErrVerification, "verify command produced no output"), "package", req.Name)
		return "", failure
	}
	return version, nil
}

// firstLine returns the first non-empty line of s, trimmed. Some tools print
// a leading blank line before the version.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
