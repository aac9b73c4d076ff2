package bootstrap_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/prep/internal/adapters/apt"
	"go.trai.ch/prep/internal/adapters/logger"
	"go.trai.ch/prep/internal/adapters/probe"
	"go.trai.ch/prep/internal/adapters/shell"
	"go.trai.ch/prep/internal/adapters/telemetry"
	"go.trai.ch/prep/internal/core/domain"
	"go.trai.ch/prep/internal/engine/bootstrap"
)

// writeStub creates an executable shell script in dir.
func writeStub(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o700))
	return path
}

// newRealStep wires the step with real adapters against stub binaries.
func newRealStep(t *testing.T, aptStub string) *bootstrap.Step {
	t.Helper()
	log := logger.NewWithOutput(io.Discard)
	runner := shell.NewRunner(log)
	manager := apt.NewManagerWithBinary(runner, aptStub)
	verifier := probe.NewVerifier(runner)
	return bootstrap.NewStep(manager, verifier, telemetry.NewNoop(), log)
}

func TestStep_Integration_FullRun(t *testing.T) {
	dir := t.TempDir()
	callLog := filepath.Join(dir, "calls.log")

	aptStub := writeStub(t, dir, "apt-get", `echo "$@" >> `+callLog+`
exit 0`)
	chromium := writeStub(t, dir, "chromium", `echo "Chromium 120.0.6099.224 built on Debian 12.4"`)
	chromedriver := writeStub(t, dir, "chromedriver", `echo "ChromeDriver 120.0.6099.224"`)

	manifest := &domain.Manifest{
		Version: "1",
		Requirements: []domain.PackageRequirement{
			{Name: "chromium", VerifyCommand: []string{chromium, "--version"}},
			{Name: "chromium-driver", VerifyCommand: []string{chromedriver, "--version"}},
		},
	}

	step := newRealStep(t, aptStub)
	report, err := step.Run(context.Background(), manifest, bootstrap.Options{})

	require.NoError(t, err)
	assert.Equal(t, domain.StepVerified, report.Step)
	assert.Equal(t, []string{
		"Chromium 120.0.6099.224 built on Debian 12.4",
		"ChromeDriver 120.0.6099.224",
	}, report.Versions())

	// The stub saw one update and one install per package.
	calls, readErr := os.ReadFile(callLog)
	require.NoError(t, readErr)
	assert.Equal(t,
		"update\n"+
			"install -y --no-install-recommends chromium\n"+
			"install -y --no-install-recommends chromium-driver\n",
		string(calls))
}

func TestStep_Integration_RunTwiceIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	aptStub := writeStub(t, dir, "apt-get", "exit 0")
	jq := writeStub(t, dir, "jq", `echo "jq-1.7.1"`)

	manifest := &domain.Manifest{
		Version:      "1",
		Requirements: []domain.PackageRequirement{{Name: "jq", VerifyCommand: []string{jq, "--version"}}},
	}

	step := newRealStep(t, aptStub)

	first, err := step.Run(context.Background(), manifest, bootstrap.Options{})
	require.NoError(t, err)
	second, err := step.Run(context.Background(), manifest, bootstrap.Options{})
	require.NoError(t, err)

	assert.Equal(t, first.Versions(), second.Versions())
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
}

func TestStep_Integration_RefreshFailureStopsRun(t *testing.T) {
	dir := t.TempDir()
	callLog := filepath.Join(dir, "calls.log")

	// The stub fails on update, as apt does when the mirror is unreachable.
	aptStub := writeStub(t, dir, "apt-get", `echo "$@" >> `+callLog+`
case "$1" in
update) echo "Err: network unreachable" >&2; exit 100 ;;
*) exit 0 ;;
esac`)

	manifest := &domain.Manifest{
		Version:      "1",
		Requirements: []domain.PackageRequirement{{Name: "chromium", VerifyCommand: []string{"chromium", "--version"}}},
	}

	step := newRealStep(t, aptStub)
	report, err := step.Run(context.Background(), manifest, bootstrap.Options{})

	require.ErrorIs(t, err, domain.ErrIndexRefresh)
	assert.Equal(t, domain.StepFailed, report.Step)

	// Only the update call happened; no install was attempted.
	calls, readErr := os.ReadFile(callLog)
	require.NoError(t, readErr)
	assert.Equal(t, "update\n", string(calls))
}
