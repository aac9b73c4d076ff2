package domain

import "go.trai.ch/zerr"

var (
	// ErrIndexRefresh is returned when the package manager's index refresh fails.
	// It is fatal: install correctness cannot be guaranteed against a stale index.
	ErrIndexRefresh = zerr.New("package index refresh failed")

	// ErrInstall is returned when installing a package fails.
	ErrInstall = zerr.New("package install failed")

	// ErrVerification is returned when a verify command exits non-zero or
	// produces no output.
	ErrVerification = zerr.New("package verification failed")

	// ErrEmptyManifest is returned when the manifest declares no requirements.
	ErrEmptyManifest = zerr.New("manifest declares no packages")

	// ErrDuplicateRequirement is returned when two requirements share a name.
	ErrDuplicateRequirement = zerr.New("duplicate package requirement")

	// ErrUnnamedRequirement is returned when a requirement has an empty name.
	ErrUnnamedRequirement = zerr.New("package requirement has no name")

	// ErrMissingVerifyCommand is returned when a requirement has no verify command.
	ErrMissingVerifyCommand = zerr.New("package requirement has no verify command")

	// ErrBootstrapFailed is the terminal error for a run that did not reach
	// the Verified state. The originating stage error is attached as a cause.
	ErrBootstrapFailed = zerr.New("bootstrap failed")
)

// withPackage attaches the package name a sentinel error refers to. The
// sentinel is wrapped first so it stays in the cause chain; zerr.With on the
// sentinel itself would return a detached copy that errors.Is cannot match.
func withPackage(err error, name string) error {
	return zerr.With(zerr.Wrap(err, "invalid manifest"), "package", name)
}
