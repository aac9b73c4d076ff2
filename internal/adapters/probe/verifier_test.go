package probe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/prep/internal/adapters/probe"
	"go.trai.ch/prep/internal/core/domain"
	"go.trai.ch/prep/internal/core/ports"
	"go.trai.ch/prep/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func chromiumReq() domain.PackageRequirement {
	return domain.PackageRequirement{
		Name:          "chromium",
		VerifyCommand: []string{"chromium", "--version"},
	}
}

func TestVerifier_Verify_ReturnsFirstLine(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, spec ports.RunSpec) error {
			_, _ = spec.Stdout.Write([]byte("Chromium 120.0.6099.224 built on Debian\nsecond line\n"))
			return nil
		},
	)

	v := probe.NewVerifier(runner)
	version, err := v.Verify(context.Background(), chromiumReq())

	require.NoError(t, err)
	assert.Equal(t, "Chromium 120.0.6099.224 built on Debian", version)
}

func TestVerifier_Verify_SkipsLeadingBlankLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	// Some tools print a blank line before the version.
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, spec ports.RunSpec) error {
			_, _ = spec.Stdout.Write([]byte("\nChromium 120.0.6099.224\n"))
			return nil
		},
	)

	v := probe.NewVerifier(runner)
	version, err := v.Verify(context.Background(), chromiumReq())

	require.NoError(t, err)
	assert.Equal(t, "Chromium 120.0.6099.224", version)
}

func TestVerifier_Verify_CommandFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(zerr.New("exit status 127"))

	v := probe.NewVerifier(runner)
	_, err := v.Verify(context.Background(), chromiumReq())

	require.ErrorIs(t, err, domain.ErrVerification)
}

func TestVerifier_Verify_EmptyOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil)

	v := probe.NewVerifier(runner)
	_, err := v.Verify(context.Background(), chromiumReq())

	require.ErrorIs(t, err, domain.ErrVerification)
}

func TestVerifier_Verify_WhitespaceOnlyOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, spec ports.RunSpec) error {
			_, _ = spec.Stdout.Write([]byte("   \n"))
			return nil
		},
	)

	v := probe.NewVerifier(runner)
	_, err := v.Verify(context.Background(), chromiumReq())

	require.ErrorIs(t, err, domain.ErrVerification)
}

func TestVerifier_Verify_PassesCommandThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	var captured ports.RunSpec
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, spec ports.RunSpec) error {
			captured = spec
			_, _ = spec.Stdout.Write([]byte("ChromeDriver 120.0.6099.224\n"))
			return nil
		},
	)

	v := probe.NewVerifier(runner)
	req := domain.PackageRequirement{
		Name:          "chromium-driver",
		VerifyCommand: []string{"chromedriver", "--version"},
	}
	version, err := v.Verify(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, []string{"chromedriver", "--version"}, captured.Command)
	assert.Equal(t, "ChromeDriver 120.0.6099.224", version)
}
