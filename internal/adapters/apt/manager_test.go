package apt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/prep/internal/adapters/apt"
	"go.trai.ch/prep/internal/core/domain"
	"go.trai.ch/prep/internal/core/ports"
	"go.trai.ch/prep/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestManager_RefreshIndex_InvokesAptGetUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	var captured ports.RunSpec
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, spec ports.RunSpec) error {
			captured = spec
			return nil
		},
	)

	m := apt.NewManager(runner)
	require.NoError(t, m.RefreshIndex(context.Background()))

	assert.Equal(t, []string{"apt-get", "update"}, captured.Command)
	assert.Contains(t, captured.Env, "DEBIAN_FRONTEND=noninteractive")
}

func TestManager_RefreshIndex_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, spec ports.RunSpec) error {
			// Simulate apt writing to stderr before failing, as it does when
			// the mirror is unreachable.
			_, _ = spec.Stderr.Write([]byte("Err:1 http://deb.debian.org/debian stable InRelease\n"))
			return zerr.New("exit status 100")
		},
	)

	m := apt.NewManager(runner)
	err := m.RefreshIndex(context.Background())

	require.ErrorIs(t, err, domain.ErrIndexRefresh)
}

func TestManager_Install_InvokesAptGetInstall(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	var captured ports.RunSpec
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, spec ports.RunSpec) error {
			captured = spec
			return nil
		},
	)

	m := apt.NewManager(runner)
	require.NoError(t, m.Install(context.Background(), "chromium"))

	assert.Equal(t,
		[]string{"apt-get", "install", "-y", "--no-install-recommends", "chromium"},
		captured.Command)
}

func TestManager_Install_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(zerr.New("exit status 100"))

	m := apt.NewManager(runner)
	err := m.Install(context.Background(), "no-such-package")

	require.ErrorIs(t, err, domain.ErrInstall)
}

func TestManager_Install_RoutesOutputToVertex(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	vertex := mocks.NewMockVertex(ctrl)

	var captured ports.RunSpec
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, spec ports.RunSpec) error {
			captured = spec
			return nil
		},
	)
	vertex.EXPECT().Stdout().Return(nil)
	vertex.EXPECT().Stderr().Return(nil)

	ctx := ports.ContextWithVertex(context.Background(), vertex)
	m := apt.NewManager(runner)
	require.NoError(t, m.Install(ctx, "chromium"))
	require.NotNil(t, captured.Stderr)
}

func TestManager_CustomBinary(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	var captured ports.RunSpec
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, spec ports.RunSpec) error {
			captured = spec
			return nil
		},
	)

	m := apt.NewManagerWithBinary(runner, "apt-get-stub")
	require.NoError(t, m.RefreshIndex(context.Background()))
	assert.Equal(t, "apt-get-stub", captured.Command[0])
}
