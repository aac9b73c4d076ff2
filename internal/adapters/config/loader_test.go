package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/prep/internal/adapters/config"
	"go.trai.ch/prep/internal/core/domain"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Success(t *testing.T) {
	path := writeManifest(t, `
version: "1"
packages:
  - name: chromium
    verify: [chromium, --version]
  - name: chromium-driver
    verify: [chromedriver, --version]
`)

	m, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "1", m.Version)
	require.Len(t, m.Requirements, 2)
	assert.Equal(t, []string{"chromium", "chromium-driver"}, m.Names())
	assert.Equal(t, []string{"chromedriver", "--version"}, m.Requirements[1].VerifyCommand)
}

func TestLoad_DefaultVerifyCommand(t *testing.T) {
	path := writeManifest(t, `
version: "1"
packages:
  - name: jq
`)

	m, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"jq", "--version"}, m.Requirements[0].VerifyCommand)
}

func TestLoad_PreservesDeclarationOrder(t *testing.T) {
	path := writeManifest(t, `
version: "1"
packages:
  - name: zzz
  - name: aaa
  - name: mmm
`)

	m, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"zzz", "aaa", "mmm"}, m.Names())
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to read manifest")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeManifest(t, "packages: [name: unbalanced")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to parse manifest")
}

func TestLoad_EmptyManifest(t *testing.T) {
	path := writeManifest(t, `version: "1"`)

	_, err := config.Load(path)
	require.ErrorIs(t, err, domain.ErrEmptyManifest)
}

func TestLoad_DuplicatePackage(t *testing.T) {
	path := writeManifest(t, `
version: "1"
packages:
  - name: chromium
  - name: chromium
`)

	_, err := config.Load(path)
	require.ErrorIs(t, err, domain.ErrDuplicateRequirement)
}

func TestLoad_UnnamedPackage(t *testing.T) {
	path := writeManifest(t, `
version: "1"
packages:
  - verify: [true]
`)

	_, err := config.Load(path)
	require.ErrorIs(t, err, domain.ErrUnnamedRequirement)
}
