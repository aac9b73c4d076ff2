// Package config provides the manifest loader for prep.
package config

import (
	"os"

	"go.trai.ch/prep/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the manifest filename used when none is given.
const DefaultFilename = "prep.yaml"

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct{}

// NewLoader creates a new FileConfigLoader.
func NewLoader() *FileConfigLoader {
	return &FileConfigLoader{}
}

// Load reads a manifest from the given path.
func (l *FileConfigLoader) Load(path string) (*domain.Manifest, error) {
	return Load(path)
}

// Load reads a manifest file from the given path and returns it validated.
func Load(path string) (*domain.Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}

	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse manifest"), "path", path)
	}

	manifest := &domain.Manifest{
		Version:      file.Version,
		Requirements: make([]domain.PackageRequirement, 0, len(file.Packages)),
	}
	for _, pkg := range file.Packages {
		verify := pkg.Verify
		if len(verify) == 0 && pkg.Name != "" {
			// The common case: the binary is named after the package and
			// understands --version.
			verify = []string{pkg.Name, "--version"}
		}
		manifest.Requirements = append(manifest.Requirements, domain.PackageRequirement{
			Name:          pkg.Name,
			VerifyCommand: verify,
		})
	}

	if err := manifest.Validate(); err != nil {
		// Wrap before attaching metadata so the validation sentinel stays in
		// the cause chain.
		return nil, zerr.With(zerr.Wrap(err, "invalid manifest"), "path", path)
	}
	return manifest, nil
}
