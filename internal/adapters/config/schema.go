package config

// manifestFile represents the structure of the prep.yaml manifest.
type manifestFile struct {
	Version  string       `yaml:"version"`
	Packages []packageDTO `yaml:"packages"`
}

// packageDTO represents a package entry in the manifest.
type packageDTO struct {
	Name   string   `yaml:"name"`
	Verify []string `yaml:"verify"`
}
