// Package domain contains the core domain models for the bootstrap step.
package domain

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// PackageRequirement describes one system package that must be present in
// the environment, together with the command that proves it is usable.
type PackageRequirement struct {
	// Name is the package name as known to the system package manager.
	Name string

	// VerifyCommand is executed after installation. It must exit zero and
	// print a human-readable version line on stdout.
	VerifyCommand []string
}

// Manifest is the ordered set of requirements for one bootstrap run.
// Declaration order is preserved and governs verification output order.
type Manifest struct {
	Version      string
	Requirements []PackageRequirement
}

// Names returns the package names in declaration order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Requirements))
	for i, req := range m.Requirements {
		names[i] = req.Name
	}
	return names
}

// Fingerprint returns a stable digest of the manifest content.
// It identifies a run in logs and reports; it is never persisted.
func (m *Manifest) Fingerprint() string {
	h := xxhash.New()
	_, _ = h.WriteString(m.Version)
	for _, req := range m.Requirements {
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(req.Name)
		_, _ = h.WriteString("\x01")
		_, _ = h.WriteString(strings.Join(req.VerifyCommand, "\x02"))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Validate checks the manifest invariants: at least one requirement, unique
// non-empty names, and a non-empty verify command per requirement.
func (m *Manifest) Validate() error {
	if len(m.Requirements) == 0 {
		return ErrEmptyManifest
	}

	seen := make(map[string]bool, len(m.Requirements))
	for _, req := range m.Requirements {
		if err := req.validate(); err != nil {
			return err
		}
		if seen[req.Name] {
			return withPackage(ErrDuplicateRequirement, req.Name)
		}
		seen[req.Name] = true
	}
	return nil
}

func (r *PackageRequirement) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrUnnamedRequirement
	}
	if len(r.VerifyCommand) == 0 || strings.TrimSpace(r.VerifyCommand[0]) == "" {
		return withPackage(ErrMissingVerifyCommand, r.Name)
	}
	return nil
}
