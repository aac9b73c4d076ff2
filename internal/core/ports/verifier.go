package ports

import (
	"context"

	"go.trai.ch/prep/internal/core/domain"
)

// Verifier checks that an installed requirement is actually usable.
//
//go:generate go run go.uber.org/mock/mockgen -source=verifier.go -destination=mocks/mock_verifier.go -package=mocks
type Verifier interface {
	// Verify runs the requirement's verify command and returns the first
	// line it printed on stdout. Empty output or a non-zero exit status is
	// an error.
	Verify(ctx context.Context, req domain.PackageRequirement) (version string, err error)
}
