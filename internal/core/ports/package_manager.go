package ports

import "context"

// PackageManager abstracts the host operating system's package manager.
//
// Its behavior is not redefined here; implementations only shape the
// contract of invoking it: refresh the index, install by name, and report
// the underlying exit status through the returned error.
//
//go:generate go run go.uber.org/mock/mockgen -source=package_manager.go -destination=mocks/mock_package_manager.go -package=mocks
type PackageManager interface {
	// RefreshIndex updates the package index. A failure is fatal to the
	// bootstrap run: install correctness cannot be guaranteed without an
	// up-to-date index.
	RefreshIndex(ctx context.Context) error

	// Install installs a single package by name. Installing one package per
	// call keeps failures attributable to a specific name.
	Install(ctx context.Context, name string) error
}
