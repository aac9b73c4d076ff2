// Package bootstrap implements the environment bootstrap step: refresh the
// package index, install every required package, verify every installed tool.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"go.trai.ch/prep/internal/core/domain"
	"go.trai.ch/prep/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Policy selects how install and verification failures are handled.
type Policy string

const (
	// FailFast aborts the run on the first failing package.
	FailFast Policy = "fail-fast"
	// FailComplete attempts every package, collects all failures, and
	// reports them together. Verification is still skipped for packages
	// whose install failed.
	FailComplete Policy = "fail-complete"
)

// Options configures a single run of the step.
type Options struct {
	Policy Policy

	// VerifyOnly skips index refresh and installation, running only the
	// verification stage. Used to re-check an environment that is believed
	// to be provisioned.
	VerifyOnly bool
}

// Step drives the linear bootstrap state machine:
//
//	Idle -> IndexRefreshed -> PackagesInstalled -> Verified
//
// Each transition is gated on success of the prior stage; any failure ends
// the run in the Failed terminal state carrying the originating error. There
// are no retries: a provisioning step that fails should surface the broken
// environment immediately rather than mask it.
type Step struct {
	manager   ports.PackageManager
	verifier  ports.Verifier
	telemetry ports.Telemetry
	logger    ports.Logger
}

// NewStep creates a new Step.
func NewStep(
	manager ports.PackageManager,
	verifier ports.Verifier,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Step {
	return &Step{
		manager:   manager,
		verifier:  verifier,
		telemetry: telemetry,
		logger:    logger,
	}
}

// WithTelemetry returns a copy of the step using the given telemetry
// recorder. Used to swap in the noop recorder for quiet runs.
func (s *Step) WithTelemetry(t ports.Telemetry) *Step {
	copied := *s
	copied.telemetry = t
	return &copied
}

// Run executes the bootstrap for the given manifest. The returned report is
// always populated, also on failure, so callers can see how far the run got.
func (s *Step) Run(ctx context.Context, manifest *domain.Manifest, opts Options) (*domain.Report, error) {
	if opts.Policy == "" {
		opts.Policy = FailFast
	}

	report := &domain.Report{
		Fingerprint: manifest.Fingerprint(),
		Step:        domain.StepIdle,
		Results:     make([]domain.Result, len(manifest.Requirements)),
	}
	for i, req := range manifest.Requirements {
		report.Results[i] = domain.Result{Name: req.Name, Status: domain.StatusPending}
	}

	s.logger.Info(fmt.Sprintf("bootstrap %s: %d package(s)", report.Fingerprint, len(manifest.Requirements)))

	if !opts.VerifyOnly {
		if err := s.refreshIndex(ctx); err != nil {
			report.Step = domain.StepFailed
			markUnreached(report)
			return report, err
		}
		report.Step = domain.StepIndexRefreshed

		installErrs := s.installAll(ctx, manifest, opts.Policy, report)
		if len(installErrs) > 0 && opts.Policy == FailFast {
			report.Step = domain.StepFailed
			markUnreached(report)
			return report, installErrs[0]
		}
		if len(installErrs) == 0 {
			report.Step = domain.StepPackagesInstalled
		}

		verifyErrs := s.verifyAll(ctx, manifest, opts.Policy, report)
		if errs := append(installErrs, verifyErrs...); len(errs) > 0 {
			report.Step = domain.StepFailed
			return report, collect(errs)
		}

		report.Step = domain.StepVerified
		return report, nil
	}

	// Verify-only: every requirement is assumed installed.
	for i := range report.Results {
		report.Results[i].Status = domain.StatusInstalled
	}
	if errs := s.verifyAll(ctx, manifest, opts.Policy, report); len(errs) > 0 {
		report.Step = domain.StepFailed
		return report, collect(errs)
	}
	report.Step = domain.StepVerified
	return report, nil
}

// refreshIndex runs the index refresh stage under its own vertex.
func (s *Step) refreshIndex(ctx context.Context) error {
	vctx, vertex := s.telemetry.Record(ctx, "refresh package index")
	err := s.manager.RefreshIndex(vctx)
	vertex.Complete(err)
	if err != nil {
		return err
	}
	s.logger.Info("package index refreshed")
	return nil
}

// installAll installs every pending requirement sequentially, in declaration
// order. The package database is exclusively owned for the duration of the
// run, so installs are never parallelized. On FailFast the first error stops
// the loop; on FailComplete all failures are collected.
func (s *Step) installAll(ctx context.Context, manifest *domain.Manifest, policy Policy, report *domain.Report) []error {
	var failures []error
	for i, req := range manifest.Requirements {
		vctx, vertex := s.telemetry.Record(ctx, "install "+req.Name)
		err := s.manager.Install(vctx, req.Name)
		vertex.Complete(err)

		if err != nil {
			report.Results[i].Status = domain.StatusFailed
			failures = append(failures, err)
			if policy == FailFast {
				return failures
			}
			continue
		}
		report.Results[i].Status = domain.StatusInstalled
	}
	return failures
}

// verifyAll verifies every installed requirement. Requirements whose install
// failed are skipped, never verified. Under FailComplete the probes run
// concurrently: they are read-only, and each goroutine writes only its own
// result slot. Output order is declaration order regardless of completion
// order because results are collected by index.
func (s *Step) verifyAll(ctx context.Context, manifest *domain.Manifest, policy Policy, report *domain.Report) []error {
	if policy == FailComplete {
		return s.verifyConcurrent(ctx, manifest, report)
	}

	var failures []error
	for i, req := range manifest.Requirements {
		if report.Results[i].Status != domain.StatusInstalled {
			s.skipVerification(ctx, report, i)
			continue
		}
		version, err := s.verifyOne(ctx, req)
		if err != nil {
			report.Results[i].Status = domain.StatusFailed
			return append(failures, err)
		}
		report.Results[i].Status = domain.StatusVerified
		report.Results[i].Version = version
	}
	return failures
}

func (s *Step) verifyConcurrent(ctx context.Context, manifest *domain.Manifest, report *domain.Report) []error {
	errs := make([]error, len(manifest.Requirements))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, req := range manifest.Requirements {
		if report.Results[i].Status != domain.StatusInstalled {
			s.skipVerification(ctx, report, i)
			continue
		}
		g.Go(func() error {
			version, err := s.verifyOne(groupCtx, req)
			if err != nil {
				report.Results[i].Status = domain.StatusFailed
				errs[i] = err
				// Collected, not returned: a failed probe must not cancel
				// the sibling probes under fail-complete.
				return nil
			}
			report.Results[i].Status = domain.StatusVerified
			report.Results[i].Version = version
			return nil
		})
	}
	_ = g.Wait()

	var failures []error
	for _, err := range errs {
		if err != nil {
			failures = append(failures, err)
		}
	}
	return failures
}

func (s *Step) verifyOne(ctx context.Context, req domain.PackageRequirement) (string, error) {
	vctx, vertex := s.telemetry.Record(ctx, "verify "+req.Name)
	version, err := s.verifier.Verify(vctx, req)
	vertex.Complete(err)
	return version, err
}

// skipVerification marks a requirement that never reached the Installed
// status, recording the skip as a cached vertex so the run transcript stays
// complete.
func (s *Step) skipVerification(ctx context.Context, report *domain.Report, i int) {
	if report.Results[i].Status == domain.StatusFailed {
		report.Results[i].Status = domain.StatusSkipped
		s.logger.Warn("verification skipped: " + report.Results[i].Name)
		_, vertex := s.telemetry.Record(ctx, "verify "+report.Results[i].Name)
		vertex.Cached()
	}
}

// markUnreached marks requirements an aborted run never got to, so report
// consumers see one convention: anything not Installed/Verified/Failed after
// a failed run is Skipped.
func markUnreached(report *domain.Report) {
	for i := range report.Results {
		if report.Results[i].Status == domain.StatusPending {
			report.Results[i].Status = domain.StatusSkipped
		}
	}
}

// collect flattens the gathered stage errors into one error value. Multiple
// failures are joined under ErrBootstrapFailed so each stage error stays
// reachable with errors.Is.
func collect(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	joined := errors.Join(append([]error{domain.ErrBootstrapFailed}, errs...)...)
	// Wrap before attaching metadata so the joined chain stays reachable.
	return zerr.With(zerr.Wrap(joined, "bootstrap did not complete"), "failures", strconv.Itoa(len(errs)))
}
