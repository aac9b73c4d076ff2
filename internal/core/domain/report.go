package domain

// Step identifies how far the bootstrap state machine has progressed.
// The machine is linear: Idle -> IndexRefreshed -> PackagesInstalled -> Verified,
// with Failed as the only other terminal state.
type Step string

const (
	// StepIdle is the initial state before any work has been done.
	StepIdle Step = "Idle"
	// StepIndexRefreshed means the package index was refreshed successfully.
	StepIndexRefreshed Step = "IndexRefreshed"
	// StepPackagesInstalled means every requirement was installed.
	StepPackagesInstalled Step = "PackagesInstalled"
	// StepVerified means every requirement produced a version line.
	StepVerified Step = "Verified"
	// StepFailed is the terminal state for a run that stopped on an error.
	StepFailed Step = "Failed"
)

// RequirementStatus is the per-requirement outcome within a run.
type RequirementStatus string

const (
	// StatusPending indicates the requirement has not been processed yet.
	StatusPending RequirementStatus = "Pending"
	// StatusInstalled indicates the package was installed but not yet verified.
	StatusInstalled RequirementStatus = "Installed"
	// StatusVerified indicates the verify command succeeded.
	StatusVerified RequirementStatus = "Verified"
	// StatusFailed indicates install or verification failed.
	StatusFailed RequirementStatus = "Failed"
	// StatusSkipped indicates the requirement was not fully processed: its
	// install failed, or an earlier failure aborted the run before it was
	// reached.
	StatusSkipped RequirementStatus = "Skipped"
)

// Result is the outcome for a single requirement.
type Result struct {
	Name    string
	Status  RequirementStatus
	Version string // first stdout line of the verify command, if verified
}

// Report summarizes one bootstrap run.
type Report struct {
	Fingerprint string
	Step        Step
	Results     []Result // declaration order
}

// Versions returns the captured version lines of all verified requirements,
// in declaration order.
func (r *Report) Versions() []string {
	lines := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Status == StatusVerified {
			lines = append(lines, res.Version)
		}
	}
	return lines
}
