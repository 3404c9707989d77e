// Package healthcheck evaluates runtime checks for the agent process.
package healthcheck

import "context"

const (
	// StatusOK indicates check passed.
	StatusOK = "ok"
	// StatusWarn indicates check completed with warning.
	StatusWarn = "warn"
	// StatusError indicates check failed.
	StatusError = "error"
)

// CheckResult is one runtime check item produced by a checker.
type CheckResult struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

// Checker evaluates the runtime checks.
type Checker interface {
	ListChecks(ctx context.Context) []CheckResult
}

// Overall folds check results into the worst status observed.
func Overall(results []CheckResult) string {
	overall := StatusOK
	for _, r := range results {
		switch r.Status {
		case StatusError:
			return StatusError
		case StatusWarn:
			overall = StatusWarn
		}
	}
	return overall
}
