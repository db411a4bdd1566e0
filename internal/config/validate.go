package config

import "fmt"

// IssueSeverity classifies a validation finding.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single validation finding: a dotted path into the config plus a
// human-readable message.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static checks over a decoded Run and returns the list of
// findings. It does not mutate the config; callers decide whether warnings
// block execution.
func Validate(r Run) []Issue {
	var issues []Issue
	if r.Season <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "season",
			Message:  "season must be a positive permanent-store season ID",
		})
	}
	if r.Store.DSN == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "store.dsn",
			Message:  "permanent store DSN is required (config or STORE_DSN)",
		})
	}
	if r.Match.Threshold < 0.5 || r.Match.Threshold > 1 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "match.threshold",
			Message:  fmt.Sprintf("threshold %.2f is outside the tuned range [0.5, 1.0]", r.Match.Threshold),
		})
	}
	if r.Commit.Strict && r.Commit.AuditLog == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "commit.audit_log",
			Message:  "strict commits without an audit log leave no replay trail",
		})
	}
	return issues
}
