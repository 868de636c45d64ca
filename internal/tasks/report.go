package tasks

import (
	"github.com/desertthunder/ymx/internal/formatter"
	"github.com/desertthunder/ymx/internal/models"
)

// Reporter persists the unmatched tracks of a run.
type Reporter interface {
	Record(outcomes []*models.TransferOutcome) (string, error)
}

// FileReporter overwrites a plain text report file. An empty Path uses [formatter.DefaultReportPath].
type FileReporter struct {
	Path string
}

// Record writes one "<title> by <artist>" line per unmatched entry and returns the path written.
func (r FileReporter) Record(outcomes []*models.TransferOutcome) (string, error) {
	return formatter.WriteUnmatchedReport(r.Path, outcomes)
}

// SessionReporter keeps the outcomes of every run it records and passes all of them to Reporter,
// so one report covers all transfers of a session.
type SessionReporter struct {
	Reporter Reporter
	outcomes []*models.TransferOutcome
}

// NewSessionReporter wraps r.
func NewSessionReporter(r Reporter) *SessionReporter {
	return &SessionReporter{Reporter: r}
}

func (r *SessionReporter) Record(outcomes []*models.TransferOutcome) (string, error) {
	r.outcomes = append(r.outcomes, outcomes...)
	return r.Reporter.Record(r.outcomes)
}

// HasUnmatched reports whether any outcome carries unmatched entries.
func HasUnmatched(outcomes []*models.TransferOutcome) bool {
	for _, o := range outcomes {
		if o != nil && len(o.Unmatched) > 0 {
			return true
		}
	}
	return false
}
