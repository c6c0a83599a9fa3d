package domain

import "fmt"

const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// FailurePolicy decides what a relay does after one message in a batch fails.
type FailurePolicy string

const (
	// AbortOnFailure stops at the first failed message; later entries are skipped.
	AbortOnFailure FailurePolicy = "abort"
	// ContinueOnFailure attempts every entry and reports the first failure.
	ContinueOnFailure FailurePolicy = "continue"
)

// ParseFailurePolicy maps a config value to a policy, defaulting to AbortOnFailure.
func ParseFailurePolicy(v string) (FailurePolicy, error) {
	switch FailurePolicy(v) {
	case "", AbortOnFailure:
		return AbortOnFailure, nil
	case ContinueOnFailure:
		return ContinueOnFailure, nil
	}
	return AbortOnFailure, fmt.Errorf("unknown failure policy %q", v)
}

// Outcome is the delivery result for a single batch entry.
type Outcome struct {
	Index      int        `json:"index"`
	Recipients Recipients `json:"recipients"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
}

// BatchResult holds one Outcome per entry, in input order.
type BatchResult struct {
	Outcomes []Outcome `json:"outcomes"`
}

// NewBatchResult returns a result with every entry marked skipped.
func NewBatchResult(batch []SendRequest) BatchResult {
	outcomes := make([]Outcome, len(batch))
	for i, req := range batch {
		outcomes[i] = Outcome{Index: i, Recipients: req.Recipients, Status: StatusSkipped}
	}
	return BatchResult{Outcomes: outcomes}
}

func (r BatchResult) count(status string) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

func (r BatchResult) Sent() int    { return r.count(StatusSent) }
func (r BatchResult) Failed() int  { return r.count(StatusFailed) }
func (r BatchResult) Skipped() int { return r.count(StatusSkipped) }

// FailedIndices lists the entries whose transmission was attempted and failed.
func (r BatchResult) FailedIndices() []int {
	out := make([]int, 0)
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			out = append(out, o.Index)
		}
	}
	return out
}
