package harness

import (
	"github.com/roach88/trackbake/internal/diag"
	"github.com/roach88/trackbake/internal/merge"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Success reports whether the merge produced a clip.
	Success bool `json:"success"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Logs are the merge log entries in order.
	Logs []string `json:"logs"`

	// Events are the sink calls made during the merge.
	Events []diag.Event `json:"events"`

	// Clip is the baked clip as read back from the store; nil when the
	// merge produced nothing.
	Clip *merge.BakedClip `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
		Logs:   []string{},
		Events: []diag.Event{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
