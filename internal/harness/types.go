package harness

import "github.com/roach88/lightcone/internal/session"

// TraceEvent records one step and what the session did with it.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	Step     int    `json:"step"`
	Signal   string `json:"signal"`
	Applied  bool   `json:"applied"`
	Revision int64  `json:"revision"`

	// Decision is set for drag steps.
	Decision string `json:"decision,omitempty"`

	// Error is set when the session rejected the step.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace holds one entry per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`

	// Final is the session state after the last step.
	Final *session.Snapshot `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step record.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
