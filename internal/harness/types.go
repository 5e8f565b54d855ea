package harness

// TraceEvent records the formatted token one iteration emitted.
// Silent iterations produce no event.
type TraceEvent struct {
	Iteration uint32 `json:"iteration"`
	Rule      string `json:"rule"`
	Token     string `json:"token"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions match.
	Pass bool `json:"pass"`

	// RunID is the fixed id the run was tagged with.
	RunID string `json:"run_id"`

	// Output is the joined, formatted output of the run.
	Output string `json:"output"`

	// Trace contains one event per emitted token, in iteration order.
	Trace []TraceEvent `json:"trace"`

	// RunError is the engine error the run stopped with, if any.
	RunError string `json:"run_error,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult(runID string) *Result {
	return &Result{
		Pass:   true,
		RunID:  runID,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an emitted token to the trace.
func (r *Result) AddTrace(iteration uint32, rule, token string) {
	r.Trace = append(r.Trace, TraceEvent{
		Iteration: iteration,
		Rule:      rule,
		Token:     token,
	})
}
