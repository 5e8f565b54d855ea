package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Trace around the inspected iteration
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nNearby trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %q\n", event.Iteration, event.Rule, event.Token)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion against the result and returns
// the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(result.Trace, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(trace []TraceEvent, a Assertion) error {
	switch a.Type {
	case AssertTokenAt:
		return assertTokenAt(trace, a)
	case AssertWinnerAt:
		return assertWinnerAt(trace, a)
	case AssertTokenCount:
		return assertTokenCount(trace, a)
	case AssertSilent:
		return assertSilent(trace, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// assertTokenAt checks the token emitted at an iteration.
func assertTokenAt(trace []TraceEvent, a Assertion) error {
	event, ok := tokenAt(trace, a.Iteration)
	if !ok {
		return &AssertionError{
			Type:     AssertTokenAt,
			Expected: fmt.Sprintf("iteration %d emits %q", a.Iteration, a.Token),
			Actual:   "iteration was silent",
			Trace:    nearby(trace, a.Iteration),
		}
	}
	if event.Token != a.Token {
		return &AssertionError{
			Type:     AssertTokenAt,
			Expected: fmt.Sprintf("iteration %d emits %q", a.Iteration, a.Token),
			Actual:   fmt.Sprintf("%q (rule %s)", event.Token, event.Rule),
			Trace:    nearby(trace, a.Iteration),
		}
	}
	return nil
}

// assertWinnerAt checks which rule won an iteration.
func assertWinnerAt(trace []TraceEvent, a Assertion) error {
	event, ok := tokenAt(trace, a.Iteration)
	actual := "iteration was silent"
	if ok {
		if event.Rule == a.Rule {
			return nil
		}
		actual = fmt.Sprintf("won by %s with %q", event.Rule, event.Token)
	}
	return &AssertionError{
		Type:     AssertWinnerAt,
		Expected: fmt.Sprintf("iteration %d won by %s", a.Iteration, a.Rule),
		Actual:   actual,
		Trace:    nearby(trace, a.Iteration),
	}
}

// assertTokenCount checks how often a token was emitted.
func assertTokenCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Token == a.Token {
			count++
		}
	}

	if count != *a.Count {
		return &AssertionError{
			Type:     AssertTokenCount,
			Expected: fmt.Sprintf("token %q emitted %d times", a.Token, *a.Count),
			Actual:   fmt.Sprintf("emitted %d times", count),
		}
	}
	return nil
}

// assertSilent checks that no rule matched an iteration.
func assertSilent(trace []TraceEvent, a Assertion) error {
	event, ok := tokenAt(trace, a.Iteration)
	if !ok {
		return nil
	}
	return &AssertionError{
		Type:     AssertSilent,
		Expected: fmt.Sprintf("iteration %d is silent", a.Iteration),
		Actual:   fmt.Sprintf("%q (rule %s)", event.Token, event.Rule),
		Trace:    nearby(trace, a.Iteration),
	}
}

// tokenAt finds the event for an iteration. The trace is sorted by
// iteration.
func tokenAt(trace []TraceEvent, iteration uint32) (TraceEvent, bool) {
	idx, found := slices.BinarySearchFunc(trace, iteration, func(e TraceEvent, i uint32) int {
		switch {
		case e.Iteration < i:
			return -1
		case e.Iteration > i:
			return 1
		default:
			return 0
		}
	})
	if !found {
		return TraceEvent{}, false
	}
	return trace[idx], true
}

// nearby returns up to two events on either side of an iteration.
func nearby(trace []TraceEvent, iteration uint32) []TraceEvent {
	var out []TraceEvent
	for _, event := range trace {
		if event.Iteration+2 >= iteration && event.Iteration <= iteration+2 {
			out = append(out, event)
		}
	}
	return out
}

// sortedIterations returns the keys of an expect.tokens map in order.
func sortedIterations(tokens map[uint32]string) []uint32 {
	keys := make([]uint32, 0, len(tokens))
	for k := range tokens {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
