package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/lightcone/internal/consistency"
	"github.com/roach88/lightcone/internal/ir"
	"github.com/roach88/lightcone/internal/session"
)

// Default tolerances when an assertion sets none.
const (
	defaultTimeTolerance     = 1e-9
	defaultVelocityTolerance = 1e-4
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s", ev.Seq, ev.Signal)
			if ev.Decision != "" {
				fmt.Fprintf(&buf, " -> %s", ev.Decision)
			}
			if ev.Error != "" {
				fmt.Fprintf(&buf, " !! %s", ev.Error)
			}
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against the result's final
// snapshot and trace. It returns one message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	for i, a := range assertions {
		var err error
		if result.Final == nil {
			err = fmt.Errorf("assertion[%d]: no final snapshot", i)
		} else {
			switch a.Type {
			case AssertValid:
				err = assertValid(result.Final, a)
			case AssertSystemTime:
				err = assertSystemTime(result.Final, a)
			case AssertStoreValues:
				err = assertStoreValues(result.Final, a)
			case AssertVelocity:
				err = assertVelocity(result.Final, a)
			case AssertDecision:
				err = assertDecision(result.Trace, a)
			default:
				err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
			}
		}

		if ae, ok := err.(*AssertionError); ok {
			ae.Trace = result.Trace
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func frameEvents(snap *session.Snapshot, frame string) ir.Events {
	if frame == FrameBoosted {
		return snap.Boosted
	}
	return snap.History.Events
}

func frameName(frame string) string {
	if frame == "" {
		return FrameRest
	}
	return frame
}

func assertValid(snap *session.Snapshot, a Assertion) error {
	var want bool
	if err := a.Expect.Decode(&want); err != nil {
		return fmt.Errorf("valid: expect must be a bool: %w", err)
	}

	level := a.Level
	if level == "" {
		level = snap.History.Level
	}
	report := consistency.Check(frameEvents(snap, a.Frame), level)
	if report.Valid == want {
		return nil
	}

	actual := fmt.Sprintf("%s %s frame valid=%t", level, frameName(a.Frame), report.Valid)
	if len(report.Violations) > 0 {
		v := report.Violations[0]
		actual += fmt.Sprintf(" (first violation: event %d %s: %s)", v.EventID, v.Rule, v.Message)
	}
	return &AssertionError{
		Type:     AssertValid,
		Expected: fmt.Sprintf("%s %s frame valid=%t", level, frameName(a.Frame), want),
		Actual:   actual,
	}
}

func assertSystemTime(snap *session.Snapshot, a Assertion) error {
	var want float64
	if err := a.Expect.Decode(&want); err != nil {
		return fmt.Errorf("system_time: expect must be a number: %w", err)
	}

	events := frameEvents(snap, a.Frame)
	i := events.IndexOf(*a.Event)
	if i < 0 {
		return &AssertionError{
			Type:     AssertSystemTime,
			Expected: fmt.Sprintf("event %d", *a.Event),
			Actual:   fmt.Sprintf("no such event (ids %v)", events.IDs()),
		}
	}

	tol := a.Tolerance
	if tol == 0 {
		tol = defaultTimeTolerance
	}
	got := events[i].SystemTime
	if math.Abs(got-want) <= tol {
		return nil
	}
	return &AssertionError{
		Type:     AssertSystemTime,
		Expected: fmt.Sprintf("event %d at t=%g (±%g) in %s frame", *a.Event, want, tol, frameName(a.Frame)),
		Actual:   fmt.Sprintf("t=%g", got),
	}
}

func assertStoreValues(snap *session.Snapshot, a Assertion) error {
	var want []int64
	if err := a.Expect.Decode(&want); err != nil {
		return fmt.Errorf("store_values: expect must be a list of integers: %w", err)
	}

	got := consistency.StoreValues(frameEvents(snap, a.Frame))
	if int64sEqual(got, want) {
		return nil
	}
	return &AssertionError{
		Type:     AssertStoreValues,
		Expected: fmt.Sprintf("%v in %s frame", want, frameName(a.Frame)),
		Actual:   fmt.Sprintf("%v", got),
	}
}

func assertVelocity(snap *session.Snapshot, a Assertion) error {
	var want float64
	if err := a.Expect.Decode(&want); err != nil {
		return fmt.Errorf("velocity: expect must be a number: %w", err)
	}

	tol := a.Tolerance
	if tol == 0 {
		tol = defaultVelocityTolerance
	}
	got := float64(snap.Velocity)
	if math.Abs(got-want) <= tol {
		return nil
	}
	return &AssertionError{
		Type:     AssertVelocity,
		Expected: fmt.Sprintf("%.4f (±%g)", want, tol),
		Actual:   snap.Velocity.String(),
	}
}

func assertDecision(trace []TraceEvent, a Assertion) error {
	var want string
	if err := a.Expect.Decode(&want); err != nil {
		return fmt.Errorf("decision: expect must be a string: %w", err)
	}

	for _, ev := range trace {
		if ev.Step != *a.Step {
			continue
		}
		if ev.Decision == want {
			return nil
		}
		actual := ev.Decision
		if actual == "" {
			actual = "no decision"
			if ev.Error != "" {
				actual += ": " + ev.Error
			}
		}
		return &AssertionError{
			Type:     AssertDecision,
			Expected: fmt.Sprintf("step %d %s", *a.Step, want),
			Actual:   actual,
		}
	}
	return fmt.Errorf("decision: step %d not in trace", *a.Step)
}

func int64sEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
