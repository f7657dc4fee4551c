package consistency

import (
	"fmt"

	"github.com/roach88/lightcone/internal/ir"
)

// Validator decides whether a history satisfies one consistency level.
type Validator func(ir.Events) bool

// Validators maps each level to its predicate.
var Validators = map[ir.ConsistencyLevel]Validator{
	ir.Linearizable: Linearizable,
	ir.Sequential:   Sequential,
	ir.Serializable: Serializable,
}

// Validate reports whether events satisfy level. Unknown levels are never
// satisfied.
func Validate(events ir.Events, level ir.ConsistencyLevel) bool {
	v, ok := Validators[level]
	if !ok {
		return false
	}
	return v(events)
}

// Linearizable requires every event, in system-time order, to be one of:
// a WRITE that took effect no later than its ack; a READ that returned the
// register value; a CAS whose expected value matched and that took effect
// no later than its ack.
func Linearizable(events ir.Events) bool {
	return len(linearizabilityViolations(events)) == 0
}

// Sequential requires each client's events to take effect in the order the
// client sent them. Values and cross-client timing are not checked.
func Sequential(events ir.Events) bool {
	return len(sequentialViolations(events)) == 0
}

// Serializable requires every CAS's expected value to match the register
// value in system-time order. READ and WRITE impose nothing.
func Serializable(events ir.Events) bool {
	return len(serializabilityViolations(events)) == 0
}

// Rule names a violated constraint in a Report.
type Rule string

const (
	RuleWriteAfterAck Rule = "write_after_ack"
	RuleCASAfterAck   Rule = "cas_after_ack"
	RuleStaleRead     Rule = "stale_read"
	RuleCASMismatch   Rule = "cas_mismatch"
	RuleProgramOrder  Rule = "program_order"
	RuleUnknownLevel  Rule = "unknown_level"
)

// Violation explains why one event breaks a level.
type Violation struct {
	EventID int    `json:"event_id"`
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

// Report is a validator verdict plus the reasons behind it.
type Report struct {
	Level      ir.ConsistencyLevel `json:"level"`
	Valid      bool                `json:"valid"`
	Violations []Violation         `json:"violations,omitempty"`
}

// Check evaluates events against level and explains any failure.
// Check(events, l).Valid == Validate(events, l) for every level.
func Check(events ir.Events, level ir.ConsistencyLevel) Report {
	var violations []Violation
	switch level {
	case ir.Linearizable:
		violations = linearizabilityViolations(events)
	case ir.Sequential:
		violations = sequentialViolations(events)
	case ir.Serializable:
		violations = serializabilityViolations(events)
	default:
		violations = []Violation{{
			EventID: -1,
			Rule:    RuleUnknownLevel,
			Message: fmt.Sprintf("unknown consistency level %q", level),
		}}
	}
	return Report{Level: level, Valid: len(violations) == 0, Violations: violations}
}

// CheckAll evaluates every level in presentation order.
func CheckAll(events ir.Events) []Report {
	reports := make([]Report, 0, len(ir.ConsistencyLevels))
	for _, level := range ir.ConsistencyLevels {
		reports = append(reports, Check(events, level))
	}
	return reports
}

func linearizabilityViolations(events ir.Events) []Violation {
	ordered := events.BySystemTime()
	values := storeValues(ordered)

	var out []Violation
	for i, e := range ordered {
		switch e.Op {
		case ir.OpWrite:
			if e.SystemTime > e.ClientAck {
				out = append(out, Violation{e.ID, RuleWriteAfterAck,
					fmt.Sprintf("WRITE(%d) takes effect at %g, after its ack at %g", e.Value.Value, e.SystemTime, e.ClientAck)})
			}
		case ir.OpRead:
			if e.Value.Value != values[i] {
				out = append(out, Violation{e.ID, RuleStaleRead,
					fmt.Sprintf("READ returned %d but the register held %d", e.Value.Value, values[i])})
			}
		case ir.OpCAS:
			if e.Value.Expected != values[i] {
				out = append(out, casMismatch(e, values[i]))
			}
			if e.SystemTime > e.ClientAck {
				out = append(out, Violation{e.ID, RuleCASAfterAck,
					fmt.Sprintf("CAS takes effect at %g, after its ack at %g", e.SystemTime, e.ClientAck)})
			}
		}
	}
	return out
}

func sequentialViolations(events ir.Events) []Violation {
	var out []Violation
	for _, client := range ir.Clients {
		own := events.ForClient(client)
		bySystem := own.BySystemTime()
		bySend := own.ByClientSend()

		for i := range bySystem {
			if bySystem[i].ID != bySend[i].ID {
				out = append(out, Violation{bySystem[i].ID, RuleProgramOrder,
					fmt.Sprintf("client %s sent event %d before event %d but the system applied them in the opposite order",
						client, bySend[i].ID, bySystem[i].ID)})
				break
			}
		}
	}
	return out
}

func serializabilityViolations(events ir.Events) []Violation {
	ordered := events.BySystemTime()
	values := storeValues(ordered)

	var out []Violation
	for i, e := range ordered {
		if e.Op == ir.OpCAS && e.Value.Expected != values[i] {
			out = append(out, casMismatch(e, values[i]))
		}
	}
	return out
}

func casMismatch(e ir.Event, held int64) Violation {
	return Violation{e.ID, RuleCASMismatch,
		fmt.Sprintf("CAS expected %d but the register held %d", e.Value.Expected, held)}
}
