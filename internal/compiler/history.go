package compiler

import (
	_ "embed"
	"fmt"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/lightcone/internal/ir"
)

//go:embed schema.cue
var schemaSource string

// Schema returns the #History definition compiled in v's context.
// History values must be unified with it before they are compiled.
func Schema(ctx *cue.Context) cue.Value {
	return ctx.CompileString(schemaSource, cue.Filename("schema.cue")).
		LookupPath(cue.ParsePath("#History"))
}

// CompileHistory parses a CUE value into an ir.History.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the history struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`history: sample: { events: [...] }`)
//	h, err := CompileHistory(v.LookupPath(cue.ParsePath("history.sample")))
//
// The value is unified with the embedded schema first, so constraints such
// as clientAck >= clientSend are reported with source positions.
func CompileHistory(v cue.Value) (*ir.History, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := v.Unify(Schema(v.Context()))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	h := &ir.History{}

	// Parse history name from struct label (the path selector)
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		h.Name = labels[len(labels)-1].String()
	}

	level, err := unified.LookupPath(cue.ParsePath("consistencyLevel")).String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	h.Level = ir.ConsistencyLevel(level)

	h.Events, err = parseEvents(unified.LookupPath(cue.ParsePath("events")))
	if err != nil {
		return nil, err
	}

	return h, nil
}

// CompileHistories compiles every history under the "history" field of v,
// sorted by name for deterministic output.
func CompileHistories(v cue.Value) ([]ir.History, error) {
	historiesVal := v.LookupPath(cue.ParsePath("history"))
	if !historiesVal.Exists() {
		return nil, &CompileError{
			Field:   "history",
			Message: "no history field found",
			Pos:     v.Pos(),
		}
	}

	iter, err := historiesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []ir.History
	for iter.Next() {
		h, err := CompileHistory(iter.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func parseEvents(v cue.Value) (ir.Events, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var events ir.Events
	for iter.Next() {
		e, err := parseEvent(iter.Value())
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func parseEvent(v cue.Value) (ir.Event, error) {
	var e ir.Event

	id, err := v.LookupPath(cue.ParsePath("id")).Int64()
	if err != nil {
		return e, formatCUEError(err)
	}
	e.ID = int(id)

	pid, err := v.LookupPath(cue.ParsePath("clientPid")).String()
	if err != nil {
		return e, formatCUEError(err)
	}
	if e.Client, err = ir.ParseClientID(pid); err != nil {
		return e, &CompileError{Field: "clientPid", Message: err.Error(), Pos: v.Pos()}
	}

	op, err := v.LookupPath(cue.ParsePath("clientOperation")).String()
	if err != nil {
		return e, formatCUEError(err)
	}
	e.Op = ir.Operation(op)

	e.Value, err = parseOperand(v.LookupPath(cue.ParsePath("opValue")))
	if err != nil {
		return e, err
	}

	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"clientSend", &e.ClientSend},
		{"clientAck", &e.ClientAck},
		{"systemTime", &e.SystemTime},
	} {
		val, err := v.LookupPath(cue.ParsePath(f.name)).Float64()
		if err != nil {
			return e, formatCUEError(err)
		}
		*f.dst = val
	}

	return e, nil
}

// parseOperand accepts an integer (READ/WRITE) or a two-element list (CAS).
func parseOperand(v cue.Value) (ir.OpValue, error) {
	if v.IncompleteKind() != cue.ListKind {
		n, err := v.Int64()
		if err != nil {
			return ir.OpValue{}, formatCUEError(err)
		}
		return ir.OpValue{Value: n}, nil
	}

	iter, err := v.List()
	if err != nil {
		return ir.OpValue{}, formatCUEError(err)
	}
	var pair []int64
	for iter.Next() {
		n, err := iter.Value().Int64()
		if err != nil {
			return ir.OpValue{}, formatCUEError(err)
		}
		pair = append(pair, n)
	}
	if len(pair) != 2 {
		return ir.OpValue{}, &CompileError{
			Field:   "opValue",
			Message: fmt.Sprintf("CAS operand needs 2 elements, got %d", len(pair)),
			Pos:     v.Pos(),
		}
	}
	return ir.CASOf(pair[0], pair[1]), nil
}

// CompileError is returned when a history definition cannot be compiled.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
