package compiler

import (
	"fmt"
	"math"

	"github.com/roach88/lightcone/internal/ir"
)

// Validation error codes (E120-E129)
const (
	ErrInvalidLevel     = "E120" // unknown consistency level
	ErrDuplicateEventID = "E121" // two events share an id
	ErrUnknownClient    = "E122" // clientPid is not A or B
	ErrUnknownOperation = "E123" // clientOperation is not READ, WRITE or CAS
	ErrOperandMismatch  = "E124" // CAS without a pair, or READ/WRITE with one
	ErrNonFiniteTime    = "E125" // NaN or Inf timestamp
	ErrAckBeforeSend    = "E126" // clientAck < clientSend
	ErrNegativeTime     = "E127" // timestamp below zero
)

// ValidationError represents a history validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	EventID *int   `json:"event_id,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.EventID != nil {
		return fmt.Sprintf("[%s] event %d: %s: %s", e.Code, *e.EventID, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a history at ingestion. It returns all errors found
// (does not fail-fast). Histories decoded from YAML or built in Go skip
// the CUE schema, so every constraint the schema expresses is repeated here.
func Validate(h ir.History) []ValidationError {
	var errs []ValidationError

	if !h.Level.Valid() {
		errs = append(errs, ValidationError{
			Field:   "consistencyLevel",
			Message: fmt.Sprintf("unknown consistency level %q", h.Level),
			Code:    ErrInvalidLevel,
		})
	}

	seen := make(map[int]bool, len(h.Events))
	for _, e := range h.Events {
		errs = append(errs, validateEvent(e)...)

		if seen[e.ID] {
			errs = append(errs, eventError(e.ID, "id", ErrDuplicateEventID,
				"duplicate event id"))
		}
		seen[e.ID] = true
	}

	return errs
}

func validateEvent(e ir.Event) []ValidationError {
	var errs []ValidationError

	if !e.Client.Valid() {
		errs = append(errs, eventError(e.ID, "clientPid", ErrUnknownClient,
			fmt.Sprintf("unknown client %d", int(e.Client))))
	}

	if !ir.ValidOperations[e.Op] {
		errs = append(errs, eventError(e.ID, "clientOperation", ErrUnknownOperation,
			fmt.Sprintf("unknown operation %q", e.Op)))
	} else if (e.Op == ir.OpCAS) != e.Value.IsPair() {
		msg := "READ and WRITE take a single integer operand"
		if e.Op == ir.OpCAS {
			msg = "CAS takes an [expected, new] operand"
		}
		errs = append(errs, eventError(e.ID, "opValue", ErrOperandMismatch, msg))
	}

	finite := true
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"clientSend", e.ClientSend},
		{"clientAck", e.ClientAck},
		{"systemTime", e.SystemTime},
	} {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			finite = false
			errs = append(errs, eventError(e.ID, f.name, ErrNonFiniteTime,
				fmt.Sprintf("%s must be finite, got %v", f.name, f.val)))
			continue
		}
		if f.val < 0 {
			errs = append(errs, eventError(e.ID, f.name, ErrNegativeTime,
				fmt.Sprintf("%s must be >= 0, got %v", f.name, f.val)))
		}
	}

	if finite && e.ClientAck < e.ClientSend {
		errs = append(errs, eventError(e.ID, "clientAck", ErrAckBeforeSend,
			fmt.Sprintf("clientAck %v precedes clientSend %v", e.ClientAck, e.ClientSend)))
	}

	return errs
}

func eventError(id int, field, code, msg string) ValidationError {
	return ValidationError{Field: field, Message: msg, Code: code, EventID: &id}
}
