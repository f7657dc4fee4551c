package compiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lightcone/internal/ir"
	"github.com/roach88/lightcone/internal/testutil"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateSample(t *testing.T) {
	assert.Empty(t, Validate(testutil.SampleHistory()))
}

func TestValidateLevel(t *testing.T) {
	h := testutil.SampleHistory().WithLevel("strict")
	errs := Validate(h)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrInvalidLevel, errs[0].Code)
	assert.Nil(t, errs[0].EventID)
}

func TestValidateEventErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ir.Event)
		code   string
	}{
		{"unknown client", func(e *ir.Event) { e.Client = ir.ClientID(7) }, ErrUnknownClient},
		{"unknown operation", func(e *ir.Event) { e.Op = "DELETE" }, ErrUnknownOperation},
		{"CAS without pair", func(e *ir.Event) { e.Op = ir.OpCAS }, ErrOperandMismatch},
		{"WRITE with pair", func(e *ir.Event) { e.Value = ir.CASOf(1, 2) }, ErrOperandMismatch},
		{"NaN time", func(e *ir.Event) { e.SystemTime = math.NaN() }, ErrNonFiniteTime},
		{"Inf ack", func(e *ir.Event) { e.ClientAck = math.Inf(1) }, ErrNonFiniteTime},
		{"ack before send", func(e *ir.Event) { e.ClientAck = -1; e.ClientSend = 0 }, ErrAckBeforeSend},
		{"negative time", func(e *ir.Event) { e.SystemTime = -2 }, ErrNegativeTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testutil.SampleHistory()
			tt.mutate(&h.Events[0])

			errs := Validate(h)
			require.NotEmpty(t, errs)
			assert.Contains(t, codes(errs), tt.code)
			require.NotNil(t, errs[0].EventID)
			assert.Equal(t, 0, *errs[0].EventID)
		})
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	h := testutil.SampleHistory()
	h.Events[3].ID = 1

	errs := Validate(h)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateEventID, errs[0].Code)
	assert.Equal(t, 1, *errs[0].EventID)
}

func TestValidateCollectsAll(t *testing.T) {
	h := testutil.SampleHistory().WithLevel("nope")
	h.Events[0].SystemTime = math.NaN()
	h.Events[1].Op = "NOOP"

	assert.GreaterOrEqual(t, len(Validate(h)), 3)
}

func TestValidationErrorFormat(t *testing.T) {
	id := 3
	assert.Equal(t, "[E126] event 3: clientAck: ack before send",
		ValidationError{Field: "clientAck", Message: "ack before send", Code: ErrAckBeforeSend, EventID: &id}.Error())
	assert.Equal(t, "[E120] consistencyLevel: bad",
		ValidationError{Field: "consistencyLevel", Message: "bad", Code: ErrInvalidLevel}.Error())
}
