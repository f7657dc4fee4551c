package compiler

import (
	"errors"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lightcone/internal/ir"
	"github.com/roach88/lightcone/internal/testutil"
)

const sampleCUE = `
history: sample: {
	events: [
		{id: 0, clientPid: "A", clientOperation: "WRITE", opValue: 3, clientSend: 0, clientAck: 10, systemTime: 5},
		{id: 1, clientPid: "A", clientOperation: "READ", opValue: 3, clientSend: 15, clientAck: 23, systemTime: 18},
		{id: 2, clientPid: "B", clientOperation: "WRITE", opValue: 2, clientSend: 25, clientAck: 40, systemTime: 30},
		{id: 3, clientPid: "A", clientOperation: "CAS", opValue: [2, 3], clientSend: 30, clientAck: 40, systemTime: 35},
		{id: 4, clientPid: "A", clientOperation: "WRITE", opValue: 4, clientSend: 60, clientAck: 80, systemTime: 65},
	]
}
`

func compileOne(t *testing.T, src, path string) (*ir.History, error) {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	require.NoError(t, v.Err())
	return CompileHistory(v.LookupPath(cue.ParsePath(path)))
}

func TestCompileHistorySample(t *testing.T) {
	h, err := compileOne(t, sampleCUE, "history.sample")
	require.NoError(t, err)

	assert.Equal(t, "sample", h.Name)
	assert.Equal(t, ir.Linearizable, h.Level, "level defaults to linearizable")
	assert.Equal(t, testutil.SampleEvents(), h.Events)
}

func TestCompileHistoryExplicitLevel(t *testing.T) {
	h, err := compileOne(t, `
		history: h: {
			consistencyLevel: "sequential"
			events: [{id: 0, clientPid: "B", clientOperation: "READ", opValue: 0, clientSend: 1.5, clientAck: 2.5, systemTime: 2}]
		}
	`, "history.h")
	require.NoError(t, err)
	assert.Equal(t, ir.Sequential, h.Level)
	require.Len(t, h.Events, 1)
	assert.Equal(t, 1.5, h.Events[0].ClientSend)
	assert.Equal(t, ir.ClientB, h.Events[0].Client)
}

func TestCompileHistoryEmptyEvents(t *testing.T) {
	h, err := compileOne(t, `history: empty: {events: []}`, "history.empty")
	require.NoError(t, err)
	assert.Empty(t, h.Events)
}

func TestCompileHistorySchemaErrors(t *testing.T) {
	tests := []struct {
		name  string
		event string
	}{
		{"ack before send", `{id: 0, clientPid: "A", clientOperation: "WRITE", opValue: 1, clientSend: 10, clientAck: 5, systemTime: 7}`},
		{"unknown client", `{id: 0, clientPid: "C", clientOperation: "WRITE", opValue: 1, clientSend: 0, clientAck: 5, systemTime: 3}`},
		{"unknown operation", `{id: 0, clientPid: "A", clientOperation: "DELETE", opValue: 1, clientSend: 0, clientAck: 5, systemTime: 3}`},
		{"CAS with scalar", `{id: 0, clientPid: "A", clientOperation: "CAS", opValue: 1, clientSend: 0, clientAck: 5, systemTime: 3}`},
		{"WRITE with pair", `{id: 0, clientPid: "A", clientOperation: "WRITE", opValue: [1, 2], clientSend: 0, clientAck: 5, systemTime: 3}`},
		{"negative time", `{id: 0, clientPid: "A", clientOperation: "WRITE", opValue: 1, clientSend: 0, clientAck: 5, systemTime: -3}`},
		{"missing field", `{id: 0, clientPid: "A", clientOperation: "WRITE", opValue: 1, clientSend: 0, clientAck: 5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileOne(t, "history: bad: {events: ["+tt.event+"]}", "history.bad")
			require.Error(t, err)
		})
	}
}

func TestCompileHistoryErrorHasPosition(t *testing.T) {
	_, err := compileOne(t, `history: bad: {
	events: [{id: 0, clientPid: "A", clientOperation: "WRITE", opValue: 1, clientSend: 10, clientAck: 5, systemTime: 7}]
}`, "history.bad")
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce), "want *CompileError, got %T", err)
	assert.True(t, ce.Pos.IsValid())
}

func TestCompileHistoryInvalidLevel(t *testing.T) {
	_, err := compileOne(t, `history: h: {consistencyLevel: "strict", events: []}`, "history.h")
	assert.Error(t, err)
}

func TestCompileHistoriesSortedByName(t *testing.T) {
	v := cuecontext.New().CompileString(`
		history: zeta: {events: []}
		history: alpha: {events: []}
		history: mid: {consistencyLevel: "serializable", events: []}
	`)
	require.NoError(t, v.Err())

	hs, err := CompileHistories(v)
	require.NoError(t, err)
	require.Len(t, hs, 3)
	assert.Equal(t, "alpha", hs[0].Name)
	assert.Equal(t, "mid", hs[1].Name)
	assert.Equal(t, ir.Serializable, hs[1].Level)
	assert.Equal(t, "zeta", hs[2].Name)
}

func TestCompileHistoriesMissingField(t *testing.T) {
	v := cuecontext.New().CompileString(`other: 1`)
	_, err := CompileHistories(v)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "history", ce.Field)
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "opValue", Message: "CAS operand needs 2 elements, got 3"}
	assert.Equal(t, "opValue: CAS operand needs 2 elements, got 3", err.Error())
}

func TestSchemaExists(t *testing.T) {
	s := Schema(cuecontext.New())
	require.NoError(t, s.Err())
	assert.True(t, s.Exists())
}
