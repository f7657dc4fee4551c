package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lightcone/internal/compiler"
	"github.com/roach88/lightcone/internal/testutil"
)

type verdictText struct{ valid bool }

func (v verdictText) WriteText(w io.Writer) {
	fmt.Fprintf(w, "linearizable: %s\n", verdictWord(v.valid))
}

func newTestFormatter(format string, verbose bool) (*OutputFormatter, *bytes.Buffer, *bytes.Buffer) {
	out, diag := &bytes.Buffer{}, &bytes.Buffer{}
	return &OutputFormatter{Format: format, Writer: out, ErrWriter: diag, Verbose: verbose}, out, diag
}

func decodeResponse(t *testing.T, data []byte) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	f, out, _ := newTestFormatter("json", false)
	require.NoError(t, f.Success(verdictText{valid: true}))

	resp := decodeResponse(t, out.Bytes())
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.NotContains(t, out.String(), "linearizable:", "json mode ignores WriteText")
}

func TestOutputFormatter_JSONError(t *testing.T) {
	id := 3
	validation := []compiler.ValidationError{{EventID: &id, Field: "clientAck", Code: "E126", Message: "clientAck must be >= clientSend"}}

	f, out, _ := newTestFormatter("json", false)
	require.NoError(t, f.Error(ErrCodeInvalidInput, "history late_write is invalid", validation))

	resp := decodeResponse(t, out.Bytes())
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidInput, resp.Error.Code)
	assert.Equal(t, "history late_write is invalid", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
	assert.Contains(t, out.String(), ">= clientSend", "HTML escaping is off")
}

func TestOutputFormatter_JSONOneResponsePerLine(t *testing.T) {
	f, out, _ := newTestFormatter("json", false)
	require.NoError(t, f.Success(map[string]int{"final": 4}))
	require.NoError(t, f.Error(ErrCodeNotFound, "no such history", nil))

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, "ok", decodeResponse(t, lines[0]).Status)
	assert.Equal(t, "error", decodeResponse(t, lines[1]).Status)
}

func TestOutputFormatter_Text(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{"text writer", verdictText{valid: false}, "linearizable: invalid\n"},
		{"plain value", "sample is valid", "sample is valid\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, out, _ := newTestFormatter("text", false)
			require.NoError(t, f.Success(tt.data))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestOutputFormatter_TextError(t *testing.T) {
	details := map[string]string{"file": "histories/late_write.cue"}

	f, out, _ := newTestFormatter("text", false)
	require.NoError(t, f.Error(ErrCodeLoadFailed, "history load failed", details))
	assert.Equal(t, "Error [E004]: history load failed\n", out.String())

	f, out, _ = newTestFormatter("text", true)
	require.NoError(t, f.Error(ErrCodeLoadFailed, "history load failed", details))
	assert.Contains(t, out.String(), "Error [E004]")
	assert.Contains(t, out.String(), "Details: map[file:histories/late_write.cue]")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	f, out, diag := newTestFormatter("json", true)
	f.VerboseLog("Loaded %d history(ies)", 2)
	assert.Empty(t, out.String(), "diagnostics never reach stdout")
	assert.Equal(t, "Loaded 2 history(ies)\n", diag.String())

	f, out, diag = newTestFormatter("text", false)
	f.VerboseLog("Loaded %d history(ies)", 2)
	assert.Empty(t, out.String())
	assert.Empty(t, diag.String())

	buf := &bytes.Buffer{}
	f = &OutputFormatter{Format: "text", Writer: buf, Verbose: true}
	f.VerboseLog("hash %s", "abc")
	assert.Equal(t, "hash abc\n", buf.String(), "falls back to Writer")
}

func TestOutputFormatter_TraceID(t *testing.T) {
	f, out, _ := newTestFormatter("json", false)
	f.Traces = testutil.NewFixedTraceGenerator("trace-1")

	require.NoError(t, f.Success(map[string]bool{"valid": true}))
	require.NoError(t, f.Error(ErrCodeNotFound, "not found", nil))

	dec := json.NewDecoder(out)
	for _, status := range []string{"ok", "error"} {
		var resp CLIResponse
		require.NoError(t, dec.Decode(&resp))
		assert.Equal(t, status, resp.Status)
		assert.Equal(t, "trace-1", resp.TraceID)
	}
}

func TestOutputFormatter_NoTraceGenerator(t *testing.T) {
	f, out, _ := newTestFormatter("json", false)
	require.NoError(t, f.Success("x"))
	assert.NotContains(t, out.String(), "trace_id")
}

func TestUUIDv7Generator(t *testing.T) {
	traces := UUIDv7Generator{}
	a, b := traces.Generate(), traces.Generate()

	id, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.NotEqual(t, a, b)
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("unknown flag: --stretchh"), ExitFailure},
		{"command error", NewExitError(ExitCommandError, "bad path"), ExitCommandError},
		{"wrapped", fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "invalid", errors.New("inner"))), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitError(t *testing.T) {
	inner := errors.New("stale_read")
	err := WrapExitError(ExitFailure, "history invalid", inner)
	assert.Equal(t, "history invalid: stale_read", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "drag suppressed", NewExitError(ExitFailure, "drag suppressed").Error())
}
