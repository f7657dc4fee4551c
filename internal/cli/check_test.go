package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lightcone/internal/compiler"
	"github.com/roach88/lightcone/internal/consistency"
	"github.com/roach88/lightcone/internal/ir"
)

func TestCheckSampleText(t *testing.T) {
	out, _, err := execute(t, "", "check", "--sample")
	require.NoError(t, err)
	assert.Contains(t, out, "sample (linearizable)")
	assert.Contains(t, out, "✓ Linearizable")
	assert.Contains(t, out, "✓ Sequential")
	assert.Contains(t, out, "✓ Serializable")
}

func TestCheckSampleJSON(t *testing.T) {
	out, _, err := execute(t, "", "check", "--sample", "--format", "json")
	require.NoError(t, err)

	resp := decode[CheckResult](t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, testTraceID, resp.TraceID)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, ir.SchemaVersion, resp.Data.SchemaVersion)
	require.Len(t, resp.Data.Histories, 1)

	h := resp.Data.Histories[0]
	assert.Equal(t, "sample", h.Name)
	assert.Equal(t, ir.Linearizable, h.Level)
	assert.NotEmpty(t, h.Hash)
	require.Len(t, h.Reports, 3)
	for i, r := range h.Reports {
		assert.Equal(t, ir.ConsistencyLevels[i], r.Level)
		assert.True(t, r.Valid)
	}
}

func TestCheckDirectoryGolden(t *testing.T) {
	out, _, err := execute(t, "", "check", "testdata/histories")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "check_histories", []byte(out))
}

func TestCheckSelectedLevelDecidesExitCode(t *testing.T) {
	// late_write is selected at serializable, where it holds.
	_, _, err := execute(t, "", "check", "testdata/histories", "--name", "late_write")
	require.NoError(t, err)

	_, _, err = execute(t, "", "check", "testdata/histories", "--name", "late_write", "--level", "linearizable")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCheckLevelReportsOnlyThatLevel(t *testing.T) {
	out, _, err := execute(t, "", "check", "testdata/histories", "--level", "sequential", "--format", "json")
	require.NoError(t, err)

	resp := decode[CheckResult](t, out)
	require.Len(t, resp.Data.Histories, 2)
	for _, h := range resp.Data.Histories {
		assert.Equal(t, ir.Sequential, h.Level)
		require.Len(t, h.Reports, 1)
		assert.Equal(t, ir.Sequential, h.Reports[0].Level)
	}
}

func TestCheckExplainsViolations(t *testing.T) {
	out, _, err := execute(t, "", "check", "testdata/histories/stale_read.yaml", "--format", "json")
	require.Error(t, err)

	resp := decode[CheckResult](t, out)
	require.Len(t, resp.Data.Histories, 1)
	lin := resp.Data.Histories[0].Reports[0]
	assert.False(t, lin.Valid)
	require.Len(t, lin.Violations, 1)
	assert.Equal(t, consistency.RuleStaleRead, lin.Violations[0].Rule)
	assert.Equal(t, 1, lin.Violations[0].EventID)
}

func TestCheckLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"no input", []string{"check"}, ErrCodeNoInput},
		{"missing path", []string{"check", "testdata/nope.cue"}, ErrCodeNotFound},
		{"unknown name", []string{"check", "testdata/histories", "--name", "nope"}, ErrCodeNotFound},
		{"bad level", []string{"check", "--sample", "--level", "strict"}, ErrCodeInvalidFlag},
		{"no history files", []string{"check", "testdata/golden"}, ErrCodeNoHistories},
		{"cue syntax", []string{"check", "testdata/broken.cue"}, ErrCodeLoadFailed},
		{"invalid history", []string{"check", "testdata/bad"}, ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "", append(tt.args, "--format", "json")...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decode[any](t, out)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, testTraceID, resp.TraceID)
		})
	}
}

func TestCheckInvalidHistoryText(t *testing.T) {
	out, _, err := execute(t, "", "check", "testdata/bad")
	require.Error(t, err)
	assert.Contains(t, out, "Error [E008]")
	assert.Contains(t, out, compiler.ErrAckBeforeSend)
	assert.Contains(t, out, "clientAck 4 precedes clientSend 10")
}
