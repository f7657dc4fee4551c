package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lightcone/internal/ir"
	"github.com/roach88/lightcone/internal/testutil"
)

func TestLoadHistoriesCUEFile(t *testing.T) {
	hs, err := LoadHistories("testdata/histories/sample.cue")
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, testutil.SampleHistory(), hs[0])
}

func TestLoadHistoriesCUEDirectory(t *testing.T) {
	hs, err := LoadHistories("testdata/histories")
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, "late_write", hs[0].Name)
	assert.Equal(t, ir.Serializable, hs[0].Level)
	assert.Equal(t, "sample", hs[1].Name)
}

func TestLoadHistoriesMixedDirectory(t *testing.T) {
	hs, err := LoadHistories("testdata/mixed")
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, "sample", hs[0].Name)
	assert.Equal(t, "stale_read", hs[1].Name)
	assert.Equal(t, ir.ReadOf(0), hs[1].Events[1].Value)
}

func TestLoadHistoriesDuplicateNames(t *testing.T) {
	_, err := LoadHistories("testdata/dupes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate history name "same"`)
}

func TestLoadHistoriesErrors(t *testing.T) {
	_, err := LoadHistories("testdata/does-not-exist")
	assert.Error(t, err)

	_, err = LoadHistories("testdata/mixed/notes.txt")
	assert.ErrorContains(t, err, "unsupported history file type")

	_, err = LoadHistories(t.TempDir())
	assert.ErrorContains(t, err, "no history files found")
}
