package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

const failingScenario = `name: failing
history: sample
steps: []
assertions:
  - type: valid
    level: linearizable
    expect: false
`

const passingScenario = `name: passing
history: sample
steps:
  - boost: 0.5
assertions:
  - type: velocity
    expect: -0.8660
`

func writeScenario(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, "", "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	out, _, err := execute(t, "", "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, _, err := execute(t, "", "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyDirJSON(t *testing.T) {
	out, _, err := execute(t, "", "test", t.TempDir(), "--format", "json")
	require.NoError(t, err)

	resp := decode[TestResult](t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Data.Total)
	assert.Empty(t, resp.Data.Scenarios)
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	out, _, err := execute(t, "", "test", harnessScenarios, "--format", "json")
	require.NoError(t, err, out)

	resp := decode[TestResult](t, out)
	assert.Equal(t, 8, resp.Data.Total)
	assert.Equal(t, 8, resp.Data.Passed)
	assert.Equal(t, 0, resp.Data.Failed)
}

func TestTestCommandFilter(t *testing.T) {
	out, _, err := execute(t, "", "test", harnessScenarios, "--filter", "late_*")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ late_write")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommandInvalidFilter(t *testing.T) {
	_, _, err := execute(t, "", "test", harnessScenarios, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "failing.yaml", failingScenario)
	writeScenario(t, dir, "passing.yaml", passingScenario)
	writeScenario(t, dir, "notes.txt", "ignored")

	out, _, err := execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, "✓ passing")
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
}

func TestTestCommandUnloadableScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", "name: broken\nbogus: true\n")

	out, _, err := execute(t, "", "test", dir, "--format", "json")
	require.Error(t, err)

	resp := decode[TestResult](t, out)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "broken.yaml", resp.Data.Scenarios[0].Name)
	assert.Contains(t, resp.Data.Scenarios[0].Errors[0], "failed to load scenario")
}

func TestTestCommandUpdateAndCompareGolden(t *testing.T) {
	root := t.TempDir()
	scenarios := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(scenarios, 0755))
	writeScenario(t, scenarios, "passing.yaml", passingScenario)

	_, _, err := execute(t, "", "test", scenarios, "--update")
	require.NoError(t, err)

	goldenPath := filepath.Join(root, "golden", "passing.golden")
	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name":"passing"`)

	_, _, err = execute(t, "", "test", scenarios)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}"), 0644))
	out, _, err := execute(t, "", "test", scenarios)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}
