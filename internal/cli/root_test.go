package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lightcone/internal/ir"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "lightcone", cmd.Use)
	assert.Contains(t, cmd.Long, "linearizability")
}

func TestVersionFlag(t *testing.T) {
	out, _, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, ir.ToolVersion)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"check", "values", "drag", "boost", "play", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestHistoryFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"check", "values", "drag", "boost", "play"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			for _, flag := range []string{"sample", "name", "level"} {
				assert.NotNil(t, sub.Flags().Lookup(flag), "%s --%s", name, flag)
			}
		})
	}
}

func TestDragCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	dragCmd, _, err := cmd.Find([]string{"drag"})
	require.NoError(t, err)

	width := dragCmd.Flags().Lookup("width")
	require.NotNil(t, width)
	assert.Equal(t, "798", width.DefValue)
	assert.NotNil(t, dragCmd.Flags().Lookup("event"))
	assert.NotNil(t, dragCmd.Flags().Lookup("to"))
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "", "check", "--sample", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
