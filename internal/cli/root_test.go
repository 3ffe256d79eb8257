package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "trackbake", cmd.Use)
	assert.Contains(t, cmd.Long, "baked")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"bake", "validate", "classify", "resample", "inspect", "test"}

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

func TestBakeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	bakeCmd, _, err := cmd.Find([]string{"bake"})
	require.NoError(t, err)

	for name, def := range map[string]string{
		"db":          "",
		"out-dir":     "",
		"export":      "json",
		"rig":         "",
		"frame-rate":  "0",
		"max-samples": "0",
		"name":        "",
		"progress":    "false",
	} {
		flag := bakeCmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, def, flag.DefValue, name)
	}
}

func TestInspectCommandRequiresDB(t *testing.T) {
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"inspect"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"db" not set`)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	errBuf := &bytes.Buffer{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"validate", "--format", "xml", "testdata/walk.yaml"})

	code := Execute(cmd)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errBuf.String(), `invalid format "xml"`)
}

func TestExecute_ExitCodes(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		cmd := NewRootCommand()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"validate", "testdata/walk.yaml"})
		assert.Equal(t, ExitSuccess, Execute(cmd))
	})

	t.Run("failure is printed once", func(t *testing.T) {
		cmd := NewRootCommand()
		errBuf := &bytes.Buffer{}
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(errBuf)
		cmd.SetArgs([]string{"validate", "testdata/bad.yaml"})
		assert.Equal(t, ExitFailure, Execute(cmd))
		assert.Contains(t, errBuf.String(), "Error: 1 of 1 project(s) invalid")
	})

	t.Run("reported error is not printed again", func(t *testing.T) {
		cmd := NewRootCommand()
		out := &bytes.Buffer{}
		errBuf := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetErr(errBuf)
		cmd.SetArgs([]string{"classify", "testdata/missing.yaml"})
		assert.Equal(t, ExitCommandError, Execute(cmd))
		assert.Contains(t, out.String(), "Error [E002]")
		assert.NotContains(t, errBuf.String(), "Error:")
	})
}
