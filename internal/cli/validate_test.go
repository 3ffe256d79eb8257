package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_Valid(t *testing.T) {
	out, _, err := execRoot(t, "validate", "testdata/walk.yaml")
	require.NoError(t, err)
	assert.Equal(t, "✓ testdata/walk.yaml (1 track(s), 1 rig(s))\n", out)
}

func TestValidateCommand_ReportsEveryIssue(t *testing.T) {
	out, _, err := execRoot(t, "validate", "testdata/bad.yaml")
	assert.Equal(t, ExitFailure, exitCode(t, err))

	assert.Contains(t, out, "✗ testdata/bad.yaml")
	assert.Contains(t, out, "[E201] frame_rate: must be >= 0, got -1")
	assert.Contains(t, out, "[E200] tracks: at least one track is required")
}

func TestValidateCommand_MissingFile(t *testing.T) {
	out, _, err := execRoot(t, "validate", "testdata/walk.yaml", "testdata/missing.yaml")
	assert.Equal(t, ExitFailure, exitCode(t, err))
	assert.Contains(t, out, "✓ testdata/walk.yaml")
	assert.Contains(t, out, "✗ testdata/missing.yaml")
	assert.Contains(t, out, "[E002]")
}

func TestValidateCommand_CompileProblem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`rigs:
  - id: r
    bones: {LeftHand: a, left_hand: b}
tracks:
  - name: t
    rig: r
`), 0o644))

	out, _, err := execRoot(t, "validate", path)
	assert.Equal(t, ExitFailure, exitCode(t, err))
	assert.Contains(t, out, "[E207] rigs:")
	assert.Contains(t, out, "mapped twice")
}

func TestValidateCommand_JSON(t *testing.T) {
	out, _, err := execRoot(t, "validate", "--format", "json", "testdata/walk.yaml", "testdata/bad.yaml")
	assert.Equal(t, ExitFailure, exitCode(t, err))

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, result.Valid)
	require.Len(t, result.Projects, 2)

	assert.True(t, result.Projects[0].Valid)
	assert.Equal(t, 1, result.Projects[0].Tracks)
	assert.Empty(t, result.Projects[0].Issues)

	assert.False(t, result.Projects[1].Valid)
	codes := make([]string, 0, len(result.Projects[1].Issues))
	for _, issue := range result.Projects[1].Issues {
		codes = append(codes, issue.Code)
	}
	assert.ElementsMatch(t, []string{"E200", "E201"}, codes)
}

func TestValidateCommand_RequiresPath(t *testing.T) {
	_, _, err := execRoot(t, "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}
