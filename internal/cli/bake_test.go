package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/trackbake/internal/export"
	"github.com/roach88/trackbake/internal/naming"
	"github.com/roach88/trackbake/internal/testutil"
)

func bakeOptions(t *testing.T, format string) *BakeOptions {
	t.Helper()
	dir := t.TempDir()
	return &BakeOptions{
		RootOptions: &RootOptions{Format: format},
		Database:    filepath.Join(dir, "bakes.db"),
		OutDir:      filepath.Join(dir, "out"),
		Export:      export.FormatJSON,
		IDs:         testutil.NewFixedIDGenerator("run-cli"),
	}
}

func runBakeJSON(t *testing.T, opts *BakeOptions, paths ...string) (BakeResult, CLIResponse, error) {
	t.Helper()
	cmd, out, _ := bufferedCommand()
	err := runBake(opts, paths, cmd)
	var result BakeResult
	resp := decodeResponse(t, out.String(), &result)
	return result, resp, err
}

func TestBake_StoresAndExports(t *testing.T) {
	opts := bakeOptions(t, "json")

	result, resp, err := runBakeJSON(t, opts, "testdata/walk.yaml")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, result.Baked)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Bakes, 1)

	out := result.Bakes[0]
	assert.True(t, out.Success)
	assert.Equal(t, "hero", out.Rig)
	assert.Equal(t, "walk", out.Name)
	assert.Equal(t, "run-cli", out.RunID)
	assert.Equal(t, 2.0, out.FrameRate)
	assert.Equal(t, 2, out.Curves)
	assert.Equal(t, 6, out.Keys)
	assert.True(t, out.Stored)
	assert.False(t, out.Duplicate)
	assert.Equal(t, filepath.Join(opts.OutDir, "walk.hero.json"), out.Path)
	assert.Contains(t, out.Logs, "baked 2 curve(s), 6 key(s) for Hero (hero) at 2 fps")

	data, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	var doc export.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, out.ClipID, doc.ID)
	require.Len(t, doc.Curves, 2)
	assert.Equal(t, "Armature/Hips", doc.Curves[0].Path)
	assert.Equal(t, "shape_weight", doc.Curves[1].Class)
}

func TestBake_SecondRunIsDuplicate(t *testing.T) {
	opts := bakeOptions(t, "json")

	first, _, err := runBakeJSON(t, opts, "testdata/walk.yaml")
	require.NoError(t, err)
	second, _, err := runBakeJSON(t, opts, "testdata/walk.yaml")
	require.NoError(t, err)

	require.Len(t, second.Bakes, 1)
	assert.Equal(t, first.Bakes[0].ClipID, second.Bakes[0].ClipID)
	assert.True(t, second.Bakes[0].Duplicate)
	assert.Equal(t, filepath.Join(opts.OutDir, "walk.hero(1).json"), second.Bakes[0].Path)
}

func TestBake_OverridesFromFlags(t *testing.T) {
	opts := bakeOptions(t, "json")
	opts.FrameRate = 4
	opts.Name = "stride"
	opts.Export = export.FormatYAML
	opts.Database = ""

	result, _, err := runBakeJSON(t, opts, "testdata/walk.yaml")
	require.NoError(t, err)
	require.Len(t, result.Bakes, 1)

	out := result.Bakes[0]
	assert.Equal(t, 4.0, out.FrameRate)
	assert.Equal(t, "stride", out.Name)
	assert.Equal(t, 10, out.Keys)
	assert.False(t, out.Stored)
	assert.Equal(t, filepath.Join(opts.OutDir, "stride.hero.yaml"), out.Path)
	assert.FileExists(t, out.Path)
}

func TestBake_NoClipIsFailure(t *testing.T) {
	opts := bakeOptions(t, "text")
	opts.MaxSamples = 1

	cmd, out, _ := bufferedCommand()
	err := runBake(opts, []string{"testdata/walk.yaml"}, cmd)
	assert.Equal(t, ExitFailure, exitCode(t, err))

	text := out.String()
	assert.Contains(t, text, "✗ testdata/walk.yaml [hero]")
	assert.Contains(t, text, "SAMPLE_QUOTA_EXCEEDED: curve needs 3 samples, limit is 1")
	assert.Contains(t, text, "no curves produced for Hero (hero)")
	assert.Contains(t, text, "0 baked, 1 failed")

	entries, err := os.ReadDir(opts.OutDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBake_TextOutput(t *testing.T) {
	opts := bakeOptions(t, "text")
	opts.Progress = true

	cmd, out, errOut := bufferedCommand()
	require.NoError(t, runBake(opts, []string{"testdata/walk.yaml"}, cmd))

	assert.Contains(t, out.String(), "✓ testdata/walk.yaml [hero]")
	assert.Contains(t, out.String(), "wrote "+filepath.Join(opts.OutDir, "walk.hero.json"))
	assert.Contains(t, out.String(), "1 baked, 0 failed")
	assert.Contains(t, errOut.String(), "Merging tracks for Hero (hero)")
}

func TestBake_CommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BakeOptions)
		paths   []string
		wantErr string
	}{
		{
			name:    "unknown rig",
			mutate:  func(o *BakeOptions) { o.Rig = "ghost" },
			paths:   []string{"testdata/walk.yaml"},
			wantErr: ErrCodeInvalidFlag,
		},
		{
			name:    "unavailable export",
			mutate:  func(o *BakeOptions) { o.Export = "fbx" },
			paths:   []string{"testdata/walk.yaml"},
			wantErr: ErrCodeInvalidFlag,
		},
		{
			name:    "negative frame rate",
			mutate:  func(o *BakeOptions) { o.FrameRate = -1 },
			paths:   []string{"testdata/walk.yaml"},
			wantErr: ErrCodeInvalidFlag,
		},
		{
			name:    "missing project",
			mutate:  func(*BakeOptions) {},
			paths:   []string{"testdata/walk.yaml", "testdata/missing.yaml"},
			wantErr: ErrCodeNotFound,
		},
		{
			name:    "invalid project",
			mutate:  func(*BakeOptions) {},
			paths:   []string{"testdata/bad.yaml"},
			wantErr: ErrCodeInvalidProject,
		},
		{
			name: "naming failure",
			mutate: func(o *BakeOptions) {
				o.Exister = naming.ExisterFunc(func(string) (bool, error) { return true, nil })
			},
			paths:   []string{"testdata/walk.yaml"},
			wantErr: ErrCodeExportFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := bakeOptions(t, "json")
			tt.mutate(opts)

			_, resp, err := runBakeJSON(t, opts, tt.paths...)
			assert.Equal(t, ExitCommandError, exitCode(t, err))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantErr, resp.Error.Code)
		})
	}
}

func TestBake_CommandArgs(t *testing.T) {
	_, _, err := execRoot(t, "bake")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestAssetBase(t *testing.T) {
	opts := bakeOptions(t, "json")
	opts.Name = "a/b"

	result, _, err := runBakeJSON(t, opts, "testdata/walk.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(opts.OutDir, "a_b.hero.json"), result.Bakes[0].Path)
}
