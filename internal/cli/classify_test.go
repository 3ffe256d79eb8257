package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCommand_JSON(t *testing.T) {
	out, _, err := execRoot(t, "classify", "--format", "json", "testdata/walk.yaml")
	require.NoError(t, err)

	var result ClassifyResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "testdata/walk.yaml", result.Project)
	require.Len(t, result.Clips, 1)

	clip := result.Clips[0]
	assert.Equal(t, "Base", clip.Track)
	assert.Equal(t, "stride", clip.Clip)
	assert.Equal(t, 1, clip.ShapeWeights)
	assert.Equal(t, 0, clip.MuscleAxes)
	assert.Equal(t, []CurveClass{
		{Binding: "transform:@Hips.localPosition.x", Class: "ordinary", Keys: 2},
		{Binding: "skinned_mesh:Body.blendShape.Smile", Class: "shape_weight", Keys: 2},
	}, clip.Curves)
}

func TestClassifyCommand_Text(t *testing.T) {
	out, _, err := execRoot(t, "classify", "testdata/walk.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "Base/stride: 2 curve(s), 1 shape weight(s), 0 muscle axis curve(s)")
	assert.Contains(t, out, "shape_weight skinned_mesh:Body.blendShape.Smile (2 key(s))")
}

func TestClassifyCommand_InvalidProject(t *testing.T) {
	out, _, err := execRoot(t, "classify", "--format", "json", "testdata/bad.yaml")
	assert.Equal(t, ExitCommandError, exitCode(t, err))

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidProject, resp.Error.Code)
}
