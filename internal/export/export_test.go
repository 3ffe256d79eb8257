package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/trackbake/internal/anim"
	"github.com/roach88/trackbake/internal/classify"
	"github.com/roach88/trackbake/internal/ir"
	"github.com/roach88/trackbake/internal/merge"
	"github.com/roach88/trackbake/internal/testutil"
	"github.com/roach88/trackbake/internal/timeline"
)

func sampleClip() *merge.BakedClip {
	clip := &merge.BakedClip{
		RunID:     "run-1",
		Name:      "Merged",
		Rig:       timeline.RigRef{ID: "hero"},
		FrameRate: 2,
		Curves: []merge.BakedCurve{
			{
				Binding: anim.Binding{Path: "Body", Target: anim.KindSkinnedMesh, Property: "blendShape.Smile"},
				Class:   classify.ShapeWeight,
				Curve:   testutil.Ramp(0, 0, 1, 100),
			},
			{
				Binding: anim.Binding{Path: "Hips", Target: anim.KindTransform, Property: "localPosition.y"},
			},
		},
	}
	clip.ID = ir.MustClipID(clip.Identity())
	return clip
}

func TestAvailableAndFormats(t *testing.T) {
	assert.Equal(t, []string{"canonical", "json", "yaml"}, Formats())
	assert.True(t, Available("json"))
	assert.True(t, Available("YAML"))
	assert.False(t, Available("fbx"))

	ext, err := Extension("yaml")
	require.NoError(t, err)
	assert.Equal(t, ".yaml", ext)

	_, err = Extension("fbx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canonical, json, yaml")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write("json", &buf, sampleClip()))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Merged", doc.Name)
	assert.Equal(t, 1.0, doc.Duration)
	require.Len(t, doc.Curves, 2)
	assert.Equal(t, anim.KindSkinnedMesh, doc.Curves[0].Target)
	assert.Equal(t, "shape_weight", doc.Curves[0].Class)
	assert.Len(t, doc.Curves[0].Keys, 2)
	assert.Empty(t, doc.Curves[1].Keys)
	assert.Contains(t, buf.String(), `"target": "skinned_mesh"`)
	assert.Contains(t, buf.String(), `"keys": []`)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write("yaml", &buf, sampleClip()))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "hero", doc.Rig.ID)
	assert.Equal(t, 2.0, doc.FrameRate)
	assert.Equal(t, "blendShape.Smile", doc.Curves[0].Property)
	assert.Contains(t, buf.String(), "target: skinned_mesh")
}

func TestWrite_CanonicalMatchesID(t *testing.T) {
	clip := sampleClip()
	var buf bytes.Buffer
	require.NoError(t, Write("canonical", &buf, clip))

	want, err := ir.MarshalCanonical(clip.Identity())
	require.NoError(t, err)
	assert.Equal(t, string(want)+"\n", buf.String())
	assert.True(t, strings.HasPrefix(buf.String(), `{"curves":[`))
}

func TestWrite_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write("fbx", &buf, sampleClip()))
	assert.Error(t, Write("json", &buf, nil))
	assert.Zero(t, buf.Len())
}
