package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/trackbake/internal/anim"
	"github.com/roach88/trackbake/internal/classify"
	"github.com/roach88/trackbake/internal/ir"
	"github.com/roach88/trackbake/internal/testutil"
	"github.com/roach88/trackbake/internal/timeline"
)

func TestMergeResult_Logs(t *testing.T) {
	r := NewMergeResult(timeline.RigRef{ID: "hero"})

	r.AddLog("")
	r.AddErrorLog("")
	assert.Empty(t, r.Logs(), "empty messages must not append entries")

	r.AddLog("first")
	r.AddErrorLog("second")
	assert.Equal(t, []string{"first", "[Error] second"}, r.Logs())
	assert.Equal(t, "hero", r.TargetRig.ID)
}

func TestMergeResult_LogsReturnsCopy(t *testing.T) {
	r := NewMergeResult(timeline.RigRef{ID: "hero"})
	r.AddLog("kept")

	logs := r.Logs()
	logs[0] = "mutated"
	assert.Equal(t, []string{"kept"}, r.Logs())
}

func TestMergeResult_IsSuccess(t *testing.T) {
	r := NewMergeResult(timeline.RigRef{ID: "hero"})
	assert.False(t, r.IsSuccess())

	r.GeneratedClip = &BakedClip{}
	assert.True(t, r.IsSuccess())
}

func TestBakedClip_Accessors(t *testing.T) {
	x := testutil.Pair("Hips", anim.KindTransform, "x", testutil.Ramp(0, 0, 2, 1))
	clip := &BakedClip{
		Curves: []BakedCurve{
			{Binding: x.Binding, Curve: x.Curve},
			{Binding: anim.Binding{Path: "Hips", Target: anim.KindTransform, Property: "y"}},
		},
	}

	assert.Equal(t, 2.0, clip.Duration())
	assert.Equal(t, 2, clip.KeyCount())
	assert.Len(t, clip.Pairs(), 2)

	found, ok := clip.Find(x.Binding)
	require.True(t, ok)
	assert.Same(t, x.Curve, found.Curve)

	_, ok = clip.Find(anim.Binding{Path: "Nope"})
	assert.False(t, ok)
}

func TestBakedClip_IdentityExcludesNameAndRun(t *testing.T) {
	curve := BakedCurve{
		Binding: anim.Binding{Path: "Hips", Target: anim.KindTransform, Property: "x"},
		Class:   classify.Ordinary,
		Curve:   testutil.Ramp(0, 0, 1, 1),
	}
	a := &BakedClip{Name: "A", RunID: "run-1", Rig: timeline.RigRef{ID: "hero"}, FrameRate: 30, Curves: []BakedCurve{curve}}
	b := &BakedClip{Name: "B", RunID: "run-2", Rig: timeline.RigRef{ID: "hero"}, FrameRate: 30, Curves: []BakedCurve{curve}}
	c := &BakedClip{Name: "A", RunID: "run-1", Rig: timeline.RigRef{ID: "hero"}, FrameRate: 60, Curves: []BakedCurve{curve}}

	assert.Equal(t, ir.MustClipID(a.Identity()), ir.MustClipID(b.Identity()))
	assert.NotEqual(t, ir.MustClipID(a.Identity()), ir.MustClipID(c.Identity()))
}
