package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/trackbake/internal/anim"
	"github.com/roach88/trackbake/internal/timeline"
)

func TestRampAndConst(t *testing.T) {
	r := Ramp(0, 0, 2, 10)
	assert.InDelta(t, 5.0, r.Evaluate(1), 1e-9)

	c := Const(3, 0, 1)
	assert.InDelta(t, 3.0, c.Evaluate(0.5), 1e-9)
}

func TestClipBuilders(t *testing.T) {
	base := Clip("walk", 1, 2, Pair("Hips", anim.KindTransform, "localPosition.x", Ramp(0, 0, 2, 1)))
	require.True(t, base.IsValid())
	assert.Equal(t, 3.0, base.EndTime())

	eased := Eased(base, 0.5, 0.25)
	assert.Equal(t, 0.5, eased.EaseInDuration())
	assert.Equal(t, 0.0, base.EaseInDuration(), "builders must not mutate the input clip")

	ex := Extrapolate(base, timeline.ExtrapolateHold, timeline.ExtrapolateLoop)
	assert.Equal(t, timeline.ExtrapolateHold, ex.PreExtrapolation())
	assert.Equal(t, timeline.ExtrapolateLoop, ex.PostExtrapolation())
	assert.Equal(t, timeline.ExtrapolateNone, base.PostExtrapolation())
}

func TestTrackBuilder(t *testing.T) {
	rig := timeline.RigRef{ID: "hero"}
	tr := Track("Base", 2, rig, Clip("a", 0, 1))

	assert.True(t, tr.IsEligible())
	assert.Equal(t, 2, tr.Priority)
	assert.Equal(t, "hero", tr.BoundTarget.ID)
}
