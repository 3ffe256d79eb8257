package testutil

import (
	"github.com/roach88/trackbake/internal/anim"
	"github.com/roach88/trackbake/internal/timeline"
)

// Ramp returns a linear curve from (t0, v0) to (t1, v1).
func Ramp(t0, v0, t1, v1 float64) *anim.Curve {
	return anim.NewLinearCurve(anim.Point{Time: t0, Value: v0}, anim.Point{Time: t1, Value: v1})
}

// Const returns a flat curve holding v over [t0, t1].
func Const(v, t0, t1 float64) *anim.Curve {
	return Ramp(t0, v, t1, v)
}

// MixIn and MixOut are linear 0→1 and 1→0 weight curves over [0,1].
var (
	MixIn  = Ramp(0, 0, 1, 1)
	MixOut = Ramp(0, 1, 1, 0)
)

// Pair builds a curve binding pair.
func Pair(path string, kind anim.TargetKind, property string, c *anim.Curve) anim.CurveBindingPair {
	return anim.CurveBindingPair{
		Binding: anim.Binding{Path: path, Target: kind, Property: property},
		Curve:   c,
	}
}

// Clip builds a placed clip with unit time scale, no easing and no
// extrapolation.
func Clip(name string, start, duration float64, pairs ...anim.CurveBindingPair) timeline.ClipInfo {
	return timeline.ClipInfo{
		Name: name,
		Placement: &timeline.Placement{
			Start:     start,
			Duration:  duration,
			TimeScale: 1,
		},
		Source: anim.PairList(pairs),
	}
}

// Eased returns c with linear ease-in and ease-out windows.
func Eased(c timeline.ClipInfo, easeIn, easeOut float64) timeline.ClipInfo {
	p := *c.Placement
	p.EaseIn, p.EaseOut = easeIn, easeOut
	p.MixIn, p.MixOut = MixIn, MixOut
	c.Placement = &p
	return c
}

// Extrapolate returns c with the given pre and post extrapolation modes.
func Extrapolate(c timeline.ClipInfo, pre, post timeline.Extrapolation) timeline.ClipInfo {
	p := *c.Placement
	p.Pre, p.Post = pre, post
	c.Placement = &p
	return c
}

// Track builds a track bound to rig.
func Track(name string, priority int, rig timeline.RigRef, clips ...timeline.ClipInfo) timeline.TrackInfo {
	return timeline.TrackInfo{
		Name:        name,
		Priority:    priority,
		BoundTarget: &rig,
		Clips:       clips,
	}
}
