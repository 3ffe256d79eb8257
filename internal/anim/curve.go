package anim

import (
	"math"
	"slices"
	"sort"
)

// Keyframe is a single Hermite control point.
//
// InTangent and OutTangent are slopes (value units per second). An infinite
// tangent on either side of a segment makes that segment stepped.
type Keyframe struct {
	Time       float64 `json:"time" yaml:"time"`
	Value      float64 `json:"value" yaml:"value"`
	InTangent  float64 `json:"in_tangent" yaml:"in_tangent"`
	OutTangent float64 `json:"out_tangent" yaml:"out_tangent"`
}

// Point is a (time, value) pair used to build piecewise-linear curves.
type Point struct {
	Time  float64
	Value float64
}

// Curve is an immutable time → value function defined by keyframes.
type Curve struct {
	keys []Keyframe
}

// NewCurve builds a curve from keyframes. Keys are copied and stably sorted
// by time, so callers may pass them in any order.
func NewCurve(keys ...Keyframe) *Curve {
	sorted := slices.Clone(keys)
	slices.SortStableFunc(sorted, func(a, b Keyframe) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		default:
			return 0
		}
	})
	return &Curve{keys: sorted}
}

// NewLinearCurve builds a curve that interpolates linearly between points.
// Each key's tangents are set to the slopes of its adjacent segments, which
// makes every Hermite segment an exact straight line.
func NewLinearCurve(points ...Point) *Curve {
	pts := slices.Clone(points)
	slices.SortStableFunc(pts, func(a, b Point) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		default:
			return 0
		}
	})

	keys := make([]Keyframe, len(pts))
	for i, p := range pts {
		keys[i] = Keyframe{Time: p.Time, Value: p.Value}
	}
	for i := 0; i+1 < len(keys); i++ {
		dt := keys[i+1].Time - keys[i].Time
		if dt <= 0 {
			continue
		}
		slope := (keys[i+1].Value - keys[i].Value) / dt
		keys[i].OutTangent = slope
		keys[i+1].InTangent = slope
	}
	return &Curve{keys: keys}
}

// Len returns the number of keyframes. A nil curve has zero keys.
func (c *Curve) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns a copy of the keyframes in time order.
func (c *Curve) Keys() []Keyframe {
	if c == nil {
		return nil
	}
	return slices.Clone(c.keys)
}

// Key returns the i-th keyframe.
func (c *Curve) Key(i int) Keyframe {
	return c.keys[i]
}

// Extent returns the first and last key times. ok is false for an empty curve.
func (c *Curve) Extent() (start, end float64, ok bool) {
	if c.Len() == 0 {
		return 0, 0, false
	}
	return c.keys[0].Time, c.keys[len(c.keys)-1].Time, true
}

// Evaluate returns the curve value at time t.
//
// Outside the keyed range the curve clamps to the first or last value.
// An empty curve evaluates to 0.
func (c *Curve) Evaluate(t float64) float64 {
	n := c.Len()
	if n == 0 {
		return 0
	}
	first, last := c.keys[0], c.keys[n-1]
	if t <= first.Time {
		return first.Value
	}
	if t >= last.Time {
		return last.Value
	}

	// i is the first key strictly after t; 1 <= i <= n-1 here.
	i := sort.Search(n, func(i int) bool { return c.keys[i].Time > t })
	k0, k1 := c.keys[i-1], c.keys[i]
	if t == k0.Time {
		return k0.Value
	}
	return hermite(k0, k1, t)
}

func hermite(k0, k1 Keyframe, t float64) float64 {
	dt := k1.Time - k0.Time
	if dt <= 0 {
		return k1.Value
	}
	if math.IsInf(k0.OutTangent, 0) || math.IsInf(k1.InTangent, 0) {
		return k0.Value
	}

	s := (t - k0.Time) / dt
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	return h00*k0.Value + h10*dt*k0.OutTangent + h01*k1.Value + h11*dt*k1.InTangent
}
