// Package resample moves curves onto a uniform frame grid.
//
// Frame times are always computed as frame/rate from an integer frame index,
// never by accumulating an interval, so every caller that snaps the same
// extent at the same rate gets bit-identical sample times.
package resample

import (
	"math"

	"github.com/roach88/trackbake/internal/anim"
)

// snapTolerance is how close (in frames) a time must be to a grid line to
// count as lying on it.
const snapTolerance = 1e-6

// FloorFrame returns the index of the last grid line at or before t.
func FloorFrame(t, rate float64) int64 {
	x := t * rate
	if r := math.Round(x); math.Abs(x-r) < snapTolerance {
		return int64(r)
	}
	return int64(math.Floor(x))
}

// CeilFrame returns the index of the first grid line at or after t.
func CeilFrame(t, rate float64) int64 {
	x := t * rate
	if r := math.Round(x); math.Abs(x-r) < snapTolerance {
		return int64(r)
	}
	return int64(math.Ceil(x))
}

// FrameTime returns the time of grid line frame.
func FrameTime(frame int64, rate float64) float64 {
	return float64(frame) / rate
}

// Resample returns pairs whose curves have one key per grid line over the
// snapped extent of the source curve, each carrying the source value at
// that time.
//
// A nil slice returns nil. A non-positive frameRate returns pairs itself.
// Pairs with a nil or empty curve pass through unchanged. Bindings are
// copied as-is.
func Resample(pairs []anim.CurveBindingPair, frameRate float64) []anim.CurveBindingPair {
	if pairs == nil {
		return nil
	}
	if frameRate <= 0 {
		return pairs
	}

	out := make([]anim.CurveBindingPair, len(pairs))
	for i, p := range pairs {
		if p.Curve.Len() == 0 {
			out[i] = p
			continue
		}
		out[i] = anim.CurveBindingPair{
			Binding: p.Binding,
			Curve:   Curve(p.Curve, frameRate),
		}
	}
	return out
}

// Curve resamples a single non-empty curve. The result interpolates
// linearly between samples.
func Curve(c *anim.Curve, frameRate float64) *anim.Curve {
	start, end, ok := c.Extent()
	if !ok || frameRate <= 0 {
		return c
	}

	first := FloorFrame(start, frameRate)
	last := CeilFrame(end, frameRate)

	points := make([]anim.Point, 0, last-first+1)
	for f := first; f <= last; f++ {
		t := FrameTime(f, frameRate)
		points = append(points, anim.Point{Time: t, Value: c.Evaluate(t)})
	}
	return anim.NewLinearCurve(points...)
}
