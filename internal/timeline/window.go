package timeline

import (
	"math"
	"slices"
)

// Window is the span over which a clip contributes, including any
// extrapolated region. It is half-open unless Closed is set, which happens
// when the window reaches the end of the timeline.
type Window struct {
	Start  float64
	End    float64
	Closed bool
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t float64) bool {
	if t < w.Start {
		return false
	}
	if w.Closed {
		return t <= w.End
	}
	return t < w.End
}

// Extrapolated reports whether t lies in the window but outside the clip's
// own span.
func Extrapolated(c *ClipInfo, t float64) bool {
	return t < c.StartTime() || t > c.EndTime()
}

// Windows computes the contribution window of every clip on one track.
// The result is indexed like clips.
//
// Post-extrapolation fills the gap up to the next clip's start (or
// timelineEnd for the last clip). Pre-extrapolation then fills whatever is
// left back to the previous clip's window end (or 0 for the first clip).
func Windows(clips []ClipInfo, timelineEnd float64) []Window {
	order := make([]int, len(clips))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		sa, sb := clips[a].StartTime(), clips[b].StartTime()
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		default:
			return 0
		}
	})

	out := make([]Window, len(clips))
	for pos, idx := range order {
		c := &clips[idx]
		w := Window{Start: c.StartTime(), End: c.EndTime()}
		if c.PostExtrapolation() != ExtrapolateNone {
			next := timelineEnd
			if pos+1 < len(order) {
				next = clips[order[pos+1]].StartTime()
			}
			if next > w.End {
				w.End = next
			}
		}
		out[idx] = w
	}

	for pos, idx := range order {
		c := &clips[idx]
		if c.PreExtrapolation() == ExtrapolateNone {
			continue
		}
		prev := 0.0
		if pos > 0 {
			prev = out[order[pos-1]].End
		}
		if prev < out[idx].Start {
			out[idx].Start = prev
		}
	}

	for i := range out {
		out[i].Closed = out[i].End >= timelineEnd
	}
	return out
}

// LocalTime maps a timeline time onto the clip's source curve time.
//
// Inside [start, end] the mapping is clipIn + (t-start)*timeScale. Outside,
// the clip's pre or post extrapolation mode reshapes the offset first.
func LocalTime(c *ClipInfo, t float64) float64 {
	start, dur := c.StartTime(), c.Duration()
	offset := t - start

	mode := ExtrapolateNone
	switch {
	case t < start:
		mode = c.PreExtrapolation()
	case t > start+dur:
		mode = c.PostExtrapolation()
	}

	switch mode {
	case ExtrapolateHold:
		offset = math.Max(0, math.Min(offset, dur))
	case ExtrapolateLoop:
		if dur > 0 {
			offset = positiveMod(offset, dur)
		}
	case ExtrapolatePingPong:
		if dur > 0 {
			offset = positiveMod(offset, 2*dur)
			if offset > dur {
				offset = 2*dur - offset
			}
		}
	}

	return c.ClipIn() + offset*c.TimeScale()
}

func positiveMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}
