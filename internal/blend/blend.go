// Package blend derives per-clip blend-in/blend-out information and
// evaluates clip weights for cross-fading.
//
// The Processor is a small immutable configuration value. Blend data is
// recomputed from the clip's placement on every call and never cached,
// because authoring may change between runs.
package blend

import (
	"math"

	"github.com/roach88/trackbake/internal/anim"
	"github.com/roach88/trackbake/internal/resample"
	"github.com/roach88/trackbake/internal/timeline"
)

// DefaultFrameRate is the evaluation rate of a new Processor.
const DefaultFrameRate = 60.0

// BlendInfo carries a clip's ease curves and durations.
type BlendInfo struct {
	BlendInCurve    *anim.Curve
	BlendOutCurve   *anim.Curve
	EaseInDuration  float64
	EaseOutDuration float64
}

// HasEaseIn reports whether the clip fades in.
func (b BlendInfo) HasEaseIn() bool {
	return b.EaseInDuration > 0 && b.BlendInCurve != nil
}

// HasEaseOut reports whether the clip fades out.
func (b BlendInfo) HasEaseOut() bool {
	return b.EaseOutDuration > 0 && b.BlendOutCurve != nil
}

// IsValid reports whether at least one blend curve is present.
func (b BlendInfo) IsValid() bool {
	return b.BlendInCurve != nil || b.BlendOutCurve != nil
}

// Processor derives BlendInfo and samples weights at a frame rate.
type Processor struct {
	frameRate float64
}

// NewProcessor returns a Processor at DefaultFrameRate.
func NewProcessor() Processor {
	return Processor{frameRate: DefaultFrameRate}
}

// WithFrameRate returns a copy evaluating at v. Non-positive values are
// ignored and the receiver is returned unchanged.
func (p Processor) WithFrameRate(v float64) Processor {
	if v <= 0 {
		return p
	}
	p.frameRate = v
	return p
}

// FrameRate returns the evaluation rate. The zero Processor reports
// DefaultFrameRate.
func (p Processor) FrameRate() float64 {
	if p.frameRate <= 0 {
		return DefaultFrameRate
	}
	return p.frameRate
}

// InfoForPlacement copies ease durations and mix curves from a raw
// placement. A nil placement yields the zero BlendInfo.
func (p Processor) InfoForPlacement(pl *timeline.Placement) BlendInfo {
	if pl == nil {
		return BlendInfo{}
	}
	return BlendInfo{
		BlendInCurve:    pl.MixIn,
		BlendOutCurve:   pl.MixOut,
		EaseInDuration:  pl.EaseIn,
		EaseOutDuration: pl.EaseOut,
	}
}

// InfoFor is InfoForPlacement for a ClipInfo. A nil clip or a clip without
// placement yields the zero BlendInfo.
func (p Processor) InfoFor(c *timeline.ClipInfo) BlendInfo {
	if c == nil {
		return BlendInfo{}
	}
	return p.InfoForPlacement(c.Placement)
}

// Weight returns the clip's blend weight at timeline time t.
//
// Inside the ease-in window the weight follows the blend-in curve over
// normalized time; inside the ease-out window it follows the blend-out
// curve. Where both windows overlap the factors multiply. Outside the
// clip's own span (extrapolated regions) the weight is 1.
func Weight(c *timeline.ClipInfo, info BlendInfo, t float64) float64 {
	start, end := c.StartTime(), c.EndTime()
	if t < start || t > end {
		return 1
	}

	w := 1.0
	if info.HasEaseIn() && t < start+info.EaseInDuration {
		w *= clamp01(info.BlendInCurve.Evaluate((t - start) / info.EaseInDuration))
	}
	if outStart := end - info.EaseOutDuration; info.HasEaseOut() && t > outStart {
		w *= clamp01(info.BlendOutCurve.Evaluate((t - outStart) / info.EaseOutDuration))
	}
	return w
}

// SampleWeights samples the clip's weight on the processor's frame grid
// over the snapped clip span. The result has a key on every grid line the
// span touches, so evaluating it on the grid reproduces Weight exactly.
// A clip without placement yields nil.
func (p Processor) SampleWeights(c *timeline.ClipInfo) *anim.Curve {
	if c == nil || c.Placement == nil {
		return nil
	}
	rate := p.FrameRate()
	info := p.InfoFor(c)

	first := resample.FloorFrame(c.StartTime(), rate)
	last := resample.CeilFrame(c.EndTime(), rate)
	points := make([]anim.Point, 0, last-first+1)
	for f := first; f <= last; f++ {
		t := resample.FrameTime(f, rate)
		// Grid lines just outside the span still belong to the clip's
		// own fade, not to its extrapolation.
		ct := math.Max(c.StartTime(), math.Min(t, c.EndTime()))
		points = append(points, anim.Point{Time: t, Value: Weight(c, info, ct)})
	}
	return anim.NewLinearCurve(points...)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
