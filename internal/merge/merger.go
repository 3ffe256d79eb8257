package merge

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/trackbake/internal/anim"
	"github.com/roach88/trackbake/internal/blend"
	"github.com/roach88/trackbake/internal/classify"
	"github.com/roach88/trackbake/internal/ir"
	"github.com/roach88/trackbake/internal/resample"
	"github.com/roach88/trackbake/internal/timeline"
)

// DefaultClipName names the baked clip when Options.ClipName is empty.
const DefaultClipName = "Merged"

// BonePathResolver maps a canonical bone name to a transform path on a rig.
type BonePathResolver interface {
	ResolveBonePath(rig timeline.RigRef, bone string) (string, bool)
}

// Options configures a Merger. The zero value is usable.
type Options struct {
	// FrameRate is the sampling rate; <= 0 selects blend.DefaultFrameRate.
	FrameRate float64

	// MaxSamplesPerCurve bounds each property's grid; <= 0 selects
	// DefaultMaxSamplesPerCurve.
	MaxSamplesPerCurve int

	// ClipName names the baked clip; empty selects DefaultClipName.
	ClipName string

	// Resolver retargets "@Bone" binding paths. Without one, such
	// bindings are reported unresolved.
	Resolver BonePathResolver

	// Sink receives progress and diagnostics; nil discards them.
	Sink Sink

	// IDs generates run IDs; nil selects UUIDv7Generator.
	IDs IDGenerator
}

// Merger flattens timelines into baked clips.
type Merger struct {
	opts Options
	proc blend.Processor
}

// New creates a Merger with opts, filling defaults for unset fields.
func New(opts Options) *Merger {
	if opts.MaxSamplesPerCurve <= 0 {
		opts.MaxSamplesPerCurve = DefaultMaxSamplesPerCurve
	}
	if opts.ClipName == "" {
		opts.ClipName = DefaultClipName
	}
	if opts.Sink == nil {
		opts.Sink = nopSink{}
	}
	if opts.IDs == nil {
		opts.IDs = UUIDv7Generator{}
	}
	return &Merger{
		opts: opts,
		proc: blend.NewProcessor().WithFrameRate(opts.FrameRate),
	}
}

// FrameRate returns the sampling rate in effect.
func (m *Merger) FrameRate() float64 {
	return m.proc.FrameRate()
}

// contributor is one clip's curve for one property.
type contributor struct {
	rank    int
	clip    *timeline.ClipInfo
	window  timeline.Window
	weights *anim.Curve
	curve   *anim.Curve
}

func (c *contributor) value(t float64) float64 {
	return c.curve.Evaluate(timeline.LocalTime(c.clip, t))
}

func (c *contributor) weight(t float64) float64 {
	if c.weights == nil || timeline.Extrapolated(c.clip, t) {
		return 1
	}
	return c.weights.Evaluate(t)
}

// property gathers every contributor to one output binding.
type property struct {
	binding      anim.Binding
	class        classify.Class
	contributors []contributor
}

// Merge flattens the tracks of tl bound to rig into one baked clip.
//
// Per-property failures are logged on the result and skipped; the result
// is unsuccessful only when no property produced keys. The returned error
// is non-nil only when ctx ends the run, in which case the partial result
// is still returned.
func (m *Merger) Merge(ctx context.Context, tl *timeline.Timeline, rig timeline.RigRef) (*MergeResult, error) {
	result := NewMergeResult(rig)
	sink := m.opts.Sink
	sink.Begin(fmt.Sprintf("Merging tracks for %s", rig))
	defer sink.End()

	if tl == nil {
		m.fail(result, "no timeline to merge")
		return result, nil
	}
	ranked := tl.Eligible(rig)
	if len(ranked) == 0 {
		m.fail(result, fmt.Sprintf("no eligible tracks bound to %s", rig))
		return result, nil
	}

	props, err := m.gather(ctx, result, tl, ranked, rig)
	if err != nil {
		return result, err
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rate := m.proc.FrameRate()
	clip := &BakedClip{Name: m.opts.ClipName, Rig: rig, FrameRate: rate}
	for i, key := range keys {
		if err := m.checkCancel(ctx, result); err != nil {
			return result, err
		}
		p := props[key]
		sink.Update(fmt.Sprintf("Baking %s", p.binding), float64(i)/float64(len(keys)))

		curve, err := m.mergeProperty(p)
		if err != nil {
			result.AddErrorLog(err.Error())
			sink.LogWarning(err.Error())
			continue
		}
		out := resample.Resample([]anim.CurveBindingPair{{Binding: p.binding, Curve: curve}}, rate)[0]
		clip.Curves = append(clip.Curves, BakedCurve{Binding: out.Binding, Class: p.class, Curve: out.Curve})
	}
	sink.Update("Baking complete", 1)

	if clip.KeyCount() == 0 {
		m.fail(result, fmt.Sprintf("no curves produced for %s", rig))
		return result, nil
	}

	id, err := ir.ClipID(clip.Identity())
	if err != nil {
		return result, fmt.Errorf("merge: clip identity: %w", err)
	}
	clip.ID = id
	clip.RunID = m.opts.IDs.Generate()
	result.GeneratedClip = clip

	msg := fmt.Sprintf("baked %d curve(s), %d key(s) for %s at %s fps",
		len(clip.Curves), clip.KeyCount(), rig, ir.Number(rate))
	result.AddLog(msg)
	sink.LogSuccess(msg)
	return result, nil
}

// gather walks ranked tracks and collects contributors per output binding.
func (m *Merger) gather(
	ctx context.Context,
	result *MergeResult,
	tl *timeline.Timeline,
	ranked []timeline.RankedTrack,
	rig timeline.RigRef,
) (map[string]*property, error) {
	timelineEnd := tl.Duration()
	props := make(map[string]*property)
	unresolved := make(map[string]bool)

	for _, rt := range ranked {
		if err := m.checkCancel(ctx, result); err != nil {
			return nil, err
		}
		track := rt.Track

		clips := make([]timeline.ClipInfo, 0, len(track.Clips))
		for _, c := range track.Clips {
			if !c.IsValid() {
				result.AddLog(fmt.Sprintf("track %q: skipped clip %q without placement or curve data", track.Name, c.Name))
				continue
			}
			clips = append(clips, c)
		}
		windows := timeline.Windows(clips, timelineEnd)

		curves := 0
		for ci := range clips {
			clip := &clips[ci]
			weights := m.proc.SampleWeights(clip)
			for _, pair := range clip.Curves() {
				b, err := m.retarget(rig, pair.Binding)
				if err != nil {
					if key := pair.Binding.Key(); !unresolved[key] {
						unresolved[key] = true
						result.AddErrorLog(err.Error())
						m.opts.Sink.LogWarning(err.Error())
					}
					continue
				}

				key := b.Key()
				p, ok := props[key]
				if !ok {
					p = &property{binding: b, class: classify.Classify(b)}
					props[key] = p
				}
				if pair.Curve.Len() == 0 {
					continue
				}
				p.contributors = append(p.contributors, contributor{
					rank:    rt.Rank,
					clip:    clip,
					window:  windows[ci],
					weights: weights,
					curve:   pair.Curve,
				})
				curves++
			}
		}
		result.AddLog(fmt.Sprintf("track %q: %d clip(s), %d curve(s)", track.Name, len(clips), curves))
	}

	for _, p := range props {
		slices.SortStableFunc(p.contributors, func(a, b contributor) int {
			if a.rank != b.rank {
				return cmp.Compare(a.rank, b.rank)
			}
			return cmp.Compare(a.clip.StartTime(), b.clip.StartTime())
		})
	}
	return props, nil
}

// retarget resolves a "@Bone" or "@Bone/sub/path" binding path through the
// resolver. Other paths are returned unchanged.
func (m *Merger) retarget(rig timeline.RigRef, b anim.Binding) (anim.Binding, error) {
	if !strings.HasPrefix(b.Path, "@") {
		return b, nil
	}
	bone, rest, _ := strings.Cut(b.Path[1:], "/")
	if m.opts.Resolver == nil {
		return b, NewUnresolvedError(b.String(), "no bone-path resolver configured")
	}
	path, ok := m.opts.Resolver.ResolveBonePath(rig, bone)
	if !ok {
		return b, NewUnresolvedError(b.String(), fmt.Sprintf("bone %q has no path on %s", bone, rig))
	}
	switch {
	case rest == "":
	case path == "":
		path = rest
	default:
		path += "/" + rest
	}
	b.Path = path
	return b, nil
}

// mergeProperty samples a property's contributors on the frame grid and
// combines them by class. A property with no keyed contributor returns a
// nil curve so the unkeyed binding passes through.
func (m *Merger) mergeProperty(p *property) (*anim.Curve, error) {
	if len(p.contributors) == 0 {
		return nil, nil
	}

	start, end := p.contributors[0].window.Start, p.contributors[0].window.End
	for _, c := range p.contributors[1:] {
		start = min(start, c.window.Start)
		end = max(end, c.window.End)
	}

	rate := m.proc.FrameRate()
	first, last := resample.FloorFrame(start, rate), resample.CeilFrame(end, rate)
	if err := checkSampleQuota(p.binding.String(), last-first+1, m.opts.MaxSamplesPerCurve); err != nil {
		return nil, err
	}

	points := make([]anim.Point, 0, last-first+1)
	active := make([]*contributor, 0, len(p.contributors))
	for f := first; f <= last; f++ {
		t := resample.FrameTime(f, rate)
		active = active[:0]
		for i := range p.contributors {
			if p.contributors[i].window.Contains(t) {
				active = append(active, &p.contributors[i])
			}
		}
		if len(active) == 0 {
			continue
		}

		var v float64
		if p.class.PassThrough() {
			v = active[len(active)-1].value(t)
		} else {
			v = layer(active, t)
		}
		points = append(points, anim.Point{Time: t, Value: v})
	}

	if len(points) == 0 {
		return nil, NewNoContributorsError(p.binding.String())
	}
	return anim.NewLinearCurve(points...), nil
}

// layer combines active contributors (sorted by rank) at time t. Each rank
// group is a weighted mean; groups then mix bottom-up by their total weight,
// capped at 1.
func layer(active []*contributor, t float64) float64 {
	acc, have := 0.0, false
	for i := 0; i < len(active); {
		j := i
		var sumW, sumWV float64
		for ; j < len(active) && active[j].rank == active[i].rank; j++ {
			w := active[j].weight(t)
			sumW += w
			sumWV += w * active[j].value(t)
		}
		if sumW > 0 {
			v := sumWV / sumW
			if have {
				acc += (v - acc) * min(1, sumW)
			} else {
				acc, have = v, true
			}
		}
		i = j
	}
	if have {
		return acc
	}

	// Every active weight is zero: fall back to the base group's mean.
	var sum float64
	n := 0
	for _, c := range active {
		if c.rank != active[0].rank {
			break
		}
		sum += c.value(t)
		n++
	}
	return sum / float64(n)
}

func (m *Merger) checkCancel(ctx context.Context, result *MergeResult) error {
	if err := ctx.Err(); err != nil {
		merr := NewCancelledError(err)
		result.AddErrorLog(merr.Error())
		m.opts.Sink.LogError(merr.Error())
		return merr
	}
	return nil
}

func (m *Merger) fail(result *MergeResult, msg string) {
	result.AddErrorLog(msg)
	m.opts.Sink.LogError(msg)
}
