package project

import (
	"fmt"

	"github.com/roach88/trackbake/internal/anim"
	"github.com/roach88/trackbake/internal/rig"
	"github.com/roach88/trackbake/internal/timeline"
)

// Default host mix curves: a smooth 0→1 ramp and its mirror, with flat
// tangents at both ends.
var (
	DefaultMixIn = anim.NewCurve(
		anim.Keyframe{Time: 0, Value: 0},
		anim.Keyframe{Time: 1, Value: 1},
	)
	DefaultMixOut = anim.NewCurve(
		anim.Keyframe{Time: 0, Value: 1},
		anim.Keyframe{Time: 1, Value: 0},
	)
)

// Compile validates f and builds the timeline, rig list and bone tables.
// The first validation problem is returned as a *CompileError.
func Compile(f *File) (*Project, error) {
	if errs := Validate(f); len(errs) > 0 {
		first := errs[0]
		msg := first.Message
		if len(errs) > 1 {
			msg = fmt.Sprintf("%s (and %d more)", msg, len(errs)-1)
		}
		return nil, &CompileError{Field: first.Field, Message: msg, Code: first.Code}
	}

	p := &Project{
		Name:      f.Name,
		FrameRate: f.FrameRate,
		Timeline:  timeline.New(),
		Bones:     rig.NewTable(),
		Source:    f.Source,
	}

	rigs := make(map[string]timeline.RigRef, len(f.Rigs))
	for _, r := range f.Rigs {
		ref := timeline.RigRef{ID: r.ID, Name: r.Name}
		rigs[r.ID] = ref
		p.Rigs = append(p.Rigs, ref)
		if err := p.Bones.Set(r.ID, r.Bones); err != nil {
			return nil, &CompileError{Field: "rigs", Message: err.Error(), Code: ErrUnknownBone}
		}
	}

	var add func(parent timeline.TrackID, isRoot bool, docs []TrackDoc) error
	add = func(parent timeline.TrackID, isRoot bool, docs []TrackDoc) error {
		for _, d := range docs {
			info, err := compileTrack(d, rigs)
			if err != nil {
				return err
			}
			var id timeline.TrackID
			if isRoot {
				id = p.Timeline.Add(info)
			} else if id, err = p.Timeline.AddOverride(parent, info); err != nil {
				return err
			}
			if err := add(id, false, d.Overrides); err != nil {
				return err
			}
		}
		return nil
	}
	if err := add(0, true, f.Tracks); err != nil {
		return nil, err
	}
	if err := p.Timeline.Validate(); err != nil {
		return nil, fmt.Errorf("compile project: %w", err)
	}
	return p, nil
}

func compileTrack(d TrackDoc, rigs map[string]timeline.RigRef) (timeline.TrackInfo, error) {
	info := timeline.TrackInfo{
		Name:     d.Name,
		Priority: d.Priority,
		Muted:    d.Muted,
		Clips:    make([]timeline.ClipInfo, 0, len(d.Clips)),
	}
	if d.Rig != "" {
		ref := rigs[d.Rig]
		info.BoundTarget = &ref
	}
	for _, c := range d.Clips {
		clip, err := compileClip(c)
		if err != nil {
			return timeline.TrackInfo{}, fmt.Errorf("track %q: %w", d.Name, err)
		}
		info.Clips = append(info.Clips, clip)
	}
	return info, nil
}

func compileClip(c ClipDoc) (timeline.ClipInfo, error) {
	pre, err := parseExtrapolation(c.Pre)
	if err != nil {
		return timeline.ClipInfo{}, err
	}
	post, err := parseExtrapolation(c.Post)
	if err != nil {
		return timeline.ClipInfo{}, err
	}

	pl := &timeline.Placement{
		Start:     c.Start,
		Duration:  c.Duration,
		ClipIn:    c.ClipIn,
		TimeScale: 1,
		Pre:       pre,
		Post:      post,
		EaseIn:    c.EaseIn,
		EaseOut:   c.EaseOut,
		MixIn:     mixCurve(c.MixIn, c.EaseIn, DefaultMixIn),
		MixOut:    mixCurve(c.MixOut, c.EaseOut, DefaultMixOut),
	}
	if c.TimeScale != nil {
		pl.TimeScale = *c.TimeScale
	}

	pairs := make(anim.PairList, 0, len(c.Curves))
	for _, cd := range c.Curves {
		kind, err := anim.ParseTargetKind(cd.Target)
		if err != nil {
			return timeline.ClipInfo{}, fmt.Errorf("clip %q: %w", c.Name, err)
		}
		pairs = append(pairs, anim.CurveBindingPair{
			Binding: anim.Binding{Path: cd.Path, Target: kind, Property: cd.Property},
			Curve:   buildCurve(cd.Keys),
		})
	}

	return timeline.ClipInfo{Name: c.Name, Placement: pl, Source: pairs}, nil
}

func parseExtrapolation(s string) (timeline.Extrapolation, error) {
	if s == "" {
		return timeline.ExtrapolateNone, nil
	}
	return timeline.ParseExtrapolation(s)
}

// mixCurve returns the explicit curve, or def when only a duration is set.
func mixCurve(keys []KeyDoc, ease float64, def *anim.Curve) *anim.Curve {
	if len(keys) > 0 {
		return buildCurve(keys)
	}
	if ease > 0 {
		return def
	}
	return nil
}

// buildCurve returns nil for no keys, a linear curve when no tangents are
// given, and a Hermite curve with flat defaults otherwise.
func buildCurve(keys []KeyDoc) *anim.Curve {
	if len(keys) == 0 {
		return nil
	}

	tangents := false
	for _, k := range keys {
		if k.In != nil || k.Out != nil {
			tangents = true
			break
		}
	}

	if !tangents {
		points := make([]anim.Point, len(keys))
		for i, k := range keys {
			points[i] = anim.Point{Time: k.Time, Value: k.Value}
		}
		return anim.NewLinearCurve(points...)
	}

	frames := make([]anim.Keyframe, len(keys))
	for i, k := range keys {
		frames[i] = anim.Keyframe{Time: k.Time, Value: k.Value}
		if k.In != nil {
			frames[i].InTangent = *k.In
		}
		if k.Out != nil {
			frames[i].OutTangent = *k.Out
		}
	}
	return anim.NewCurve(frames...)
}
