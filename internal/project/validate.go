package project

import (
	"fmt"

	"github.com/roach88/trackbake/internal/anim"
	"github.com/roach88/trackbake/internal/rig"
	"github.com/roach88/trackbake/internal/timeline"
)

// Validate checks f and returns every problem found (does not fail-fast).
func Validate(f *File) []ValidationError {
	var errs []ValidationError
	add := func(code, field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: code})
	}

	if f.FrameRate < 0 {
		add(ErrInvalidFrameRate, "frame_rate", "must be >= 0, got %v", f.FrameRate)
	}
	if len(f.Tracks) == 0 {
		add(ErrNoTracks, "tracks", "at least one track is required")
	}

	rigs := make(map[string]bool, len(f.Rigs))
	for i, r := range f.Rigs {
		field := fmt.Sprintf("rigs[%d]", i)
		switch {
		case r.ID == "":
			add(ErrInvalidRig, field+".id", "rig id is required")
		case rigs[r.ID]:
			add(ErrInvalidRig, field+".id", "duplicate rig id %q", r.ID)
		}
		rigs[r.ID] = true
		for bone := range r.Bones {
			if _, ok := rig.Canonical(bone); !ok {
				add(ErrUnknownBone, fmt.Sprintf("%s.bones.%s", field, bone), "unknown humanoid bone %q", bone)
			}
		}
	}

	var walk func(tracks []TrackDoc, prefix string)
	walk = func(tracks []TrackDoc, prefix string) {
		for i, t := range tracks {
			field := fmt.Sprintf("%s[%d]", prefix, i)
			if t.Name == "" {
				add(ErrEmptyName, field+".name", "track name is required")
			}
			if t.Rig != "" && !rigs[t.Rig] {
				add(ErrUnknownRig, field+".rig", "rig %q is not declared", t.Rig)
			}
			for j, c := range t.Clips {
				validateClip(c, fmt.Sprintf("%s.clips[%d]", field, j), add)
			}
			walk(t.Overrides, field+".overrides")
		}
	}
	walk(f.Tracks, "tracks")

	return errs
}

func validateClip(c ClipDoc, field string, add func(code, field, format string, args ...any)) {
	if c.Name == "" {
		add(ErrEmptyName, field+".name", "clip name is required")
	}
	if c.Duration < 0 {
		add(ErrInvalidTiming, field+".duration", "must be >= 0, got %v", c.Duration)
	}
	if c.EaseIn < 0 {
		add(ErrInvalidTiming, field+".ease_in", "must be >= 0, got %v", c.EaseIn)
	}
	if c.EaseOut < 0 {
		add(ErrInvalidTiming, field+".ease_out", "must be >= 0, got %v", c.EaseOut)
	}
	if c.TimeScale != nil && *c.TimeScale <= 0 {
		add(ErrInvalidTiming, field+".time_scale", "must be > 0, got %v", *c.TimeScale)
	}
	for _, ex := range []struct{ name, value string }{{"pre", c.Pre}, {"post", c.Post}} {
		if ex.value == "" {
			continue
		}
		if _, err := timeline.ParseExtrapolation(ex.value); err != nil {
			add(ErrInvalidExtrapolation, field+"."+ex.name, "%v", err)
		}
	}
	for k, cv := range c.Curves {
		if _, err := anim.ParseTargetKind(cv.Target); err != nil {
			add(ErrInvalidTarget, fmt.Sprintf("%s.curves[%d].target", field, k), "%v", err)
		}
	}
}
