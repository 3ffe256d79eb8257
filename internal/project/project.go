// Package project loads timeline projects and compiles them into merge
// inputs.
//
// A project file lists rigs (with optional humanoid bone maps) and a tree
// of tracks, each carrying placed clips with their curves. Files may be
// YAML, JSON with comments (JSONC), or CUE; CUE sources are unified with an
// embedded schema before decoding.
package project

import (
	"github.com/roach88/trackbake/internal/rig"
	"github.com/roach88/trackbake/internal/timeline"
)

// File is the decoded, uncompiled form of a project.
type File struct {
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	FrameRate float64    `json:"frame_rate,omitempty" yaml:"frame_rate,omitempty"`
	Rigs      []RigDoc   `json:"rigs,omitempty" yaml:"rigs,omitempty"`
	Tracks    []TrackDoc `json:"tracks" yaml:"tracks"`

	// Source is the path the file was loaded from, if any.
	Source string `json:"-" yaml:"-"`
}

// RigDoc declares a rig and its humanoid bone map.
type RigDoc struct {
	ID    string            `json:"id" yaml:"id"`
	Name  string            `json:"name,omitempty" yaml:"name,omitempty"`
	Bones map[string]string `json:"bones,omitempty" yaml:"bones,omitempty"`
}

// TrackDoc declares a track and its override children.
// An empty Rig leaves the track unbound.
type TrackDoc struct {
	Name      string     `json:"name" yaml:"name"`
	Priority  int        `json:"priority,omitempty" yaml:"priority,omitempty"`
	Rig       string     `json:"rig,omitempty" yaml:"rig,omitempty"`
	Muted     bool       `json:"muted,omitempty" yaml:"muted,omitempty"`
	Clips     []ClipDoc  `json:"clips,omitempty" yaml:"clips,omitempty"`
	Overrides []TrackDoc `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// ClipDoc declares one placed clip. A nil TimeScale means 1. A positive
// ease duration without a mix curve gets the default smooth ramp.
type ClipDoc struct {
	Name      string     `json:"name" yaml:"name"`
	Start     float64    `json:"start" yaml:"start"`
	Duration  float64    `json:"duration" yaml:"duration"`
	ClipIn    float64    `json:"clip_in,omitempty" yaml:"clip_in,omitempty"`
	TimeScale *float64   `json:"time_scale,omitempty" yaml:"time_scale,omitempty"`
	Pre       string     `json:"pre,omitempty" yaml:"pre,omitempty"`
	Post      string     `json:"post,omitempty" yaml:"post,omitempty"`
	EaseIn    float64    `json:"ease_in,omitempty" yaml:"ease_in,omitempty"`
	EaseOut   float64    `json:"ease_out,omitempty" yaml:"ease_out,omitempty"`
	MixIn     []KeyDoc   `json:"mix_in,omitempty" yaml:"mix_in,omitempty"`
	MixOut    []KeyDoc   `json:"mix_out,omitempty" yaml:"mix_out,omitempty"`
	Curves    []CurveDoc `json:"curves,omitempty" yaml:"curves,omitempty"`
}

// CurveDoc declares one bound curve. Keys may be empty.
type CurveDoc struct {
	Path     string   `json:"path,omitempty" yaml:"path,omitempty"`
	Target   string   `json:"target" yaml:"target"`
	Property string   `json:"property" yaml:"property"`
	Keys     []KeyDoc `json:"keys,omitempty" yaml:"keys,omitempty"`
}

// KeyDoc is one keyframe. When no key of a curve sets a tangent the curve
// interpolates linearly; otherwise missing tangents are flat.
type KeyDoc struct {
	Time  float64  `json:"time" yaml:"time"`
	Value float64  `json:"value" yaml:"value"`
	In    *float64 `json:"in,omitempty" yaml:"in,omitempty"`
	Out   *float64 `json:"out,omitempty" yaml:"out,omitempty"`
}

// Project is a compiled project, ready to merge.
type Project struct {
	Name string

	// FrameRate is the file's sampling rate; 0 when unset.
	FrameRate float64

	Timeline *timeline.Timeline

	// Rigs lists declared rigs in file order.
	Rigs []timeline.RigRef

	// Bones resolves "@Bone" binding paths per rig.
	Bones *rig.Table

	Source string
}

// Rig returns the declared rig with id.
func (p *Project) Rig(id string) (timeline.RigRef, bool) {
	for _, r := range p.Rigs {
		if r.ID == id {
			return r, true
		}
	}
	return timeline.RigRef{}, false
}
