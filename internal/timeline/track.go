package timeline

import (
	"cmp"
	"fmt"
	"slices"
)

// TrackID addresses a track inside a Timeline arena.
type TrackID int

// TrackInfo is one authored track.
//
// Priority orders merging: a higher priority overrides a lower one for the
// properties both touch. Override children are layered above this track.
type TrackInfo struct {
	Name        string
	Priority    int
	BoundTarget *RigRef
	Muted       bool
	Overrides   []TrackID
	Clips       []ClipInfo
}

// IsEligible reports whether the track can take part in a merge:
// it must be unmuted and bound to a rig.
func (t *TrackInfo) IsEligible() bool {
	return t != nil && !t.Muted && t.BoundTarget != nil
}

// Timeline is the arena of tracks plus the ordered root set.
type Timeline struct {
	tracks []TrackInfo
	roots  []TrackID
}

// New returns an empty timeline.
func New() *Timeline {
	return &Timeline{}
}

// FromTracks builds a timeline from an existing arena and root list.
// The override graph is validated before the timeline is returned.
func FromTracks(tracks []TrackInfo, roots []TrackID) (*Timeline, error) {
	tl := &Timeline{
		tracks: slices.Clone(tracks),
		roots:  slices.Clone(roots),
	}
	if err := tl.Validate(); err != nil {
		return nil, err
	}
	return tl, nil
}

// Add appends a root track and returns its ID.
func (tl *Timeline) Add(t TrackInfo) TrackID {
	id := TrackID(len(tl.tracks))
	tl.tracks = append(tl.tracks, t)
	tl.roots = append(tl.roots, id)
	return id
}

// AddOverride appends t as an override child of parent.
func (tl *Timeline) AddOverride(parent TrackID, t TrackInfo) (TrackID, error) {
	if !tl.has(parent) {
		return 0, fmt.Errorf("add override: parent track %d out of range", parent)
	}
	id := TrackID(len(tl.tracks))
	tl.tracks = append(tl.tracks, t)
	tl.tracks[parent].Overrides = append(tl.tracks[parent].Overrides, id)
	return id, nil
}

// Len returns the number of tracks in the arena.
func (tl *Timeline) Len() int {
	return len(tl.tracks)
}

// Roots returns the root track IDs in authored order.
func (tl *Timeline) Roots() []TrackID {
	return slices.Clone(tl.roots)
}

// Track returns the track with the given ID, or nil when out of range.
func (tl *Timeline) Track(id TrackID) *TrackInfo {
	if !tl.has(id) {
		return nil
	}
	return &tl.tracks[id]
}

func (tl *Timeline) has(id TrackID) bool {
	return id >= 0 && int(id) < len(tl.tracks)
}

// Validate checks that every override index is in range, that no track has
// two parents, that roots are never override children, and that the
// override graph is acyclic.
func (tl *Timeline) Validate() error {
	parent := make(map[TrackID]TrackID)
	for i := range tl.tracks {
		for _, child := range tl.tracks[i].Overrides {
			if !tl.has(child) {
				return fmt.Errorf("track %d (%s): override %d out of range", i, tl.tracks[i].Name, child)
			}
			if p, dup := parent[child]; dup {
				return fmt.Errorf("track %d (%s): override %d already belongs to track %d", i, tl.tracks[i].Name, child, p)
			}
			parent[child] = TrackID(i)
		}
	}

	for _, r := range tl.roots {
		if !tl.has(r) {
			return fmt.Errorf("root track %d out of range", r)
		}
		if p, ok := parent[r]; ok {
			return fmt.Errorf("root track %d is an override of track %d", r, p)
		}
	}

	// With at most one parent per node, a cycle exists iff walking parents
	// from some node returns to it.
	for i := range tl.tracks {
		seen := map[TrackID]bool{TrackID(i): true}
		for cur := TrackID(i); ; {
			p, ok := parent[cur]
			if !ok {
				break
			}
			if seen[p] {
				return fmt.Errorf("override cycle through track %d (%s)", p, tl.tracks[p].Name)
			}
			seen[p] = true
			cur = p
		}
	}
	return nil
}

// RankedTrack is an eligible track with its position in merge order.
type RankedTrack struct {
	ID       TrackID
	Track    *TrackInfo
	Priority int // effective priority, never below the parent's
	Depth    int // 0 for roots, +1 per override level
	Rank     int // position in merge order; higher wins
}

// Eligible returns the tracks that take part in a merge for rig, ordered by
// ascending effective priority, then override depth, then arena order. An
// override's effective priority is the larger of its own and its parent's,
// so an override always ranks above the track it overrides. A track that is
// not eligible hides its whole override subtree. Tracks bound to a different
// rig are skipped individually.
func (tl *Timeline) Eligible(rig RigRef) []RankedTrack {
	var out []RankedTrack

	var walk func(id TrackID, depth, floor int)
	walk = func(id TrackID, depth, floor int) {
		t := tl.Track(id)
		if !t.IsEligible() {
			return
		}
		prio := t.Priority
		if depth > 0 {
			prio = max(prio, floor)
		}
		if t.BoundTarget.ID == rig.ID {
			out = append(out, RankedTrack{ID: id, Track: t, Priority: prio, Depth: depth})
		}
		for _, child := range t.Overrides {
			walk(child, depth+1, prio)
		}
	}
	for _, r := range tl.roots {
		walk(r, 0, 0)
	}

	slices.SortStableFunc(out, func(a, b RankedTrack) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Depth, b.Depth); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	for i := range out {
		out[i].Rank = i
	}
	return out
}

// Rigs returns the distinct rigs bound by eligible tracks in first-seen
// arena order.
func (tl *Timeline) Rigs() []RigRef {
	seen := make(map[string]bool)
	var rigs []RigRef
	for i := range tl.tracks {
		t := &tl.tracks[i]
		if !t.IsEligible() || seen[t.BoundTarget.ID] {
			continue
		}
		seen[t.BoundTarget.ID] = true
		rigs = append(rigs, *t.BoundTarget)
	}
	return rigs
}

// Duration returns the latest end time over all valid clips.
func (tl *Timeline) Duration() float64 {
	var end float64
	for i := range tl.tracks {
		for j := range tl.tracks[i].Clips {
			c := &tl.tracks[i].Clips[j]
			if c.IsValid() && c.EndTime() > end {
				end = c.EndTime()
			}
		}
	}
	return end
}
