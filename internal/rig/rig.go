// Package rig resolves canonical humanoid bone names to transform paths on
// concrete rigs.
//
// Bone names match case-insensitively and ignore '_', '-', '.' and spaces,
// so "LeftHand", "left_hand" and "lefthand" are the same bone. A rig that
// omits an optional torso bone resolves it through its parent chain
// (UpperChest falls back to Chest, Chest to Spine).
package rig

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/trackbake/internal/timeline"
)

var canonicalBones = []string{
	"Hips", "Spine", "Chest", "UpperChest", "Neck", "Head", "Jaw", "LeftEye", "RightEye",
	"LeftShoulder", "LeftUpperArm", "LeftLowerArm", "LeftHand",
	"RightShoulder", "RightUpperArm", "RightLowerArm", "RightHand",
	"LeftUpperLeg", "LeftLowerLeg", "LeftFoot", "LeftToes",
	"RightUpperLeg", "RightLowerLeg", "RightFoot", "RightToes",
}

// fallbacks lists optional bones and the bone used when a rig omits them.
var fallbacks = map[string]string{
	"upperchest": "chest",
	"chest":      "spine",
}

var boneIndex = func() map[string]string {
	for _, side := range []string{"Left", "Right"} {
		for _, finger := range []string{"Thumb", "Index", "Middle", "Ring", "Little"} {
			for _, seg := range []string{"Proximal", "Intermediate", "Distal"} {
				canonicalBones = append(canonicalBones, side+finger+seg)
			}
		}
	}
	idx := make(map[string]string, len(canonicalBones))
	for _, b := range canonicalBones {
		idx[fold(b)] = b
	}
	return idx
}()

// CanonicalBones returns the humanoid bone names in table order.
func CanonicalBones() []string {
	return slices.Clone(canonicalBones)
}

// Canonical returns the canonical spelling of bone, if it is a known bone.
func Canonical(bone string) (string, bool) {
	b, ok := boneIndex[fold(bone)]
	return b, ok
}

func fold(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch r {
		case '_', '-', '.', ' ':
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Table maps canonical bones to transform paths, per rig.
// Table implements merge.BonePathResolver.
type Table struct {
	rigs map[string]map[string]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rigs: make(map[string]map[string]string)}
}

// Set replaces the bone map of rigID. Keys must be known bone names in any
// spelling Canonical accepts; an empty path maps the bone to the rig root.
func (t *Table) Set(rigID string, bones map[string]string) error {
	m := make(map[string]string, len(bones))
	for bone, path := range bones {
		key := fold(bone)
		if _, ok := boneIndex[key]; !ok {
			return fmt.Errorf("rig %q: unknown bone %q", rigID, bone)
		}
		if _, dup := m[key]; dup {
			return fmt.Errorf("rig %q: bone %q mapped twice", rigID, bone)
		}
		m[key] = strings.Trim(path, "/")
	}
	t.rigs[rigID] = m
	return nil
}

// Rigs returns the IDs of rigs with a bone map, sorted.
func (t *Table) Rigs() []string {
	ids := make([]string, 0, len(t.rigs))
	for id := range t.rigs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ResolveBonePath returns the transform path of bone on rig. Optional torso
// bones fall back to their parent when unmapped.
func (t *Table) ResolveBonePath(rig timeline.RigRef, bone string) (string, bool) {
	if t == nil {
		return "", false
	}
	m, ok := t.rigs[rig.ID]
	if !ok {
		return "", false
	}
	for key := fold(bone); key != ""; key = fallbacks[key] {
		if path, ok := m[key]; ok {
			return path, true
		}
	}
	return "", false
}
