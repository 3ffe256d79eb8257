package anim

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TargetKind is the closed set of component types a curve can drive.
type TargetKind int

const (
	// KindGeneric is any component not singled out below.
	KindGeneric TargetKind = iota
	// KindTransform is a local transform (position, rotation, scale).
	KindTransform
	// KindSkinnedMesh is a skinned-mesh renderer; owns shape weights.
	KindSkinnedMesh
	// KindAnimator is the rig/animator controller; owns muscle axes and root motion.
	KindAnimator
)

var kindNames = map[TargetKind]string{
	KindGeneric:     "generic",
	KindTransform:   "transform",
	KindSkinnedMesh: "skinned_mesh",
	KindAnimator:    "animator",
}

// kindAliases accepts host-side type names in addition to the canonical ones.
var kindAliases = map[string]TargetKind{
	"generic":             KindGeneric,
	"transform":           KindTransform,
	"skinned_mesh":        KindSkinnedMesh,
	"skinnedmeshrenderer": KindSkinnedMesh,
	"animator":            KindAnimator,
}

func (k TargetKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TargetKind(%d)", int(k))
}

// ParseTargetKind resolves a kind name. Matching is case-insensitive and an
// empty name is KindGeneric.
func ParseTargetKind(s string) (TargetKind, error) {
	if s == "" {
		return KindGeneric, nil
	}
	if k, ok := kindAliases[strings.ToLower(s)]; ok {
		return k, nil
	}
	return KindGeneric, fmt.Errorf("unknown target kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k TargetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TargetKind) UnmarshalText(text []byte) error {
	parsed, err := ParseTargetKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Binding addresses one animatable property on the target rig.
// An empty Path is the rig root.
type Binding struct {
	Path     string     `json:"path" yaml:"path"`
	Target   TargetKind `json:"target" yaml:"target"`
	Property string     `json:"property" yaml:"property"`
}

// Key returns a stable identity for the binding. Strings are NFC normalized
// so that visually identical names from different hosts collapse together.
func (b Binding) Key() string {
	return norm.NFC.String(b.Path) + "|" + b.Target.String() + "|" + norm.NFC.String(b.Property)
}

func (b Binding) String() string {
	path := b.Path
	if path == "" {
		path = "<root>"
	}
	return fmt.Sprintf("%s:%s.%s", b.Target, path, b.Property)
}

// CurveBindingPair pairs a binding with its curve. Curve may be nil when the
// binding is present but carries no keys.
type CurveBindingPair struct {
	Binding Binding
	Curve   *Curve
}

// CurveSource provides the (binding, curve) pairs of one clip.
type CurveSource interface {
	Curves() []CurveBindingPair
}

// PairList is the plain slice implementation of CurveSource.
type PairList []CurveBindingPair

// Curves implements CurveSource.
func (p PairList) Curves() []CurveBindingPair {
	return p
}
