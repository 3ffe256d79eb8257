// Package classify decides, per curve binding, whether ordinary linear
// blending is valid or the curve needs a pass-through merge policy.
//
// Shape-weight and muscle-axis curves carry absolute magnitudes (a 0-100
// morph influence, a [-1,1] muscle axis). Cross-fading them like local
// transforms produces wrong poses, so the merge takes them from the single
// highest-priority contributing clip instead.
package classify

import (
	"fmt"
	"strings"

	"github.com/roach88/trackbake/internal/anim"
)

// BlendShapePrefix is the case-sensitive property prefix of shape weights.
const BlendShapePrefix = "blendShape."

// Class is the merge treatment a binding requires.
type Class int

const (
	Ordinary Class = iota
	ShapeWeight
	MuscleAxis
)

func (c Class) String() string {
	switch c {
	case ShapeWeight:
		return "shape_weight"
	case MuscleAxis:
		return "muscle_axis"
	default:
		return "ordinary"
	}
}

// ParseClass resolves a class name as returned by String.
func ParseClass(s string) (Class, error) {
	switch s {
	case "ordinary":
		return Ordinary, nil
	case "shape_weight":
		return ShapeWeight, nil
	case "muscle_axis":
		return MuscleAxis, nil
	}
	return Ordinary, fmt.Errorf("unknown curve class %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Class) UnmarshalText(text []byte) error {
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// PassThrough reports whether curves of this class bypass weighted blending.
func (c Class) PassThrough() bool {
	return c != Ordinary
}

// Classify returns the class of a binding.
func Classify(b anim.Binding) Class {
	switch {
	case IsShapeWeight(b):
		return ShapeWeight
	case IsMuscleAxis(b):
		return MuscleAxis
	default:
		return Ordinary
	}
}

// IsShapeWeight reports whether b drives a blend-shape weight on a skinned
// mesh. The path plays no part.
func IsShapeWeight(b anim.Binding) bool {
	if b.Target != anim.KindSkinnedMesh {
		return false
	}
	name, ok := strings.CutPrefix(b.Property, BlendShapePrefix)
	return ok && name != ""
}

// IsMuscleAxis reports whether b drives a humanoid muscle axis. Muscles
// only exist on the animator at the rig root.
func IsMuscleAxis(b anim.Binding) bool {
	if b.Target != anim.KindAnimator || b.Path != "" {
		return false
	}
	_, ok := muscleSet[b.Property]
	return ok
}

// DetectShapeWeightCurves returns the shape-weight pairs of src in source
// order. A nil source yields an empty list.
func DetectShapeWeightCurves(src anim.CurveSource) []anim.CurveBindingPair {
	return detect(src, IsShapeWeight)
}

// HasShapeWeightCurves reports whether src has any shape-weight pair.
func HasShapeWeightCurves(src anim.CurveSource) bool {
	return len(DetectShapeWeightCurves(src)) > 0
}

// DetectMuscleCurves returns the muscle-axis pairs of src in source order.
// A nil source yields an empty list.
func DetectMuscleCurves(src anim.CurveSource) []anim.CurveBindingPair {
	return detect(src, IsMuscleAxis)
}

// HasMuscleCurves reports whether src has any muscle-axis pair.
func HasMuscleCurves(src anim.CurveSource) bool {
	return len(DetectMuscleCurves(src)) > 0
}

func detect(src anim.CurveSource, match func(anim.Binding) bool) []anim.CurveBindingPair {
	out := []anim.CurveBindingPair{}
	if src == nil {
		return out
	}
	for _, p := range src.Curves() {
		if match(p.Binding) {
			out = append(out, p)
		}
	}
	return out
}
