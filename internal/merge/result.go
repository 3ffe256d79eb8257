package merge

import (
	"github.com/roach88/trackbake/internal/anim"
	"github.com/roach88/trackbake/internal/classify"
	"github.com/roach88/trackbake/internal/ir"
	"github.com/roach88/trackbake/internal/timeline"
)

// ErrorLogPrefix marks error entries in MergeResult logs.
const ErrorLogPrefix = "[Error] "

// MergeResult accumulates the outcome of one merge run for a target rig.
// GeneratedClip is set only when at least one curve was produced.
type MergeResult struct {
	TargetRig     timeline.RigRef
	GeneratedClip *BakedClip

	logs []string
}

// NewMergeResult creates an empty result for rig.
func NewMergeResult(rig timeline.RigRef) *MergeResult {
	return &MergeResult{TargetRig: rig}
}

// AddLog appends msg. Empty messages are ignored.
func (r *MergeResult) AddLog(msg string) {
	if msg == "" {
		return
	}
	r.logs = append(r.logs, msg)
}

// AddErrorLog appends msg with the error prefix. Empty messages are ignored.
func (r *MergeResult) AddErrorLog(msg string) {
	if msg == "" {
		return
	}
	r.logs = append(r.logs, ErrorLogPrefix+msg)
}

// Logs returns a copy of the log entries in insertion order.
func (r *MergeResult) Logs() []string {
	out := make([]string, len(r.logs))
	copy(out, r.logs)
	return out
}

// IsSuccess reports whether a clip was generated.
func (r *MergeResult) IsSuccess() bool {
	return r.GeneratedClip != nil
}

// BakedCurve is one flattened, grid-aligned output curve.
// Curve is nil when every source left the binding unkeyed.
type BakedCurve struct {
	Binding anim.Binding
	Class   classify.Class
	Curve   *anim.Curve
}

// BakedClip is the flattened output of a merge run.
type BakedClip struct {
	// ID is the content address of the clip (see Identity).
	ID string

	// RunID identifies the bake run that produced the clip.
	RunID string

	Name      string
	Rig       timeline.RigRef
	FrameRate float64
	Curves    []BakedCurve
}

// Duration returns the latest key time across all curves.
func (c *BakedClip) Duration() float64 {
	var end float64
	for _, bc := range c.Curves {
		if _, last, ok := bc.Curve.Extent(); ok && last > end {
			end = last
		}
	}
	return end
}

// KeyCount returns the total number of keys across all curves.
func (c *BakedClip) KeyCount() int {
	n := 0
	for _, bc := range c.Curves {
		n += bc.Curve.Len()
	}
	return n
}

// Pairs returns the clip's curves as binding pairs.
func (c *BakedClip) Pairs() []anim.CurveBindingPair {
	out := make([]anim.CurveBindingPair, len(c.Curves))
	for i, bc := range c.Curves {
		out[i] = anim.CurveBindingPair{Binding: bc.Binding, Curve: bc.Curve}
	}
	return out
}

// Find returns the curve bound to b's key, if any.
func (c *BakedClip) Find(b anim.Binding) (BakedCurve, bool) {
	key := b.Key()
	for _, bc := range c.Curves {
		if bc.Binding.Key() == key {
			return bc, true
		}
	}
	return BakedCurve{}, false
}

// Identity returns the canonical IR form hashed into the clip ID: the rig,
// the frame rate and every curve's binding, class and (time, value) keys.
// Name and RunID are excluded so renaming or re-running does not change it.
func (c *BakedClip) Identity() ir.IRObject {
	curves := make(ir.IRArray, len(c.Curves))
	for i, bc := range c.Curves {
		curves[i] = CurveIdentity(bc)
	}
	return ir.IRObject{
		"rig":        ir.IRString(c.Rig.ID),
		"frame_rate": ir.Number(c.FrameRate),
		"curves":     curves,
	}
}

// CurveIdentity returns the canonical IR form of one baked curve.
func CurveIdentity(bc BakedCurve) ir.IRObject {
	keys := make(ir.IRArray, 0, bc.Curve.Len())
	for _, k := range bc.Curve.Keys() {
		keys = append(keys, ir.IRArray{ir.Number(k.Time), ir.Number(k.Value)})
	}
	return ir.IRObject{
		"path":     ir.IRString(bc.Binding.Path),
		"target":   ir.IRString(bc.Binding.Target.String()),
		"property": ir.IRString(bc.Binding.Property),
		"class":    ir.IRString(bc.Class.String()),
		"keys":     keys,
	}
}
