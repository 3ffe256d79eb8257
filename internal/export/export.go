// Package export writes baked clips as asset files.
//
// Each format is a registered writer; Available is the gate callers check
// before committing to an output path for a format.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/trackbake/internal/anim"
	"github.com/roach88/trackbake/internal/ir"
	"github.com/roach88/trackbake/internal/merge"
	"github.com/roach88/trackbake/internal/timeline"
)

// Format names.
const (
	FormatJSON      = "json"
	FormatYAML      = "yaml"
	FormatCanonical = "canonical"
)

// Document is the on-disk shape of a baked clip.
type Document struct {
	ID        string          `json:"id" yaml:"id"`
	RunID     string          `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Name      string          `json:"name" yaml:"name"`
	Rig       timeline.RigRef `json:"rig" yaml:"rig"`
	FrameRate float64         `json:"frame_rate" yaml:"frame_rate"`
	Duration  float64         `json:"duration" yaml:"duration"`
	Curves    []CurveDocument `json:"curves" yaml:"curves"`
}

// CurveDocument is one curve of a Document.
type CurveDocument struct {
	Path     string          `json:"path" yaml:"path"`
	Target   anim.TargetKind `json:"target" yaml:"target"`
	Property string          `json:"property" yaml:"property"`
	Class    string          `json:"class" yaml:"class"`
	Keys     []anim.Keyframe `json:"keys" yaml:"keys"`
}

// NewDocument converts a baked clip to its document form.
func NewDocument(clip *merge.BakedClip) Document {
	doc := Document{
		ID:        clip.ID,
		RunID:     clip.RunID,
		Name:      clip.Name,
		Rig:       clip.Rig,
		FrameRate: clip.FrameRate,
		Duration:  clip.Duration(),
		Curves:    make([]CurveDocument, 0, len(clip.Curves)),
	}
	for _, bc := range clip.Curves {
		keys := bc.Curve.Keys()
		if keys == nil {
			keys = []anim.Keyframe{}
		}
		doc.Curves = append(doc.Curves, CurveDocument{
			Path:     bc.Binding.Path,
			Target:   bc.Binding.Target,
			Property: bc.Binding.Property,
			Class:    bc.Class.String(),
			Keys:     keys,
		})
	}
	return doc
}

type writerFunc func(w io.Writer, clip *merge.BakedClip) error

var writers = map[string]struct {
	ext   string
	write writerFunc
}{
	FormatJSON:      {ext: ".json", write: writeJSON},
	FormatYAML:      {ext: ".yaml", write: writeYAML},
	FormatCanonical: {ext: ".canonical.json", write: writeCanonical},
}

// Available reports whether format can be written. Matching is
// case-insensitive.
func Available(format string) bool {
	_, ok := writers[strings.ToLower(format)]
	return ok
}

// Formats returns the available format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(writers))
	for name := range writers {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Extension returns the file extension for format, including the dot.
func Extension(format string) (string, error) {
	wr, ok := writers[strings.ToLower(format)]
	if !ok {
		return "", unavailable(format)
	}
	return wr.ext, nil
}

// Write encodes clip to w in format.
func Write(format string, w io.Writer, clip *merge.BakedClip) error {
	wr, ok := writers[strings.ToLower(format)]
	if !ok {
		return unavailable(format)
	}
	if clip == nil {
		return fmt.Errorf("export %s: no clip", format)
	}
	if err := wr.write(w, clip); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	return nil
}

func unavailable(format string) error {
	return fmt.Errorf("export format %q not available (have %s)", format, strings.Join(Formats(), ", "))
}

func writeJSON(w io.Writer, clip *merge.BakedClip) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(clip))
}

func writeYAML(w io.Writer, clip *merge.BakedClip) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(clip)); err != nil {
		return err
	}
	return enc.Close()
}

// writeCanonical writes the exact bytes hashed into the clip ID.
func writeCanonical(w io.Writer, clip *merge.BakedClip) error {
	data, err := ir.MarshalCanonical(clip.Identity())
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
