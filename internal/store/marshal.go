package store

import (
	"errors"
	"fmt"

	"github.com/roach88/trackbake/internal/anim"
	"github.com/roach88/trackbake/internal/classify"
	"github.com/roach88/trackbake/internal/ir"
	"github.com/roach88/trackbake/internal/merge"
)

var (
	// ErrNoClip is returned when writing a merge result without a clip.
	ErrNoClip = errors.New("merge result has no generated clip")

	// ErrIntegrity is returned when a clip's ID does not match its content.
	ErrIntegrity = errors.New("clip ID does not match content")
)

// marshalIdentity returns the canonical JSON of the clip identity after
// checking that it hashes to clip.ID.
func marshalIdentity(clip *merge.BakedClip) (string, error) {
	identity := clip.Identity()
	id, err := ir.ClipID(identity)
	if err != nil {
		return "", err
	}
	if id != clip.ID {
		return "", fmt.Errorf("%w: have %q, content hashes to %q", ErrIntegrity, clip.ID, id)
	}
	data, err := ir.MarshalCanonical(identity)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// verifyClipID recomputes the content ID of a clip read back from storage.
func verifyClipID(clip *merge.BakedClip) error {
	id, err := ir.ClipID(clip.Identity())
	if err != nil {
		return err
	}
	if id != clip.ID {
		return fmt.Errorf("%w: stored %q, content hashes to %q", ErrIntegrity, clip.ID, id)
	}
	return nil
}

// curveRow is the stored form of one baked curve.
type curveRow struct {
	path     string
	target   string
	property string
	class    string
	keyed    bool
}

func (r curveRow) baked(keys []anim.Keyframe) (merge.BakedCurve, error) {
	kind, err := anim.ParseTargetKind(r.target)
	if err != nil {
		return merge.BakedCurve{}, err
	}
	class, err := classify.ParseClass(r.class)
	if err != nil {
		return merge.BakedCurve{}, err
	}
	bc := merge.BakedCurve{
		Binding: anim.Binding{Path: r.path, Target: kind, Property: r.property},
		Class:   class,
	}
	if r.keyed {
		bc.Curve = anim.NewCurve(keys...)
	}
	return bc, nil
}
