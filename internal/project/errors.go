package project

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Validation error codes (E200-E299).
const (
	ErrNoTracks             = "E200" // project declares no tracks
	ErrInvalidFrameRate     = "E201" // frame_rate < 0
	ErrInvalidRig           = "E202" // empty or duplicate rig id
	ErrUnknownRig           = "E203" // track references an undeclared rig
	ErrInvalidTiming        = "E204" // negative duration/ease, non-positive time scale
	ErrInvalidExtrapolation = "E205" // unknown extrapolation mode
	ErrInvalidTarget        = "E206" // unknown target kind
	ErrUnknownBone          = "E207" // bone map names an unknown bone
	ErrEmptyName            = "E208" // track or clip without a name
)

// ValidationError is one problem found in a project file.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// CompileError is a failure to load or compile a project, with the CUE
// source position when one is known.
type CompileError struct {
	Field   string
	Message string
	Code    string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return &CompileError{Field: "cue", Message: first.Error()}
}
