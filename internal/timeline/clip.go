package timeline

import (
	"fmt"
	"strings"

	"github.com/roach88/trackbake/internal/anim"
)

// RigRef identifies the rig a track outputs to.
type RigRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

func (r RigRef) String() string {
	if r.Name != "" && r.Name != r.ID {
		return fmt.Sprintf("%s (%s)", r.Name, r.ID)
	}
	return r.ID
}

// Extrapolation is the policy for a clip's contribution outside its own span.
type Extrapolation int

const (
	ExtrapolateNone Extrapolation = iota
	ExtrapolateHold
	ExtrapolateLoop
	ExtrapolatePingPong
	ExtrapolateContinue
)

var extrapolationNames = []string{"none", "hold", "loop", "ping_pong", "continue"}

func (e Extrapolation) String() string {
	if int(e) >= 0 && int(e) < len(extrapolationNames) {
		return extrapolationNames[e]
	}
	return fmt.Sprintf("Extrapolation(%d)", int(e))
}

// ParseExtrapolation resolves a mode name. "pingpong" and "ping-pong" are
// accepted for ping_pong; an empty name is none.
func ParseExtrapolation(s string) (Extrapolation, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return ExtrapolateNone, nil
	case "hold":
		return ExtrapolateHold, nil
	case "loop":
		return ExtrapolateLoop, nil
	case "ping_pong", "pingpong", "ping-pong":
		return ExtrapolatePingPong, nil
	case "continue":
		return ExtrapolateContinue, nil
	}
	return ExtrapolateNone, fmt.Errorf("unknown extrapolation mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (e Extrapolation) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Extrapolation) UnmarshalText(text []byte) error {
	parsed, err := ParseExtrapolation(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Placement is the host-side placement of a clip on its track.
// MixIn and MixOut are the host's auto-maintained ease curves over [0,1];
// either may be nil. A TimeScale <= 0 is read as 1.
type Placement struct {
	Start     float64
	Duration  float64
	ClipIn    float64
	TimeScale float64
	Pre       Extrapolation
	Post      Extrapolation
	EaseIn    float64
	EaseOut   float64
	MixIn     *anim.Curve
	MixOut    *anim.Curve
}

// ClipInfo is one placed clip. Placement and Source are both optional;
// accessors fall back to defaults when Placement is nil.
type ClipInfo struct {
	Name      string
	Placement *Placement
	Source    anim.CurveSource
}

// IsValid reports whether the clip has both a placement and curve data.
func (c *ClipInfo) IsValid() bool {
	return c != nil && c.Placement != nil && c.Source != nil
}

func (c *ClipInfo) StartTime() float64 {
	if c == nil || c.Placement == nil {
		return 0
	}
	return c.Placement.Start
}

func (c *ClipInfo) Duration() float64 {
	if c == nil || c.Placement == nil {
		return 0
	}
	return c.Placement.Duration
}

// EndTime is StartTime + Duration.
func (c *ClipInfo) EndTime() float64 {
	return c.StartTime() + c.Duration()
}

func (c *ClipInfo) ClipIn() float64 {
	if c == nil || c.Placement == nil {
		return 0
	}
	return c.Placement.ClipIn
}

// TimeScale defaults to 1 when the clip is not placed or its placement
// leaves the scale unset.
func (c *ClipInfo) TimeScale() float64 {
	if c == nil || c.Placement == nil || c.Placement.TimeScale <= 0 {
		return 1
	}
	return c.Placement.TimeScale
}

func (c *ClipInfo) PreExtrapolation() Extrapolation {
	if c == nil || c.Placement == nil {
		return ExtrapolateNone
	}
	return c.Placement.Pre
}

func (c *ClipInfo) PostExtrapolation() Extrapolation {
	if c == nil || c.Placement == nil {
		return ExtrapolateNone
	}
	return c.Placement.Post
}

func (c *ClipInfo) EaseInDuration() float64 {
	if c == nil || c.Placement == nil {
		return 0
	}
	return c.Placement.EaseIn
}

func (c *ClipInfo) EaseOutDuration() float64 {
	if c == nil || c.Placement == nil {
		return 0
	}
	return c.Placement.EaseOut
}

// Curves returns the clip's source pairs, or nil when there is no source.
func (c *ClipInfo) Curves() []anim.CurveBindingPair {
	if c == nil || c.Source == nil {
		return nil
	}
	return c.Source.Curves()
}
