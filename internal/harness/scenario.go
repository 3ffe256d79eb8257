package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/trackbake/internal/anim"
	"github.com/roach88/trackbake/internal/classify"
	"github.com/roach88/trackbake/internal/project"
)

// Scenario defines a bake conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Project is the inline timeline project. Exactly one of Project and
	// ProjectFile must be set.
	Project *project.File `yaml:"project,omitempty"`

	// ProjectFile is a project path, resolved relative to the scenario file.
	ProjectFile string `yaml:"project_file,omitempty"`

	// Rig is the target rig ID. It may be omitted when the project declares
	// exactly one rig.
	Rig string `yaml:"rig,omitempty"`

	// FrameRate overrides the project's frame rate when positive.
	FrameRate float64 `yaml:"frame_rate,omitempty"`

	// MaxSamples bounds each property's sample grid when positive.
	MaxSamples int `yaml:"max_samples,omitempty"`

	// ClipName names the baked clip.
	ClipName string `yaml:"clip_name,omitempty"`

	// RunID is a fixed run ID for deterministic snapshots.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Assertions validate the baked clip and merge logs.
	Assertions []Assertion `yaml:"assertions"`
}

// BindingRef names a baked curve in an assertion.
type BindingRef struct {
	Path     string `yaml:"path"`
	Target   string `yaml:"target"`
	Property string `yaml:"property"`
}

// Binding resolves the reference to an anim.Binding.
func (r BindingRef) Binding() (anim.Binding, error) {
	kind, err := anim.ParseTargetKind(r.Target)
	if err != nil {
		return anim.Binding{}, err
	}
	return anim.Binding{Path: r.Path, Target: kind, Property: r.Property}, nil
}

// Assertion validates the outcome of a scenario.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Binding selects a curve (key_count, value_at, class).
	Binding *BindingRef `yaml:"binding,omitempty"`

	// Expect is the expected success flag (success).
	Expect *bool `yaml:"expect,omitempty"`

	// Count is the expected count (curve_count, key_count).
	Count *int `yaml:"count,omitempty"`

	// Time and Value are the expected sample (value_at).
	Time  *float64 `yaml:"time,omitempty"`
	Value *float64 `yaml:"value,omitempty"`

	// Tolerance for value_at; zero selects DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Class is the expected merge class name (class).
	Class string `yaml:"class,omitempty"`

	// Text is the expected log substring (log_contains).
	Text string `yaml:"text,omitempty"`
}

// Assertion types.
const (
	AssertSuccess     = "success"
	AssertCurveCount  = "curve_count"
	AssertKeyCount    = "key_count"
	AssertValueAt     = "value_at"
	AssertClass       = "class"
	AssertLogContains = "log_contains"
)

// DefaultTolerance is the value_at tolerance when none is given.
const DefaultTolerance = 1e-9

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative project_file is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.ProjectFile != "" && !filepath.IsAbs(scenario.ProjectFile) {
		scenario.ProjectFile = filepath.Join(filepath.Dir(path), scenario.ProjectFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Project == nil && s.ProjectFile == "":
		return fmt.Errorf("one of project or project_file is required")
	case s.Project != nil && s.ProjectFile != "":
		return fmt.Errorf("project and project_file are mutually exclusive")
	case s.ProjectFile != "":
		if _, err := os.Stat(s.ProjectFile); os.IsNotExist(err) {
			return fmt.Errorf("project file not found: %s", s.ProjectFile)
		}
	}

	if s.FrameRate < 0 {
		return fmt.Errorf("frame_rate must be >= 0")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	needBinding := func() error {
		if a.Binding == nil {
			return fmt.Errorf("assertions[%d]: binding is required for %s", index, a.Type)
		}
		if _, err := a.Binding.Binding(); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		return nil
	}
	needCount := func() error {
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
		return nil
	}

	switch a.Type {
	case AssertSuccess:
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for success", index)
		}
	case AssertCurveCount:
		return needCount()
	case AssertKeyCount:
		if a.Binding != nil {
			if err := needBinding(); err != nil {
				return err
			}
		}
		return needCount()
	case AssertValueAt:
		if err := needBinding(); err != nil {
			return err
		}
		if a.Time == nil || a.Value == nil {
			return fmt.Errorf("assertions[%d]: time and value are required for value_at", index)
		}
		if a.Tolerance < 0 {
			return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
		}
	case AssertClass:
		if err := needBinding(); err != nil {
			return err
		}
		if _, err := classify.ParseClass(a.Class); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertLogContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for log_contains", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
