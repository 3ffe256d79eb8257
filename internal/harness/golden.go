package harness

import (
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/trackbake/internal/ir"
	"github.com/roach88/trackbake/internal/merge"
)

// snapshotPrecision rounds snapshot numbers to nanounits.
const snapshotPrecision = 1e9

// Snapshot captures the observable outcome of a scenario: success, logs
// and every baked curve. The content ID is left out; it is covered by the
// store round-trip.
type Snapshot struct {
	ScenarioName string
	RunID        string
	Success      bool
	Logs         []string
	Curves       []merge.BakedCurve
}

// NewSnapshot builds the snapshot of a scenario result.
func NewSnapshot(name string, result *Result) Snapshot {
	s := Snapshot{ScenarioName: name, Success: result.Success, Logs: result.Logs}
	if result.Clip != nil {
		s.RunID = result.Clip.RunID
		s.Curves = result.Clip.Curves
	}
	return s
}

// toIR converts the snapshot to an IR object for canonical JSON serialization.
func (s Snapshot) toIR() ir.IRObject {
	logs := make(ir.IRArray, len(s.Logs))
	for i, l := range s.Logs {
		logs[i] = ir.IRString(l)
	}

	curves := make(ir.IRArray, len(s.Curves))
	for i, bc := range s.Curves {
		keys := make(ir.IRArray, 0, bc.Curve.Len())
		for _, k := range bc.Curve.Keys() {
			keys = append(keys, ir.IRArray{ir.Number(snap(k.Time)), ir.Number(snap(k.Value))})
		}
		curves[i] = ir.IRObject{
			"path":     ir.IRString(bc.Binding.Path),
			"target":   ir.IRString(bc.Binding.Target.String()),
			"property": ir.IRString(bc.Binding.Property),
			"class":    ir.IRString(bc.Class.String()),
			"keys":     keys,
		}
	}

	obj := ir.IRObject{
		"scenario_name": ir.IRString(s.ScenarioName),
		"success":       ir.IRBool(s.Success),
		"logs":          logs,
		"curves":        curves,
	}
	if s.RunID != "" {
		obj["run_id"] = ir.IRString(s.RunID)
	}
	return obj
}

func snap(v float64) float64 {
	return math.Round(v*snapshotPrecision) / snapshotPrecision
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := ir.MarshalCanonical(NewSnapshot(scenarioName, result).toIR())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
