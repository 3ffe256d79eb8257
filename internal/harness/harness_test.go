package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/trackbake/internal/diag"
	"github.com/roach88/trackbake/internal/project"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func boolPtr(b bool) *bool        { return &b }
func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
func hipsX() *BindingRef {
	return &BindingRef{Path: "Hips", Target: "transform", Property: "localPosition.x"}
}
func rampProject() *project.File { return rampProjectWith("hero") }
func rampProjectWith(rigs ...string) *project.File {
	f := &project.File{}
	for _, id := range rigs {
		f.Rigs = append(f.Rigs, project.RigDoc{ID: id})
	}
	f.Tracks = []project.TrackDoc{{
		Name: "Base",
		Rig:  rigs[0],
		Clips: []project.ClipDoc{{
			Name:     "walk",
			Duration: 1,
			Curves: []project.CurveDoc{{
				Path: "Hips", Target: "transform", Property: "localPosition.x",
				Keys: []project.KeyDoc{{Time: 0, Value: 0}, {Time: 1, Value: 2}},
			}},
		}},
	}}
	return f
}

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "single_ramp.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "single_ramp", s.Name)
	assert.Equal(t, "hero", s.Rig)
	assert.Equal(t, 4.0, s.FrameRate)
	require.NotNil(t, s.Project)
	require.Len(t, s.Project.Tracks, 1)
	assert.Len(t, s.Assertions, 8)
}

func TestLoadScenario_ResolvesProjectFile(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "quota.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "projects", "walk.jsonc"), s.ProjectFile)
	assert.Nil(t, s.Project)
	assert.Equal(t, 3, s.MaxSamples)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown field",
			content: "name: x\ndescription: d\nasertions: []\n",
			wantErr: "asertions",
		},
		{
			name:    "missing name",
			content: "description: d\nproject: {tracks: []}\nassertions: [{type: success, expect: true}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing project",
			content: "name: x\ndescription: d\nassertions: [{type: success, expect: true}]\n",
			wantErr: "one of project or project_file is required",
		},
		{
			name:    "both projects",
			content: "name: x\ndescription: d\nproject: {tracks: []}\nproject_file: p.yaml\nassertions: [{type: success, expect: true}]\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "missing project file",
			content: "name: x\ndescription: d\nproject_file: nope.yaml\nassertions: [{type: success, expect: true}]\n",
			wantErr: "project file not found",
		},
		{
			name:    "no assertions",
			content: "name: x\ndescription: d\nproject: {tracks: []}\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "unknown assertion",
			content: "name: x\ndescription: d\nproject: {tracks: []}\nassertions: [{type: vibes}]\n",
			wantErr: `unknown assertion type "vibes"`,
		},
		{
			name:    "success without expect",
			content: "name: x\ndescription: d\nproject: {tracks: []}\nassertions: [{type: success}]\n",
			wantErr: "expect is required",
		},
		{
			name:    "value_at without binding",
			content: "name: x\ndescription: d\nproject: {tracks: []}\nassertions: [{type: value_at, time: 0, value: 0}]\n",
			wantErr: "binding is required for value_at",
		},
		{
			name:    "value_at without time",
			content: "name: x\ndescription: d\nproject: {tracks: []}\nassertions: [{type: value_at, binding: {path: a, target: transform, property: p}, value: 0}]\n",
			wantErr: "time and value are required",
		},
		{
			name:    "bad class",
			content: "name: x\ndescription: d\nproject: {tracks: []}\nassertions: [{type: class, binding: {path: a, target: transform, property: p}, class: fancy}]\n",
			wantErr: "unknown curve class",
		},
		{
			name:    "bad target",
			content: "name: x\ndescription: d\nproject: {tracks: []}\nassertions: [{type: class, binding: {path: a, target: lamp, property: p}, class: ordinary}]\n",
			wantErr: "unknown target kind",
		},
		{
			name:    "negative count",
			content: "name: x\ndescription: d\nproject: {tracks: []}\nassertions: [{type: curve_count, count: -1}]\n",
			wantErr: "count must be non-negative",
		},
		{
			name:    "log_contains without text",
			content: "name: x\ndescription: d\nproject: {tracks: []}\nassertions: [{type: log_contains}]\n",
			wantErr: "text is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read scenario file")
}

func TestRun_PicksOnlyRig(t *testing.T) {
	result, err := Run(&Scenario{
		Name:       "only-rig",
		Project:    rampProject(),
		FrameRate:  2,
		Assertions: []Assertion{{Type: AssertSuccess, Expect: boolPtr(true)}},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.NotNil(t, result.Clip)
	assert.Equal(t, "hero", result.Clip.Rig.ID)
	assert.Equal(t, "test-run-default", result.Clip.RunID)
}

func TestRun_RequiresRigWhenAmbiguous(t *testing.T) {
	_, err := Run(&Scenario{Name: "two-rigs", Project: rampProjectWith("hero", "villain")})
	assert.ErrorContains(t, err, "rig is required when the project declares 2 rigs")
}

func TestRun_UnknownRig(t *testing.T) {
	_, err := Run(&Scenario{Name: "ghost", Rig: "ghost", Project: rampProject()})
	assert.ErrorContains(t, err, `rig "ghost" is not declared`)
}

func TestRun_CompileError(t *testing.T) {
	_, err := Run(&Scenario{Name: "empty", Project: &project.File{}})
	require.Error(t, err)
	var ce *project.CompileError
	assert.ErrorAs(t, err, &ce)
}

func TestRun_NoProject(t *testing.T) {
	_, err := Run(&Scenario{Name: "none"})
	assert.ErrorContains(t, err, "has no project")
}

func TestRun_RecordsSinkEvents(t *testing.T) {
	result, err := Run(&Scenario{
		Name:       "events",
		Project:    rampProject(),
		FrameRate:  2,
		Assertions: []Assertion{{Type: AssertSuccess, Expect: boolPtr(true)}},
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.Events)
	assert.Equal(t, diag.Event{Kind: diag.KindBegin, Message: "Merging tracks for hero"}, result.Events[0])
	assert.Equal(t, diag.Event{Kind: diag.KindEnd}, result.Events[len(result.Events)-1])
	assert.Contains(t, result.Events, diag.Event{Kind: diag.KindSuccess, Message: "baked 1 curve(s), 3 key(s) for hero at 2 fps"})
}

func TestRun_FailingAssertions(t *testing.T) {
	result, err := Run(&Scenario{
		Name:      "failing",
		Project:   rampProject(),
		FrameRate: 2,
		Assertions: []Assertion{
			{Type: AssertSuccess, Expect: boolPtr(false)},
			{Type: AssertCurveCount, Count: intPtr(2)},
			{Type: AssertKeyCount, Count: intPtr(4)},
			{Type: AssertKeyCount, Binding: hipsX(), Count: intPtr(3)},
			{Type: AssertValueAt, Binding: hipsX(), Time: floatPtr(0.5), Value: floatPtr(1.5)},
			{Type: AssertValueAt, Binding: hipsX(), Time: floatPtr(0.5), Value: floatPtr(1.5), Tolerance: 1},
			{Type: AssertClass, Binding: hipsX(), Class: "shape_weight"},
			{Type: AssertLogContains, Text: "nothing like this"},
			{Type: AssertValueAt, Binding: &BindingRef{Path: "Spine", Target: "transform", Property: "x"}, Time: floatPtr(0), Value: floatPtr(0)},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 7)
	assert.Contains(t, result.Errors[0], "assertions[0] success: expected success=false")
	assert.Contains(t, result.Errors[1], "assertions[1] curve_count: expected 2 curve(s), got 1")
	assert.Contains(t, result.Errors[2], "assertions[2] key_count: expected 4 key(s), got 3")
	assert.Contains(t, result.Errors[3], "assertions[4] value_at")
	assert.Contains(t, result.Errors[4], "assertions[6] class: expected class shape_weight, got ordinary")
	assert.Contains(t, result.Errors[5], "assertions[7] log_contains")
	assert.Contains(t, result.Errors[6], "no curve for transform:Spine.x")
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)
	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}
