// Package harness provides conformance testing for bakes.
//
// A scenario pairs a timeline project with assertions about the clip the
// merge produces. The harness compiles the project, merges it for one rig,
// stores the bake in an in-memory database, reads it back, and evaluates
// the assertions against the stored clip.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: crossfade
//	description: "Two clips cross-fade on one track"
//	rig: hero
//	frame_rate: 4
//	project:
//	  rigs: [{id: hero}]
//	  tracks:
//	    - name: Base
//	      rig: hero
//	      clips: [...]
//	assertions:
//	  - type: success
//	    expect: true
//	  - type: value_at
//	    binding: {path: Hips, target: transform, property: localPosition.x}
//	    time: 0.5
//	    value: 2
//
// project_file may name a project file (relative to the scenario) instead
// of an inline project.
//
// # Assertion Types
//
//   - success: the merge produced (or did not produce) a clip
//   - curve_count: number of baked curves
//   - key_count: keys on one curve, or across the clip without a binding
//   - value_at: a curve's value at a time, within tolerance
//   - class: a curve's merge class
//   - log_contains: some merge log entry contains the text
//
// # Deterministic Testing
//
// Runs use a fixed run ID (scenario.run_id or "test-run-default"), a fresh
// in-memory SQLite store, and discard logging, so identical scenarios
// produce identical golden snapshots.
package harness
