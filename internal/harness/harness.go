package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/trackbake/internal/diag"
	"github.com/roach88/trackbake/internal/merge"
	"github.com/roach88/trackbake/internal/project"
	"github.com/roach88/trackbake/internal/store"
	"github.com/roach88/trackbake/internal/testutil"
	"github.com/roach88/trackbake/internal/timeline"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Load and compile the project
// 2. Merge the timeline for the scenario's rig
// 3. Write the bake to the store and read it back
// 4. Evaluate assertions against the stored clip and merge logs
//
// The returned error covers problems with the scenario itself; a bake
// that fails is reported through the result.
func Run(scenario *Scenario) (*Result, error) {
	file := scenario.Project
	if scenario.ProjectFile != "" {
		loaded, err := project.LoadFile(scenario.ProjectFile)
		if err != nil {
			return nil, fmt.Errorf("load project: %w", err)
		}
		file = loaded
	}
	if file == nil {
		return nil, fmt.Errorf("scenario %q has no project", scenario.Name)
	}

	p, err := project.Compile(file)
	if err != nil {
		return nil, fmt.Errorf("compile project: %w", err)
	}

	rig, err := targetRig(scenario, p)
	if err != nil {
		return nil, err
	}

	rate := scenario.FrameRate
	if rate <= 0 {
		rate = p.FrameRate
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	rec := diag.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	m := merge.New(merge.Options{
		FrameRate:          rate,
		MaxSamplesPerCurve: scenario.MaxSamples,
		ClipName:           scenario.ClipName,
		Resolver:           p.Bones,
		Sink:               diag.Tee{rec, diag.NewSlogSink(logger)},
		IDs:                testutil.NewFixedIDGenerator(scenario.RunID),
	})

	ctx := context.Background()
	merged, err := m.Merge(ctx, p.Timeline, rig)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	result := NewResult()
	result.Success = merged.IsSuccess()
	result.Logs = append(result.Logs, merged.Logs()...)
	result.Events = append(result.Events, rec.Events()...)

	if merged.IsSuccess() {
		if _, err := st.WriteBake(ctx, merged); err != nil {
			return nil, fmt.Errorf("store bake: %w", err)
		}
		bake, err := st.ReadBake(ctx, merged.GeneratedClip.ID)
		if err != nil {
			return nil, fmt.Errorf("read bake: %w", err)
		}
		result.Clip = bake.Clip
	}

	evaluateAssertions(result, scenario.Assertions)
	return result, nil
}

// targetRig picks the rig named by the scenario, or the project's only rig.
func targetRig(scenario *Scenario, p *project.Project) (timeline.RigRef, error) {
	if scenario.Rig != "" {
		rig, ok := p.Rig(scenario.Rig)
		if !ok {
			return timeline.RigRef{}, fmt.Errorf("scenario %q: rig %q is not declared by the project", scenario.Name, scenario.Rig)
		}
		return rig, nil
	}
	if len(p.Rigs) != 1 {
		return timeline.RigRef{}, fmt.Errorf("scenario %q: rig is required when the project declares %d rigs", scenario.Name, len(p.Rigs))
	}
	return p.Rigs[0], nil
}
