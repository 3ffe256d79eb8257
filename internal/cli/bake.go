package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/trackbake/internal/diag"
	"github.com/roach88/trackbake/internal/export"
	"github.com/roach88/trackbake/internal/merge"
	"github.com/roach88/trackbake/internal/naming"
	"github.com/roach88/trackbake/internal/project"
	"github.com/roach88/trackbake/internal/store"
	"github.com/roach88/trackbake/internal/timeline"
)

// BakeOptions holds flags for the bake command.
type BakeOptions struct {
	*RootOptions
	Database   string
	OutDir     string
	Export     string
	Rig        string
	FrameRate  float64
	MaxSamples int
	Name       string
	Progress   bool

	// IDs allows overriding the run ID generator (for testing).
	// If nil, defaults to merge.UUIDv7Generator.
	IDs merge.IDGenerator

	// Exister allows overriding the output path check (for testing).
	// If nil, defaults to naming.OSExister.
	Exister naming.Exister
}

// BakeOutput is the outcome of baking one rig of one project.
type BakeOutput struct {
	Project   string   `json:"project"`
	Rig       string   `json:"rig"`
	Success   bool     `json:"success"`
	ClipID    string   `json:"clip_id,omitempty"`
	RunID     string   `json:"run_id,omitempty"`
	Name      string   `json:"name,omitempty"`
	FrameRate float64  `json:"frame_rate,omitempty"`
	Curves    int      `json:"curves"`
	Keys      int      `json:"keys"`
	Stored    bool     `json:"stored"`
	Duplicate bool     `json:"duplicate,omitempty"`
	Path      string   `json:"path,omitempty"`
	Logs      []string `json:"logs"`
}

// BakeResult holds the overall bake result.
type BakeResult struct {
	Bakes  []BakeOutput `json:"bakes"`
	Baked  int          `json:"baked"`
	Failed int          `json:"failed"`
}

// NewBakeCommand creates the bake command.
func NewBakeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BakeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bake <project>...",
		Short: "Merge project tracks into baked clips",
		Long: `Merge the tracks of one or more timeline projects into baked clips.

Each project is baked once per declared rig (or only for --rig). Baked
clips are stored in the SQLite database given by --db and written as asset
files into --out-dir. Project files are read concurrently; merging is
sequential.

Exit codes:
  0 - Every bake produced a clip
  1 - One or more bakes produced nothing
  2 - Command error (invalid project, database or output errors)

Examples:
  trackbake bake walk.yaml --db ./bakes.db
  trackbake bake walk.yaml run.cue --out-dir ./baked --export yaml
  trackbake bake walk.yaml --rig hero --frame-rate 30 --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBake(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for baked clips")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "directory for exported asset files")
	cmd.Flags().StringVar(&opts.Export, "export", export.FormatJSON, "asset format ("+strings.Join(export.Formats(), "|")+")")
	cmd.Flags().StringVar(&opts.Rig, "rig", "", "bake only this rig")
	cmd.Flags().Float64Var(&opts.FrameRate, "frame-rate", 0, "sampling rate in fps (overrides the project)")
	cmd.Flags().IntVar(&opts.MaxSamples, "max-samples", 0, "per-curve sample limit (0 selects the default)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "baked clip name (defaults to the project name)")
	cmd.Flags().BoolVar(&opts.Progress, "progress", false, "print merge progress to stderr")

	return cmd
}

func runBake(opts *BakeOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.newLogger(cmd.ErrOrStderr())

	if opts.OutDir != "" && !export.Available(opts.Export) {
		return formatter.fail(ExitCommandError, ErrCodeInvalidFlag,
			fmt.Sprintf("export format %q is not available", opts.Export), nil)
	}
	if opts.FrameRate < 0 {
		return formatter.fail(ExitCommandError, ErrCodeInvalidFlag, "--frame-rate must be >= 0", nil)
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	loaded, errs := LoadProjects(ctx, paths, LoadModeFailFast)
	if len(errs) > 0 {
		code := ErrCodeLoadFailed
		var loadErr *LoadError
		if errors.As(errs[0], &loadErr) {
			code = loadErr.Code
		}
		return formatter.fail(ExitCommandError, code, "failed to load project", errs[0])
	}

	var st *store.Store
	if opts.Database != "" {
		logger.Info("opening database", "path", opts.Database)
		var err error
		st, err = store.Open(opts.Database)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeStoreFailed, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return formatter.fail(ExitCommandError, ErrCodeExportFailed, "failed to create output directory", err)
		}
	}

	result := BakeResult{Bakes: []BakeOutput{}}
	for _, lf := range loaded {
		p, err := project.Compile(lf.File)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeInvalidProject, fmt.Sprintf("invalid project %s", lf.Path), err)
		}
		rigs, err := bakeRigs(p, opts.Rig)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeInvalidFlag, err.Error(), nil)
		}

		for _, rig := range rigs {
			out, serr := bakeOne(ctx, opts, logger, st, lf.Path, p, rig, cmd.ErrOrStderr())
			if serr != nil {
				return formatter.fail(serr.exit, serr.code, serr.message, serr.err)
			}
			result.Bakes = append(result.Bakes, out)
			if out.Success {
				result.Baked++
			} else {
				result.Failed++
			}
			printBake(formatter, out)
		}
	}

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		formatter.Printf("%d baked, %d failed\n", result.Baked, result.Failed)
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d bake(s) produced no clip", result.Failed))
	}
	return nil
}

// bakeRigs returns the rigs to bake: the one named by --rig, or every rig
// the project declares.
func bakeRigs(p *project.Project, only string) ([]timeline.RigRef, error) {
	if only != "" {
		rig, ok := p.Rig(only)
		if !ok {
			return nil, fmt.Errorf("rig %q is not declared by %s", only, p.Source)
		}
		return []timeline.RigRef{rig}, nil
	}
	if len(p.Rigs) == 0 {
		return nil, fmt.Errorf("%s declares no rigs", p.Source)
	}
	return p.Rigs, nil
}

// stepError is a failed bake step with its exit and error codes.
type stepError struct {
	exit    int
	code    string
	message string
	err     error
}

// bakeOne merges one rig of a project, then stores and exports the clip.
func bakeOne(
	ctx context.Context,
	opts *BakeOptions,
	logger *slog.Logger,
	st *store.Store,
	path string,
	p *project.Project,
	rig timeline.RigRef,
	progress io.Writer,
) (BakeOutput, *stepError) {
	rate := opts.FrameRate
	if rate <= 0 {
		rate = p.FrameRate
	}
	name := opts.Name
	if name == "" {
		name = p.Name
	}

	sink := diag.Tee{diag.NewSlogSink(logger.With("project", path, "rig", rig.ID))}
	if opts.Progress {
		sink = append(sink, diag.NewTextSink(progress))
	}

	m := merge.New(merge.Options{
		FrameRate:          rate,
		MaxSamplesPerCurve: opts.MaxSamples,
		ClipName:           name,
		Resolver:           p.Bones,
		Sink:               sink,
		IDs:                opts.IDs,
	})
	res, err := m.Merge(ctx, p.Timeline, rig)
	if err != nil {
		return BakeOutput{}, &stepError{ExitFailure, ErrCodeBakeFailed, "bake cancelled", err}
	}

	out := BakeOutput{Project: path, Rig: rig.ID, Success: res.IsSuccess(), Logs: res.Logs()}
	if !res.IsSuccess() {
		return out, nil
	}
	clip := res.GeneratedClip
	out.ClipID = clip.ID
	out.RunID = clip.RunID
	out.Name = clip.Name
	out.FrameRate = clip.FrameRate
	out.Curves = len(clip.Curves)
	out.Keys = clip.KeyCount()

	if st != nil {
		inserted, err := st.WriteBake(ctx, res)
		if err != nil {
			return out, &stepError{ExitCommandError, ErrCodeStoreFailed, "failed to store bake", err}
		}
		out.Stored = true
		out.Duplicate = !inserted
		if !inserted {
			logger.Info("bake already stored", "clip_id", clip.ID)
		}
	}

	if opts.OutDir != "" {
		written, err := writeAsset(opts, clip)
		if err != nil {
			return out, &stepError{ExitCommandError, ErrCodeExportFailed, "failed to export bake", err}
		}
		out.Path = written
	}
	return out, nil
}

// writeAsset exports clip under a collision-free name in the output
// directory.
func writeAsset(opts *BakeOptions, clip *merge.BakedClip) (string, error) {
	ext, err := export.Extension(opts.Export)
	if err != nil {
		return "", err
	}
	ex := opts.Exister
	if ex == nil {
		ex = naming.OSExister{}
	}
	path, err := naming.UniquePath(opts.OutDir, assetBase(clip), ext, ex)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	if err := export.Write(opts.Export, f, clip); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// assetBase names an asset file after the clip and rig, replacing path
// separators so the name stays inside the output directory.
func assetBase(clip *merge.BakedClip) string {
	base := clip.Name + "." + clip.Rig.ID
	return strings.Map(func(r rune) rune {
		if r == '/' || r == filepath.Separator {
			return '_'
		}
		return r
	}, base)
}

func printBake(f *OutputFormatter, out BakeOutput) {
	if !out.Success {
		f.Printf("✗ %s [%s]\n", out.Project, out.Rig)
		for _, line := range out.Logs {
			if strings.HasPrefix(line, merge.ErrorLogPrefix) {
				f.Printf("  %s\n", strings.TrimPrefix(line, merge.ErrorLogPrefix))
			}
		}
		return
	}
	f.Printf("✓ %s [%s] %s: %d curve(s), %d key(s)\n", out.Project, out.Rig, out.ClipID, out.Curves, out.Keys)
	if out.Duplicate {
		f.Printf("  already stored\n")
	}
	if out.Path != "" {
		f.Printf("  wrote %s\n", out.Path)
	}
}
