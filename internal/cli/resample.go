package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/trackbake/internal/anim"
	"github.com/roach88/trackbake/internal/blend"
	"github.com/roach88/trackbake/internal/resample"
	"github.com/roach88/trackbake/internal/timeline"
)

// ResampleOptions holds flags for the resample command.
type ResampleOptions struct {
	*RootOptions
	FrameRate float64
	ShowKeys  bool
}

// ResampledCurve reports one source curve snapped onto the frame grid.
type ResampledCurve struct {
	Track   string          `json:"track"`
	Clip    string          `json:"clip"`
	Binding string          `json:"binding"`
	Keys    int             `json:"keys"`
	Samples int             `json:"samples"`
	Start   float64         `json:"start"`
	End     float64         `json:"end"`
	Values  []anim.Keyframe `json:"values,omitempty"`
}

// ResampleResult holds the resampled curves of a project.
type ResampleResult struct {
	Project   string           `json:"project"`
	FrameRate float64          `json:"frame_rate"`
	Curves    []ResampledCurve `json:"curves"`
}

// NewResampleCommand creates the resample command.
func NewResampleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResampleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resample <project>",
		Short: "Snap each source curve onto the frame grid",
		Long: `Resample every keyed source curve of a project onto the frame grid,
without blending, and report the snapped extent and sample count.

Examples:
  trackbake resample walk.yaml
  trackbake resample walk.yaml --frame-rate 24 --keys`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResample(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.FrameRate, "frame-rate", 0, "sampling rate in fps (overrides the project)")
	cmd.Flags().BoolVar(&opts.ShowKeys, "keys", false, "include resampled keys")

	return cmd
}

func runResample(opts *ResampleOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	p, loadErr := compileProject(ctx, path)
	if loadErr != nil {
		return formatter.fail(ExitCommandError, loadErr.Code, loadErr.Message, loadErr)
	}

	rate := opts.FrameRate
	if rate <= 0 {
		rate = p.FrameRate
	}
	rate = blend.NewProcessor().WithFrameRate(rate).FrameRate()

	result := ResampleResult{Project: path, FrameRate: rate, Curves: []ResampledCurve{}}
	eachClip(p.Timeline, func(track *timeline.TrackInfo, clip *timeline.ClipInfo) {
		pairs := clip.Curves()
		for i, out := range resample.Resample(pairs, rate) {
			rc := ResampledCurve{
				Track:   track.Name,
				Clip:    clip.Name,
				Binding: out.Binding.String(),
				Keys:    pairs[i].Curve.Len(),
				Samples: out.Curve.Len(),
			}
			rc.Start, rc.End, _ = out.Curve.Extent()
			if opts.ShowKeys {
				rc.Values = out.Curve.Keys()
			}
			result.Curves = append(result.Curves, rc)
		}
	})

	if formatter.JSON() {
		return formatter.Success(result)
	}
	formatter.Printf("%s at %v fps\n", path, rate)
	for _, rc := range result.Curves {
		if rc.Samples == 0 {
			formatter.Printf("  %s/%s %s: unkeyed\n", rc.Track, rc.Clip, rc.Binding)
			continue
		}
		formatter.Printf("  %s/%s %s: %d key(s) -> %d sample(s) over [%v, %v]\n",
			rc.Track, rc.Clip, rc.Binding, rc.Keys, rc.Samples, rc.Start, rc.End)
		for _, k := range rc.Values {
			formatter.Printf("    %v\t%v\n", k.Time, k.Value)
		}
	}
	return nil
}
