package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/trackbake/internal/classify"
	"github.com/roach88/trackbake/internal/timeline"
)

// CurveClass is the merge class of one source curve.
type CurveClass struct {
	Binding string `json:"binding"`
	Class   string `json:"class"`
	Keys    int    `json:"keys"`
}

// ClipClasses lists the classified curves of one clip.
type ClipClasses struct {
	Track        string       `json:"track"`
	Clip         string       `json:"clip"`
	Curves       []CurveClass `json:"curves"`
	ShapeWeights int          `json:"shape_weights"`
	MuscleAxes   int          `json:"muscle_axes"`
}

// ClassifyResult holds the classification of every clip in a project.
type ClassifyResult struct {
	Project string        `json:"project"`
	Clips   []ClipClasses `json:"clips"`
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <project>",
		Short: "Show how each source curve will be merged",
		Long: `List every source curve of a project with its merge class.

Ordinary curves are blended by weight. Shape-weight and muscle-axis curves
pass through from the highest-priority contributing clip.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runClassify(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	p, loadErr := compileProject(ctx, path)
	if loadErr != nil {
		return formatter.fail(ExitCommandError, loadErr.Code, loadErr.Message, loadErr)
	}

	result := ClassifyResult{Project: path, Clips: []ClipClasses{}}
	eachClip(p.Timeline, func(track *timeline.TrackInfo, clip *timeline.ClipInfo) {
		cc := ClipClasses{
			Track:        track.Name,
			Clip:         clip.Name,
			Curves:       []CurveClass{},
			ShapeWeights: len(classify.DetectShapeWeightCurves(clip)),
			MuscleAxes:   len(classify.DetectMuscleCurves(clip)),
		}
		for _, pair := range clip.Curves() {
			cc.Curves = append(cc.Curves, CurveClass{
				Binding: pair.Binding.String(),
				Class:   classify.Classify(pair.Binding).String(),
				Keys:    pair.Curve.Len(),
			})
		}
		result.Clips = append(result.Clips, cc)
	})

	if formatter.JSON() {
		return formatter.Success(result)
	}
	for _, cc := range result.Clips {
		formatter.Printf("%s/%s: %d curve(s), %d shape weight(s), %d muscle axis curve(s)\n",
			cc.Track, cc.Clip, len(cc.Curves), cc.ShapeWeights, cc.MuscleAxes)
		for _, c := range cc.Curves {
			formatter.Printf("  %-12s %s (%d key(s))\n", c.Class, c.Binding, c.Keys)
		}
	}
	return nil
}

// eachClip calls fn for every clip of every track, in track order.
func eachClip(tl *timeline.Timeline, fn func(track *timeline.TrackInfo, clip *timeline.ClipInfo)) {
	for i := range tl.Len() {
		track := tl.Track(timeline.TrackID(i))
		for ci := range track.Clips {
			fn(track, &track.Clips[ci])
		}
	}
}
