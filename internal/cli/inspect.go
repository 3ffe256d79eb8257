package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/trackbake/internal/export"
	"github.com/roach88/trackbake/internal/store"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Database string
	Rig      string
	Export   string
}

// BakeRow is one stored bake in a listing.
type BakeRow struct {
	ID        string  `json:"id"`
	Seq       int64   `json:"seq"`
	RunID     string  `json:"run_id"`
	Name      string  `json:"name"`
	Rig       string  `json:"rig"`
	FrameRate float64 `json:"frame_rate"`
	Curves    int     `json:"curves"`
	Keys      int     `json:"keys"`
}

// BakeDetail is one stored bake with its curves and merge log.
type BakeDetail struct {
	BakeRow
	Duration    float64       `json:"duration"`
	CurveDetail []CurveDetail `json:"curve_detail"`
	Logs        []string      `json:"logs"`
}

// CurveDetail summarizes one stored curve.
type CurveDetail struct {
	Binding string `json:"binding"`
	Class   string `json:"class"`
	Keys    int    `json:"keys"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect [clip-id]",
		Short: "List or show stored bakes",
		Long: `List the bakes stored in a database, or show one bake by clip ID.

A stored bake is verified against its content ID when read; a tampered
bake is reported as an error.

Exit codes:
  0 - Success
  1 - Bake not found or failed verification
  2 - Command error (database not found, etc.)

Examples:
  trackbake inspect --db ./bakes.db
  trackbake inspect --db ./bakes.db --rig hero
  trackbake inspect --db ./bakes.db 3f2a... --export yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runInspect(opts, id, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Rig, "rig", "", "list only bakes for this rig")
	cmd.Flags().StringVar(&opts.Export, "export", "", "write the bake as an asset document to stdout")

	return cmd
}

func runInspect(opts *InspectOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Check database exists; Open would create an empty one
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return formatter.fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
	}
	if opts.Export != "" && !export.Available(opts.Export) {
		return formatter.fail(ExitCommandError, ErrCodeInvalidFlag, fmt.Sprintf("export format %q is not available", opts.Export), nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStoreFailed, "failed to open database", err)
	}
	defer st.Close()

	if id == "" {
		return listBakes(ctx, formatter, st, opts.Rig)
	}
	return showBake(ctx, formatter, st, id, opts.Export)
}

func listBakes(ctx context.Context, f *OutputFormatter, st *store.Store, rig string) error {
	bakes, err := st.ListBakes(ctx, rig)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStoreFailed, "failed to list bakes", err)
	}

	rows := make([]BakeRow, 0, len(bakes))
	for _, b := range bakes {
		rows = append(rows, BakeRow{
			ID:        b.ID,
			Seq:       b.Seq,
			RunID:     b.RunID,
			Name:      b.Name,
			Rig:       b.Rig.ID,
			FrameRate: b.FrameRate,
			Curves:    b.CurveCount,
			Keys:      b.KeyCount,
		})
	}

	if f.JSON() {
		return f.Success(rows)
	}
	if len(rows) == 0 {
		f.Printf("No bakes stored.\n")
		return nil
	}
	for _, r := range rows {
		f.Printf("%d\t%s\t%s\t%s\t%v fps\t%d curve(s)\t%d key(s)\n",
			r.Seq, r.ID, r.Rig, r.Name, r.FrameRate, r.Curves, r.Keys)
	}
	return nil
}

func showBake(ctx context.Context, f *OutputFormatter, st *store.Store, id, format string) error {
	bake, err := st.ReadBake(ctx, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return f.fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no bake with id %s", id), nil)
	case errors.Is(err, store.ErrIntegrity):
		return f.fail(ExitFailure, ErrCodeStoreFailed, "bake failed verification", err)
	case err != nil:
		return f.fail(ExitCommandError, ErrCodeStoreFailed, "failed to read bake", err)
	}

	clip := bake.Clip
	if format != "" {
		if err := export.Write(format, f.Writer, clip); err != nil {
			return f.fail(ExitCommandError, ErrCodeExportFailed, "failed to export bake", err)
		}
		return nil
	}

	detail := BakeDetail{
		BakeRow: BakeRow{
			ID:        clip.ID,
			Seq:       bake.Seq,
			RunID:     clip.RunID,
			Name:      clip.Name,
			Rig:       clip.Rig.ID,
			FrameRate: clip.FrameRate,
			Curves:    len(clip.Curves),
			Keys:      clip.KeyCount(),
		},
		Duration:    clip.Duration(),
		CurveDetail: make([]CurveDetail, 0, len(clip.Curves)),
		Logs:        bake.Logs,
	}
	for _, bc := range clip.Curves {
		detail.CurveDetail = append(detail.CurveDetail, CurveDetail{
			Binding: bc.Binding.String(),
			Class:   bc.Class.String(),
			Keys:    bc.Curve.Len(),
		})
	}

	if f.JSON() {
		return f.Success(detail)
	}
	f.Printf("%s (seq %d)\n", detail.ID, detail.Seq)
	f.Printf("  name: %s\n  rig: %s\n  run: %s\n", detail.Name, clip.Rig, detail.RunID)
	f.Printf("  %v fps, %v s, %d curve(s), %d key(s)\n", detail.FrameRate, detail.Duration, detail.Curves, detail.Keys)
	for _, c := range detail.CurveDetail {
		f.Printf("  %-12s %s (%d key(s))\n", c.Class, c.Binding, c.Keys)
	}
	for _, line := range detail.Logs {
		f.Printf("  | %s\n", line)
	}
	return nil
}
