package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/trackbake/internal/project"
)

// ValidationIssue is one problem found in a project file.
type ValidationIssue struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ProjectValidation is the validation outcome of one project file.
type ProjectValidation struct {
	Path   string            `json:"path"`
	Valid  bool              `json:"valid"`
	Tracks int               `json:"tracks,omitempty"`
	Rigs   int               `json:"rigs,omitempty"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Projects []ProjectValidation `json:"projects"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <project>...",
		Short: "Validate project files without baking",
		Long: `Validate timeline project files (YAML, JSONC or CUE) without baking.

Every problem in every file is reported, not just the first one. Files are
read concurrently.

Exit codes:
  0 - All projects are valid
  1 - One or more projects are invalid
  2 - Command error`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	loaded, loadErrs := LoadProjects(ctx, paths, LoadModeCollectAll)
	formatter.VerboseLog("Loaded %d of %d project file(s)", len(paths)-len(loadErrs), len(paths))

	failures := make(map[string]*LoadError, len(loadErrs))
	for _, err := range loadErrs {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			failures[loadErr.Path] = loadErr
		}
	}

	result := ValidationResult{Valid: true, Projects: make([]ProjectValidation, 0, len(paths))}
	invalid := 0
	for i, path := range paths {
		var pv ProjectValidation
		if loaded[i] == nil {
			pv = ProjectValidation{Path: path}
			if loadErr, ok := failures[path]; ok {
				pv.Issues = []ValidationIssue{{Code: loadErr.Code, Message: loadErr.Error()}}
			} else {
				pv.Issues = []ValidationIssue{{Code: ErrCodeGeneric, Message: "project was not loaded"}}
			}
		} else {
			pv = validateProject(loaded[i])
		}
		if !pv.Valid {
			result.Valid = false
			invalid++
		}
		result.Projects = append(result.Projects, pv)
		printValidation(formatter, pv)
	}

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	}
	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d project(s) invalid", invalid, len(paths)))
	}
	return nil
}

// validateProject collects every validation problem of a loaded file, then
// compiles it to catch problems only the timeline build can see.
func validateProject(lf *LoadedFile) ProjectValidation {
	pv := ProjectValidation{Path: lf.Path}

	for _, ve := range project.Validate(lf.File) {
		pv.Issues = append(pv.Issues, ValidationIssue{Code: ve.Code, Field: ve.Field, Message: ve.Message})
	}
	if len(pv.Issues) > 0 {
		return pv
	}

	p, err := project.Compile(lf.File)
	if err != nil {
		issue := ValidationIssue{Code: ErrCodeInvalidProject, Message: err.Error()}
		var ce *project.CompileError
		if errors.As(err, &ce) {
			issue.Field = ce.Field
			issue.Message = ce.Message
			if ce.Code != "" {
				issue.Code = ce.Code
			}
		}
		pv.Issues = append(pv.Issues, issue)
		return pv
	}

	pv.Valid = true
	pv.Tracks = p.Timeline.Len()
	pv.Rigs = len(p.Rigs)
	return pv
}

func printValidation(f *OutputFormatter, pv ProjectValidation) {
	if pv.Valid {
		f.Printf("✓ %s (%d track(s), %d rig(s))\n", pv.Path, pv.Tracks, pv.Rigs)
		return
	}
	f.Printf("✗ %s\n", pv.Path)
	for _, issue := range pv.Issues {
		if issue.Field != "" {
			f.Printf("  [%s] %s: %s\n", issue.Code, issue.Field, issue.Message)
		} else {
			f.Printf("  [%s] %s\n", issue.Code, issue.Message)
		}
	}
}
