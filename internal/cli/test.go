package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/trackbake/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Path  string `json:"path"`
	Pass  bool   `json:"pass"`
	Error string `json:"error,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run bake scenarios",
		Long: `Run bake scenarios using the harness framework.

Each scenario bakes an inline or referenced project into a fresh in-memory
database and checks its assertions against the stored clip and merge log.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  trackbake test ./scenarios
  trackbake test ./scenarios --filter "cross*"
  trackbake test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// Validate directory
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	paths, err := harness.FindScenarios(scenariosDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}
	paths, err = filterScenarios(paths, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter pattern", err)
	}

	if len(paths) == 0 {
		if formatter.JSON() {
			return formatter.Success(TestResult{Scenarios: []ScenarioResult{}})
		}
		formatter.Printf("No scenarios found.\n")
		return nil
	}

	formatter.VerboseLog("Running %d scenario(s) from %s", len(paths), scenariosDir)
	suite := harness.RunSuite(paths)

	failures := make(map[string]string, len(suite.Failures))
	for _, f := range suite.Failures {
		failures[f.ScenarioPath] = f.Error
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(paths)),
		Passed:    suite.Passed,
		Failed:    suite.Failed,
		Total:     suite.Total,
	}
	for _, path := range paths {
		msg, failed := failures[path]
		result.Scenarios = append(result.Scenarios, ScenarioResult{Path: path, Pass: !failed, Error: msg})
	}

	// Output results
	if formatter.JSON() {
		if result.Failed > 0 {
			if err := formatter.Failure(result); err != nil {
				return err
			}
		} else if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputTestText(formatter, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// filterScenarios keeps paths whose base name, without extension, matches
// the glob pattern. An empty pattern keeps everything.
func filterScenarios(paths []string, pattern string) ([]string, error) {
	if pattern == "" {
		return paths, nil
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, err
	}
	var out []string
	for _, path := range paths {
		base := filepath.Base(path)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		if ok, _ := filepath.Match(pattern, name); ok {
			out = append(out, path)
		}
	}
	return out, nil
}

// outputTestText outputs the test result as human-readable text.
func outputTestText(f *OutputFormatter, result TestResult) {
	for _, s := range result.Scenarios {
		if s.Pass {
			f.Printf("✓ %s\n", s.Path)
			continue
		}
		f.Printf("✗ %s\n", s.Path)
		f.Printf("  %s\n", s.Error)
	}
	f.Printf("\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
}
