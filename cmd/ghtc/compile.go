package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/btouchard/ghtc/internal/compiler"
	"github.com/btouchard/ghtc/internal/ledger"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func newCompileCmd() *cobra.Command {
	var (
		src             string
		tests           string
		out             string
		skipIfUnchanged bool
		includes        []string
	)

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Walk a header tree and a feature tree and emit a C++ test harness",
		RunE: func(cmd *cobra.Command, args []string) error {
			headerPaths, err := walkExt(src, ".h")
			if err != nil {
				return fmt.Errorf("walking --src: %w", err)
			}
			featurePaths, err := walkExt(tests, ".feature")
			if err != nil {
				return fmt.Errorf("walking --tests: %w", err)
			}
			if len(headerPaths) == 0 {
				return fmt.Errorf("no .h files found under %s", src)
			}
			if len(featurePaths) == 0 {
				return fmt.Errorf("no .feature files found under %s", tests)
			}

			c := compiler.New(includes)
			if skipIfUnchanged {
				l, err := ledger.Open(ledgerPath(out))
				if err != nil {
					return fmt.Errorf("opening ledger: %w", err)
				}
				c.Ledger = l

				unchanged, err := c.Unchanged(cmd.Context(), headerPaths, featurePaths)
				if err != nil {
					return fmt.Errorf("checking --skip-if-unchanged: %w", err)
				}
				if unchanged {
					fmt.Println(yellow("SKIPPED: inputs unchanged since last compile"))
					return nil
				}
			}

			result, err := c.Compile(cmd.Context(), headerPaths, featurePaths)
			if err != nil {
				return err
			}

			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("creating output directory: %w", err)
				}
			}
			if err := os.WriteFile(out, []byte(result.Output), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}

			printSummary(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&src, "src", "", "root directory of C++ header files (required)")
	cmd.Flags().StringVar(&tests, "tests", "", "root directory of .feature files (required)")
	cmd.Flags().StringVar(&out, "out", "src/tests.cc", "path to write the generated C++ harness to")
	cmd.Flags().BoolVar(&skipIfUnchanged, "skip-if-unchanged", false, "skip compilation if inputs match the last recorded run")
	cmd.Flags().StringSliceVar(&includes, "include", nil, "extra #include lines to prepend to the generated harness")
	_ = cmd.MarkFlagRequired("src")
	_ = cmd.MarkFlagRequired("tests")

	return cmd
}

// walkExt returns every file under root whose name ends in ext, sorted for
// reproducible scenario/class ordering across runs on the same tree.
func walkExt(root, ext string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ext) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func ledgerPath(out string) string {
	return filepath.Join(filepath.Dir(out), ".ghtc-ledger.db")
}

func printSummary(result *compiler.Result) {
	for _, scenarioErr := range result.ScenarioErrors {
		fmt.Printf("%s %s: %s\n", red("ERROR"), scenarioErr.Scenario, scenarioErr.Pos)
	}

	passed := result.ScenarioCount - result.ErrorCount
	fmt.Printf("%s: %d scenario(s), %s, %s\n",
		bold("TOTAL"),
		result.ScenarioCount,
		green(fmt.Sprintf("%d pass", passed)),
		red(fmt.Sprintf("%d error", result.ErrorCount)))
	fmt.Printf("wrote %d header(s), %d feature(s) in %s\n",
		result.HeaderCount, result.FeatureCount, result.Duration)
}
