package cmd

import (
	"fmt"
	"os"

	"github.com/coboltools/frontend/internal/config"
	"github.com/coboltools/frontend/internal/diagnostic"
	"github.com/coboltools/frontend/internal/pipeline"
	"github.com/maruel/natural"
	"github.com/spf13/cobra"
)

var (
	analyzeSourceFmt  string
	analyzeCopybooks  []string
	analyzeDumpSymbol bool
	analyzeConfigPath string
	analyzeTrace      bool
	analyzeWorkspace  []string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run a COBOL source file through the full front-end pipeline",
	Long: `Run one COBOL source file through the complete front end: format
normalization, directive handling, copybook expansion, lexing, and the
recursive-descent analyzer, then report every diagnostic raised.

<file> is the entry point. --workspace adds further source files to the same
compilation, naturally sorted and concatenated after the entry point into one
token stream.

Examples:
  cobolfront analyze program.cob
  cobolfront analyze --copybook-path ./copybooks program.cob
  cobolfront analyze --workspace "*.cob" program.cob
  cobolfront analyze --dump-symbols program.cob`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeSourceFmt, "source-format", "", "override auto-detection: free or fixed")
	analyzeCmd.Flags().StringSliceVar(&analyzeCopybooks, "copybook-path", nil, "directories searched, in order, for COPY statement targets")
	analyzeCmd.Flags().BoolVar(&analyzeDumpSymbol, "dump-symbols", false, "print every registered source unit after analysis")
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "project YAML file overlaying the compiled-in defaults (source_format, column_length, copybook_search_paths)")
	analyzeCmd.Flags().BoolVar(&analyzeTrace, "trace", false, "print the unit-name stack at every source-unit boundary")
	analyzeCmd.Flags().StringSliceVar(&analyzeWorkspace, "workspace", nil, "glob patterns (e.g. *.cob) for additional source files compiled alongside <file>, naturally sorted and appended after it")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	workspaceFiles, err := resolveWorkspaceFiles(path, analyzeWorkspace)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	opts := config.NewDefault()
	if analyzeConfigPath != "" {
		f, err := os.Open(analyzeConfigPath)
		if err != nil {
			return fmt.Errorf("analyze: opening config: %w", err)
		}
		err = config.MergeYAML(opts, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
	}
	if len(analyzeCopybooks) > 0 {
		opts.CopybookSearchPaths = analyzeCopybooks
	}
	if analyzeSourceFmt != "" {
		sf, err := config.ParseSourceFormat(analyzeSourceFmt)
		if err != nil {
			return err
		}
		opts.SourceFormat = sf
	}

	run := pipeline.Compile
	if analyzeTrace {
		run = pipeline.CompileTraced
	}
	result, err := run(newReader(), path, workspaceFiles, opts)
	if err != nil && result == nil {
		return fmt.Errorf("analyze: %w", err)
	}

	for _, d := range result.Diagnostics {
		fmt.Print(d.Format())
	}

	if analyzeDumpSymbol {
		names := result.Symbols.GlobalNames()
		natural.Sort(names)
		fmt.Println("Source units:")
		for _, name := range names {
			sig, _ := result.Symbols.Global(name)
			fmt.Printf("  %s (%d parameters)\n", sig.Name, len(sig.Parameters))
			for file := range sig.Files {
				fmt.Printf("    file: %s\n", file)
			}
		}
	}

	if err != nil {
		return fmt.Errorf("analyze: %d diagnostic(s) at error severity or worse", countErrors(result))
	}
	return nil
}

func countErrors(result *pipeline.Result) int {
	n := 0
	for _, d := range result.Diagnostics {
		if d.Severity >= diagnostic.AnalyzerError {
			n++
		}
	}
	return n
}
