package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "cobolfront",
	Short: "A COBOL preprocessing and analysis front end",
	Long: `cobolfront reads COBOL source through the same pipeline a compiler's
front end would use before code generation:

  - a format normalizer that auto-detects fixed or free source layout
  - a directive handler for >>SOURCE FORMAT switches
  - a copybook expander that splices COPY statements in place
  - a lexer producing a single mutable token buffer
  - a recursive-descent analyzer populating one shared symbol table

It stops at analysis; it does not generate code.`,
	Version: Version,

	// Runtime errors (bad source, failed analysis) are reported through
	// diagnostics on stdout and a plain error from main, not cobra's
	// usage dump; SilenceErrors leaves that one print to main.go.
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
