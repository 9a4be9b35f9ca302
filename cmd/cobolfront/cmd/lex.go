package cmd

import (
	"fmt"

	"github.com/coboltools/frontend/internal/config"
	"github.com/coboltools/frontend/internal/pipeline"
	"github.com/coboltools/frontend/pkg/token"
	"github.com/spf13/cobra"
)

var (
	lexShowContext bool
	lexSourceFmt   string
	lexWorkspace   []string
)

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Tokenize a COBOL source file and print the resulting tokens",
	Long: `Tokenize a COBOL source file through the format normalizer, directive
handler, and lexer, and print the resulting tokens.

This command stops before copybook expansion and analysis; it is useful for
inspecting how one file's source layout and directives are being resolved.
--workspace adds further source files, naturally sorted and concatenated
after <file> into the same token stream with one trailing EOF.

Examples:
  cobolfront lex program.cob
  cobolfront lex --source-format free program.cbl
  cobolfront lex --show-context program.cob
  cobolfront lex --workspace "*.cob" program.cob`,
	Args: cobra.ExactArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().BoolVar(&lexShowContext, "show-context", false, "show each token's resolved context alongside its kind")
	lexCmd.Flags().StringVar(&lexSourceFmt, "source-format", "", "override auto-detection: free or fixed")
	lexCmd.Flags().StringSliceVar(&lexWorkspace, "workspace", nil, "glob patterns (e.g. *.cob) for additional source files tokenized alongside <file>, naturally sorted and appended after it")
}

func runLex(cmd *cobra.Command, args []string) error {
	path := args[0]

	workspaceFiles, err := resolveWorkspaceFiles(path, lexWorkspace)
	if err != nil {
		return fmt.Errorf("lex: %w", err)
	}

	opts := config.NewDefault()
	if lexSourceFmt != "" {
		sf, err := config.ParseSourceFormat(lexSourceFmt)
		if err != nil {
			return err
		}
		opts.SourceFormat = sf
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s\n", path)
		fmt.Println("---")
	}

	toks, err := pipeline.Tokenize(newReader(), path, workspaceFiles, opts)
	if err != nil {
		return fmt.Errorf("lex: %w", err)
	}

	for _, tok := range toks {
		printToken(tok)
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", len(toks))
	}

	return nil
}

func printToken(tok token.Token) {
	if tok.IsEOF() {
		fmt.Println("[EOF]")
		return
	}

	output := fmt.Sprintf("[%-16s] %q", kindName(tok.Kind), tok.Lexeme)
	if lexShowContext && tok.Context != token.ContextNone {
		output += fmt.Sprintf(" (%s)", contextName(tok.Context))
	}
	output += fmt.Sprintf(" @%d:%d", tok.Line, tok.Column)
	fmt.Println(output)
}

func kindName(k token.Kind) string {
	switch k {
	case token.Reserved:
		return "Reserved"
	case token.Identifier:
		return "Identifier"
	case token.Numeric:
		return "Numeric"
	case token.String:
		return "String"
	case token.National:
		return "National"
	case token.Boolean:
		return "Boolean"
	case token.HexString:
		return "HexString"
	case token.Symbol:
		return "Symbol"
	case token.FigurativeLiteral:
		return "FigurativeLiteral"
	case token.IntrinsicFunction:
		return "IntrinsicFunction"
	case token.Device:
		return "Device"
	case token.EOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

func contextName(c token.Context) string {
	switch c {
	case token.IsClause:
		return "clause"
	case token.IsStatement:
		return "statement"
	case token.IsDevice:
		return "device"
	case token.IsFigurative:
		return "figurative"
	case token.IsSymbol:
		return "symbol"
	case token.IsEOF:
		return "eof"
	default:
		return "none"
	}
}
