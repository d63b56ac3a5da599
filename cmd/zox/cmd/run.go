package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zokis/zox/lexer"
	"github.com/zokis/zox/parser"
	"github.com/zokis/zox/stdlib"
	"github.com/zokis/zox/zerr"
)

var (
	evalExpr string
	dumpAST  bool
	trace    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Zox file or expression",
	Long: `Execute a Zox program from a file or an inline expression.

Examples:
  # Run a script file
  zox run script.zox

  # Evaluate an inline expression
  zox run -e "println(1 + 2);"

  # Run with the parsed program dumped first
  zox run --dump-ast script.zox`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed program (for debugging)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "announce which file or expression is being run")
}

func runScript(_ *cobra.Command, args []string) error {
	var input, filename string

	switch {
	case evalExpr != "":
		input = evalExpr
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	if trace {
		fmt.Fprintf(os.Stderr, "[running %s]\n", filename)
	}

	tokens, err := lexer.Tokenize(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return fmt.Errorf("lexing failed")
	}

	p := parser.New(tokens, input, filename)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprintln(os.Stderr, zerr.FormatErrors(errs, true))
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	if dumpAST {
		fmt.Println("AST:")
		fmt.Println(prog.String())
		fmt.Println()
	}

	interp, err := stdlib.Bootstrap(nil)
	if err != nil {
		return fmt.Errorf("bootstrapping interpreter: %w", err)
	}

	if _, err := interp.Run(prog); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return fmt.Errorf("execution failed")
	}

	return nil
}
