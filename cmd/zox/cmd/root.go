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

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "zox",
	Short: "Zox interpreter",
	Long: `zox is an interpreter for the Zox scripting language: a small
dynamically-typed language with closures, lists, dicts, and tables.

Running zox with no subcommand and no file starts an interactive REPL.
Running it with a file path executes that file; -e evaluates an inline
expression instead.`,
	Version:           Version,
	RunE:              runDefault,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	rootCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed program before evaluating it")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "announce which file or expression is being run")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// runDefault backs the bare "zox [file]" invocation: a file or -e runs
// that program, and a bare "zox" with neither drops into the REPL.
func runDefault(c *cobra.Command, args []string) error {
	if evalExpr == "" && len(args) == 0 {
		return runREPL()
	}
	return runScript(c, args)
}
