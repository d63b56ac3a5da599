package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zokis/zox/config"
	"github.com/zokis/zox/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive REPL",
	Long:  `Start an interactive read-eval-print loop against stdin/stdout.`,
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		return runREPL()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	r, err := repl.New(os.Stdin, os.Stdout, cfg)
	if err != nil {
		return fmt.Errorf("starting repl: %w", err)
	}
	r.Run()
	return nil
}
