package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kagari",
	Short: "Generate a standalone lexer/parser pair from a lexical+grammar specification",
	Long: `kagari compiles a specification file containing token rules and an LR(1)
grammar into a self-contained C++ lexer/parser pair, with the user's semantic
actions spliced into the reduce steps.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	return rootCmd.Execute()
}
