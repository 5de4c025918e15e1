package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nihei9/kagari/emitter"
	"github.com/nihei9/kagari/generator"
	"github.com/nihei9/kagari/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const defaultSpecFile = "rules.txt"

var generateFlags = struct {
	output         *string
	allowConflicts *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "generate [<spec file>]",
		Short:   "Generate the lexer/parser pair from a specification file",
		Example: `  kagari generate rules.txt -o gen`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runGenerate,
	}
	generateFlags.output = cmd.Flags().StringP("output", "o", "", "output directory (default current directory)")
	generateFlags.allowConflicts = cmd.Flags().Bool("allow-conflicts", false, "report grammar conflicts but keep the first action and emit anyway")
	rootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	specPath := defaultSpecFile
	if len(args) > 0 {
		specPath = args[0]
	}

	pterm.Info.Printf("parsing %v\n", specPath)
	res, err := generator.Build(specPath)
	if err != nil {
		return err
	}
	pterm.Info.Printf("%v token rules, %v productions\n",
		len(res.RuleSet.TokenRules), len(res.RuleSet.Productions))
	pterm.Info.Printf("DFA: %v states (%v before minimization, %v NFA states)\n",
		res.DFAStats.MinimizedStates, res.DFAStats.DFAStates, res.DFAStats.NFAStates)
	pterm.Info.Printf("LR: %v states\n", res.Table.StateCount)

	if len(res.Table.Conflicts) > 0 {
		for _, c := range res.Table.Conflicts {
			fmt.Fprintln(os.Stderr, conflictText(c))
		}
		if !*generateFlags.allowConflicts {
			return &grammar.ConflictError{
				Conflicts: res.Table.Conflicts,
			}
		}
		pterm.Warning.Printf("%v conflicts; keeping the first action of each entry\n", len(res.Table.Conflicts))
	}

	e := emitter.NewEmitter(*generateFlags.output)
	err = e.EmitLexer(res.DFA)
	if err != nil {
		return err
	}
	err = e.EmitParser(res.Table, res.RuleSet.Productions)
	if err != nil {
		return err
	}

	outDir := *generateFlags.output
	if outDir == "" {
		outDir = "."
	}
	for _, name := range []string{
		emitter.LexerHeaderFile,
		emitter.LexerSourceFile,
		emitter.ParserHeaderFile,
		emitter.ParserSourceFile,
	} {
		pterm.Success.Printf("generated %v\n", filepath.Join(outDir, name))
	}
	return nil
}
