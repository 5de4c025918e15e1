package main

import (
	"strings"

	"github.com/chzyer/readline"
	"github.com/nihei9/kagari/grammar"
	"github.com/nihei9/kagari/spec"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Enter productions interactively and inspect the resulting LR tables",
		Long: `debug reads productions of the form

  A -> a b c

line by line. Symbols that never appear as an LHS are treated as terminals;
'eps' denotes the empty string. An empty line builds the tables for the
productions entered so far and prints them.`,
		Args: cobra.NoArgs,
		RunE: runDebug,
	}
	rootCmd.AddCommand(cmd)
}

func runDebug(cmd *cobra.Command, args []string) error {
	rl, err := readline.New("kagari> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	pterm.Info.Println("enter productions like 'A -> a b c'; an empty line builds the tables; Ctrl-D quits")

	var prods []*spec.Production
	for {
		line, err := rl.Readline()
		if err != nil {
			// Ctrl-C and Ctrl-D both end the session.
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if len(prods) == 0 {
				continue
			}
			buildAndPrint(prods)
			prods = nil
			continue
		}

		p, perr := parseDebugProduction(line, len(prods)+1)
		if perr != nil {
			pterm.Error.Println(perr.Error())
			continue
		}
		prods = append(prods, p)
	}
}

func parseDebugProduction(line string, num int) (*spec.Production, error) {
	lhs, rhsText, ok := strings.Cut(line, "->")
	if !ok {
		return nil, errMissingArrow
	}
	lhs = strings.TrimSpace(lhs)
	if lhs == "" {
		return nil, errMissingLHS
	}
	rhs := strings.Fields(rhsText)
	if len(rhs) == 1 && rhs[0] == spec.SymbolNameEmpty {
		rhs = nil
	}
	return &spec.Production{
		Num: num,
		LHS: lhs,
		RHS: rhs,
	}, nil
}

var (
	errMissingArrow = &debugInputError{message: "a production needs '->' between its LHS and RHS"}
	errMissingLHS   = &debugInputError{message: "a production needs an LHS"}
)

type debugInputError struct {
	message string
}

func (e *debugInputError) Error() string {
	return e.message
}

func buildAndPrint(prods []*spec.Production) {
	// Symbols that are no production's LHS act as terminals; synthesize a
	// token rule per terminal so grammar validation accepts them.
	lhsSet := map[string]struct{}{}
	for _, p := range prods {
		lhsSet[p.LHS] = struct{}{}
	}
	var rules []*spec.TokenRule
	seen := map[string]struct{}{}
	for _, p := range prods {
		for _, sym := range p.RHS {
			if _, ok := lhsSet[sym]; ok {
				continue
			}
			if sym == spec.SymbolNameEOF {
				continue
			}
			if _, ok := seen[sym]; ok {
				continue
			}
			seen[sym] = struct{}{}
			rules = append(rules, &spec.TokenRule{
				Name:    sym,
				Pattern: sym,
			})
		}
	}
	if len(rules) == 0 {
		// The grammar derives no terminal at all; a placeholder rule keeps
		// the rule set well-formed.
		rules = append(rules, &spec.TokenRule{Name: "UNUSED", Pattern: "a"})
	}

	g, err := grammar.NewGrammar(&spec.RuleSet{
		TokenRules:  rules,
		Productions: prods,
	})
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	tab, err := g.Build()
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}

	printParsingTable(tab)
	if len(tab.Conflicts) == 0 {
		pterm.Success.Println("no conflicts")
	}
}
