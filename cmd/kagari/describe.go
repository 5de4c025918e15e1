package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/nihei9/kagari/generator"
	"github.com/nihei9/kagari/grammar"
	"github.com/nihei9/kagari/lexical"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "describe <spec file>",
		Short: "Print the computed DFA and LR tables without emitting code",
		Args:  cobra.ExactArgs(1),
		RunE:  runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	res, err := generator.Build(args[0])
	if err != nil {
		return err
	}

	printDFA(res.DFA)
	fmt.Println()
	printParsingTable(res.Table)
	return nil
}

func printDFA(dfa lexical.DFATable) {
	fmt.Printf("DFA: %v states\n", len(dfa))
	for _, row := range dfa {
		marker := " "
		if row.Final {
			marker = "*"
		}
		fmt.Printf("%v%4d  %-10v", marker, row.StateID, row.TokenName)
		chars := make([]int, 0, len(row.Transitions))
		for c := range row.Transitions {
			chars = append(chars, int(c))
		}
		sort.Ints(chars)
		for _, c := range chars {
			fmt.Printf(" %q->%v", byte(c), row.Transitions[byte(c)])
		}
		fmt.Println()
	}
}

func printParsingTable(tab *grammar.ParsingTable) {
	fmt.Printf("LR: %v states, %v ACTION entries, %v GOTO entries\n",
		tab.StateCount, len(tab.Action), len(tab.Goto))

	actKeys := make([]grammar.ActionKey, 0, len(tab.Action))
	for key := range tab.Action {
		actKeys = append(actKeys, key)
	}
	sort.Slice(actKeys, func(i, j int) bool {
		if actKeys[i].State != actKeys[j].State {
			return actKeys[i].State < actKeys[j].State
		}
		return actKeys[i].Symbol < actKeys[j].Symbol
	})
	for _, key := range actKeys {
		act := tab.Action[key]
		switch act.Type {
		case grammar.ActionTypeShift:
			fmt.Printf("  ACTION[%v, %v] = shift %v\n", key.State, key.Symbol, act.Target)
		case grammar.ActionTypeReduce:
			fmt.Printf("  ACTION[%v, %v] = reduce %v\n", key.State, key.Symbol, act.Target)
		case grammar.ActionTypeAccept:
			fmt.Printf("  ACTION[%v, %v] = accept\n", key.State, key.Symbol)
		}
	}

	gotoKeys := make([]grammar.GotoKey, 0, len(tab.Goto))
	for key := range tab.Goto {
		gotoKeys = append(gotoKeys, key)
	}
	sort.Slice(gotoKeys, func(i, j int) bool {
		if gotoKeys[i].State != gotoKeys[j].State {
			return gotoKeys[i].State < gotoKeys[j].State
		}
		return gotoKeys[i].Symbol < gotoKeys[j].Symbol
	})
	for _, key := range gotoKeys {
		fmt.Printf("  GOTO[%v, %v] = %v\n", key.State, key.Symbol, tab.Goto[key])
	}

	if len(tab.Conflicts) > 0 {
		fmt.Fprintf(os.Stderr, "%v conflicts:\n", len(tab.Conflicts))
		for _, c := range tab.Conflicts {
			fmt.Fprintf(os.Stderr, "  %v\n", conflictText(c))
		}
	}
}

func conflictText(c grammar.Conflict) string {
	switch c := c.(type) {
	case *grammar.ShiftReduceConflict:
		return fmt.Sprintf("shift/reduce conflict in state %v on %v: shift %v / reduce %v",
			c.State, c.Symbol, c.NextState, c.ProdNum)
	case *grammar.ReduceReduceConflict:
		return fmt.Sprintf("reduce/reduce conflict in state %v on %v: reduce %v / reduce %v",
			c.State, c.Symbol, c.ProdNum1, c.ProdNum2)
	}
	return fmt.Sprintf("unknown conflict: %v", c)
}
