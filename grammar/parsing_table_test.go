package grammar

import (
	"errors"
	"reflect"
	"testing"

	verr "github.com/nihei9/kagari/error"
	"github.com/nihei9/kagari/spec"
)

// simulateParse drives the tables over a terminal sequence and returns the
// production numbers in reduction order.
func simulateParse(t *testing.T, g *Grammar, tab *ParsingTable, toks []string) []int {
	t.Helper()
	toks = append(append([]string{}, toks...), spec.SymbolNameEOF)
	stack := []int{0}
	var reduces []int
	i := 0
	for {
		state := stack[len(stack)-1]
		act, ok := tab.Action[ActionKey{State: state, Symbol: toks[i]}]
		if !ok {
			t.Fatalf("no action for state %v on %v", state, toks[i])
		}
		switch act.Type {
		case ActionTypeShift:
			stack = append(stack, act.Target)
			i++
		case ActionTypeReduce:
			p := g.prods.findByNum(act.Target)
			stack = stack[:len(stack)-p.rhsLen]
			next, ok := tab.Goto[GotoKey{State: stack[len(stack)-1], Symbol: p.lhs}]
			if !ok {
				t.Fatalf("no goto for state %v on %v", stack[len(stack)-1], p.lhs)
			}
			stack = append(stack, next)
			reduces = append(reduces, act.Target)
		case ActionTypeAccept:
			return reduces
		default:
			t.Fatalf("error action for state %v on %v", state, toks[i])
		}
	}
}

func TestBuild_ExpressionGrammar(t *testing.T) {
	g := genGrammarForTest(t, exprGrammarSrc)
	tab, err := g.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(tab.Conflicts) > 0 {
		t.Fatalf("the expression grammar must be conflict-free; got: %v conflicts", len(tab.Conflicts))
	}

	// Shift actions on all input terminals must exist somewhere.
	shifted := map[string]struct{}{}
	accepts := 0
	for key, act := range tab.Action {
		switch act.Type {
		case ActionTypeShift:
			shifted[key.Symbol] = struct{}{}
		case ActionTypeAccept:
			accepts++
			if key.Symbol != spec.SymbolNameEOF {
				t.Fatalf("accept on %v instead of the end marker", key.Symbol)
			}
		}
	}
	for _, sym := range []string{"PLUS", "MUL", "LPAREN", "NUM"} {
		if _, ok := shifted[sym]; !ok {
			t.Fatalf("no shift action on %v", sym)
		}
	}
	if accepts != 1 {
		t.Fatalf("expected exactly one accept entry; got: %v", accepts)
	}

	// NUM PLUS NUM MUL NUM: the multiplication must reduce before the
	// addition.
	reduces := simulateParse(t, g, tab, []string{"NUM", "PLUS", "NUM", "MUL", "NUM"})
	want := []int{6, 4, 2, 6, 4, 6, 3, 1}
	if !reflect.DeepEqual(reduces, want) {
		t.Fatalf("unexpected reduction order;\nwant: %v\ngot: %v", want, reduces)
	}

	// (NUM PLUS NUM) MUL NUM exercises the parenthesized production.
	reduces = simulateParse(t, g, tab, []string{"LPAREN", "NUM", "PLUS", "NUM", "RPAREN", "MUL", "NUM"})
	want = []int{6, 4, 2, 6, 4, 1, 5, 4, 6, 3, 2, 1}
	if !reflect.DeepEqual(reduces, want) {
		t.Fatalf("unexpected reduction order;\nwant: %v\ngot: %v", want, reduces)
	}
}

func TestBuild_AmbiguousGrammarReportsConflicts(t *testing.T) {
	g := genGrammarForTest(t, `
a    a
%%
S : S S
S : a
`)
	tab, err := g.Build()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range tab.Conflicts {
		if _, ok := c.(*ShiftReduceConflict); ok {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected at least one shift/reduce conflict")
	}

	// First-wins: the conflicting entries still hold exactly one action,
	// and the table remains usable.
	reduces := simulateParse(t, g, tab, []string{"a", "a", "a"})
	if len(reduces) == 0 {
		t.Fatal("the parse must still complete under the first-wins policy")
	}
}

func TestBuild_ActionsMatchItems(t *testing.T) {
	// Every ACTION entry must be justified by an item of its state.
	g := genGrammarForTest(t, exprGrammarSrc)
	fst, err := genFirstSet(g.prods, g.symTab)
	if err != nil {
		t.Fatal(err)
	}
	automaton, err := genLR1Automaton(g.prods, g.symTab, fst)
	if err != nil {
		t.Fatal(err)
	}
	tab, err := g.Build()
	if err != nil {
		t.Fatal(err)
	}
	for key, act := range tab.Action {
		state := automaton.states[key.State]
		justified := false
		for _, item := range state.items {
			switch act.Type {
			case ActionTypeShift:
				if item.dottedSymbol(g.prods) == key.Symbol {
					justified = true
				}
			case ActionTypeReduce:
				if item.reducible(g.prods) && item.prod == act.Target && item.lookAhead == key.Symbol {
					justified = true
				}
			case ActionTypeAccept:
				if item.prod == productionNumStart && item.reducible(g.prods) {
					justified = true
				}
			}
			if justified {
				break
			}
		}
		if !justified {
			t.Fatalf("no item justifies ACTION[%v, %v] = %v", key.State, key.Symbol, act.Type)
		}
	}
}

func TestNewGrammar_Validation(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		cause   error
	}{
		{
			caption: "an RHS symbol must be defined",
			src: `
a    a
%%
S : a B
`,
			cause: semErrUndefinedSym,
		},
		{
			caption: "SKIP cannot appear on an RHS",
			src: `
[ ]+    SKIP
a       a
%%
S : a SKIP
`,
			cause: semErrSkipInGrammar,
		},
		{
			caption: "reserved names cannot be an LHS",
			src: `
a    a
%%
eps : a
`,
			cause: semErrReservedLHS,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			rs, err := spec.Parse([]byte(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			_, err = NewGrammar(rs)
			if err == nil {
				t.Fatal("expected an error")
			}
			var specErr *verr.SpecError
			if !errors.As(err, &specErr) {
				t.Fatalf("unexpected error type: %T", err)
			}
			if !errors.Is(specErr.Cause, tt.cause) {
				t.Fatalf("unexpected cause; want: %v, got: %v", tt.cause, specErr.Cause)
			}
		})
	}
}
