package grammar

import (
	verr "github.com/nihei9/kagari/error"
	"github.com/nihei9/kagari/spec"
)

// Grammar holds a validated, augmented rule set. Productions are added
// before Build and treated as immutable afterwards.
type Grammar struct {
	prods       *productionSet
	symTab      *symbolTable
	startSymbol string
	augStart    string
}

// NewGrammar partitions the symbols, validates every RHS, and augments the
// grammar with `S' → S` as production 0. The start symbol is the LHS of the
// first production.
func NewGrammar(rs *spec.RuleSet) (*Grammar, error) {
	if len(rs.Productions) == 0 {
		return nil, &verr.SpecError{
			Cause: semErrNoProduction,
		}
	}

	symTab := genSymbolTable(rs.Productions)

	tokenNames := map[string]struct{}{}
	for _, r := range rs.TokenRules {
		tokenNames[r.Name] = struct{}{}
	}

	for _, p := range rs.Productions {
		if p.LHS == spec.SymbolNameEmpty || p.LHS == spec.SymbolNameEOF {
			return nil, &verr.SpecError{
				Cause: semErrReservedLHS,
				Row:   p.Row,
			}
		}
		for _, sym := range p.RHS {
			if sym == spec.TokenNameSkip {
				return nil, &verr.SpecError{
					Cause: semErrSkipInGrammar,
					Row:   p.Row,
				}
			}
			if symTab.isNonTerminal(sym) || sym == spec.SymbolNameEOF {
				continue
			}
			if _, ok := tokenNames[sym]; !ok {
				return nil, &verr.SpecError{
					Cause: semErrUndefinedSym,
					Row:   p.Row,
				}
			}
		}
	}

	start := rs.StartSymbol()
	augStart := start + "'"
	symTab.registerNonTerminal(augStart)

	return &Grammar{
		prods:       genProductionSet(augStart, start, rs.Productions),
		symTab:      symTab,
		startSymbol: start,
		augStart:    augStart,
	}, nil
}

func (g *Grammar) StartSymbol() string {
	return g.startSymbol
}

// ProductionRHSLen returns the RHS length of a production, for emitting
// reduce actions. The second result is false for an unknown number.
func (g *Grammar) ProductionRHSLen(num int) (int, bool) {
	p := g.prods.findByNum(num)
	if p == nil {
		return 0, false
	}
	return p.rhsLen, true
}

// Build derives the ACTION and GOTO tables from the canonical LR(1)
// collection. Conflicts do not abort the build; they are returned on the
// table for the caller to treat as fatal or not.
func (g *Grammar) Build() (*ParsingTable, error) {
	first, err := genFirstSet(g.prods, g.symTab)
	if err != nil {
		return nil, err
	}
	automaton, err := genLR1Automaton(g.prods, g.symTab, first)
	if err != nil {
		return nil, err
	}
	b := &lrTableBuilder{
		automaton: automaton,
		prods:     g.prods,
	}
	return b.build(), nil
}
