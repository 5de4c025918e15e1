package grammar

import (
	"sort"

	"github.com/nihei9/kagari/spec"
)

type symbolKind int

const (
	symbolKindTerminal symbolKind = iota
	symbolKindNonTerminal
)

// symbolTable partitions the grammar's symbols. Non-terminals are the LHS
// symbols; terminals are every RHS symbol that is no production's LHS, plus
// the end marker. `eps` names the empty string and never enters either set.
type symbolTable struct {
	kinds        map[string]symbolKind
	terminals    []string
	nonTerminals []string
}

func genSymbolTable(prods []*spec.Production) *symbolTable {
	t := &symbolTable{
		kinds: map[string]symbolKind{},
	}
	for _, p := range prods {
		if _, ok := t.kinds[p.LHS]; !ok {
			t.kinds[p.LHS] = symbolKindNonTerminal
			t.nonTerminals = append(t.nonTerminals, p.LHS)
		}
	}
	for _, p := range prods {
		for _, sym := range p.RHS {
			if _, ok := t.kinds[sym]; ok {
				continue
			}
			t.kinds[sym] = symbolKindTerminal
			t.terminals = append(t.terminals, sym)
		}
	}
	t.kinds[spec.SymbolNameEOF] = symbolKindTerminal
	t.terminals = append(t.terminals, spec.SymbolNameEOF)
	sort.Strings(t.terminals)
	return t
}

func (t *symbolTable) isTerminal(sym string) bool {
	kind, ok := t.kinds[sym]
	return ok && kind == symbolKindTerminal
}

func (t *symbolTable) isNonTerminal(sym string) bool {
	kind, ok := t.kinds[sym]
	return ok && kind == symbolKindNonTerminal
}

// registerNonTerminal adds a synthetic non-terminal, such as the augmented
// start symbol.
func (t *symbolTable) registerNonTerminal(sym string) {
	if _, ok := t.kinds[sym]; ok {
		return
	}
	t.kinds[sym] = symbolKindNonTerminal
	t.nonTerminals = append(t.nonTerminals, sym)
}
