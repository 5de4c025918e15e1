package grammar

import "fmt"

type firstEntry struct {
	symbols map[string]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: map[string]struct{}{},
	}
}

func (e *firstEntry) add(sym string) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

type firstSet struct {
	set    map[string]*firstEntry
	symTab *symbolTable
}

func newFirstSet(prods *productionSet, symTab *symbolTable) *firstSet {
	fst := &firstSet{
		set:    map[string]*firstEntry{},
		symTab: symTab,
	}
	for _, prod := range prods.all {
		if _, ok := fst.set[prod.lhs]; ok {
			continue
		}
		fst.set[prod.lhs] = newFirstEntry()
	}
	return fst
}

func (fst *firstSet) findBySymbol(sym string) *firstEntry {
	return fst.set[sym]
}

// findBySequence computes FIRST of a symbol sequence, walking through
// nullable non-terminals.
func (fst *firstSet) findBySequence(syms []string) (*firstEntry, error) {
	entry := newFirstEntry()
	for _, sym := range syms {
		if fst.symTab.isTerminal(sym) {
			entry.add(sym)
			return entry, nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		for s := range e.symbols {
			entry.add(s)
		}
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

// genFirstSet iterates the standard FIRST construction to a fixpoint.
func genFirstSet(prods *productionSet, symTab *symbolTable) (*firstSet, error) {
	fst := newFirstSet(prods, symTab)
	for {
		more := false
		for _, prod := range prods.all {
			e := fst.findBySymbol(prod.lhs)
			changed, err := genProdFirstEntry(fst, e, prod)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return fst, nil
}

func genProdFirstEntry(fst *firstSet, acc *firstEntry, prod *production) (bool, error) {
	if prod.isEmpty() {
		return acc.addEmpty(), nil
	}

	changed := false
	for _, sym := range prod.rhs {
		if fst.symTab.isTerminal(sym) {
			return acc.add(sym) || changed, nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		for s := range e.symbols {
			if acc.add(s) {
				changed = true
			}
		}
		if !e.empty {
			return changed, nil
		}
	}
	if acc.addEmpty() {
		changed = true
	}
	return changed, nil
}
