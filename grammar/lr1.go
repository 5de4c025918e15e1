package grammar

import (
	"sort"

	"github.com/nihei9/kagari/spec"
)

// lrState is one member of the canonical LR(1) collection: a closed item set
// plus its transitions. States are identified by position in the ordered
// collection; identity of the underlying item set is its content.
type lrState struct {
	num   int
	items []lrItem
	next  map[string]int
}

type lr1Automaton struct {
	states []*lrState
}

// genLR1Automaton builds the canonical collection. I0 is the closure of
// [S' → ・S, #]; new states are added only when their closed item set is
// value-distinct from every existing one, checked via fingerprint.
func genLR1Automaton(prods *productionSet, symTab *symbolTable, first *firstSet) (*lr1Automaton, error) {
	automaton := &lr1Automaton{}
	known := map[string]int{}

	addState := func(items []lrItem) int {
		fp := fingerprintItems(items)
		if num, ok := known[fp]; ok {
			return num
		}
		state := &lrState{
			num:   len(automaton.states),
			items: items,
			next:  map[string]int{},
		}
		automaton.states = append(automaton.states, state)
		known[fp] = state.num
		return state.num
	}

	initial, err := closure(
		[]lrItem{{prod: productionNumStart, dot: 0, lookAhead: spec.SymbolNameEOF}},
		prods, first,
	)
	if err != nil {
		return nil, err
	}
	addState(initial)

	for unchecked := 0; unchecked < len(automaton.states); unchecked++ {
		state := automaton.states[unchecked]

		// Group the items on their dotted symbols; each group advances
		// into one successor state.
		kernels := map[string][]lrItem{}
		for _, item := range state.items {
			sym := item.dottedSymbol(prods)
			if sym == "" {
				continue
			}
			kernels[sym] = append(kernels[sym], lrItem{
				prod:      item.prod,
				dot:       item.dot + 1,
				lookAhead: item.lookAhead,
			})
		}

		syms := make([]string, 0, len(kernels))
		for sym := range kernels {
			syms = append(syms, sym)
		}
		sort.Strings(syms)

		for _, sym := range syms {
			next, err := closure(kernels[sym], prods, first)
			if err != nil {
				return nil, err
			}
			state.next[sym] = addState(next)
		}
	}

	return automaton, nil
}

// closure saturates an item set: for every [A → α・Bβ, a] it adds
// [B → ・γ, b] for each production B → γ and each b ∈ FIRST(βa).
func closure(kernel []lrItem, prods *productionSet, first *firstSet) ([]lrItem, error) {
	known := map[lrItem]struct{}{}
	var items []lrItem
	var queue []lrItem
	for _, item := range kernel {
		if _, ok := known[item]; ok {
			continue
		}
		known[item] = struct{}{}
		items = append(items, item)
		queue = append(queue, item)
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		p := prods.findByNum(item.prod)
		if item.dot >= p.rhsLen {
			continue
		}
		dotted := p.rhs[item.dot]
		bodies := prods.findByLHS(dotted)
		if len(bodies) == 0 {
			continue
		}

		// FIRST(βa): the RHS beyond the dotted symbol, then the item's own
		// look-ahead when that suffix is nullable.
		la, err := first.findBySequence(p.rhs[item.dot+1:])
		if err != nil {
			return nil, err
		}
		lookAheads := make([]string, 0, len(la.symbols)+1)
		for sym := range la.symbols {
			lookAheads = append(lookAheads, sym)
		}
		if la.empty {
			lookAheads = append(lookAheads, item.lookAhead)
		}
		sort.Strings(lookAheads)

		for _, body := range bodies {
			for _, b := range lookAheads {
				newItem := lrItem{prod: body.num, dot: 0, lookAhead: b}
				if _, ok := known[newItem]; ok {
					continue
				}
				known[newItem] = struct{}{}
				items = append(items, newItem)
				queue = append(queue, newItem)
			}
		}
	}

	return sortItems(items), nil
}
