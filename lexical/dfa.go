package lexical

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// DFARow is one state of the generated automaton. The table index of a row
// equals its StateID, and state 0 is always the start state.
type DFARow struct {
	StateID     int
	Transitions map[byte]int
	Final       bool
	TokenName   string
}

type DFATable []*DFARow

// epsClosure expands a set of NFA states with everything reachable over
// ε-transitions alone.
func epsClosure(a *nfaArena, states map[stateID]struct{}) map[stateID]struct{} {
	closure := map[stateID]struct{}{}
	var queue []stateID
	for s := range states {
		closure[s] = struct{}{}
		queue = append(queue, s)
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for next := range a.states[current].epsTrans {
			if _, ok := closure[next]; ok {
				continue
			}
			closure[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return closure
}

// move returns the set of NFA states reachable from any member of states by
// consuming c.
func move(a *nfaArena, states map[stateID]struct{}, c byte) map[stateID]struct{} {
	result := map[stateID]struct{}{}
	for s := range states {
		for next := range a.states[s].trans[c] {
			result[next] = struct{}{}
		}
	}
	return result
}

// subsetKey is the identity of a subset: its exact contents, not the
// object holding them.
func subsetKey(states map[stateID]struct{}) string {
	ids := make([]int, 0, len(states))
	for s := range states {
		ids = append(ids, int(s))
	}
	sort.Ints(ids)
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte('.')
		}
		fmt.Fprintf(&b, "%d", id)
	}
	return b.String()
}

// alphabetOf collects every character appearing on a non-ε transition. The
// tree set keeps iteration order deterministic.
func alphabetOf(a *nfaArena) *treeset.Set {
	alphabet := treeset.NewWith(utils.ByteComparator)
	for _, s := range a.states {
		for c := range s.trans {
			alphabet.Add(c)
		}
	}
	return alphabet
}

// genDFA runs the subset construction. rulePriority maps a token name to its
// declaration position; when a subset contains accept states of several
// rules, the earliest-declared rule names the DFA state.
func genDFA(a *nfaArena, start stateID, rulePriority map[string]int) DFATable {
	alphabet := alphabetOf(a)

	var table DFATable
	subsets := map[string]int{}
	var queue []map[stateID]struct{}

	addSubset := func(states map[stateID]struct{}) int {
		id := len(table)
		subsets[subsetKey(states)] = id
		row := &DFARow{
			StateID:     id,
			Transitions: map[byte]int{},
		}
		priority := -1
		for s := range states {
			st := a.states[s]
			if !st.final {
				continue
			}
			p, ok := rulePriority[st.tokenName]
			if !ok {
				continue
			}
			if priority < 0 || p < priority {
				priority = p
				row.Final = true
				row.TokenName = st.tokenName
			}
		}
		table = append(table, row)
		queue = append(queue, states)
		return id
	}

	addSubset(epsClosure(a, map[stateID]struct{}{start: {}}))

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		currentID := subsets[subsetKey(current)]

		alphabet.Each(func(_ int, value interface{}) {
			c := value.(byte)
			next := move(a, current, c)
			if len(next) == 0 {
				return
			}
			next = epsClosure(a, next)
			nextID, known := subsets[subsetKey(next)]
			if !known {
				nextID = addSubset(next)
			}
			table[currentID].Transitions[c] = nextID
		})
	}

	return table
}

// minimize refines the DFA into equivalence classes. Accepting states with
// different token names start in different blocks and are never merged.
// After refinement the block holding the original start state is renumbered
// to 0 and the rest are assigned densely.
func minimize(table DFATable) DFATable {
	if len(table) == 0 {
		return table
	}

	alphabet := treeset.NewWith(utils.ByteComparator)
	for _, row := range table {
		for c := range row.Transitions {
			alphabet.Add(c)
		}
	}

	// Initial partition: one block per token name among accepting states,
	// plus one block of all non-accepting states.
	blockOf := make([]int, len(table))
	blockCount := 0
	{
		blockByName := map[string]int{}
		for _, row := range table {
			name := ""
			if row.Final {
				name = row.TokenName
			}
			b, ok := blockByName[name]
			if !ok {
				b = blockCount
				blockCount++
				blockByName[name] = b
			}
			blockOf[row.StateID] = b
		}
	}

	signature := func(row *DFARow) string {
		var b strings.Builder
		alphabet.Each(func(_ int, value interface{}) {
			c := value.(byte)
			target, ok := row.Transitions[c]
			if ok {
				fmt.Fprintf(&b, "%d;", blockOf[target])
			} else {
				b.WriteString("-;")
			}
		})
		return b.String()
	}

	for {
		split := false
		nextBlockOf := make([]int, len(table))
		nextBlockCount := 0
		groupIDs := map[string]int{}
		for _, row := range table {
			// States in different blocks never share a group.
			key := fmt.Sprintf("%d|%s", blockOf[row.StateID], signature(row))
			g, ok := groupIDs[key]
			if !ok {
				g = nextBlockCount
				nextBlockCount++
				groupIDs[key] = g
			}
			nextBlockOf[row.StateID] = g
		}
		if nextBlockCount > blockCount {
			split = true
		}
		blockOf = nextBlockOf
		blockCount = nextBlockCount
		if !split {
			break
		}
	}

	// The block holding the original start state becomes state 0; the rest
	// keep their relative order.
	newID := make([]int, blockCount)
	{
		for i := range newID {
			newID[i] = -1
		}
		newID[blockOf[0]] = 0
		n := 1
		for _, row := range table {
			b := blockOf[row.StateID]
			if newID[b] < 0 {
				newID[b] = n
				n++
			}
		}
	}

	minimized := make(DFATable, blockCount)
	for _, row := range table {
		id := newID[blockOf[row.StateID]]
		if minimized[id] != nil {
			continue
		}
		newRow := &DFARow{
			StateID:     id,
			Transitions: map[byte]int{},
			Final:       row.Final,
			TokenName:   row.TokenName,
		}
		for c, target := range row.Transitions {
			newRow.Transitions[c] = newID[blockOf[target]]
		}
		minimized[id] = newRow
	}
	return minimized
}
