package grammar

import "github.com/nihei9/kagari/spec"

type ActionType int

const (
	ActionTypeError ActionType = iota
	ActionTypeShift
	ActionTypeReduce
	ActionTypeAccept
)

func (t ActionType) String() string {
	switch t {
	case ActionTypeShift:
		return "shift"
	case ActionTypeReduce:
		return "reduce"
	case ActionTypeAccept:
		return "accept"
	}
	return "error"
}

// Action is a tagged variant. Target is the next state for a shift and the
// production number for a reduce; it is meaningless otherwise.
type Action struct {
	Type   ActionType
	Target int
}

type ActionKey struct {
	State  int
	Symbol string
}

type ActionTable map[ActionKey]Action

type GotoKey struct {
	State  int
	Symbol string
}

type GotoTable map[GotoKey]int

type Conflict interface {
	conflict()
}

// ShiftReduceConflict records a collision between a shift and a reduce on
// the same (state, symbol) entry. The action written first is retained.
type ShiftReduceConflict struct {
	State     int
	Symbol    string
	NextState int
	ProdNum   int
}

func (c *ShiftReduceConflict) conflict() {
}

type ReduceReduceConflict struct {
	State    int
	Symbol   string
	ProdNum1 int
	ProdNum2 int
}

func (c *ReduceReduceConflict) conflict() {
}

var (
	_ Conflict = &ShiftReduceConflict{}
	_ Conflict = &ReduceReduceConflict{}
)

// ParsingTable is the read-only result of a build.
type ParsingTable struct {
	Action     ActionTable
	Goto       GotoTable
	StateCount int
	Conflicts  []Conflict
}

type lrTableBuilder struct {
	automaton *lr1Automaton
	prods     *productionSet

	conflicts []Conflict
}

func (b *lrTableBuilder) build() *ParsingTable {
	ptab := &ParsingTable{
		Action:     ActionTable{},
		Goto:       GotoTable{},
		StateCount: len(b.automaton.states),
	}

	for _, state := range b.automaton.states {
		for sym, next := range state.next {
			if b.prods.findByLHS(sym) != nil {
				ptab.Goto[GotoKey{State: state.num, Symbol: sym}] = next
			} else {
				b.writeAction(ptab, state.num, sym, Action{Type: ActionTypeShift, Target: next})
			}
		}

		for _, item := range state.items {
			if !item.reducible(b.prods) {
				continue
			}
			if item.prod == productionNumStart {
				if item.lookAhead == spec.SymbolNameEOF {
					b.writeAction(ptab, state.num, item.lookAhead, Action{Type: ActionTypeAccept})
				}
				continue
			}
			b.writeAction(ptab, state.num, item.lookAhead, Action{Type: ActionTypeReduce, Target: item.prod})
		}
	}

	ptab.Conflicts = b.conflicts
	return ptab
}

// writeAction records an action, keeping the first entry when a conflict
// arises and reporting the collision as a diagnostic.
func (b *lrTableBuilder) writeAction(tab *ParsingTable, state int, sym string, act Action) {
	key := ActionKey{State: state, Symbol: sym}
	prev, ok := tab.Action[key]
	if !ok {
		tab.Action[key] = act
		return
	}
	if prev == act {
		return
	}

	switch {
	case prev.Type == ActionTypeShift && act.Type == ActionTypeReduce:
		b.conflicts = append(b.conflicts, &ShiftReduceConflict{
			State:     state,
			Symbol:    sym,
			NextState: prev.Target,
			ProdNum:   act.Target,
		})
	case prev.Type == ActionTypeReduce && act.Type == ActionTypeShift:
		b.conflicts = append(b.conflicts, &ShiftReduceConflict{
			State:     state,
			Symbol:    sym,
			NextState: act.Target,
			ProdNum:   prev.Target,
		})
	case prev.Type == ActionTypeReduce && act.Type == ActionTypeReduce:
		b.conflicts = append(b.conflicts, &ReduceReduceConflict{
			State:    state,
			Symbol:   sym,
			ProdNum1: prev.Target,
			ProdNum2: act.Target,
		})
	default:
		// Shift/shift and accept collisions cannot arise from a canonical
		// collection; writing the same entry twice is handled above.
	}
}
