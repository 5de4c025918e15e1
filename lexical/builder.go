package lexical

import (
	"fmt"

	verr "github.com/nihei9/kagari/error"
	"github.com/nihei9/kagari/spec"
)

// LexerBuilder turns a list of token rules into a minimized DFA. Rule order
// is significant: when two rules accept the same longest prefix, the one
// declared first names the token.
//
// The state-ID counter lives in the builder's arena, so independent builders
// never interfere.
type LexerBuilder struct {
	rules []*spec.TokenRule
	stats BuildStats
}

// BuildStats records the sizes of the intermediate automata of the last
// Build call.
type BuildStats struct {
	NFAStates       int
	DFAStates       int
	MinimizedStates int
}

func NewLexerBuilder() *LexerBuilder {
	return &LexerBuilder{}
}

func (b *LexerBuilder) AddRule(rule *spec.TokenRule) {
	b.rules = append(b.rules, rule)
}

// Build runs the regex front end and Thompson construction per rule, merges
// the per-rule NFAs, and derives the minimized DFA via subset construction
// and partition refinement.
func (b *LexerBuilder) Build() (DFATable, error) {
	if len(b.rules) == 0 {
		return nil, &verr.SpecError{
			Cause: fmt.Errorf("at least one token rule is required"),
		}
	}

	arena := newNFAArena()
	fragments := make([]nfaFragment, 0, len(b.rules))
	rulePriority := map[string]int{}
	for i, rule := range b.rules {
		if rule.Name == "" {
			return nil, &verr.SpecError{
				Cause: fmt.Errorf("a token rule must have a name"),
				Row:   rule.Row,
			}
		}
		if _, ok := rulePriority[rule.Name]; !ok {
			rulePriority[rule.Name] = i
		}

		postfix, err := parsePattern(rule.Pattern)
		if err != nil {
			return nil, &verr.SpecError{
				Cause: fmt.Errorf("invalid pattern for %v: %w", rule.Name, err),
				Row:   rule.Row,
			}
		}
		f, err := arena.buildThompson(postfix, rule.Name)
		if err != nil {
			return nil, &verr.SpecError{
				Cause: fmt.Errorf("invalid pattern for %v: %w", rule.Name, err),
				Row:   rule.Row,
			}
		}
		fragments = append(fragments, f)
	}

	start := arena.merge(fragments)
	table := genDFA(arena, start, rulePriority)
	minimized := minimize(table)
	b.stats = BuildStats{
		NFAStates:       len(arena.states),
		DFAStates:       len(table),
		MinimizedStates: len(minimized),
	}
	return minimized, nil
}

// Stats reports the automaton sizes of the last Build call.
func (b *LexerBuilder) Stats() BuildStats {
	return b.stats
}
