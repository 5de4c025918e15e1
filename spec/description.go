package spec

import (
	"fmt"
	"strings"
)

// Describe renders a rule set back into specification-file syntax. Parsing
// the result yields the same token rules and productions, apart from their
// Row fields (the rendered text has its own line numbers) and formatting of
// action bodies.
func Describe(s *RuleSet) string {
	var b strings.Builder
	for _, r := range s.TokenRules {
		fmt.Fprintf(&b, "%v    %v\n", r.Pattern, r.Name)
	}
	fmt.Fprintf(&b, "%%%%\n")
	for _, p := range s.Productions {
		rhs := strings.Join(p.RHS, " ")
		if p.IsEmpty() {
			rhs = SymbolNameEmpty
		}
		if p.Action != "" {
			fmt.Fprintf(&b, "%v : %v { %v }\n", p.LHS, rhs, p.Action)
		} else {
			fmt.Fprintf(&b, "%v : %v\n", p.LHS, rhs)
		}
	}
	return b.String()
}
