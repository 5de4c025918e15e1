package grammar

import "github.com/nihei9/kagari/spec"

// production is a renumbered grammar rule. The augmented start production
// carries number 0; user productions keep 1..n in declaration order.
type production struct {
	num    int
	lhs    string
	rhs    []string
	rhsLen int
	action string
	row    int
}

func (p *production) isEmpty() bool {
	return p.rhsLen == 0
}

type productionSet struct {
	all   []*production
	byLHS map[string][]*production
}

func newProductionSet() *productionSet {
	return &productionSet{
		byLHS: map[string][]*production{},
	}
}

func (s *productionSet) append(p *production) {
	s.all = append(s.all, p)
	s.byLHS[p.lhs] = append(s.byLHS[p.lhs], p)
}

func (s *productionSet) findByNum(num int) *production {
	if num < 0 || num >= len(s.all) {
		return nil
	}
	return s.all[num]
}

func (s *productionSet) findByLHS(lhs string) []*production {
	return s.byLHS[lhs]
}

// genProductionSet augments the grammar with `S' → S` as production 0 and
// renumbers the user productions 1..n.
func genProductionSet(augStart, start string, prods []*spec.Production) *productionSet {
	set := newProductionSet()
	set.append(&production{
		num:    productionNumStart,
		lhs:    augStart,
		rhs:    []string{start},
		rhsLen: 1,
	})
	for i, p := range prods {
		set.append(&production{
			num:    i + 1,
			lhs:    p.LHS,
			rhs:    p.RHS,
			rhsLen: len(p.RHS),
			action: p.Action,
			row:    p.Row,
		})
	}
	return set
}

const productionNumStart = 0
