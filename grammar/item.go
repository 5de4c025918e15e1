package grammar

import (
	"fmt"
	"sort"

	"github.com/cnf/structhash"
)

// lrItem is an LR(1) item: a production, a dot position, and one look-ahead
// terminal. Equality and ordering are lexicographic on the triple.
type lrItem struct {
	prod      int
	dot       int
	lookAhead string
}

func (i lrItem) less(j lrItem) bool {
	if i.prod != j.prod {
		return i.prod < j.prod
	}
	if i.dot != j.dot {
		return i.dot < j.dot
	}
	return i.lookAhead < j.lookAhead
}

// dottedSymbol returns the symbol right of the dot, or "" when the item is
// reducible.
func (i lrItem) dottedSymbol(prods *productionSet) string {
	p := prods.findByNum(i.prod)
	if i.dot >= p.rhsLen {
		return ""
	}
	return p.rhs[i.dot]
}

func (i lrItem) reducible(prods *productionSet) bool {
	return i.dot >= prods.findByNum(i.prod).rhsLen
}

// itemFingerprint mirrors lrItem with exported fields so structhash can
// serialize it.
type itemFingerprint struct {
	Prod int
	Dot  int
	La   string
}

type itemSetFingerprint struct {
	Items []itemFingerprint
}

// fingerprintItems computes a stable hash over the sorted item tuples. Two
// item sets share a fingerprint exactly when their contents are equal, which
// is what canonical-collection deduplication keys on.
func fingerprintItems(items []lrItem) string {
	sorted := make([]lrItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].less(sorted[b])
	})
	fp := itemSetFingerprint{
		Items: make([]itemFingerprint, len(sorted)),
	}
	for i, item := range sorted {
		fp.Items[i] = itemFingerprint{
			Prod: item.prod,
			Dot:  item.dot,
			La:   item.lookAhead,
		}
	}
	return fmt.Sprintf("%x", structhash.Sha1(fp, 1))
}

func sortItems(items []lrItem) []lrItem {
	sort.Slice(items, func(a, b int) bool {
		return items[a].less(items[b])
	})
	return items
}
