package grammar

import (
	"sort"
	"testing"

	"github.com/nihei9/kagari/spec"
)

func genGrammarForTest(t *testing.T, src string) *Grammar {
	t.Helper()
	rs, err := spec.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	g, err := NewGrammar(rs)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

const exprGrammarSrc = `
[0-9]+    NUM
\+        PLUS
\*        MUL
\(        LPAREN
\)        RPAREN
%%
E : E PLUS T { $$.val = $1.val + $3.val; }
E : T
T : T MUL F { $$.val = $1.val * $3.val; }
T : F
F : LPAREN E RPAREN { $$.val = $2.val; }
F : NUM { $$.val = $1.val; }
`

func TestGenFirstSet(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		first   map[string]struct {
			symbols []string
			empty   bool
		}
	}{
		{
			caption: "no nullable non-terminals",
			src:     exprGrammarSrc,
			first: map[string]struct {
				symbols []string
				empty   bool
			}{
				"E'": {symbols: []string{"LPAREN", "NUM"}},
				"E":  {symbols: []string{"LPAREN", "NUM"}},
				"T":  {symbols: []string{"LPAREN", "NUM"}},
				"F":  {symbols: []string{"LPAREN", "NUM"}},
			},
		},
		{
			caption: "an empty production makes its LHS nullable",
			src: `
a    a
b    b
%%
A : B a
B : b
B : eps
`,
			first: map[string]struct {
				symbols []string
				empty   bool
			}{
				"A'": {symbols: []string{"a", "b"}},
				"A":  {symbols: []string{"a", "b"}},
				"B":  {symbols: []string{"b"}, empty: true},
			},
		},
		{
			caption: "nullability propagates through a whole RHS",
			src: `
a    a
%%
S : A A
A : eps
A : a
`,
			first: map[string]struct {
				symbols []string
				empty   bool
			}{
				"S'": {symbols: []string{"a"}, empty: true},
				"S":  {symbols: []string{"a"}, empty: true},
				"A":  {symbols: []string{"a"}, empty: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := genGrammarForTest(t, tt.src)
			fst, err := genFirstSet(g.prods, g.symTab)
			if err != nil {
				t.Fatal(err)
			}
			for lhs, want := range tt.first {
				e := fst.findBySymbol(lhs)
				if e == nil {
					t.Fatalf("no FIRST entry for %v", lhs)
				}
				var got []string
				for sym := range e.symbols {
					got = append(got, sym)
				}
				sort.Strings(got)
				wantSyms := append([]string{}, want.symbols...)
				sort.Strings(wantSyms)
				if len(got) != len(wantSyms) {
					t.Fatalf("unexpected FIRST(%v); want: %v, got: %v", lhs, wantSyms, got)
				}
				for i := range got {
					if got[i] != wantSyms[i] {
						t.Fatalf("unexpected FIRST(%v); want: %v, got: %v", lhs, wantSyms, got)
					}
				}
				if e.empty != want.empty {
					t.Fatalf("unexpected nullability of %v; want: %v, got: %v", lhs, want.empty, e.empty)
				}
			}
		})
	}
}

func TestGenFirstSet_Fixpoint(t *testing.T) {
	// Running the construction twice must produce identical sets: FIRST is
	// a fixpoint.
	g := genGrammarForTest(t, exprGrammarSrc)
	fst1, err := genFirstSet(g.prods, g.symTab)
	if err != nil {
		t.Fatal(err)
	}
	fst2, err := genFirstSet(g.prods, g.symTab)
	if err != nil {
		t.Fatal(err)
	}
	for lhs, e1 := range fst1.set {
		e2 := fst2.findBySymbol(lhs)
		if e2 == nil || e1.empty != e2.empty || len(e1.symbols) != len(e2.symbols) {
			t.Fatalf("FIRST(%v) differs between runs", lhs)
		}
		for sym := range e1.symbols {
			if _, ok := e2.symbols[sym]; !ok {
				t.Fatalf("FIRST(%v) differs between runs: %v missing", lhs, sym)
			}
		}
	}
}

func TestFindBySequence(t *testing.T) {
	g := genGrammarForTest(t, `
a    a
b    b
%%
S : A b
A : eps
A : a
`)
	fst, err := genFirstSet(g.prods, g.symTab)
	if err != nil {
		t.Fatal(err)
	}

	// FIRST(A b) = {a, b}: A is nullable, so b joins the set, and the
	// sequence itself is not nullable.
	e, err := fst.findBySequence([]string{"A", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if e.empty {
		t.Fatal("FIRST(A b) must not contain the empty string")
	}
	for _, sym := range []string{"a", "b"} {
		if _, ok := e.symbols[sym]; !ok {
			t.Fatalf("FIRST(A b) must contain %v", sym)
		}
	}

	// FIRST of the empty sequence is just the empty string.
	e, err = fst.findBySequence(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !e.empty || len(e.symbols) != 0 {
		t.Fatalf("unexpected FIRST of the empty sequence: %+v", e)
	}
}
