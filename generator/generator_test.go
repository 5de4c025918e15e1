package generator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	verr "github.com/nihei9/kagari/error"
	"github.com/nihei9/kagari/grammar"
)

const calcSpec = `
[ \t]+    SKIP
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

func writeSpec(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.txt")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	specPath := writeSpec(t, calcSpec)
	outDir := t.TempDir()

	res, err := Run(specPath, Options{OutDir: outDir})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Table.Conflicts) > 0 {
		t.Fatalf("unexpected conflicts: %v", len(res.Table.Conflicts))
	}
	if res.DFAStats.MinimizedStates == 0 || res.DFAStats.MinimizedStates > res.DFAStats.DFAStates {
		t.Fatalf("implausible DFA stats: %+v", res.DFAStats)
	}
	for _, name := range []string{"lexer.h", "lexer.cpp", "parser.h", "parser.cpp"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing output file %v: %v", name, err)
		}
	}
}

func TestRun_ConflictPolicy(t *testing.T) {
	src := `
a    a
%%
S : S S
S : a
`
	specPath := writeSpec(t, src)

	// Conflicts abort the pipeline by default.
	outDir := t.TempDir()
	res, err := Run(specPath, Options{OutDir: outDir})
	var confErr *grammar.ConflictError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected a ConflictError; got: %v", err)
	}
	if len(confErr.Conflicts) == 0 {
		t.Fatal("the error must carry the conflicts")
	}
	if _, statErr := os.Stat(filepath.Join(outDir, "lexer.cpp")); !os.IsNotExist(statErr) {
		t.Fatal("no output may be written when conflicts are fatal")
	}

	// With the flag set, the build keeps the first action and emits.
	outDir = t.TempDir()
	res, err = Run(specPath, Options{OutDir: outDir, AllowConflicts: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Table.Conflicts) == 0 {
		t.Fatal("the report must still list the conflicts")
	}
	if _, err := os.Stat(filepath.Join(outDir, "parser.cpp")); err != nil {
		t.Fatal("the pipeline must emit despite reported conflicts")
	}
}

func TestBuild_AnnotatesSpecErrors(t *testing.T) {
	specPath := writeSpec(t, `
[0-9+    NUM
%%
S : NUM
`)
	_, err := Build(specPath)
	var specErr *verr.SpecError
	if !errors.As(err, &specErr) {
		t.Fatalf("expected a SpecError; got: %v", err)
	}
	if specErr.FilePath != specPath || specErr.SourceName != specPath {
		t.Fatalf("the error lacks its file annotation: %+v", specErr)
	}
	if specErr.Row != 2 {
		t.Fatalf("unexpected row; want: 2, got: %v", specErr.Row)
	}
}

func TestBuild_MissingFile(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "no-such-file.txt"))
	if err == nil {
		t.Fatal("expected an error for a missing specification file")
	}
}
