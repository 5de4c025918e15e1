package generator

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/kagari/emitter"
	verr "github.com/nihei9/kagari/error"
	"github.com/nihei9/kagari/grammar"
	"github.com/nihei9/kagari/lexical"
	"github.com/nihei9/kagari/spec"
)

type Options struct {
	OutDir string

	// AllowConflicts keeps going when the ACTION table has collisions. The
	// first action written wins; every collision stays on the report.
	AllowConflicts bool
}

// Result carries everything the pipeline computes before emission.
type Result struct {
	RuleSet  *spec.RuleSet
	DFA      lexical.DFATable
	DFAStats lexical.BuildStats
	Grammar  *grammar.Grammar
	Table    *grammar.ParsingTable
}

// Build runs the front half of the pipeline: read and parse the
// specification, build the DFA, and derive the LR tables. It fails fast on
// the first phase error.
func Build(specPath string) (*Result, error) {
	src, err := os.ReadFile(specPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open the specification file: %w", err)
	}

	rs, err := spec.Parse(src)
	if err != nil {
		return nil, annotate(err, specPath)
	}

	lb := lexical.NewLexerBuilder()
	for _, r := range rs.TokenRules {
		lb.AddRule(r)
	}
	dfa, err := lb.Build()
	if err != nil {
		return nil, annotate(err, specPath)
	}

	g, err := grammar.NewGrammar(rs)
	if err != nil {
		return nil, annotate(err, specPath)
	}
	tab, err := g.Build()
	if err != nil {
		return nil, annotate(err, specPath)
	}

	return &Result{
		RuleSet:  rs,
		DFA:      dfa,
		DFAStats: lb.Stats(),
		Grammar:  g,
		Table:    tab,
	}, nil
}

// Run executes the whole pipeline: Build, the conflict policy, and
// emission of the four target files.
func Run(specPath string, opts Options) (*Result, error) {
	res, err := Build(specPath)
	if err != nil {
		return nil, err
	}

	if len(res.Table.Conflicts) > 0 && !opts.AllowConflicts {
		return res, &grammar.ConflictError{
			Conflicts: res.Table.Conflicts,
		}
	}

	e := emitter.NewEmitter(opts.OutDir)
	err = e.EmitLexer(res.DFA)
	if err != nil {
		return res, err
	}
	err = e.EmitParser(res.Table, res.RuleSet.Productions)
	if err != nil {
		return res, err
	}

	return res, nil
}

func annotate(err error, path string) error {
	var specErr *verr.SpecError
	if errors.As(err, &specErr) {
		specErr.FilePath = path
		specErr.SourceName = path
	}
	return err
}
