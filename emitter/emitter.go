package emitter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/nihei9/kagari/grammar"
	"github.com/nihei9/kagari/lexical"
	"github.com/nihei9/kagari/spec"
)

// Emitted file names. The header/source pairs must compile standalone with
// nothing beyond the C++ standard library.
const (
	LexerHeaderFile  = "lexer.h"
	LexerSourceFile  = "lexer.cpp"
	ParserHeaderFile = "parser.h"
	ParserSourceFile = "parser.cpp"
)

// CodegenError reports a semantic action referencing a stack position
// outside its production's RHS.
type CodegenError struct {
	ProdNum int
	Ref     string
	RHSLen  int
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("the semantic action of production %v references %v, but the RHS has %v symbols", e.ProdNum, e.Ref, e.RHSLen)
}

// Emitter renders the computed tables into the lexer/parser source pairs.
// Every file is rendered fully in memory before anything is written, so a
// failed render leaves no partial output behind.
type Emitter struct {
	outDir string
}

func NewEmitter(outDir string) *Emitter {
	if outDir == "" {
		outDir = "."
	}
	return &Emitter{
		outDir: outDir,
	}
}

// EmitLexer writes lexer.h and lexer.cpp from a DFA table.
func (e *Emitter) EmitLexer(dfa lexical.DFATable) error {
	src := templateLexerSource
	src = strings.ReplaceAll(src, "{{DFA_SWITCH_CASE}}", genDFASwitch(dfa))
	src = strings.ReplaceAll(src, "{{FINAL_STATE_JUDGEMENT}}", genFinalStateJudgement(dfa))

	err := e.writeFile(LexerHeaderFile, templateLexerHeader)
	if err != nil {
		return err
	}
	return e.writeFile(LexerSourceFile, src)
}

// EmitParser writes parser.h and parser.cpp from the ACTION/GOTO tables and
// the user productions, rewriting each semantic action's placeholders.
func (e *Emitter) EmitParser(tab *grammar.ParsingTable, prods []*spec.Production) error {
	actionLogic, err := genActionLogic(tab, prods)
	if err != nil {
		return err
	}
	src := templateParserSource
	src = strings.ReplaceAll(src, "{{ACTION_TABLE_LOGIC}}", actionLogic)
	src = strings.ReplaceAll(src, "{{GOTO_TABLE_LOGIC}}", genGotoLogic(tab))

	err = e.writeFile(ParserHeaderFile, templateParserHeader)
	if err != nil {
		return err
	}
	return e.writeFile(ParserSourceFile, src)
}

func (e *Emitter) writeFile(name, content string) error {
	path := filepath.Join(e.outDir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		return fmt.Errorf("cannot write %v: %w", path, err)
	}
	return nil
}

// escapeCppChar renders a byte as the inside of a C++ character literal.
func escapeCppChar(c byte) string {
	switch c {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case '\\':
		return `\\`
	case '\'':
		return `\'`
	}
	if c >= 0x20 && c <= 0x7e {
		return string(c)
	}
	return fmt.Sprintf(`\x%02x`, c)
}

func sortedChars(transitions map[byte]int) []byte {
	chars := make([]byte, 0, len(transitions))
	for c := range transitions {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool {
		return chars[i] < chars[j]
	})
	return chars
}

// genDFASwitch renders one case block per DFA row with a guarded condition
// chain over its outgoing edges.
func genDFASwitch(dfa lexical.DFATable) string {
	var b strings.Builder
	for _, row := range dfa {
		fmt.Fprintf(&b, "            case %v:\n", row.StateID)
		first := true
		for _, c := range sortedChars(row.Transitions) {
			if first {
				b.WriteString("                if ")
				first = false
			} else {
				b.WriteString("                else if ")
			}
			fmt.Fprintf(&b, "(c == '%v') nextState = %v;\n", escapeCppChar(c), row.Transitions[c])
		}
		b.WriteString("                break;\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// genFinalStateJudgement renders the accepting-state dispatch.
func genFinalStateJudgement(dfa lexical.DFATable) string {
	var b strings.Builder
	for _, row := range dfa {
		if !row.Final {
			continue
		}
		fmt.Fprintf(&b, "    if (state == %v) return %q;\n", row.StateID, row.TokenName)
	}
	return strings.TrimRight(b.String(), "\n")
}

// genGotoLogic renders the GOTO table as a flat conditional chain.
func genGotoLogic(tab *grammar.ParsingTable) string {
	keys := make([]grammar.GotoKey, 0, len(tab.Goto))
	for key := range tab.Goto {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].State != keys[j].State {
			return keys[i].State < keys[j].State
		}
		return keys[i].Symbol < keys[j].Symbol
	})

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "    if (state == %v && lhs == %q) return %v;\n", key.State, key.Symbol, tab.Goto[key])
	}
	return strings.TrimRight(b.String(), "\n")
}

// genActionLogic renders one conditional branch per ACTION entry, in state
// order and symbol order within a state.
func genActionLogic(tab *grammar.ParsingTable, prods []*spec.Production) (string, error) {
	keys := make([]grammar.ActionKey, 0, len(tab.Action))
	for key := range tab.Action {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].State != keys[j].State {
			return keys[i].State < keys[j].State
		}
		return keys[i].Symbol < keys[j].Symbol
	})

	var b strings.Builder
	for _, key := range keys {
		act := tab.Action[key]
		switch act.Type {
		case grammar.ActionTypeShift:
			fmt.Fprintf(&b, "        if (state == %v && look.type == %q) {\n", key.State, key.Symbol)
			fmt.Fprintf(&b, "            m_states.push_back(%v);\n", act.Target)
			b.WriteString("            SemanticValue sv;\n")
			b.WriteString("            sv.text = look.text;\n")
			b.WriteString("            sv.line = look.line;\n")
			b.WriteString("            m_values.push_back(sv);\n")
			b.WriteString("            look = m_lexer.nextToken();\n")
			b.WriteString("            continue;\n")
			b.WriteString("        }\n")
		case grammar.ActionTypeReduce:
			prod := prods[act.Target-1]
			body, err := rewriteAction(prod)
			if err != nil {
				return "", err
			}
			n := len(prod.RHS)
			fmt.Fprintf(&b, "        if (state == %v && look.type == %q) {\n", key.State, key.Symbol)
			for i := 1; i <= n; i++ {
				fmt.Fprintf(&b, "            SemanticValue v%v = m_values[m_values.size() - %v];\n", i, n-i+1)
			}
			if n > 0 {
				fmt.Fprintf(&b, "            m_states.resize(m_states.size() - %v);\n", n)
				fmt.Fprintf(&b, "            m_values.resize(m_values.size() - %v);\n", n)
			}
			b.WriteString("            SemanticValue ret;\n")
			if body != "" {
				b.WriteString("            {\n")
				for _, line := range strings.Split(body, "\n") {
					fmt.Fprintf(&b, "                %v\n", line)
				}
				b.WriteString("            }\n")
			}
			fmt.Fprintf(&b, "            int next = gotoState(m_states.back(), %q);\n", prod.LHS)
			b.WriteString("            if (next < 0) return false;\n")
			b.WriteString("            m_states.push_back(next);\n")
			b.WriteString("            m_values.push_back(ret);\n")
			b.WriteString("            continue;\n")
			b.WriteString("        }\n")
		case grammar.ActionTypeAccept:
			fmt.Fprintf(&b, "        if (state == %v && look.type == %q) {\n", key.State, key.Symbol)
			b.WriteString("            return true;\n")
			b.WriteString("        }\n")
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

var actionRefPattern = regexp.MustCompile(`\$(\$|[0-9]+)`)

// rewriteAction substitutes $$ with the result binding and $i with the
// positional binding vi. Digit runs are matched whole, so $10 can never be
// read as $1 followed by 0.
func rewriteAction(prod *spec.Production) (string, error) {
	var refErr *CodegenError
	body := actionRefPattern.ReplaceAllStringFunc(prod.Action, func(ref string) string {
		if ref == "$$" {
			return "ret"
		}
		i := 0
		for _, d := range ref[1:] {
			i = i*10 + int(d-'0')
		}
		if i < 1 || i > len(prod.RHS) {
			if refErr == nil {
				refErr = &CodegenError{
					ProdNum: prod.Num,
					Ref:     ref,
					RHSLen:  len(prod.RHS),
				}
			}
			return ref
		}
		return fmt.Sprintf("v%v", i)
	})
	if refErr != nil {
		return "", refErr
	}
	return body, nil
}
