package spec

import (
	"strings"

	verr "github.com/nihei9/kagari/error"
)

// Parse parses a specification source of the shape
//
//	<lexical section>
//	%%
//	<grammar section>
//
// The lexical section contains one token rule per line. The grammar section
// contains productions of the shape `LHS : sym sym ... { action }` whose
// semantic actions are brace-matched and may span lines.
func Parse(src []byte) (*RuleSet, error) {
	lexSec, grmSec, grmRow, err := splitSections(src)
	if err != nil {
		return nil, err
	}
	rules, err := parseLexicalSection(lexSec)
	if err != nil {
		return nil, err
	}
	prods, err := parseGrammarSection(grmSec, grmRow)
	if err != nil {
		return nil, err
	}
	return &RuleSet{
		TokenRules:  rules,
		Productions: prods,
	}, nil
}

func splitSections(src []byte) (string, string, int, error) {
	lines := strings.Split(string(src), "\n")
	sepRow := 0
	for i, line := range lines {
		if strings.TrimRight(line, " \t\r") != "%%" {
			continue
		}
		if sepRow != 0 {
			return "", "", 0, &verr.SpecError{
				Cause: synErrDupSeparator,
				Row:   i + 1,
			}
		}
		sepRow = i + 1
	}
	if sepRow == 0 {
		return "", "", 0, &verr.SpecError{
			Cause: synErrNoSeparator,
		}
	}
	lexSec := strings.Join(lines[:sepRow-1], "\n")
	grmSec := strings.Join(lines[sepRow:], "\n")
	return lexSec, grmSec, sepRow + 1, nil
}

func parseLexicalSection(sec string) ([]*TokenRule, error) {
	var rules []*TokenRule
	for i, line := range strings.Split(sec, "\n") {
		row := i + 1
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		// The name is the last whitespace-separated field; everything before
		// it is the pattern, which may itself contain spaces.
		sep := strings.LastIndexAny(line, " \t")
		if sep < 0 {
			return nil, &verr.SpecError{
				Cause: synErrTokenRuleForm,
				Row:   row,
			}
		}
		rules = append(rules, &TokenRule{
			Name:    line[sep+1:],
			Pattern: strings.TrimRight(line[:sep], " \t"),
			Row:     row,
		})
	}
	if len(rules) == 0 {
		return nil, &verr.SpecError{
			Cause: synErrNoTokenRule,
		}
	}
	return rules, nil
}

func parseGrammarSection(sec string, startRow int) ([]*Production, error) {
	s := &grammarScanner{
		src: sec,
		row: startRow,
	}
	var prods []*Production
	for {
		s.skipSpacesAndComments()
		if s.eof() {
			break
		}

		lhsRow := s.row
		lhs := s.readWord()
		if lhs == "" {
			return nil, &verr.SpecError{
				Cause: synErrNoLHS,
				Row:   lhsRow,
			}
		}
		s.skipSpacesAndComments()
		if s.eof() || s.peek() != ':' {
			return nil, &verr.SpecError{
				Cause: synErrNoColon,
				Row:   lhsRow,
			}
		}
		s.advance()

		var rhs []string
		for {
			s.skipSpacesAndComments()
			if s.eof() || s.peek() == '{' {
				break
			}

			mark := s.mark()
			sym := s.readWord()
			if sym == "" {
				return nil, &verr.SpecError{
					Cause: synErrNoColon,
					Row:   s.row,
				}
			}
			afterSym := s.mark()
			// A symbol followed by a colon is the LHS of the next production,
			// not part of this RHS.
			s.skipSpacesAndComments()
			if !s.eof() && s.peek() == ':' {
				s.reset(mark)
				break
			}
			s.reset(afterSym)
			rhs = append(rhs, sym)
		}

		var action string
		if !s.eof() && s.peek() == '{' {
			var err error
			action, err = s.readAction()
			if err != nil {
				return nil, err
			}
		}

		if len(rhs) == 1 && rhs[0] == SymbolNameEmpty {
			rhs = nil
		} else {
			for _, sym := range rhs {
				if sym == SymbolNameEmpty {
					return nil, &verr.SpecError{
						Cause: synErrEmptyNotAlone,
						Row:   lhsRow,
					}
				}
			}
		}

		prods = append(prods, &Production{
			Num:    len(prods) + 1,
			LHS:    lhs,
			RHS:    rhs,
			Action: action,
			Row:    lhsRow,
		})
	}
	if len(prods) == 0 {
		return nil, &verr.SpecError{
			Cause: synErrNoProduction,
		}
	}
	return prods, nil
}

type scannerMark struct {
	pos int
	row int
}

type grammarScanner struct {
	src string
	pos int
	row int
}

func (s *grammarScanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *grammarScanner) peek() byte {
	return s.src[s.pos]
}

func (s *grammarScanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.row++
	}
	return c
}

func (s *grammarScanner) mark() scannerMark {
	return scannerMark{pos: s.pos, row: s.row}
}

func (s *grammarScanner) reset(m scannerMark) {
	s.pos = m.pos
	s.row = m.row
}

func (s *grammarScanner) skipSpacesAndComments() {
	for !s.eof() {
		c := s.peek()
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			s.advance()
			continue
		}
		if c == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/' {
			for !s.eof() && s.peek() != '\n' {
				s.advance()
			}
			continue
		}
		break
	}
}

func (s *grammarScanner) readWord() string {
	start := s.pos
	for !s.eof() {
		c := s.peek()
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == ':' || c == '{' || c == '}' {
			break
		}
		s.advance()
	}
	return s.src[start:s.pos]
}

// readAction consumes a brace-matched action block and returns its body
// without the outer braces. The body may contain nested braces.
func (s *grammarScanner) readAction() (string, error) {
	openRow := s.row
	s.advance() // '{'
	start := s.pos
	depth := 1
	for !s.eof() {
		c := s.advance()
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s.src[start : s.pos-1]), nil
			}
		}
	}
	return "", &verr.SpecError{
		Cause: synErrUnclosedAction,
		Row:   openRow,
	}
}
