package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// section errors
	synErrNoSeparator   = newSyntaxError("missing '%%' separator between the lexical and grammar sections")
	synErrDupSeparator  = newSyntaxError("the '%%' separator must appear exactly once")
	synErrNoTokenRule   = newSyntaxError("the lexical section must define at least one token rule")
	synErrNoProduction  = newSyntaxError("the grammar section must define at least one production")

	// lexical-section errors
	synErrTokenRuleForm = newSyntaxError("a token rule must have the form '<pattern> <name>'")

	// grammar-section errors
	synErrNoColon        = newSyntaxError("the colon must follow a production's LHS")
	synErrNoLHS          = newSyntaxError("a production's LHS is missing")
	synErrUnclosedAction = newSyntaxError("unclosed semantic action; a '{' has no matching '}'")
	synErrEmptyNotAlone  = newSyntaxError("'eps' must be the only symbol on a RHS")
)
