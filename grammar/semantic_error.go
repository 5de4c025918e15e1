package grammar

import "fmt"

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction  = newSemanticError("a grammar needs at least one production")
	semErrUndefinedSym  = newSemanticError("a RHS symbol is neither a non-terminal nor a declared token")
	semErrSkipInGrammar = newSemanticError("SKIP tokens are discarded by the lexer and cannot appear on a RHS")
	semErrReservedLHS   = newSemanticError("'eps' and '#' are reserved and cannot be an LHS")
)

type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("the grammar contains %v conflicts", len(e.Conflicts))
}
