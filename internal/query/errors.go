package query

import (
	"errors"
	"fmt"
)

// ParseErrorKind categorizes parse failures.
type ParseErrorKind string

const (
	// ErrUnknownField indicates a token that is neither a recognized
	// field cue, a connective, nor a filler word.
	ErrUnknownField ParseErrorKind = "unknown_field"

	// ErrMissingValue indicates a field cue with no value after it.
	ErrMissingValue ParseErrorKind = "missing_value"

	// ErrUnbalancedGroup indicates mismatched parentheses.
	ErrUnbalancedGroup ParseErrorKind = "unbalanced_group"

	// ErrBadDate indicates an unparseable date token or range phrase.
	ErrBadDate ParseErrorKind = "bad_date"
)

// ParseError reports a malformed query with the offending byte position.
// Parse errors are always surfaced verbatim to the caller; a malformed
// query is never guessed at.
type ParseError struct {
	Kind  ParseErrorKind
	Pos   int
	Token string
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s: %q at position %d", e.Kind, e.Token, e.Pos)
	}
	return fmt.Sprintf("%s at position %d", e.Kind, e.Pos)
}

// AsParseError unwraps err to a *ParseError if it is one.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
