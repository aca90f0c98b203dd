package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPattern is matched by every *ParseError through errors.Is.
var ErrInvalidPattern = errors.New("invalid pattern")

// Reason classifies a parse failure.
type Reason uint8

const (
	// InvalidDigit marks a character that is neither a hex digit nor '?'
	// in a digit position.
	InvalidDigit Reason = iota

	// UnclosedDelimiter marks an opening delimiter with no matching close.
	// The IDA grammar has no delimited constructs, so Parse never reports it.
	UnclosedDelimiter

	// UnexpectedToken marks a token that does not fit the grammar: wrong
	// length, a stray symbol, or no token at all.
	UnexpectedToken
)

// String returns a human-readable reason name
func (r Reason) String() string {
	switch r {
	case InvalidDigit:
		return "InvalidDigit"
	case UnclosedDelimiter:
		return "UnclosedDelimiter"
	case UnexpectedToken:
		return "UnexpectedToken"
	default:
		return fmt.Sprintf("UnknownReason(%d)", r)
	}
}

func (r Reason) describe() string {
	switch r {
	case InvalidDigit:
		return "invalid digit"
	case UnclosedDelimiter:
		return "unclosed delimiter"
	case UnexpectedToken:
		return "unexpected token"
	default:
		return "unknown error"
	}
}

// Span is a half-open byte range [Start, End) into the pattern text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// String formats the span as [start, end).
func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// ParseError describes why a pattern was rejected and where.
type ParseError struct {
	Reason  Reason
	Span    Span
	Pattern string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "aob: invalid pattern %q: %s", e.Pattern, e.Reason.describe())
	switch {
	case e.Span.Len() > 0 && e.Span.End <= len(e.Pattern):
		fmt.Fprintf(&b, " %q", e.Pattern[e.Span.Start:e.Span.End])
	case e.Span.Start >= len(e.Pattern):
		b.WriteString(" (end of input)")
	}
	b.WriteString(" at ")
	b.WriteString(e.Span.String())
	return b.String()
}

// Is reports whether target is ErrInvalidPattern or a *ParseError with the
// same Reason.
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidPattern {
		return true
	}
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return e.Reason == t.Reason
}

// Highlight renders the pattern with a caret line under the offending span:
//
//	48 8B G5
//	      ^
func (e *ParseError) Highlight() string {
	width := e.Span.Len()
	if width < 1 {
		width = 1
	}
	return e.Pattern + "\n" + strings.Repeat(" ", e.Span.Start) + strings.Repeat("^", width)
}

func newError(reason Reason, text string, start, end int) *ParseError {
	return &ParseError{
		Reason:  reason,
		Span:    Span{Start: start, End: end},
		Pattern: text,
	}
}
