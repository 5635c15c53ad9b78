package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies syntax errors.
type ErrorKind int

// Kinds of syntax errors.
const (
	ErrUndefined ErrorKind = iota + 1
	ErrNoEG
	ErrMissingEG
	ErrGroupMismatch
	ErrEnvMismatch
	ErrRunaway
	ErrParagraphEnded
	ErrDefMismatch
	ErrParamNumber
	ErrMissingFi
	ErrExtraFi
	ErrExtraElse
	ErrExtraOr
	ErrNotNumber
	ErrNumberTooBig
	ErrMissingUnit
	ErrNotDimension
	ErrExpected
	ErrNotAssignable
	ErrPrefix
	ErrNotCs
	ErrMissingEndCsname
	ErrMisplaced
	ErrOutOfRange
	ErrArith
	ErrDivideByZero
	ErrInput
	ErrInputDepth
	ErrExpansionDepth
	ErrAlreadyDefined
	ErrUser
	ErrLua
	ErrDisplayMath
	ErrEOF
)

var errorFormats = map[ErrorKind]string{
	ErrUndefined:        "undefined control sequence %s",
	ErrNoEG:             "too many }'s",
	ErrMissingEG:        "missing } inserted, %d group(s) open at end of input",
	ErrGroupMismatch:    "%v",
	ErrEnvMismatch:      "\\begin{%s} ended by \\end{%s}",
	ErrRunaway:          "runaway argument of %s",
	ErrParagraphEnded:   "paragraph ended before %s was complete",
	ErrDefMismatch:      "use of %s doesn't match its definition",
	ErrParamNumber:      "illegal parameter number in definition of %s",
	ErrMissingFi:        "incomplete %s, end of input while skipping conditional text",
	ErrExtraFi:          "extra %s",
	ErrExtraElse:        "extra %s",
	ErrExtraOr:          "extra %s",
	ErrNotNumber:        "missing number, found %v",
	ErrNumberTooBig:     "number too big",
	ErrMissingUnit:      "illegal unit of measure, found %v",
	ErrNotDimension:     "missing dimension, found %v",
	ErrExpected:         "missing %s, found %v",
	ErrNotAssignable:    "you can't use %v after %s",
	ErrPrefix:           "you can't use a prefix with %v",
	ErrNotCs:            "missing control sequence, found %v",
	ErrMissingEndCsname: "missing \\endcsname, found %v",
	ErrMisplaced:        "misplaced %v",
	ErrOutOfRange:       "invalid %s %d",
	ErrArith:            "arithmetic: %v",
	ErrDivideByZero:     "arithmetic: division by zero",
	ErrInput:            "cannot read %s: %v",
	ErrInputDepth:       "input nesting too deep (limit %d)",
	ErrExpansionDepth:   "expansion limit of %d exceeded, runaway recursion?",
	ErrAlreadyDefined:   "command %s already defined",
	ErrUser:             "%s",
	ErrLua:              "lua: %v",
	ErrDisplayMath:      "display math should end with $$",
	ErrEOF:              "end of input while scanning %s",
}

// SyntaxError is the structured error raised for malformed input.
type SyntaxError struct {
	Kind   ErrorKind
	Params []interface{}
	Location
	Err error // underlying cause, if any
}

func (e *SyntaxError) Error() string {
	msg := e.Message()
	if e.File != "" || e.Line > 0 {
		return e.Location.String() + ": " + msg
	}
	return msg
}

// Message is the error text without location.
func (e *SyntaxError) Message() string {
	f, ok := errorFormats[e.Kind]
	if !ok {
		return fmt.Sprintf("syntax error %d", e.Kind)
	}
	return fmt.Sprintf(f, e.Params...)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// newError creates a syntax error located at the current input position.
func (p *Parser) newError(kind ErrorKind, params ...interface{}) *SyntaxError {
	err := &SyntaxError{Kind: kind, Params: params, Location: p.Location()}
	tracer().Debugf("syntax error: %v", err)
	return err
}

// wrapError is newError with an underlying cause.
func (p *Parser) wrapError(cause error, kind ErrorKind, params ...interface{}) *SyntaxError {
	err := p.newError(kind, params...)
	err.Err = cause
	return err
}

// Errorf creates a syntax error located at the current input position, for
// use by command implementations outside this package.
func (p *Parser) Errorf(kind ErrorKind, params ...interface{}) error {
	return p.newError(kind, params...)
}

// IsStructural is true for syntax errors, as opposed to I/O errors or
// cancellation.
func IsStructural(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// ErrorKindOf extracts the kind of a syntax error, or 0.
func ErrorKindOf(err error) ErrorKind {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// ---------------------------------------------------------------------------

// ErrCancelled matches errors returned when the context of a parse has been
// cancelled or has timed out.
var ErrCancelled = errors.New("parsing cancelled")

// CancelError wraps the context's error. It matches both ErrCancelled and
// the context error.
type CancelError struct {
	Cause error
}

func (e *CancelError) Error() string {
	return ErrCancelled.Error() + ": " + e.Cause.Error()
}

func (e *CancelError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrCancelled) true.
func (e *CancelError) Is(target error) bool {
	return target == ErrCancelled
}

// ---------------------------------------------------------------------------

// Location is a position in an input file.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("l.%d", l.Line)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}
