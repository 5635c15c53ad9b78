package engine

import (
	"bufio"
	"io"

	"github.com/npillmayer/texparse/dimen"
	"github.com/npillmayer/texparse/scope"
	"github.com/npillmayer/texparse/token"
)

// Writeable is the output channel of a listener.
//
// Write escapes text for the target format, WriteLiteral does not.
type Writeable interface {
	Write(s string) error
	WriteLiteral(s string) error
	Writeln(s string) error
}

// AlignKind tells which event of an alignment is reported.
type AlignKind uint8

// Alignment events.
const (
	AlignBegin AlignKind = iota
	AlignCell            // a new cell starts (after &)
	AlignRow             // a new row starts (after \\)
	AlignEnd
)

// AlignEvent is reported to a listener for tabular constructs.
type AlignEvent struct {
	Kind    AlignKind
	Columns []scope.Column
	Row     int
	Column  int
}

// Listener is the back end receiving everything the engine does not
// consume itself. Errors returned by a listener abort the parse.
type Listener interface {
	// Character renders a character, including blank spaces.
	Character(p *Parser, c token.Char) error
	// Par ends a paragraph.
	Par(p *Parser) error
	// Group is called at the start and end of a brace group.
	Group(p *Parser, begin bool) error
	// MathGroup is called at the start and end of a math formula.
	MathGroup(p *Parser, display, begin bool) error
	// Declaration is called when a font declaration takes effect and when it
	// goes out of scope.
	Declaration(p *Parser, attr scope.FontAttr, value int, begin bool) error
	// Spacer renders explicit space.
	Spacer(p *Parser, length dimen.Length, vertical bool) error
	// LineBreak renders a forced line break.
	LineBreak(p *Parser) error
	// Anchor renders a cross-reference target.
	Anchor(p *Parser, label string) error
	// Link is called at the start and end of a hyperlink.
	Link(p *Parser, url string, begin bool) error
	// Alignment is called for tabular constructs.
	Alignment(p *Parser, ev AlignEvent) error
	// Finish is called once, when the document ends.
	Finish(p *Parser) error
	// Writeable gives access to the output channel.
	Writeable() Writeable
}

// ---------------------------------------------------------------------------

// Writer is a buffered Writeable on top of an io.Writer.
type Writer struct {
	w      *bufio.Writer
	escape func(string) string
}

// NewWriter creates a Writer. If escape is nil, Write does not escape.
func NewWriter(w io.Writer, escape func(string) string) *Writer {
	return &Writer{w: bufio.NewWriter(w), escape: escape}
}

// Write writes s, escaped for the output format.
func (w *Writer) Write(s string) error {
	if w.escape != nil {
		s = w.escape(s)
	}
	_, err := w.w.WriteString(s)
	return err
}

// WriteLiteral writes s without escaping.
func (w *Writer) WriteLiteral(s string) error {
	_, err := w.w.WriteString(s)
	return err
}

// Writeln writes s and a newline, without escaping.
func (w *Writer) Writeln(s string) error {
	if _, err := w.w.WriteString(s); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush writes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

var _ Writeable = &Writer{}
