package latex2html

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/npillmayer/texparse/dimen"
	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/scope"
	"github.com/npillmayer/texparse/token"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// element is an inline HTML element.
type element struct {
	tag   atom.Atom
	attrs string
}

func newElement(tag atom.Atom, attrs ...string) element {
	var b strings.Builder
	for i := 0; i+1 < len(attrs); i += 2 {
		fmt.Fprintf(&b, ` %s="%s"`, attrs[i], html.EscapeString(attrs[i+1]))
	}
	return element{tag: tag, attrs: b.String()}
}

func (e element) start() string {
	return "<" + e.tag.String() + e.attrs + ">"
}

func (e element) end() string {
	return "</" + e.tag.String() + ">"
}

// table is the state of an open tabular.
type table struct {
	columns  []scope.Column
	column   int
	rowOpen  bool
	cellOpen bool
}

// Listener is an engine.Listener producing HTML.
type Listener struct {
	// NewID creates IDs for anchors without a label. It defaults to random
	// UUIDs.
	NewID func() string
	w       *engine.Writer
	err     error
	inPar   bool
	display bool
	inline  []element // open inline elements, innermost last
	written int       // number of inline elements present in the output
	tables  []*table
	header  bool
}

// New creates a listener writing HTML to w.
func New(w io.Writer) *Listener {
	return &Listener{
		NewID: uuid.NewString,
		w:     engine.NewWriter(w, html.EscapeString),
	}
}

// Header writes the start of a standalone HTML document. Finish will write
// the matching end.
func (l *Listener) Header(title string) error {
	l.header = true
	l.put("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>",
		html.EscapeString(title), "</title>\n</head>\n<body>\n")
	return l.err
}

// put writes literal HTML. The first error is kept and reported by every
// subsequent event.
func (l *Listener) put(s ...string) {
	for _, x := range s {
		if l.err != nil {
			return
		}
		l.err = l.w.WriteLiteral(x)
	}
}

func (l *Listener) table() *table {
	if len(l.tables) == 0 {
		return nil
	}
	return l.tables[len(l.tables)-1]
}

// inBlock is true where text has to be wrapped into paragraphs.
func (l *Listener) inBlock() bool {
	return len(l.tables) == 0 && !l.display
}

// container opens a paragraph or a table cell, whatever is needed to hold
// text at this point.
func (l *Listener) container() {
	if t := l.table(); t != nil {
		if !l.display {
			l.ensureCell(t)
		}
		return
	}
	if !l.display && !l.inPar {
		l.put("<p>")
		l.inPar = true
	}
}

// startText opens a container and writes pending inline elements.
func (l *Listener) startText() {
	l.container()
	for ; l.written < len(l.inline); l.written++ {
		l.put(l.inline[l.written].start())
	}
}

// closeInline closes the inline elements present in the output. They stay
// open logically and are written again in front of the next text.
func (l *Listener) closeInline() {
	for ; l.written > 0; l.written-- {
		l.put(l.inline[l.written-1].end())
	}
}

func (l *Listener) closeParagraph() {
	l.closeInline()
	if l.inPar {
		l.put("</p>\n")
		l.inPar = false
	}
}

func (l *Listener) pushInline(e element) {
	l.inline = append(l.inline, e)
}

func (l *Listener) popInline() {
	n := len(l.inline)
	if n == 0 {
		tracer().Errorf("unbalanced inline element")
		return
	}
	if l.written == n {
		l.put(l.inline[n-1].end())
		l.written--
	}
	l.inline = l.inline[:n-1]
}

// --- Tables ---------------------------------------------------------------

func (l *Listener) ensureCell(t *table) {
	if !t.rowOpen {
		l.put("<tr>")
		t.rowOpen = true
		t.column = 0
	}
	if !t.cellOpen {
		l.openCell(t)
	}
}

func (l *Listener) openCell(t *table) {
	style := ""
	if t.column < len(t.columns) {
		switch col := t.columns[t.column]; col.Align {
		case 'c':
			style = "text-align: center"
		case 'r':
			style = "text-align: right"
		case 'p':
			style = "width: " + cssLength(col.Width, nil)
		default:
			style = "text-align: left"
		}
	}
	td := newElement(atom.Td)
	if style != "" {
		td = newElement(atom.Td, "style", style)
	}
	l.put(td.start())
	t.cellOpen = true
}

func (l *Listener) closeCell(t *table) {
	l.closeInline()
	l.put("</td>")
	t.cellOpen = false
}

// --- Listener interface ---------------------------------------------------

// Character writes a character. Spaces at the start of a paragraph are
// dropped.
func (l *Listener) Character(p *engine.Parser, c token.Char) error {
	if c.Cat == token.Space && l.inBlock() && !l.inPar {
		return l.err
	}
	l.startText()
	if l.err == nil {
		l.err = l.w.Write(string(c.Code))
	}
	return l.err
}

// Par closes the current paragraph. It is ignored inside tables and
// display math.
func (l *Listener) Par(p *engine.Parser) error {
	if l.inBlock() {
		l.closeParagraph()
	}
	return l.err
}

// Group does nothing, as braces have no counterpart in HTML.
func (l *Listener) Group(p *engine.Parser, begin bool) error {
	return l.err
}

// MathGroup wraps inline math in a span and display math in a div.
func (l *Listener) MathGroup(p *engine.Parser, display, begin bool) error {
	switch {
	case !display && begin:
		l.pushInline(newElement(atom.Span, "class", "math"))
		l.startText()
	case !display:
		l.popInline()
	case begin:
		if l.inBlock() {
			l.closeParagraph()
		} else {
			l.container()
		}
		l.put(`<div class="displaymath">`)
		l.display = true
	default:
		l.closeInline()
		l.put("</div>\n")
		l.display = false
	}
	return l.err
}

// Declaration opens or closes an element for a font declaration.
func (l *Listener) Declaration(p *engine.Parser, attr scope.FontAttr, value int, begin bool) error {
	if begin {
		l.pushInline(fontElement(attr, value))
	} else {
		l.popInline()
	}
	return l.err
}

// Spacer writes an empty element of the given width or height.
func (l *Listener) Spacer(p *engine.Parser, length dimen.Length, vertical bool) error {
	css := cssLength(length, p.Settings().Metrics())
	if !vertical {
		l.startText()
		l.put(newElement(atom.Span, "style", "display: inline-block; width: "+css).start(), "</span>")
		return l.err
	}
	if l.inBlock() {
		l.closeParagraph()
	} else {
		l.container()
	}
	l.put(newElement(atom.Div, "style", "height: "+css).start(), "</div>\n")
	return l.err
}

// LineBreak writes a br element.
func (l *Listener) LineBreak(p *engine.Parser) error {
	l.startText()
	l.put("<br>\n")
	return l.err
}

// Anchor writes an empty a element with an ID.
func (l *Listener) Anchor(p *engine.Parser, label string) error {
	id := label
	if id == "" {
		id = "anchor-" + l.NewID()
	}
	if !l.inBlock() {
		l.container()
	}
	l.put(newElement(atom.A, "id", id).start(), "</a>")
	return l.err
}

// Link opens or closes an a element.
func (l *Listener) Link(p *engine.Parser, url string, begin bool) error {
	if begin {
		l.pushInline(newElement(atom.A, "href", url))
	} else {
		l.popInline()
	}
	return l.err
}

// Alignment writes tables.
func (l *Listener) Alignment(p *engine.Parser, ev engine.AlignEvent) error {
	switch ev.Kind {
	case engine.AlignBegin:
		if l.inBlock() {
			l.closeParagraph()
		} else {
			l.container()
		}
		l.put("<table>\n")
		l.tables = append(l.tables, &table{columns: ev.Columns})
		return l.err
	}
	t := l.table()
	if t == nil {
		return p.Errorf(engine.ErrMisplaced, "alignment event")
	}
	switch ev.Kind {
	case engine.AlignCell:
		l.ensureCell(t)
		l.closeCell(t)
		t.column++
		l.openCell(t)
	case engine.AlignRow:
		l.ensureCell(t)
		l.closeCell(t)
		l.put("</tr>\n")
		t.rowOpen = false
	case engine.AlignEnd:
		if t.rowOpen {
			l.closeCell(t)
			l.put("</tr>\n")
		}
		l.put("</table>\n")
		l.tables = l.tables[:len(l.tables)-1]
	}
	return l.err
}

// Finish closes the last paragraph and flushes the output.
func (l *Listener) Finish(p *engine.Parser) error {
	l.closeParagraph()
	if l.header {
		l.put("</body>\n</html>\n")
	}
	tracer().Debugf("HTML output finished")
	if l.err != nil {
		return l.err
	}
	return l.w.Flush()
}

// Flush writes buffered output. Interactive sessions flush after every
// chunk of input.
func (l *Listener) Flush() error {
	if l.err != nil {
		return l.err
	}
	return l.w.Flush()
}

// Writeable returns the output channel. Write escapes HTML special
// characters.
func (l *Listener) Writeable() engine.Writeable {
	return l.w
}

var _ engine.Listener = &Listener{}
