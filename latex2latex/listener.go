package latex2latex

import (
	"io"
	"strings"

	"github.com/npillmayer/texparse/dimen"
	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/scope"
	"github.com/npillmayer/texparse/token"
)

var textEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`#`, `\#`,
	`$`, `\$`,
	`%`, `\%`,
	`&`, `\&`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

var urlEscaper = strings.NewReplacer(`%`, `\%`, `#`, `\#`, `\`, `\\`)

// Escape escapes characters special to TeX.
func Escape(s string) string {
	return textEscaper.Replace(s)
}

// declarations holds the names of font declarations, indexed by value.
var declarations = map[scope.FontAttr][]string{
	scope.FontFamily: {"rmfamily", "sffamily", "ttfamily", "rmfamily"},
	scope.FontShape:  {"upshape", "itshape", "slshape", "em", "scshape"},
	scope.FontWeight: {"mdseries", "bfseries"},
	scope.FontSize: {"normalsize", "large", "Large", "LARGE", "huge", "Huge", "HUGE",
		"small", "footnotesize", "scriptsize", "tiny"},
}

func declaration(attr scope.FontAttr, value int) string {
	if names := declarations[attr]; value >= 0 && value < len(names) {
		return `\` + names[value] + " "
	}
	tracer().Errorf("no declaration for %s=%d", attr, value)
	return ""
}

// Listener is an engine.Listener producing LaTeX.
type Listener struct {
	w       *engine.Writer
	err     error
	nl      bool     // output is at the start of a line
	restore []string // declarations restoring the enclosing font
	header  bool
}

// New creates a listener writing LaTeX to w.
func New(w io.Writer) *Listener {
	return &Listener{w: engine.NewWriter(w, Escape), nl: true}
}

// Header writes a document preamble. Finish will write the matching
// \end{document}.
func (l *Listener) Header(title string) error {
	l.header = true
	l.put(`\documentclass{article}`, "\n")
	if title != "" {
		l.put(`\title{`, Escape(title), "}\n")
	}
	l.put(`\begin{document}`, "\n")
	return l.err
}

func (l *Listener) put(s ...string) {
	for _, x := range s {
		if l.err != nil || x == "" {
			continue
		}
		l.err = l.w.WriteLiteral(x)
		l.nl = strings.HasSuffix(x, "\n")
	}
}

// flush writes pending font restorations. Restorations are written lazily,
// as they are superfluous if a closing brace follows.
func (l *Listener) flush() {
	for _, d := range l.restore {
		l.put(d)
	}
	l.restore = l.restore[:0]
}

// Character writes a character, escaped unless in math mode.
func (l *Listener) Character(p *engine.Parser, c token.Char) error {
	l.flush()
	if p.Settings().Mode().IsMath() {
		l.put(string(c.Code))
		return l.err
	}
	if l.err == nil {
		l.err = l.w.Write(string(c.Code))
		l.nl = false
	}
	return l.err
}

// Par writes an empty line.
func (l *Listener) Par(p *engine.Parser) error {
	l.flush()
	if !l.nl {
		l.put("\n")
	}
	l.put("\n")
	return l.err
}

// Group writes braces.
func (l *Listener) Group(p *engine.Parser, begin bool) error {
	if begin {
		l.flush()
		l.put("{")
	} else {
		l.restore = l.restore[:0]
		l.put("}")
	}
	return l.err
}

// MathGroup writes $…$ and \[…\].
func (l *Listener) MathGroup(p *engine.Parser, display, begin bool) error {
	l.flush()
	switch {
	case !display:
		l.put("$")
	case begin:
		l.put(`\[`)
	default:
		l.put(`\]`)
	}
	return l.err
}

// Declaration writes font declarations. At the end of a declaration's
// scope the enclosing font is declared again, unless a brace group ends.
func (l *Listener) Declaration(p *engine.Parser, attr scope.FontAttr, value int, begin bool) error {
	if begin {
		l.flush()
		l.put(declaration(attr, value))
		return l.err
	}
	l.restore = append(l.restore, declaration(attr, p.Settings().FontAttr(attr)))
	return l.err
}

// Spacer writes \hspace or \vspace.
func (l *Listener) Spacer(p *engine.Parser, length dimen.Length, vertical bool) error {
	l.flush()
	if vertical {
		l.put(`\vspace{`, length.String(), "}")
	} else {
		l.put(`\hspace{`, length.String(), "}")
	}
	return l.err
}

// LineBreak writes \\ and a newline.
func (l *Listener) LineBreak(p *engine.Parser) error {
	l.flush()
	l.put(`\\`, "\n")
	return l.err
}

// Anchor writes \label.
func (l *Listener) Anchor(p *engine.Parser, label string) error {
	l.flush()
	l.put(`\label{`, label, "}")
	return l.err
}

// Link writes \href.
func (l *Listener) Link(p *engine.Parser, url string, begin bool) error {
	l.flush()
	if begin {
		l.put(`\href{`, urlEscaper.Replace(url), "}{")
	} else {
		l.put("}")
	}
	return l.err
}

// Alignment writes tabular environments.
func (l *Listener) Alignment(p *engine.Parser, ev engine.AlignEvent) error {
	l.flush()
	switch ev.Kind {
	case engine.AlignBegin:
		l.put(`\begin{tabular}{`, columnSpec(ev.Columns), "}\n")
	case engine.AlignCell:
		l.put(" & ")
	case engine.AlignRow:
		l.put(` \\`, "\n")
	case engine.AlignEnd:
		if !l.nl {
			l.put("\n")
		}
		l.put(`\end{tabular}`)
	}
	return l.err
}

func columnSpec(cols []scope.Column) string {
	var b strings.Builder
	for _, col := range cols {
		if col.Align == 'p' {
			b.WriteString("p{" + col.Width.String() + "}")
		} else {
			b.WriteRune(col.Align)
		}
	}
	return b.String()
}

// Finish ends the output. Font restorations at the end of the document
// are dropped.
func (l *Listener) Finish(p *engine.Parser) error {
	l.restore = l.restore[:0]
	if l.header {
		if !l.nl {
			l.put("\n")
		}
		l.put(`\end{document}`, "\n")
	}
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

// Writeable returns the output channel. Write escapes characters special
// to TeX.
func (l *Listener) Writeable() engine.Writeable {
	return l.w
}

var _ engine.Listener = &Listener{}
