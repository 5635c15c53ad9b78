/*
Package enginetest provides helpers for testing packages built on the
expansion engine.

Recorder is a listener which records every event as a short string, with
consecutive characters merged into one "text" event:

    group{  decl:weight=1  text:bold  }group  text:normal

*/
package enginetest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/npillmayer/texparse/dimen"
	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/scope"
	"github.com/npillmayer/texparse/token"
)

// Recorder is an engine.Listener recording events.
type Recorder struct {
	events   []string
	text     strings.Builder
	out      bytes.Buffer
	writer   *engine.Writer
	Finished bool
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	r := &Recorder{}
	r.writer = engine.NewWriter(&r.out, nil)
	return r
}

func (r *Recorder) flush() {
	if r.text.Len() > 0 {
		r.events = append(r.events, "text:"+r.text.String())
		r.text.Reset()
	}
}

func (r *Recorder) add(format string, args ...interface{}) {
	r.flush()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

// Events returns the events recorded so far.
func (r *Recorder) Events() []string {
	r.flush()
	return r.events
}

// String joins the events with blanks.
func (r *Recorder) String() string {
	return strings.Join(r.Events(), "  ")
}

// Text returns the characters rendered so far, ignoring all other events.
func (r *Recorder) Text() string {
	var b strings.Builder
	for _, e := range r.Events() {
		if strings.HasPrefix(e, "text:") {
			b.WriteString(e[5:])
		}
	}
	return b.String()
}

// Output returns what has been written to the Writeable.
func (r *Recorder) Output() string {
	r.writer.Flush()
	return r.out.String()
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.events = nil
	r.text.Reset()
}

// Character records a character.
func (r *Recorder) Character(p *engine.Parser, c token.Char) error {
	r.text.WriteRune(c.Code)
	return nil
}

// Par records "par".
func (r *Recorder) Par(p *engine.Parser) error {
	r.add("par")
	return nil
}

// Group records "group{" and "}group".
func (r *Recorder) Group(p *engine.Parser, begin bool) error {
	if begin {
		r.add("group{")
	} else {
		r.add("}group")
	}
	return nil
}

// MathGroup records "math{" and "}math", or "display{" and "}display".
func (r *Recorder) MathGroup(p *engine.Parser, display, begin bool) error {
	name := "math"
	if display {
		name = "display"
	}
	if begin {
		r.add("%s{", name)
	} else {
		r.add("}%s", name)
	}
	return nil
}

// Declaration records "decl:weight=1" and "enddecl:weight=1".
func (r *Recorder) Declaration(p *engine.Parser, attr scope.FontAttr, value int, begin bool) error {
	if begin {
		r.add("decl:%s=%d", attr, value)
	} else {
		r.add("enddecl:%s=%d", attr, value)
	}
	return nil
}

// Spacer records "hspace:<length>" or "vspace:<length>".
func (r *Recorder) Spacer(p *engine.Parser, length dimen.Length, vertical bool) error {
	if vertical {
		r.add("vspace:%s", length)
	} else {
		r.add("hspace:%s", length)
	}
	return nil
}

// LineBreak records "newline".
func (r *Recorder) LineBreak(p *engine.Parser) error {
	r.add("newline")
	return nil
}

// Anchor records "anchor:<label>".
func (r *Recorder) Anchor(p *engine.Parser, label string) error {
	r.add("anchor:%s", label)
	return nil
}

// Link records "link{<url>" and "}link".
func (r *Recorder) Link(p *engine.Parser, url string, begin bool) error {
	if begin {
		r.add("link{%s", url)
	} else {
		r.add("}link")
	}
	return nil
}

// Alignment records "align{", "cell", "row" and "}align".
func (r *Recorder) Alignment(p *engine.Parser, ev engine.AlignEvent) error {
	switch ev.Kind {
	case engine.AlignBegin:
		r.add("align{%d", len(ev.Columns))
	case engine.AlignCell:
		r.add("cell")
	case engine.AlignRow:
		r.add("row")
	case engine.AlignEnd:
		r.add("}align")
	}
	return nil
}

// Finish records "finish".
func (r *Recorder) Finish(p *engine.Parser) error {
	r.add("finish")
	r.Finished = true
	return nil
}

// Writeable returns a writer into an in-memory buffer.
func (r *Recorder) Writeable() engine.Writeable {
	return r.writer
}

var _ engine.Listener = &Recorder{}
