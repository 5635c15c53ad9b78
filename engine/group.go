package engine

import (
	"errors"
	"io"

	"github.com/npillmayer/texparse/scope"
	"github.com/npillmayer/texparse/token"
)

// BeginGroup opens a brace group.
func (p *Parser) BeginGroup() error {
	p.settings.StartGroup(scope.BraceGroup, "")
	return p.listener.Group(p, true)
}

// StartGroup opens a group which is not reported to the listener, like
// \begingroup or an environment.
func (p *Parser) StartGroup(kind scope.GroupKind, id string) {
	p.settings.StartGroup(kind, id)
}

// EndGroup closes the innermost group, which has to be of the given kind
// (and name, if id is not empty). Settings of the group are restored, then
// the end hooks of the group are run in reverse order of registration.
func (p *Parser) EndGroup(kind scope.GroupKind, id string) error {
	f, err := p.settings.EndGroup(kind, id)
	if err != nil {
		return p.groupError(err, kind, id)
	}
	if err = p.runEndHooks(f); err != nil {
		return err
	}
	if kind == scope.BraceGroup {
		return p.listener.Group(p, false)
	}
	return nil
}

// AfterGroup registers a function to run when the current group ends.
func (p *Parser) AfterGroup(fn func() error) {
	p.settings.Current().AddEndHook(fn)
}

func (p *Parser) runEndHooks(f *scope.Frame) error {
	hooks := f.EndHooks()
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) closeGroup(f *scope.Frame) error {
	if f.Kind == scope.MathGroup {
		return p.EndMath(p.settings.Mode() == scope.ModeDisplay)
	}
	return p.EndGroup(f.Kind, f.ID)
}

func (p *Parser) groupError(err error, kind scope.GroupKind, id string) error {
	if errors.Is(err, scope.ErrNoGroup) {
		switch kind {
		case scope.BraceGroup:
			return p.newError(ErrNoEG)
		case scope.SemiSimpleGroup:
			return p.newError(ErrMisplaced, token.Cs("endgroup"))
		case scope.EnvironmentGroup:
			return p.newError(ErrMisplaced, "\\end{"+id+"}")
		}
		return p.newError(ErrMisplaced, kind.String()+" group end")
	}
	var mismatch *scope.MismatchError
	if errors.As(err, &mismatch) && mismatch.Open == scope.EnvironmentGroup && kind == scope.EnvironmentGroup {
		return p.newError(ErrEnvMismatch, mismatch.OpenID, id)
	}
	return p.wrapError(err, ErrGroupMismatch, err)
}

// --- Math -----------------------------------------------------------------

func (p *Parser) mathShift(c Cursor) error {
	switch p.settings.Mode() {
	case scope.ModeInline:
		return p.EndMath(false)
	case scope.ModeDisplay:
		next, err := c.Pop()
		if err != nil && err != io.EOF {
			return err
		}
		if next == nil || !isCat(next, token.MathShift) {
			if next != nil {
				c.Push(next)
			}
			return p.newError(ErrDisplayMath)
		}
		return p.EndMath(true)
	}
	display := false
	if next, err := c.Peek(); err == nil && isCat(next, token.MathShift) {
		c.Pop()
		display = true
	}
	return p.BeginMath(display)
}

func mathID(display bool) string {
	if display {
		return "displaymath"
	}
	return "math"
}

// BeginMath starts a formula.
func (p *Parser) BeginMath(display bool) error {
	p.settings.StartGroup(scope.MathGroup, mathID(display))
	if display {
		p.settings.SetMode(scope.ModeDisplay)
	} else {
		p.settings.SetMode(scope.ModeInline)
	}
	return p.listener.MathGroup(p, display, true)
}

// EndMath ends a formula.
func (p *Parser) EndMath(display bool) error {
	if err := p.EndGroup(scope.MathGroup, mathID(display)); err != nil {
		return err
	}
	return p.listener.MathGroup(p, display, false)
}

// --- Alignments -----------------------------------------------------------

// BeginAlignment starts a tabular construct in the current group and opens
// the first cell.
func (p *Parser) BeginAlignment(cols []scope.Column) error {
	a := &scope.Alignment{Columns: cols}
	p.settings.SetAlignment(a)
	if err := p.listener.Alignment(p, AlignEvent{Kind: AlignBegin, Columns: cols}); err != nil {
		return err
	}
	p.settings.StartGroup(scope.CellGroup, "")
	return nil
}

// InAlignment is true inside a tabular construct.
func (p *Parser) InAlignment() bool {
	return p.settings.Alignment() != nil
}

// NextCell ends the current cell and starts the next one.
func (p *Parser) NextCell() error {
	a := p.settings.Alignment()
	if a == nil {
		return p.newError(ErrMisplaced, "alignment tab character &")
	}
	if err := p.EndGroup(scope.CellGroup, ""); err != nil {
		return err
	}
	a.Column++
	ev := AlignEvent{Kind: AlignCell, Columns: a.Columns, Row: a.Row, Column: a.Column}
	if err := p.listener.Alignment(p, ev); err != nil {
		return err
	}
	p.settings.StartGroup(scope.CellGroup, "")
	return nil
}

// NextRow ends the current row and starts the next one.
func (p *Parser) NextRow() error {
	a := p.settings.Alignment()
	if a == nil {
		return p.newError(ErrMisplaced, token.Cs("\\"))
	}
	if err := p.EndGroup(scope.CellGroup, ""); err != nil {
		return err
	}
	a.Row++
	a.Column = 0
	ev := AlignEvent{Kind: AlignRow, Columns: a.Columns, Row: a.Row}
	if err := p.listener.Alignment(p, ev); err != nil {
		return err
	}
	p.settings.StartGroup(scope.CellGroup, "")
	return nil
}

// EndAlignment closes the last cell and ends the tabular construct.
func (p *Parser) EndAlignment() error {
	a := p.settings.Alignment()
	if a == nil {
		return p.newError(ErrMisplaced, "end of alignment")
	}
	if err := p.EndGroup(scope.CellGroup, ""); err != nil {
		return err
	}
	ev := AlignEvent{Kind: AlignEnd, Columns: a.Columns, Row: a.Row, Column: a.Column}
	return p.listener.Alignment(p, ev)
}
