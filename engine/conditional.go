package engine

import (
	"io"

	"github.com/npillmayer/texparse/token"
)

type condState uint8

const (
	condTrue condState = iota // in the true branch of an \if
	condElse                  // in the \else branch
	condCase                  // in the selected case of \ifcase
)

// condition is an open \if…\fi construct.
type condition struct {
	cmd   *Command
	state condState
}

// Conditions returns the number of open conditionals.
func (p *Parser) Conditions() int {
	return len(p.conds)
}

func (p *Parser) pushCond(cmd *Command, st condState) {
	p.conds = append(p.conds, &condition{cmd: cmd, state: st})
}

func (p *Parser) topCond() *condition {
	if n := len(p.conds); n > 0 {
		return p.conds[n-1]
	}
	return nil
}

func (p *Parser) popCond() {
	p.conds = p.conds[:len(p.conds)-1]
}

// NewIf creates a conditional. The test reads its operands from the input.
func NewIf(name string, test TestFunc) *Command {
	cmd := &Command{name: name, kind: KindPrimitive, caps: CapExpandable, cond: CondIf, test: test}
	cmd.expand = func(p *Parser, c Cursor) (token.List, error) {
		ok, err := test(p, c)
		if err != nil {
			return nil, err
		}
		return nil, p.beginConditional(cmd, ok, c)
	}
	return cmd
}

// Test evaluates the condition of an \if… command, as \unless does.
func (p *Parser) Test(cmd *Command, c Cursor) (bool, error) {
	cmd = cmd.Unwrap()
	if cmd.test == nil {
		return false, p.newError(ErrExpected, "conditional", cmd)
	}
	return cmd.test(p, c)
}

// BeginConditional continues after a condition has been evaluated to ok:
// either with the true branch, or with the \else branch.
func (p *Parser) BeginConditional(cmd *Command, ok bool, c Cursor) error {
	return p.beginConditional(cmd, ok, c)
}

func (p *Parser) beginConditional(cmd *Command, ok bool, c Cursor) error {
	tracer().P("if", cmd.name).Debugf("condition is %v", ok)
	if ok {
		p.pushCond(cmd, condTrue)
		return nil
	}
	role, err := p.skipConditional(cmd, c, true, false)
	if err != nil {
		return err
	}
	if role == CondElse {
		p.pushCond(cmd, condElse)
	}
	return nil
}

// NewIfCase creates \ifcase.
func NewIfCase(name string) *Command {
	cmd := &Command{name: name, kind: KindPrimitive, caps: CapExpandable, cond: CondIf}
	cmd.expand = func(p *Parser, c Cursor) (token.List, error) {
		n, err := p.PopNumber(c)
		if err != nil {
			return nil, err
		}
		for i := token.Number(0); i < n; {
			role, err := p.skipConditional(cmd, c, true, true)
			if err != nil {
				return nil, err
			}
			switch role {
			case CondOr:
				i++
				continue
			case CondElse:
				p.pushCond(cmd, condElse)
			}
			return nil, nil // \else or \fi
		}
		if n < 0 { // no case matches
			role, err := p.skipConditional(cmd, c, true, false)
			if err == nil && role == CondElse {
				p.pushCond(cmd, condElse)
			}
			return nil, err
		}
		p.pushCond(cmd, condCase)
		return nil, nil
	}
	return cmd
}

// NewElse creates \else.
func NewElse(name string) *Command {
	cmd := &Command{name: name, kind: KindPrimitive, caps: CapExpandable, cond: CondElse}
	cmd.expand = func(p *Parser, c Cursor) (token.List, error) {
		top := p.topCond()
		if top == nil || top.state == condElse {
			return nil, p.newError(ErrExtraElse, cmd)
		}
		p.popCond()
		_, err := p.skipConditional(top.cmd, c, false, false)
		return nil, err
	}
	return cmd
}

// NewOr creates \or.
func NewOr(name string) *Command {
	cmd := &Command{name: name, kind: KindPrimitive, caps: CapExpandable, cond: CondOr}
	cmd.expand = func(p *Parser, c Cursor) (token.List, error) {
		top := p.topCond()
		if top == nil || top.state != condCase {
			return nil, p.newError(ErrExtraOr, cmd)
		}
		p.popCond()
		_, err := p.skipConditional(top.cmd, c, false, false)
		return nil, err
	}
	return cmd
}

// NewFi creates \fi.
func NewFi(name string) *Command {
	cmd := &Command{name: name, kind: KindPrimitive, caps: CapExpandable, cond: CondFi}
	cmd.expand = func(p *Parser, c Cursor) (token.List, error) {
		if p.topCond() == nil {
			return nil, p.newError(ErrExtraFi, cmd)
		}
		p.popCond()
		return nil, nil
	}
	return cmd
}

// skipConditional drops input without expansion up to the \fi matching
// the current level, or to an \else or \or at this level, if requested.
// Nested conditionals are recognized by the meaning of their tokens, so
// aliases of \if… commands nest, too.
func (p *Parser) skipConditional(owner *Command, c Cursor, stopAtElse, stopAtOr bool) (CondRole, error) {
	depth := 0
	for {
		if err := p.checkpoint(); err != nil {
			return CondNone, err
		}
		obj, err := c.Pop()
		if err == io.EOF {
			return CondNone, p.newError(ErrMissingFi, owner)
		} else if err != nil {
			return CondNone, err
		}
		var cmd *Command
		switch obj.(type) {
		case token.CsRef, *Command:
			cmd = p.Resolve(obj).Unwrap()
		default:
			continue
		}
		switch cmd.cond {
		case CondIf:
			depth++
		case CondFi:
			if depth == 0 {
				return CondFi, nil
			}
			depth--
		case CondElse:
			if depth == 0 && stopAtElse {
				return CondElse, nil
			}
		case CondOr:
			if depth == 0 && stopAtOr {
				return CondOr, nil
			}
		}
	}
}
