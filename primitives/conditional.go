package primitives

import (
	"io"

	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/token"
)

func conditionals() []*engine.Command {
	return []*engine.Command{
		engine.NewIf("if", func(p *engine.Parser, c engine.Cursor) (bool, error) {
			a, b, err := popCharOperands(p, c)
			return a.Code == b.Code, err
		}),
		engine.NewIf("ifcat", func(p *engine.Parser, c engine.Cursor) (bool, error) {
			a, b, err := popCharOperands(p, c)
			return a.Cat == b.Cat, err
		}),
		engine.NewIf("ifx", ifx),
		engine.NewIf("ifnum", ifnum),
		engine.NewIf("ifdim", ifdim),
		engine.NewIf("ifodd", func(p *engine.Parser, c engine.Cursor) (bool, error) {
			n, err := p.PopNumber(c)
			return n%2 != 0, err
		}),
		engine.NewIf("iftrue", func(*engine.Parser, engine.Cursor) (bool, error) { return true, nil }),
		engine.NewIf("iffalse", func(*engine.Parser, engine.Cursor) (bool, error) { return false, nil }),
		engine.NewIf("ifdefined", ifdefined),
		engine.NewIf("ifcsname", func(p *engine.Parser, c engine.Cursor) (bool, error) {
			name, err := scanCsName(p, c)
			return err == nil && p.IsDefined(token.Cs(name)), err
		}),
		engine.NewIfCase("ifcase"),
		engine.NewElse("else"),
		engine.NewOr("or"),
		engine.NewFi("fi"),
		engine.NewExpandable("unless", unless),
	}
}

// charOperand is what \if and \ifcat compare. Unexpandable control
// sequences have code 256 and category 16.
type charOperand struct {
	Code rune
	Cat  token.Catcode
}

func popCharOperand(p *engine.Parser, c engine.Cursor) (charOperand, error) {
	obj, err := p.PopExpanded(c)
	if err == io.EOF {
		return charOperand{}, p.Errorf(engine.ErrEOF, "\\if")
	} else if err != nil {
		return charOperand{}, err
	}
	if ch, ok := obj.(token.Char); ok {
		return charOperand{ch.Code, ch.Cat}, nil
	}
	if cmd := p.Resolve(obj); cmd != nil {
		if ch, ok := cmd.Char(); ok {
			return charOperand{ch.Code, ch.Cat}, nil
		}
	}
	return charOperand{256, 16}, nil
}

func popCharOperands(p *engine.Parser, c engine.Cursor) (a, b charOperand, err error) {
	if a, err = popCharOperand(p, c); err != nil {
		return
	}
	b, err = popCharOperand(p, c)
	return
}

func ifx(p *engine.Parser, c engine.Cursor) (bool, error) {
	a, err := p.PopToken(c, "\\ifx")
	if err != nil {
		return false, err
	}
	b, err := p.PopToken(c, "\\ifx")
	if err != nil {
		return false, err
	}
	return p.SameMeaning(a, b), nil
}

// popRelation reads one of <, = and >.
func popRelation(p *engine.Parser, c engine.Cursor) (rune, error) {
	obj, err := p.PopExpanded(c)
	for err == nil && isSpace(obj) {
		obj, err = p.PopExpanded(c)
	}
	if err == io.EOF {
		return 0, p.Errorf(engine.ErrExpected, "relation", "end of input")
	} else if err != nil {
		return 0, err
	}
	for _, r := range "<=>" {
		if isOther(obj, r) {
			return r, nil
		}
	}
	c.Push(obj)
	return 0, p.Errorf(engine.ErrExpected, "relation", obj)
}

func compare(cmp int, rel rune) bool {
	switch rel {
	case '<':
		return cmp < 0
	case '>':
		return cmp > 0
	}
	return cmp == 0
}

func ifnum(p *engine.Parser, c engine.Cursor) (bool, error) {
	a, err := p.PopNumber(c)
	if err != nil {
		return false, err
	}
	rel, err := popRelation(p, c)
	if err != nil {
		return false, err
	}
	b, err := p.PopNumber(c)
	if err != nil {
		return false, err
	}
	cmp := 0
	if a < b {
		cmp = -1
	} else if a > b {
		cmp = 1
	}
	return compare(cmp, rel), nil
}

func ifdim(p *engine.Parser, c engine.Cursor) (bool, error) {
	a, err := p.PopDimension(c)
	if err != nil {
		return false, err
	}
	rel, err := popRelation(p, c)
	if err != nil {
		return false, err
	}
	b, err := p.PopDimension(c)
	if err != nil {
		return false, err
	}
	return compare(a.Compare(b, p.Settings().Metrics()), rel), nil
}

func ifdefined(p *engine.Parser, c engine.Cursor) (bool, error) {
	t, err := p.PopToken(c, "\\ifdefined")
	if err != nil {
		return false, err
	}
	if cmd := p.Resolve(t); cmd != nil {
		return !cmd.IsUndefined(), nil
	}
	return true, nil
}

// unless negates the conditional following it.
func unless(p *engine.Parser, c engine.Cursor) (token.List, error) {
	t, err := p.PopToken(c, "\\unless")
	if err != nil {
		return nil, err
	}
	cmd := p.Resolve(t)
	if cmd == nil || cmd.CondRole() != engine.CondIf {
		return nil, p.Errorf(engine.ErrExpected, "conditional after \\unless", t)
	}
	ok, err := p.Test(cmd, c)
	if err != nil {
		return nil, err
	}
	return nil, p.BeginConditional(cmd.Unwrap(), !ok, c)
}
