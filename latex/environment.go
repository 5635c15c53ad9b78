package latex

import (
	"io"

	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/scope"
	"github.com/npillmayer/texparse/token"
)

func environmentCommands() []*engine.Command {
	return []*engine.Command{
		engine.NewPrimitive("begin", 0, begin),
		engine.NewPrimitive("end", 0, end),
		engine.NewPrimitive("document", 0, func(p *engine.Parser, c engine.Cursor) error {
			return nil
		}),
		engine.NewPrimitive("enddocument", 0, func(p *engine.Parser, c engine.Cursor) error {
			tracer().Debugf("end of document")
			p.EndDocument()
			return nil
		}),
		gobble("documentclass"),
		gobble("usepackage"),
		engine.NewPrimitive("tabular", 0, tabular),
		engine.NewPrimitive("endtabular", 0, func(p *engine.Parser, c engine.Cursor) error {
			return p.EndAlignment()
		}),
	}
}

// begin starts environment foo: a group is opened, then \foo is read.
func begin(p *engine.Parser, c engine.Cursor) error {
	name, err := p.PopText(c)
	if err != nil {
		return err
	}
	cs := token.Cs(name)
	if !p.IsDefined(cs) {
		return p.Errorf(engine.ErrUndefined, "environment "+name)
	}
	tracer().P("env", name).Debugf("\\begin")
	p.StartGroup(scope.EnvironmentGroup, name)
	c.Push(cs)
	return nil
}

// end ends environment foo: \endfoo is read, if defined, then the group is
// closed. The group has to be the one \begin{foo} opened.
func end(p *engine.Parser, c engine.Cursor) error {
	name, err := p.PopText(c)
	if err != nil {
		return err
	}
	closer := engine.NewPrimitive("end{"+name+"}", 0, func(p *engine.Parser, c engine.Cursor) error {
		tracer().P("env", name).Debugf("\\end")
		return p.EndGroup(scope.EnvironmentGroup, name)
	})
	if cs := token.Cs("end" + name); p.IsDefined(cs) {
		c.Push(cs, closer)
	} else {
		c.Push(closer)
	}
	return nil
}

// tabular starts an alignment. The column specification understands
// l, c, r, p{width}, | and @{…}; *{n}{spec} repeats a specification.
func tabular(p *engine.Parser, c engine.Cursor) error {
	if _, _, err := p.PopOptArg(c); err != nil {
		return err
	}
	spec, err := p.PopArg(c)
	if err != nil {
		return err
	}
	cols, err := parseColumns(p, spec)
	if err != nil {
		return err
	}
	return p.BeginAlignment(cols)
}

func parseColumns(p *engine.Parser, spec token.List) ([]scope.Column, error) {
	var cols []scope.Column
	lc := engine.NewListCursor(spec, nil)
	for {
		obj, err := lc.Pop()
		if err == io.EOF {
			return cols, nil
		} else if err != nil {
			return nil, err
		}
		ch, ok := obj.(token.Char)
		if !ok {
			return nil, p.Errorf(engine.ErrExpected, "column specification", obj)
		}
		switch {
		case ch.Cat == token.Space || ch.Code == '|':
		case ch.Code == 'l' || ch.Code == 'c' || ch.Code == 'r':
			cols = append(cols, scope.Column{Align: ch.Code})
		case ch.Code == 'p' || ch.Code == 'm' || ch.Code == 'b':
			arg, err := p.PopArg(lc)
			if err != nil {
				return nil, err
			}
			w, err := p.PopDimension(engine.NewListCursor(arg, nil))
			if err != nil {
				return nil, err
			}
			cols = append(cols, scope.Column{Align: 'p', Width: w})
		case ch.Code == '@' || ch.Code == '!' || ch.Code == '>' || ch.Code == '<':
			if _, err := p.PopArg(lc); err != nil {
				return nil, err
			}
		case ch.Code == '*':
			more, err := repeatColumns(p, lc)
			if err != nil {
				return nil, err
			}
			cols = append(cols, more...)
		default:
			return nil, p.Errorf(engine.ErrExpected, "column specification", obj)
		}
	}
}

// maxColumns bounds the repetition count of *{n}{spec}.
const maxColumns = 1000

// repeatColumns reads {n}{spec} after a * in a column specification.
func repeatColumns(p *engine.Parser, lc engine.Cursor) ([]scope.Column, error) {
	count, err := p.PopArg(lc)
	if err != nil {
		return nil, err
	}
	n, err := p.PopNumber(engine.NewListCursor(count, nil))
	if err != nil {
		return nil, err
	}
	if n < 0 || n > maxColumns {
		return nil, p.Errorf(engine.ErrOutOfRange, "column count", int64(n))
	}
	spec, err := p.PopArg(lc)
	if err != nil {
		return nil, err
	}
	one, err := parseColumns(p, spec)
	if err != nil {
		return nil, err
	}
	var cols []scope.Column
	for i := token.Number(0); i < n; i++ {
		cols = append(cols, one...)
	}
	return cols, nil
}
