package engine

import (
	"github.com/npillmayer/texparse/token"
)

// dontExpand wraps a token which has been marked by \noexpand.
type dontExpand struct {
	obj token.Object
}

// NoExpand marks obj to be left unexpanded by the next expansion.
func NoExpand(obj token.Object) token.Object {
	return &dontExpand{obj: obj}
}

func (d *dontExpand) Kind() token.Kind            { return token.KindMarker }
func (d *dontExpand) Clone() token.Object         { return d }
func (d *dontExpand) String() string              { return d.obj.String() }
func (d *dontExpand) Format(esc rune) string      { return d.obj.Format(esc) }
func (d *dontExpand) Explode(esc rune) token.List { return d.obj.Explode(esc) }

// expandable returns the command obj expands with, or nil if obj is not
// expandable.
func (p *Parser) expandable(obj token.Object) *Command {
	switch obj.(type) {
	case token.CsRef, *Command:
		if cmd := p.Resolve(obj); cmd.IsExpandable() {
			return cmd.Unwrap()
		}
	}
	return nil
}

func (p *Parser) countExpansion() error {
	p.expansions++
	if max := p.opts.maxExpansions; max > 0 && p.expansions > max {
		p.expansions = 0
		return p.newError(ErrExpansionDepth, max)
	}
	return nil
}

// ExpandOnce expands obj by one level, reading arguments from c. If obj is
// not expandable, ExpandOnce returns false and obj is left alone.
func (p *Parser) ExpandOnce(obj token.Object, c Cursor) (token.List, bool, error) {
	cmd := p.expandable(obj)
	if cmd == nil {
		return nil, false, nil
	}
	if err := p.checkpoint(); err != nil {
		return nil, true, err
	}
	if err := p.countExpansion(); err != nil {
		return nil, true, err
	}
	var list token.List
	var err error
	if cmd.kind == KindMacro {
		list, err = p.expandMacro(cmd, c)
	} else {
		list, err = cmd.expand(p, c)
	}
	return list, true, err
}

// ExpandFully expands the objects of l until only unexpandable objects are
// left, the way \edef does. Protected macros and objects marked by
// \noexpand are not expanded. Commands at the end of l may read arguments
// from c, which may be nil.
func (p *Parser) ExpandFully(l token.List, c Cursor) (token.List, error) {
	work := NewListCursor(l, c)
	var out token.List
	for !work.Exhausted() {
		if err := p.checkpoint(); err != nil {
			return nil, err
		}
		obj, _ := work.Pop()
		switch t := obj.(type) {
		case *dontExpand:
			out = append(out, t.obj)
			continue
		case token.Group:
			inner, err := p.ExpandFully(token.List(t), nil)
			if err != nil {
				return nil, err
			}
			out = append(out, token.Group(inner))
			continue
		}
		cmd := p.Resolve(obj)
		if cmd != nil && cmd.IsUndefined() {
			if err := p.undefined(cmd.Unwrap()); err != nil {
				return nil, err
			}
		}
		if cmd == nil || !cmd.IsExpandable() || (cmd.Macro() != nil && cmd.Macro().Protected) {
			p.expansions = 0
			out = append(out, obj)
			continue
		}
		list, _, err := p.ExpandOnce(cmd, work)
		if err != nil {
			return nil, err
		}
		if cmd.Unwrap().Has(CapOpaqueResult) {
			out = append(out, list...)
		} else {
			work.Push(list...)
		}
	}
	return out, nil
}

// ExpandFullyObject expands a single object fully. If obj is not
// expandable, it returns false.
func (p *Parser) ExpandFullyObject(obj token.Object, c Cursor) (token.List, bool, error) {
	if p.expandable(obj) == nil {
		return nil, false, nil
	}
	l, err := p.ExpandFully(token.List{obj}, c)
	return l, true, err
}

// PopExpanded returns the next unexpandable object, expanding whatever
// comes before it.
func (p *Parser) PopExpanded(c Cursor) (token.Object, error) {
	for {
		obj, err := c.Pop()
		if err != nil {
			return nil, err
		}
		list, ok, err := p.ExpandOnce(obj, c)
		if err != nil {
			return nil, err
		}
		if !ok {
			return obj, nil
		}
		c.Push(list...)
	}
}
