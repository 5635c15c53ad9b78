package primitives

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/token"
)

func definitions() []*engine.Command {
	return []*engine.Command{
		defCommand("def", false, false),
		defCommand("gdef", false, true),
		defCommand("edef", true, false),
		defCommand("xdef", true, true),
		engine.NewPrimitive("let", engine.CapAssignment, let),
		engine.NewPrimitive("futurelet", engine.CapAssignment, futurelet),
		engine.NewPrimitive("chardef", engine.CapAssignment, chardef),
		registerDef("countdef", engine.CountRegister),
		registerDef("dimendef", engine.DimenRegister),
		registerDef("toksdef", engine.ToksRegister),
		newRegister("newcount", engine.CountRegister),
		newRegister("newdimen", engine.DimenRegister),
		newRegister("newtoks", engine.ToksRegister),
		engine.NewPrimitive("newif", 0, newif),
		engine.NewPrefix("global", engine.PrefixGlobal),
		engine.NewPrefix("long", engine.PrefixLong),
		engine.NewPrefix("protected", engine.PrefixProtected),
		engine.NewPrefix("outer", engine.PrefixOuter),
	}
}

// defCommand creates \def and its variants. \edef and \xdef expand the
// replacement text at definition time.
func defCommand(name string, expand, global bool) *engine.Command {
	return engine.NewPrimitive(name, engine.CapAssignment, func(p *engine.Parser, c engine.Cursor) error {
		prefix := p.TakePrefix()
		cs, err := p.PopCs(c)
		if err != nil {
			return err
		}
		m, err := p.ScanDefinition(c, cs.String())
		if err != nil {
			return err
		}
		if expand {
			if m.Body, err = p.ExpandFully(m.Body, nil); err != nil {
				return err
			}
		}
		m.Long = prefix.Has(engine.PrefixLong)
		m.Protected = prefix.Has(engine.PrefixProtected)
		tracer().P("cs", cs.Name).Debugf("\\%s", name)
		p.Bind(cs, engine.NewMacro(cs.Name, m), global || prefix.Has(engine.PrefixGlobal))
		return nil
	})
}

// let implements \let\cs = token. The equals sign may be followed by one
// optional blank.
func let(p *engine.Parser, c engine.Cursor) error {
	global := p.TakePrefix().Has(engine.PrefixGlobal)
	cs, err := p.PopCs(c)
	if err != nil {
		return err
	}
	obj, err := p.PopNonSpace(c)
	if err == nil && isOther(obj, '=') {
		if obj, err = c.Pop(); err == nil && isSpace(obj) {
			obj, err = c.Pop()
		}
	}
	if err == io.EOF {
		return p.Errorf(engine.ErrEOF, "\\let")
	} else if err != nil {
		return err
	}
	return letTo(p, cs, obj, global)
}

// futurelet implements \futurelet\cs t1 t2: \cs is let to t2, then t1 and
// t2 are read again.
func futurelet(p *engine.Parser, c engine.Cursor) error {
	global := p.TakePrefix().Has(engine.PrefixGlobal)
	cs, err := p.PopCs(c)
	if err != nil {
		return err
	}
	t1, err := p.PopToken(c, "\\futurelet")
	if err != nil {
		return err
	}
	t2, err := p.PopToken(c, "\\futurelet")
	if err != nil {
		return err
	}
	if err = letTo(p, cs, t2, global); err != nil {
		return err
	}
	c.Push(t1, t2)
	return nil
}

func letTo(p *engine.Parser, cs token.CsRef, obj token.Object, global bool) error {
	switch t := obj.(type) {
	case token.Char:
		p.Bind(cs, engine.NewCharCommand(cs.Name, t), global)
	case token.CsRef, *engine.Command:
		p.Bind(cs, engine.NewAlias(cs.Name, p.Resolve(t)), global)
	default:
		return p.Errorf(engine.ErrNotCs, obj)
	}
	return nil
}

func chardef(p *engine.Parser, c engine.Cursor) error {
	global := p.TakePrefix().Has(engine.PrefixGlobal)
	cs, err := p.PopCs(c)
	if err != nil {
		return err
	}
	if err = p.PopOptionalEquals(c); err != nil {
		return err
	}
	n, err := p.PopNumber(c)
	if err != nil {
		return err
	}
	if n < 0 || n > 0x10ffff {
		return p.Errorf(engine.ErrOutOfRange, "character code", int64(n))
	}
	p.Bind(cs, engine.NewCharCommand(cs.Name, token.Char{Code: rune(n), Cat: token.Other}), global)
	return nil
}

// registerDef creates \countdef and friends, which bind a name to a
// numbered register.
func registerDef(name string, typ engine.RegisterType) *engine.Command {
	return engine.NewPrimitive(name, engine.CapAssignment, func(p *engine.Parser, c engine.Cursor) error {
		global := p.TakePrefix().Has(engine.PrefixGlobal)
		cs, err := p.PopCs(c)
		if err != nil {
			return err
		}
		if err = p.PopOptionalEquals(c); err != nil {
			return err
		}
		n, err := popRegisterNumber(p, c)
		if err != nil {
			return err
		}
		p.Bind(cs, engine.NewRegister(cs.Name, registerKey(typ, n), typ), global)
		return nil
	})
}

// newRegister creates \newcount and friends. The register is named after
// the control sequence and allocated in the current group, unless prefixed
// by \global.
func newRegister(name string, typ engine.RegisterType) *engine.Command {
	return engine.NewPrimitive(name, engine.CapAssignment, func(p *engine.Parser, c engine.Cursor) error {
		global := p.TakePrefix().Has(engine.PrefixGlobal)
		cs, err := p.PopCs(c)
		if err != nil {
			return err
		}
		p.Bind(cs, engine.NewRegister(cs.Name, cs.Name, typ), global)
		p.SetRegister(cs.Name, p.RegisterValue(cs.Name, typ), global)
		return nil
	})
}

// newif implements \newif\iffoo, which defines \iffoo together with
// \footrue and \foofalse. \iffoo starts out false.
func newif(p *engine.Parser, c engine.Cursor) error {
	cs, err := p.PopCs(c)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(cs.Name, "if") || len(cs.Name) < 3 {
		return p.Errorf(engine.ErrExpected, "name starting with \\if", cs)
	}
	base := cs.Name[2:]
	iftrue, iffalse := p.ControlSequence("iftrue"), p.ControlSequence("iffalse")
	setter := func(suffix string, val *engine.Command) *engine.Command {
		return engine.NewPrimitive(base+suffix, engine.CapAssignment, func(p *engine.Parser, c engine.Cursor) error {
			global := p.TakePrefix().Has(engine.PrefixGlobal)
			p.Bind(cs, engine.NewAlias(cs.Name, val), global)
			return nil
		})
	}
	p.Bind(cs, engine.NewAlias(cs.Name, iffalse), true)
	p.PutControlSequence(setter("true", iftrue), true)
	p.PutControlSequence(setter("false", iffalse), true)
	return nil
}

func registerKey(typ engine.RegisterType, n token.Number) string {
	return fmt.Sprintf("%s%d", typ, n)
}

const maxRegister = 32767

func popRegisterNumber(p *engine.Parser, c engine.Cursor) (token.Number, error) {
	n, err := p.PopNumber(c)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > maxRegister {
		return 0, p.Errorf(engine.ErrOutOfRange, "register code", int64(n))
	}
	return n, nil
}
