package primitives

import (
	"errors"
	"io"

	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/token"
)

func registerCommands() []*engine.Command {
	return []*engine.Command{
		registerAccess("count", engine.CountRegister),
		registerAccess("dimen", engine.DimenRegister),
		registerAccess("toks", engine.ToksRegister),
		arithmetic("advance"),
		arithmetic("multiply"),
		arithmetic("divide"),
		engine.NewQuantity("catcode", catcodeValue, setCatcode),
		engine.NewRegister("escapechar", "escapechar", engine.CountRegister),
	}
}

// registerAccess creates \count and friends. \count5 denotes register
// count5, both as a quantity and as the target of an assignment.
func registerAccess(name string, typ engine.RegisterType) *engine.Command {
	value := func(p *engine.Parser, c engine.Cursor) (token.Object, error) {
		n, err := popRegisterNumber(p, c)
		if err != nil {
			return nil, err
		}
		return p.RegisterValue(registerKey(typ, n), typ), nil
	}
	assign := func(p *engine.Parser, c engine.Cursor) error {
		global := p.TakePrefix().Has(engine.PrefixGlobal)
		n, err := popRegisterNumber(p, c)
		if err != nil {
			return err
		}
		if err = p.PopOptionalEquals(c); err != nil {
			return err
		}
		v, err := p.ScanRegisterValue(typ, c)
		if err != nil {
			return err
		}
		p.SetRegister(registerKey(typ, n), v, global)
		return nil
	}
	return engine.NewQuantity(name, value, assign)
}

var registerAccessTypes = map[string]engine.RegisterType{
	"count": engine.CountRegister,
	"dimen": engine.DimenRegister,
	"toks":  engine.ToksRegister,
}

// popRegisterRef reads a register reference: either a command created by
// \countdef, \newcount etc., or \count<n> and friends.
func popRegisterRef(p *engine.Parser, c engine.Cursor, owner string) (string, engine.RegisterType, error) {
	obj, err := p.PopExpanded(c)
	for err == nil && isSpace(obj) {
		obj, err = p.PopExpanded(c)
	}
	if err == io.EOF {
		return "", 0, p.Errorf(engine.ErrEOF, owner)
	} else if err != nil {
		return "", 0, err
	}
	cmd := p.Resolve(obj)
	if cmd == nil {
		return "", 0, p.Errorf(engine.ErrNotAssignable, obj, owner)
	}
	if key, typ, ok := cmd.Register(); ok {
		return key, typ, nil
	}
	for name, typ := range registerAccessTypes {
		if cmd.Is(name) {
			n, err := popRegisterNumber(p, c)
			return registerKey(typ, n), typ, err
		}
	}
	return "", 0, p.Errorf(engine.ErrNotAssignable, obj, owner)
}

// arithmetic creates \advance, \multiply and \divide.
func arithmetic(name string) *engine.Command {
	owner := token.Cs(name).String()
	return engine.NewPrimitive(name, engine.CapAssignment, func(p *engine.Parser, c engine.Cursor) error {
		global := p.TakePrefix().Has(engine.PrefixGlobal)
		key, typ, err := popRegisterRef(p, c, owner)
		if err != nil {
			return err
		}
		if typ == engine.ToksRegister {
			return p.Errorf(engine.ErrNotAssignable, token.Cs("toks"), owner)
		}
		if _, err = p.PopKeyword(c, "by"); err != nil {
			return err
		}
		cur := p.RegisterValue(key, typ)
		var result token.Object
		if name == "advance" {
			result, err = advance(p, c, cur)
		} else {
			result, err = scale(p, c, cur, name == "divide")
		}
		if err != nil {
			return err
		}
		p.SetRegister(key, result, global)
		return nil
	})
}

func advance(p *engine.Parser, c engine.Cursor, cur token.Object) (token.Object, error) {
	switch v := cur.(type) {
	case token.Number:
		n, err := p.PopNumber(c)
		if err != nil {
			return nil, err
		}
		r, err := v.Advance(n)
		return r, arithError(p, err)
	case token.Dimen:
		l, err := p.PopDimension(c)
		if err != nil {
			return nil, err
		}
		return v.Advance(token.NewDimen(l), p.Settings().Metrics()), nil
	}
	return nil, p.Errorf(engine.ErrArith, "cannot advance "+cur.String())
}

func scale(p *engine.Parser, c engine.Cursor, cur token.Object, divide bool) (token.Object, error) {
	n, err := p.PopNumber(c)
	if err != nil {
		return nil, err
	}
	switch v := cur.(type) {
	case token.Number:
		var r token.Number
		if divide {
			r, err = v.Divide(n)
		} else {
			r, err = v.Multiply(n)
		}
		return r, arithError(p, err)
	case token.Dimen:
		if divide {
			r, err := v.Divide(n)
			return r, arithError(p, err)
		}
		return v.Multiply(n), nil
	}
	return nil, p.Errorf(engine.ErrArith, "cannot scale "+cur.String())
}

func arithError(p *engine.Parser, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, token.ErrDivisionByZero):
		return p.Errorf(engine.ErrDivideByZero)
	}
	return p.Errorf(engine.ErrArith, err)
}

// --- Category codes -------------------------------------------------------

func popCharCode(p *engine.Parser, c engine.Cursor) (rune, error) {
	n, err := p.PopNumber(c)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 0x10ffff {
		return 0, p.Errorf(engine.ErrOutOfRange, "character code", int64(n))
	}
	return rune(n), nil
}

func catcodeValue(p *engine.Parser, c engine.Cursor) (token.Object, error) {
	r, err := popCharCode(p, c)
	if err != nil {
		return nil, err
	}
	return token.Number(p.Settings().Catcode(r)), nil
}

func setCatcode(p *engine.Parser, c engine.Cursor) error {
	global := p.TakePrefix().Has(engine.PrefixGlobal)
	r, err := popCharCode(p, c)
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
	cat := token.Catcode(n)
	if n < 0 || n > token.Number(token.Invalid) {
		return p.Errorf(engine.ErrOutOfRange, "category code", int64(n))
	}
	tracer().Debugf("catcode of %q := %s", r, cat)
	p.Settings().SetCatcode(r, cat, global)
	return nil
}
