package engine

import (
	"io"

	"github.com/npillmayer/texparse/dimen"
	"github.com/npillmayer/texparse/token"
)

// RegisterValue returns the value of a register. Unset registers are 0,
// 0pt or empty.
func (p *Parser) RegisterValue(name string, typ RegisterType) token.Object {
	if v, ok := p.settings.Register(name); ok {
		return v
	}
	switch typ {
	case CountRegister:
		return token.Number(0)
	case DimenRegister:
		return token.NewDimen(dimen.Zero)
	}
	return token.List(nil)
}

// SetRegister assigns a register value.
func (p *Parser) SetRegister(name string, v token.Object, global bool) {
	tracer().P("register", name).Debugf("set to %v", v)
	p.settings.SetRegister(name, v, global)
}

func (p *Parser) assignRegister(cmd *Command, c Cursor) error {
	global := p.TakePrefix().Has(PrefixGlobal)
	if err := p.PopOptionalEquals(c); err != nil {
		return err
	}
	v, err := p.ScanRegisterValue(cmd.regType, c)
	if err != nil {
		return err
	}
	p.SetRegister(cmd.register, v, global)
	return nil
}

// ScanRegisterValue reads a value suitable for a register of type typ.
func (p *Parser) ScanRegisterValue(typ RegisterType, c Cursor) (token.Object, error) {
	switch typ {
	case CountRegister:
		n, err := p.PopNumber(c)
		return n, err
	case DimenRegister:
		l, err := p.PopDimension(c)
		return token.NewDimen(l), err
	}
	return p.scanToks(c)
}

// scanToks reads a balanced text or the value of a token register.
func (p *Parser) scanToks(c Cursor) (token.Object, error) {
	for {
		obj, err := p.PopExpanded(c)
		if err == io.EOF {
			return nil, p.newError(ErrEOF, "token list")
		} else if err != nil {
			return nil, err
		}
		if isCat(obj, token.Space) {
			continue
		}
		if isCat(obj, token.BeginGroup) {
			l, err := p.popBalanced(c, "token list", true)
			return l, err
		}
		cmd := p.Resolve(obj)
		if cmd == nil {
			c.Push(obj)
			return nil, p.newError(ErrExpected, "{", obj)
		}
		if cmd.Is("relax") {
			continue
		}
		if ch, ok := cmd.Char(); ok && ch.Cat == token.BeginGroup {
			return p.popBalanced(c, "token list", true)
		}
		if _, typ, ok := cmd.Register(); ok && typ == ToksRegister {
			v, err := cmd.Unwrap().quantity(p, c)
			if l, ok := v.(token.List); ok {
				return l.Copy(), err
			}
			return v, err
		}
		c.Push(obj)
		return nil, p.newError(ErrExpected, "{", obj)
	}
}

// Quantity returns the internal quantity denoted by obj, reading
// arguments from c. It returns false if obj does not denote a quantity.
func (p *Parser) Quantity(obj token.Object, c Cursor) (token.Object, bool, error) {
	cmd := p.Resolve(obj)
	if cmd == nil || cmd.Unwrap().quantity == nil {
		return nil, false, nil
	}
	v, err := cmd.Unwrap().quantity(p, c)
	return v, true, err
}
