package engine

import (
	"io"
	"strings"
	"unicode"

	"github.com/npillmayer/texparse/dimen"
	"github.com/npillmayer/texparse/token"
	"github.com/shopspring/decimal"
)

func isOther(obj token.Object, r rune) bool {
	ch, ok := obj.(token.Char)
	return ok && ch.Code == r && (ch.Cat == token.Other || ch.Cat == token.Letter)
}

// PopToken reads the next object without expansion. End of input is
// reported as a syntax error naming what.
func (p *Parser) PopToken(c Cursor, what string) (token.Object, error) {
	obj, err := c.Pop()
	if err == io.EOF {
		return nil, p.newError(ErrEOF, what)
	}
	return obj, err
}

// PopNonSpace reads the next object which is not a blank space, without
// expansion.
func (p *Parser) PopNonSpace(c Cursor) (token.Object, error) {
	for {
		obj, err := c.Pop()
		if err != nil {
			return nil, err
		}
		if !isCat(obj, token.Space) {
			return obj, nil
		}
	}
}

// SkipSpaces drops blank spaces, expanding macros on the way.
func (p *Parser) SkipSpaces(c Cursor) error {
	for {
		obj, err := p.PopExpanded(c)
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if !isCat(obj, token.Space) {
			c.Push(obj)
			return nil
		}
	}
}

// PopArg reads an undelimited argument: a single token or the content of a
// braced group. Blank spaces before the argument are skipped.
func (p *Parser) PopArg(c Cursor) (token.List, error) {
	return p.popUndelimited(c, "argument", true)
}

// PopGroup reads the content of a braced group, which has to follow,
// possibly after blanks.
func (p *Parser) PopGroup(c Cursor, owner string) (token.List, error) {
	obj, err := p.PopNonSpace(c)
	if err == io.EOF {
		return nil, p.newError(ErrEOF, owner)
	} else if err != nil {
		return nil, err
	}
	if !isCat(obj, token.BeginGroup) {
		if cmd := p.Resolve(obj); cmd != nil {
			if ch, ok := cmd.Char(); ok && ch.Cat == token.BeginGroup {
				return p.popBalanced(c, owner, true)
			}
		}
		c.Push(obj)
		return nil, p.newError(ErrExpected, "{", obj)
	}
	return p.popBalanced(c, owner, true)
}

// PopOptArg reads an optional argument in brackets. If the next non-blank
// object is not [, nothing is read and false is returned.
func (p *Parser) PopOptArg(c Cursor) (token.List, bool, error) {
	obj, err := p.PopNonSpace(c)
	if err == io.EOF {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	if !isOther(obj, '[') {
		c.Push(obj)
		return nil, false, nil
	}
	var l token.List
	depth := 0
	for {
		obj, err = c.Pop()
		if err == io.EOF {
			return nil, false, p.newError(ErrRunaway, "optional argument")
		} else if err != nil {
			return nil, false, err
		}
		if isCat(obj, token.BeginGroup) {
			depth++
		} else if isCat(obj, token.EndGroup) {
			if depth == 0 {
				return nil, false, p.newError(ErrMisplaced, "}")
			}
			depth--
		} else if depth == 0 && isOther(obj, ']') {
			break
		}
		l = append(l, obj)
	}
	if isSingleGroup(l) {
		l = l[1 : len(l)-1]
	}
	return l, true, nil
}

// PopStar consumes a * if it comes next, and tells whether it did.
func (p *Parser) PopStar(c Cursor) bool {
	obj, err := c.Peek()
	if err == nil && isOther(obj, '*') {
		c.Pop()
		return true
	}
	return false
}

// PopCs reads a control sequence, possibly enclosed in braces.
func (p *Parser) PopCs(c Cursor) (token.CsRef, error) {
	obj, err := p.PopNonSpace(c)
	if err == io.EOF {
		return token.CsRef{}, p.newError(ErrNotCs, "end of input")
	} else if err != nil {
		return token.CsRef{}, err
	}
	if isCat(obj, token.BeginGroup) {
		l, err := p.popBalanced(c, "control sequence name", true)
		if err != nil {
			return token.CsRef{}, err
		}
		if l = l.TrimSpace(); len(l) == 1 {
			obj = l[0]
		} else {
			obj = token.Group(l)
		}
	}
	switch t := obj.(type) {
	case token.CsRef:
		return t, nil
	case *Command:
		return token.Cs(t.name), nil
	}
	return token.CsRef{}, p.newError(ErrNotCs, obj)
}

// PopText reads an argument, expands it fully and returns its text. Control
// sequences left after expansion are rendered with an escape character.
func (p *Parser) PopText(c Cursor) (string, error) {
	l, err := p.PopArg(c)
	if err != nil {
		return "", err
	}
	l, err = p.ExpandFully(l, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(l.Format(p.EscapeChar())), nil
}

// PopOptionalEquals consumes an optional = after blanks.
func (p *Parser) PopOptionalEquals(c Cursor) error {
	obj, err := p.PopExpanded(c)
	for err == nil && isCat(obj, token.Space) {
		obj, err = p.PopExpanded(c)
	}
	if err == io.EOF {
		return nil
	} else if err != nil {
		return err
	}
	if !isOther(obj, '=') {
		c.Push(obj)
	}
	return nil
}

// PopKeyword tries to read a keyword, case-insensitively, after optional
// blanks. If the keyword is not there, the input is restored (except for
// the blanks) and false is returned.
func (p *Parser) PopKeyword(c Cursor, keyword string) (bool, error) {
	var matched []token.Object
	kw := []rune(keyword)
	for len(matched) < len(kw) {
		obj, err := p.PopExpanded(c)
		if err == io.EOF {
			break
		} else if err != nil {
			return false, err
		}
		if ch, ok := obj.(token.Char); ok {
			if ch.Cat == token.Space && len(matched) == 0 {
				continue
			}
			if (ch.Cat == token.Letter || ch.Cat == token.Other) && unicode.ToLower(ch.Code) == kw[len(matched)] {
				matched = append(matched, obj)
				continue
			}
		}
		c.Push(obj)
		break
	}
	if len(matched) == len(kw) {
		return true, nil
	}
	c.Push(matched...)
	return false, nil
}

// popOptionalSpace consumes a single blank space, if present.
func (p *Parser) popOptionalSpace(c Cursor) error {
	obj, err := p.PopExpanded(c)
	if err == io.EOF {
		return nil
	} else if err != nil {
		return err
	}
	if !isCat(obj, token.Space) {
		c.Push(obj)
	}
	return nil
}

// --- Numbers --------------------------------------------------------------

// PopNumber reads a number: optional signs followed by decimal digits,
// 'octal, "hex, `character, or an internal quantity. Macros are expanded
// on the way.
func (p *Parser) PopNumber(c Cursor) (token.Number, error) {
	neg, obj, err := p.scanSigns(c, ErrNotNumber)
	if err != nil {
		return 0, err
	}
	n, err := p.scanUnsigned(obj, c)
	if neg {
		n = -n
	}
	return n, err
}

func (p *Parser) scanSigns(c Cursor, kind ErrorKind) (bool, token.Object, error) {
	neg := false
	for {
		obj, err := p.PopExpanded(c)
		if err == io.EOF {
			return neg, nil, p.newError(kind, "end of input")
		} else if err != nil {
			return neg, nil, err
		}
		switch {
		case isCat(obj, token.Space), isOther(obj, '+'):
			continue
		case isOther(obj, '-'):
			neg = !neg
			continue
		}
		return neg, obj, nil
	}
}

func (p *Parser) scanUnsigned(obj token.Object, c Cursor) (token.Number, error) {
	if ch, ok := obj.(token.Char); ok {
		switch {
		case ch.Cat == token.Other && ch.Code >= '0' && ch.Code <= '9':
			return p.scanDigits(c, 10, int64(ch.Code-'0'))
		case isOther(obj, '\''):
			return p.scanDigits(c, 8, -1)
		case isOther(obj, '"'):
			return p.scanDigits(c, 16, -1)
		case isOther(obj, '`'):
			return p.scanCharCode(c)
		}
		c.Push(obj)
		return 0, p.newError(ErrNotNumber, obj)
	}
	if cmd := p.Resolve(obj); cmd != nil && cmd.Unwrap().quantity != nil {
		v, err := cmd.Unwrap().quantity(p, c)
		if err != nil {
			return 0, err
		}
		switch v := v.(type) {
		case token.Number:
			return v, nil
		case token.Dimen:
			return token.Number(v.Length.Sp(p.settings.Metrics())), nil
		}
	}
	c.Push(obj)
	return 0, p.newError(ErrNotNumber, obj)
}

func digitValue(obj token.Object, base int64) (int64, bool) {
	ch, ok := obj.(token.Char)
	if !ok {
		return 0, false
	}
	var d int64
	switch {
	case ch.Cat == token.Other && ch.Code >= '0' && ch.Code <= '9':
		d = int64(ch.Code - '0')
	case base == 16 && ch.Code >= 'A' && ch.Code <= 'F' && (ch.Cat == token.Other || ch.Cat == token.Letter):
		d = int64(ch.Code-'A') + 10
	default:
		return 0, false
	}
	return d, d < base
}

// scanDigits reads digits of a given base. first is the value of an
// already consumed digit, or -1.
func (p *Parser) scanDigits(c Cursor, base, first int64) (token.Number, error) {
	v, digits := int64(0), 0
	if first >= 0 {
		v, digits = first, 1
	}
	for {
		obj, err := p.PopExpanded(c)
		if err == io.EOF {
			break
		} else if err != nil {
			return 0, err
		}
		d, ok := digitValue(obj, base)
		if !ok {
			if !isCat(obj, token.Space) { // one optional space ends the number
				c.Push(obj)
			}
			break
		}
		v = v*base + d
		digits++
		if v > token.MaxNumber {
			return 0, p.newError(ErrNumberTooBig)
		}
	}
	if digits == 0 {
		return 0, p.newError(ErrNotNumber, "no digits")
	}
	return token.Number(v), nil
}

func (p *Parser) scanCharCode(c Cursor) (token.Number, error) {
	obj, err := p.PopToken(c, "character code")
	if err != nil {
		return 0, err
	}
	var code rune
	switch t := obj.(type) {
	case token.Char:
		code = t.Code
	case token.CsRef:
		r := []rune(t.Name)
		if len(r) != 1 {
			return 0, p.newError(ErrNotNumber, obj)
		}
		code = r[0]
	default:
		return 0, p.newError(ErrNotNumber, obj)
	}
	return token.Number(code), p.popOptionalSpace(c)
}

// --- Dimensions -----------------------------------------------------------

// PopDimension reads a dimension: optional signs, a decimal factor or an
// internal quantity, and a unit. The unit may be an internal dimension,
// like in 2\parindent.
func (p *Parser) PopDimension(c Cursor) (dimen.Length, error) {
	neg, obj, err := p.scanSigns(c, ErrNotDimension)
	if err != nil {
		return dimen.Zero, err
	}
	var factor decimal.Decimal
	if cmd := p.Resolve(obj); cmd != nil && cmd.Unwrap().quantity != nil {
		v, err := cmd.Unwrap().quantity(p, c)
		if err != nil {
			return dimen.Zero, err
		}
		switch v := v.(type) {
		case token.Dimen:
			if neg {
				return v.Length.Negate(), nil
			}
			return v.Length, nil
		case token.Number:
			factor = decimal.New(int64(v), 0)
		default:
			return dimen.Zero, p.newError(ErrNotDimension, obj)
		}
	} else if ch, ok := obj.(token.Char); ok && (ch.Code >= '0' && ch.Code <= '9' || ch.Code == '.' || ch.Code == ',') && ch.Cat == token.Other {
		if factor, err = p.scanDecimal(ch, c); err != nil {
			return dimen.Zero, err
		}
	} else {
		c.Push(obj)
		return dimen.Zero, p.newError(ErrNotDimension, obj)
	}
	l, err := p.scanUnit(c, factor)
	if neg {
		l = l.Negate()
	}
	return l, err
}

func (p *Parser) scanDecimal(first token.Char, c Cursor) (decimal.Decimal, error) {
	var b strings.Builder
	b.WriteRune(first.Code)
	sep := first.Code == '.' || first.Code == ','
	for {
		obj, err := p.PopExpanded(c)
		if err == io.EOF {
			break
		} else if err != nil {
			return decimal.Zero, err
		}
		ch, ok := obj.(token.Char)
		if ok && ch.Cat == token.Other && ch.Code >= '0' && ch.Code <= '9' {
			b.WriteRune(ch.Code)
			continue
		}
		if ok && ch.Cat == token.Other && (ch.Code == '.' || ch.Code == ',') && !sep {
			sep = true
			b.WriteRune(ch.Code)
			continue
		}
		c.Push(obj)
		break
	}
	d, err := dimen.ParseDecimal(b.String())
	if err != nil {
		return d, p.wrapError(err, ErrNotDimension, b.String())
	}
	return d, nil
}

func (p *Parser) scanUnit(c Cursor, factor decimal.Decimal) (dimen.Length, error) {
	if err := p.SkipSpaces(c); err != nil {
		return dimen.Zero, err
	}
	if obj, err := c.Peek(); err == nil {
		if cmd := p.Resolve(obj); cmd != nil && cmd.Unwrap().quantity != nil {
			c.Pop()
			v, err := cmd.Unwrap().quantity(p, c)
			if err != nil {
				return dimen.Zero, err
			}
			if d, ok := v.(token.Dimen); ok {
				return d.Length.Scale(factor), nil
			}
			return dimen.Zero, p.newError(ErrMissingUnit, obj)
		}
	}
	if _, err := p.PopKeyword(c, "true"); err != nil {
		return dimen.Zero, err
	}
	for _, u := range dimen.Units() {
		ok, err := p.PopKeyword(c, u)
		if err != nil {
			return dimen.Zero, err
		}
		if ok {
			unit, _ := dimen.UnitFromString(u)
			return dimen.New(factor, unit), p.popOptionalSpace(c)
		}
	}
	next, _ := c.Peek()
	return dimen.Zero, p.newError(ErrMissingUnit, next)
}
