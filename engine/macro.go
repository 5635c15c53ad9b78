package engine

import (
	"io"
	"strings"

	"github.com/npillmayer/texparse/token"
)

// Macro is the definition of a macro. Params is the parameter text,
// consisting of token.Param placeholders and delimiter tokens. Body is the
// replacement text, with token.Param placeholders for the arguments.
//
// If Optional is not nil, the macro takes an optional first argument in
// brackets, with Optional as the default (this is how LaTeX's \newcommand
// defines macros). Params then starts with #1.
type Macro struct {
	Params    token.List
	Body      token.List
	Optional  token.List
	Long      bool
	Protected bool
}

// Arity is the number of parameters.
func (m *Macro) Arity() int {
	n := 0
	for _, o := range m.Params {
		if _, ok := o.(token.Param); ok {
			n++
		}
	}
	return n
}

// Expand substitutes args into the body. args is indexed by parameter
// number. The result does not share state with the definition.
func (m *Macro) Expand(args []token.List) token.List {
	out := make(token.List, 0, len(m.Body))
	for _, o := range m.Body {
		if prm, ok := o.(token.Param); ok {
			if prm.N < len(args) {
				for _, a := range args[prm.N] {
					out = append(out, a.Clone())
				}
			}
			continue
		}
		out = append(out, o.Clone())
	}
	return out
}

// Equal compares two definitions, as \ifx does.
func (m *Macro) Equal(o *Macro) bool {
	return m.Long == o.Long && m.Protected == o.Protected &&
		m.Params.Equal(o.Params) && m.Body.Equal(o.Body) &&
		(m.Optional == nil) == (o.Optional == nil) && m.Optional.Equal(o.Optional)
}

// Meaning is the text \meaning shows for the macro.
func (m *Macro) Meaning(esc rune) string {
	var b strings.Builder
	if m.Protected {
		b.WriteString(token.Cs("protected").Format(esc) + " ")
	}
	if m.Long {
		b.WriteString(token.Cs("long").Format(esc) + " ")
	}
	b.WriteString("macro:")
	if m.Optional != nil {
		b.WriteString("[" + m.Optional.Format(esc) + "]")
	}
	b.WriteString(formatParams(m.Params, esc))
	b.WriteString("->")
	b.WriteString(formatParams(m.Body, esc))
	return b.String()
}

func formatParams(l token.List, esc rune) string {
	var b strings.Builder
	for i, o := range l {
		if ch, ok := o.(token.Char); ok && ch.Cat == token.Parameter {
			b.WriteString("##")
			continue
		}
		b.WriteString(o.Format(esc))
		if cs, ok := o.(token.CsRef); ok && cs.IsControlWord() && i+1 < len(l) {
			if ch, ok := l[i+1].(token.Char); ok && ch.Cat == token.Letter {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

// --- Definitions ----------------------------------------------------------

// ScanParameterText reads the parameter text of a definition, up to the
// opening brace of the body, which is left in the input. It returns the
// parameter text and the number of parameters.
func (p *Parser) ScanParameterText(c Cursor, name string) (token.List, int, error) {
	var params token.List
	n := 0
	for {
		obj, err := c.Pop()
		if err == io.EOF {
			return nil, 0, p.newError(ErrEOF, "definition of "+name)
		} else if err != nil {
			return nil, 0, err
		}
		ch, isChar := obj.(token.Char)
		if !isChar {
			params = append(params, obj)
			continue
		}
		switch ch.Cat {
		case token.BeginGroup:
			c.Push(obj)
			return params, n, nil
		case token.EndGroup:
			return nil, 0, p.newError(ErrExpected, "{", obj)
		case token.Parameter:
			next, err := c.Pop()
			if err != nil {
				return nil, 0, p.newError(ErrParamNumber, name)
			}
			if d, ok := next.(token.Char); ok && d.Code == rune('1'+n) && n < 9 {
				n++
				params = append(params, token.Param{N: n})
				continue
			}
			return nil, 0, p.newError(ErrParamNumber, name)
		default:
			params = append(params, obj)
		}
	}
}

// MacroBody converts a raw replacement text: #n becomes a parameter
// placeholder, ## becomes a single parameter character.
func (p *Parser) MacroBody(raw token.List, nparams int, name string) (token.List, error) {
	body := make(token.List, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		ch, ok := raw[i].(token.Char)
		if !ok || ch.Cat != token.Parameter {
			body = append(body, raw[i])
			continue
		}
		if i+1 == len(raw) {
			return nil, p.newError(ErrParamNumber, name)
		}
		i++
		if d, ok := raw[i].(token.Char); ok {
			if d.Cat == token.Parameter {
				body = append(body, d)
				continue
			}
			if n := int(d.Code - '0'); n >= 1 && n <= nparams {
				body = append(body, token.Param{N: n})
				continue
			}
		}
		return nil, p.newError(ErrParamNumber, name)
	}
	return body, nil
}

// ScanDefinition reads parameter text and body of \def\name.
func (p *Parser) ScanDefinition(c Cursor, name string) (*Macro, error) {
	params, n, err := p.ScanParameterText(c, name)
	if err != nil {
		return nil, err
	}
	c.Pop() // the opening brace
	raw, err := p.popBalanced(c, name, true)
	if err != nil {
		return nil, err
	}
	body, err := p.MacroBody(raw, n, name)
	if err != nil {
		return nil, err
	}
	return &Macro{Params: params, Body: body}, nil
}

// --- Invocation -----------------------------------------------------------

func (p *Parser) expandMacro(cmd *Command, c Cursor) (token.List, error) {
	args, err := p.scanArguments(cmd, c)
	if err != nil {
		return nil, err
	}
	tracer().P("macro", cmd.name).Debugf("expanding with %d argument(s)", cmd.macro.Arity())
	return cmd.macro.Expand(args), nil
}

func (p *Parser) scanArguments(cmd *Command, c Cursor) ([]token.List, error) {
	m := cmd.macro
	owner := token.Cs(cmd.name).String()
	args := make([]token.List, 10)
	params := m.Params
	i := 0
	if m.Optional != nil {
		opt, ok, err := p.PopOptArg(c)
		if err != nil {
			return nil, err
		}
		if !ok {
			opt = m.Optional.Copy()
		}
		args[1] = opt
		if len(params) > 0 && token.Equal(params[0], token.Param{N: 1}) {
			i = 1
		}
	}
	for i < len(params) {
		prm, ok := params[i].(token.Param)
		if !ok { // leading delimiter, has to match exactly
			obj, err := c.Pop()
			if err == io.EOF {
				return nil, p.newError(ErrRunaway, owner)
			} else if err != nil {
				return nil, err
			}
			if !token.Equal(obj, params[i]) {
				return nil, p.newError(ErrDefMismatch, owner)
			}
			i++
			continue
		}
		j := i + 1
		for j < len(params) && params[j].Kind() != token.KindParam {
			j++
		}
		var arg token.List
		var err error
		if j == i+1 {
			arg, err = p.popUndelimited(c, owner, m.Long)
		} else {
			arg, err = p.popDelimited(c, params[i+1:j], owner, m.Long)
		}
		if err != nil {
			return nil, err
		}
		args[prm.N] = arg
		i = j
	}
	return args, nil
}

func isPar(obj token.Object) bool {
	cs, ok := obj.(token.CsRef)
	return ok && !cs.Active && cs.Name == "par"
}

func isCat(obj token.Object, cat token.Catcode) bool {
	ch, ok := obj.(token.Char)
	return ok && ch.Cat == cat
}

// popUndelimited reads a single token or a braced group, skipping blanks.
func (p *Parser) popUndelimited(c Cursor, owner string, long bool) (token.List, error) {
	for {
		obj, err := c.Pop()
		if err == io.EOF {
			return nil, p.newError(ErrRunaway, owner)
		} else if err != nil {
			return nil, err
		}
		switch {
		case isCat(obj, token.Space):
			continue
		case isCat(obj, token.BeginGroup):
			return p.popBalanced(c, owner, long)
		case isCat(obj, token.EndGroup):
			return nil, p.newError(ErrMisplaced, "}")
		case !long && isPar(obj):
			return nil, p.newError(ErrParagraphEnded, owner)
		}
		return token.List{obj}, nil
	}
}

// popBalanced reads up to the end group character matching an already
// consumed begin group character. The braces are not part of the result.
func (p *Parser) popBalanced(c Cursor, owner string, long bool) (token.List, error) {
	var l token.List
	depth := 0
	for {
		if err := p.checkpoint(); err != nil {
			return nil, err
		}
		obj, err := c.Pop()
		if err == io.EOF {
			return nil, p.newError(ErrRunaway, owner)
		} else if err != nil {
			return nil, err
		}
		if isCat(obj, token.BeginGroup) {
			depth++
		} else if isCat(obj, token.EndGroup) {
			if depth == 0 {
				return l, nil
			}
			depth--
		} else if !long && isPar(obj) {
			return nil, p.newError(ErrParagraphEnded, owner)
		}
		l = append(l, obj)
	}
}

// popDelimited reads tokens until delim appears at brace level 0.
func (p *Parser) popDelimited(c Cursor, delim token.List, owner string, long bool) (token.List, error) {
	var arg token.List
	depth := 0
	for {
		if err := p.checkpoint(); err != nil {
			return nil, err
		}
		obj, err := c.Pop()
		if err == io.EOF {
			return nil, p.newError(ErrRunaway, owner)
		} else if err != nil {
			return nil, err
		}
		if isCat(obj, token.BeginGroup) {
			depth++
		} else if isCat(obj, token.EndGroup) {
			if depth == 0 {
				return nil, p.newError(ErrMisplaced, "}")
			}
			depth--
		}
		arg = append(arg, obj)
		if depth == 0 && len(arg) >= len(delim) && arg[len(arg)-len(delim):].Equal(delim) {
			arg = arg[:len(arg)-len(delim)]
			break
		}
		if !long && isPar(obj) {
			return nil, p.newError(ErrParagraphEnded, owner)
		}
	}
	if isSingleGroup(arg) {
		arg = arg[1 : len(arg)-1]
	}
	return arg, nil
}

// isSingleGroup is true if l is {…} with matching outer braces.
func isSingleGroup(l token.List) bool {
	if len(l) < 2 || !isCat(l[0], token.BeginGroup) || !isCat(l[len(l)-1], token.EndGroup) {
		return false
	}
	depth := 0
	for i, o := range l {
		if isCat(o, token.BeginGroup) {
			depth++
		} else if isCat(o, token.EndGroup) {
			depth--
			if depth == 0 && i < len(l)-1 {
				return false
			}
		}
	}
	return true
}
