package primitives

import (
	"io"
	"strings"

	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/token"
)

func expansionCommands() []*engine.Command {
	return []*engine.Command{
		engine.NewExpandable("expandafter", expandafter),
		engine.NewExpandable("noexpand", noexpand),
		engine.NewExpandable("csname", csname),
		engine.NewPrimitive("endcsname", 0, func(p *engine.Parser, c engine.Cursor) error {
			return p.Errorf(engine.ErrMisplaced, token.Cs("endcsname"))
		}),
		engine.NewExpandable("string", stringify),
		engine.NewExpandable("number", number),
		engine.NewExpandable("romannumeral", romannumeral),
		engine.WithCaps(engine.NewExpandable("the", the), engine.CapOpaqueResult),
		engine.NewExpandable("meaning", meaning),
		engine.NewExpandable("detokenize", detokenize),
		engine.WithCaps(engine.NewExpandable("unexpanded", unexpanded), engine.CapOpaqueResult),
	}
}

// expandafter expands the token after the next one, once.
func expandafter(p *engine.Parser, c engine.Cursor) (token.List, error) {
	t1, err := p.PopToken(c, "\\expandafter")
	if err != nil {
		return nil, err
	}
	t2, err := p.PopToken(c, "\\expandafter")
	if err != nil {
		return nil, err
	}
	l, ok, err := p.ExpandOnce(t2, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return token.List{t1, t2}, nil
	}
	return append(token.List{t1}, l...), nil
}

func noexpand(p *engine.Parser, c engine.Cursor) (token.List, error) {
	t, err := p.PopToken(c, "\\noexpand")
	if err != nil {
		return nil, err
	}
	if cmd := p.Resolve(t); cmd != nil && cmd.IsExpandable() {
		return token.List{engine.NoExpand(t)}, nil
	}
	return token.List{t}, nil
}

// scanCsName reads the characters of a control sequence name up to
// \endcsname, expanding macros on the way.
func scanCsName(p *engine.Parser, c engine.Cursor) (string, error) {
	var b strings.Builder
	for {
		obj, err := p.PopExpanded(c)
		if err == io.EOF {
			return "", p.Errorf(engine.ErrMissingEndCsname, "end of input")
		} else if err != nil {
			return "", err
		}
		if ch, ok := obj.(token.Char); ok {
			b.WriteRune(ch.Code)
			continue
		}
		if cmd := p.Resolve(obj); cmd != nil && cmd.Is("endcsname") {
			return b.String(), nil
		}
		return "", p.Errorf(engine.ErrMissingEndCsname, obj)
	}
}

// csname yields the control sequence \csname…\endcsname names. An
// undefined name is defined as \relax, locally.
func csname(p *engine.Parser, c engine.Cursor) (token.List, error) {
	name, err := scanCsName(p, c)
	if err != nil {
		return nil, err
	}
	ref := token.Cs(name)
	if !p.IsDefined(ref) {
		p.Bind(ref, engine.NewAlias(name, p.ControlSequence("relax")), false)
	}
	return token.List{ref}, nil
}

func stringify(p *engine.Parser, c engine.Cursor) (token.List, error) {
	t, err := p.PopToken(c, "\\string")
	if err != nil {
		return nil, err
	}
	return t.Explode(p.EscapeChar()), nil
}

func number(p *engine.Parser, c engine.Cursor) (token.List, error) {
	n, err := p.PopNumber(c)
	if err != nil {
		return nil, err
	}
	return token.Others(n.String()), nil
}

func romannumeral(p *engine.Parser, c engine.Cursor) (token.List, error) {
	n, err := p.PopNumber(c)
	if err != nil {
		return nil, err
	}
	return token.Others(roman(int64(n))), nil
}

var romanDigits = []struct {
	value int64
	text  string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// roman renders n in lowercase roman numerals. Non-positive numbers
// yield the empty string.
func roman(n int64) string {
	var b strings.Builder
	for _, d := range romanDigits {
		for n >= d.value {
			b.WriteString(d.text)
			n -= d.value
		}
	}
	return b.String()
}

// the renders an internal quantity. The result of \the on a token
// register is not expanded further inside \edef.
func the(p *engine.Parser, c engine.Cursor) (token.List, error) {
	obj, err := p.PopExpanded(c)
	for err == nil && isSpace(obj) {
		obj, err = p.PopExpanded(c)
	}
	if err == io.EOF {
		return nil, p.Errorf(engine.ErrEOF, "\\the")
	} else if err != nil {
		return nil, err
	}
	v, ok, err := p.Quantity(obj, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.Errorf(engine.ErrNotAssignable, obj, "\\the")
	}
	if l, ok := v.(token.List); ok {
		return l.Copy(), nil
	}
	return token.Others(engine.FormatQuantity(v, p.Settings().Metrics(), p.EscapeChar())), nil
}

func meaning(p *engine.Parser, c engine.Cursor) (token.List, error) {
	t, err := p.PopToken(c, "\\meaning")
	if err != nil {
		return nil, err
	}
	return token.Others(p.Meaning(t)), nil
}

func detokenize(p *engine.Parser, c engine.Cursor) (token.List, error) {
	l, err := p.PopGroup(c, "\\detokenize")
	if err != nil {
		return nil, err
	}
	return l.Explode(p.EscapeChar()), nil
}

// unexpanded yields its argument, which \edef does not expand.
func unexpanded(p *engine.Parser, c engine.Cursor) (token.List, error) {
	return p.PopGroup(c, "\\unexpanded")
}
