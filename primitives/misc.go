package primitives

import (
	"io"
	"strings"

	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/scope"
	"github.com/npillmayer/texparse/token"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func miscCommands() []*engine.Command {
	return []*engine.Command{
		engine.NewPrimitive("relax", 0, nop),
		engine.NewPrimitive("par", 0, func(p *engine.Parser, c engine.Cursor) error {
			return p.Listener().Par(p)
		}),
		engine.NewPrimitive("begingroup", 0, func(p *engine.Parser, c engine.Cursor) error {
			p.StartGroup(scope.SemiSimpleGroup, "")
			return nil
		}),
		engine.NewPrimitive("endgroup", 0, func(p *engine.Parser, c engine.Cursor) error {
			return p.EndGroup(scope.SemiSimpleGroup, "")
		}),
		engine.NewCharCommand("bgroup", token.Char{Code: '{', Cat: token.BeginGroup}),
		engine.NewCharCommand("egroup", token.Char{Code: '}', Cat: token.EndGroup}),
		engine.NewPrimitive("char", 0, func(p *engine.Parser, c engine.Cursor) error {
			r, err := popCharCode(p, c)
			if err != nil {
				return err
			}
			return p.Listener().Character(p, token.Char{Code: r, Cat: token.Other})
		}),
		engine.NewPrimitive("uppercase", 0, changeCase("uppercase", true)),
		engine.NewPrimitive("lowercase", 0, changeCase("lowercase", false)),
		engine.NewPrimitive("ignorespaces", 0, func(p *engine.Parser, c engine.Cursor) error {
			return p.SkipSpaces(c)
		}),
		engine.NewPrimitive("message", 0, message),
		engine.NewPrimitive("errmessage", 0, errmessage),
		engine.NewPrimitive("show", 0, show),
		engine.NewPrimitive("showthe", 0, showthe),
		engine.NewPrimitive("input", 0, input),
		engine.NewPrimitive("endinput", 0, func(p *engine.Parser, c engine.Cursor) error {
			p.EndInput()
			return nil
		}),
		engine.NewPrimitive("aftergroup", 0, aftergroup),
		engine.NewPrimitive("hskip", 0, skip(false)),
		engine.NewPrimitive("vskip", 0, skip(true)),
	}
}

// changeCase maps letters and other characters of a group to upper or
// lower case and reads them again.
func changeCase(name string, upper bool) engine.ProcessFunc {
	owner := token.Cs(name).String()
	return func(p *engine.Parser, c engine.Cursor) error {
		l, err := p.PopGroup(c, owner)
		if err != nil {
			return err
		}
		c.Push(MapCase(l, upper)...)
		return nil
	}
}

// MapCase returns a copy of l with the codes of letters and other
// characters mapped to upper or lower case. Characters with a case mapping
// to more than one rune, like ß, are left alone.
func MapCase(l token.List, upper bool) token.List {
	caser := cases.Lower(language.Und)
	if upper {
		caser = cases.Upper(language.Und)
	}
	out := make(token.List, len(l))
	for i, obj := range l {
		ch, ok := obj.(token.Char)
		if !ok || (ch.Cat != token.Letter && ch.Cat != token.Other) {
			out[i] = obj.Clone()
			continue
		}
		if r := []rune(caser.String(string(ch.Code))); len(r) == 1 {
			ch.Code = r[0]
		}
		out[i] = ch
	}
	return out
}

// popMessage reads a braced text and expands it fully.
func popMessage(p *engine.Parser, c engine.Cursor, owner string) (string, error) {
	l, err := p.PopGroup(c, owner)
	if err != nil {
		return "", err
	}
	if l, err = p.ExpandFully(l, nil); err != nil {
		return "", err
	}
	return l.Format(p.EscapeChar()), nil
}

func message(p *engine.Parser, c engine.Cursor) error {
	msg, err := popMessage(p, c, "\\message")
	if err != nil {
		return err
	}
	p.Messagef("%s", msg)
	return nil
}

func errmessage(p *engine.Parser, c engine.Cursor) error {
	msg, err := popMessage(p, c, "\\errmessage")
	if err != nil {
		return err
	}
	return p.Errorf(engine.ErrUser, msg)
}

func show(p *engine.Parser, c engine.Cursor) error {
	t, err := p.PopToken(c, "\\show")
	if err != nil {
		return err
	}
	if _, ok := t.(token.Char); ok {
		p.Messagef("> %s.", p.Meaning(t))
		return nil
	}
	p.Messagef("> %s=%s.", t.Format(p.EscapeChar()), p.Meaning(t))
	return nil
}

func showthe(p *engine.Parser, c engine.Cursor) error {
	l, err := the(p, c)
	if err != nil {
		return err
	}
	p.Messagef("> %s.", l.Format(p.EscapeChar()))
	return nil
}

// input reads a file name, either braced or terminated by a blank, and
// starts reading the file.
func input(p *engine.Parser, c engine.Cursor) error {
	obj, err := p.PopExpanded(c)
	for err == nil && isSpace(obj) {
		obj, err = p.PopExpanded(c)
	}
	if err == io.EOF {
		return p.Errorf(engine.ErrEOF, "file name")
	} else if err != nil {
		return err
	}
	var name strings.Builder
	if ch, ok := obj.(token.Char); ok && ch.Cat == token.BeginGroup {
		c.Push(obj)
		text, err := p.PopText(c)
		if err != nil {
			return err
		}
		name.WriteString(text)
	} else {
		for {
			ch, ok := obj.(token.Char)
			if !ok || ch.Cat == token.Space {
				if !ok {
					c.Push(obj)
				}
				break
			}
			name.WriteRune(ch.Code)
			if obj, err = p.PopExpanded(c); err == io.EOF {
				break
			} else if err != nil {
				return err
			}
		}
	}
	if name.Len() == 0 {
		return p.Errorf(engine.ErrExpected, "file name", obj)
	}
	return p.PushFile(name.String())
}

func aftergroup(p *engine.Parser, c engine.Cursor) error {
	t, err := p.PopToken(c, "\\aftergroup")
	if err != nil {
		return err
	}
	p.AfterGroup(func() error {
		p.Input().Push(t)
		return nil
	})
	return nil
}

// skip creates \hskip and \vskip. Stretch and shrink components are read
// and dropped.
func skip(vertical bool) engine.ProcessFunc {
	return func(p *engine.Parser, c engine.Cursor) error {
		l, err := p.PopDimension(c)
		if err != nil {
			return err
		}
		for _, kw := range []string{"plus", "minus"} {
			ok, err := p.PopKeyword(c, kw)
			if err != nil {
				return err
			}
			if ok {
				if err = popGlueComponent(p, c); err != nil {
					return err
				}
			}
		}
		return p.Listener().Spacer(p, l, vertical)
	}
}

// popGlueComponent reads a stretch or shrink component, which may use
// the infinite units fil, fill and filll.
func popGlueComponent(p *engine.Parser, c engine.Cursor) error {
	_, err := p.PopDimension(c)
	if err == nil || engine.ErrorKindOf(err) != engine.ErrMissingUnit {
		return err
	}
	ok, err := p.PopKeyword(c, "fil")
	if err != nil {
		return err
	}
	if !ok {
		return p.Errorf(engine.ErrMissingUnit, "glue")
	}
	for i := 0; i < 2; i++ {
		if ok, err = p.PopKeyword(c, "l"); !ok || err != nil {
			return err
		}
	}
	return nil
}
