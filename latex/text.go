package latex

import (
	"strings"

	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/primitives"
	"github.com/npillmayer/texparse/scope"
)

func textCommands() []*engine.Command {
	return []*engine.Command{
		engine.NewPrimitive("label", 0, func(p *engine.Parser, c engine.Cursor) error {
			label, err := p.PopText(c)
			if err != nil {
				return err
			}
			return p.Listener().Anchor(p, label)
		}),
		engine.NewPrimitive("href", 0, href),
		engine.NewPrimitive("hspace", 0, space(false)),
		engine.NewPrimitive("vspace", 0, space(true)),
		engine.NewPrimitive("\\", 0, newline),
		engine.NewPrimitive("MakeUppercase", 0, makeCase(true)),
		engine.NewPrimitive("MakeLowercase", 0, makeCase(false)),
	}
}

// href reads a target and a text. The target is taken literally, the text
// is processed in a group of its own, between the begin and end of the
// link.
func href(p *engine.Parser, c engine.Cursor) error {
	target, err := p.PopArg(c)
	if err != nil {
		return err
	}
	text, err := p.PopArg(c)
	if err != nil {
		return err
	}
	url := strings.TrimSpace(target.Format(p.EscapeChar()))
	if err = p.Listener().Link(p, url, true); err != nil {
		return err
	}
	p.StartGroup(scope.SemiSimpleGroup, "href")
	closer := engine.NewPrimitive("href", 0, func(p *engine.Parser, c engine.Cursor) error {
		if err := p.EndGroup(scope.SemiSimpleGroup, "href"); err != nil {
			return err
		}
		return p.Listener().Link(p, url, false)
	})
	c.Push(append(text, closer)...)
	return nil
}

// space creates \hspace and \vspace. The starred forms are accepted.
func space(vertical bool) engine.ProcessFunc {
	return func(p *engine.Parser, c engine.Cursor) error {
		p.PopStar(c)
		arg, err := p.PopArg(c)
		if err != nil {
			return err
		}
		l, err := p.PopDimension(engine.NewListCursor(arg, nil))
		if err != nil {
			return err
		}
		return p.Listener().Spacer(p, l, vertical)
	}
}

// newline is \\: the next row in an alignment, a line break otherwise. An
// optional star and extra space are read and dropped.
func newline(p *engine.Parser, c engine.Cursor) error {
	p.PopStar(c)
	if _, _, err := p.PopOptArg(c); err != nil {
		return err
	}
	if p.InAlignment() {
		return p.NextRow()
	}
	return p.Listener().LineBreak(p)
}

// makeCase creates \MakeUppercase and \MakeLowercase, which change the
// case of the fully expanded argument.
func makeCase(upper bool) engine.ProcessFunc {
	return func(p *engine.Parser, c engine.Cursor) error {
		arg, err := p.PopArg(c)
		if err != nil {
			return err
		}
		if arg, err = p.ExpandFully(arg, nil); err != nil {
			return err
		}
		c.Push(primitives.MapCase(arg, upper)...)
		return nil
	}
}
