package latex

import (
	"context"
	_ "embed"

	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/scope"
	"github.com/npillmayer/texparse/token"
)

//go:embed kernel.tex
var kernel string

// Load binds the LaTeX commands in the global frame of p and reads the
// kernel. The primitives have to be loaded before, and no other input may
// be pending.
func Load(p *engine.Parser) error {
	for _, group := range [][]*engine.Command{
		definitionCommands(),
		environmentCommands(),
		fontCommands(),
		textCommands(),
		{
			mathCommand("(", false, true),
			mathCommand(")", false, false),
			mathCommand("[", true, true),
			mathCommand("]", true, false),
		},
	} {
		for _, cmd := range group {
			p.PutControlSequence(cmd, true)
		}
	}
	return readKernel(p)
}

// readKernel reads the embedded kernel, with line ends ignored.
func readKernel(p *engine.Parser) error {
	p.Settings().SetCatcode('\n', token.Ignored, true)
	defer p.Settings().SetCatcode('\n', token.EndOfLine, true)
	if err := p.PushString("kernel.tex", kernel); err != nil {
		return err
	}
	if err := p.Drain(context.Background()); err != nil {
		return err
	}
	tracer().Debugf("LaTeX kernel loaded")
	return nil
}

func mathCommand(name string, display, begin bool) *engine.Command {
	return engine.NewPrimitive(name, 0, func(p *engine.Parser, c engine.Cursor) error {
		if begin {
			return p.BeginMath(display)
		}
		return p.EndMath(display)
	})
}

// gobble creates a command which reads and drops an optional and a
// mandatory argument, like \documentclass and \usepackage.
func gobble(name string) *engine.Command {
	return engine.NewPrimitive(name, 0, func(p *engine.Parser, c engine.Cursor) error {
		if _, _, err := p.PopOptArg(c); err != nil {
			return err
		}
		arg, err := p.PopArg(c)
		if err == nil {
			tracer().P("cs", name).Debugf("ignoring %s", arg)
		}
		return err
	})
}

// declare sets a font attribute and reports it to the listener, now and
// when the current group ends.
func declare(p *engine.Parser, attr scope.FontAttr, value int) error {
	p.Settings().SetFont(attr, value)
	if err := p.Listener().Declaration(p, attr, value, true); err != nil {
		return err
	}
	p.AfterGroup(func() error {
		return p.Listener().Declaration(p, attr, value, false)
	})
	return nil
}
