package primitives

import (
	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/token"
)

// Load binds the primitives in the global frame of p.
func Load(p *engine.Parser) {
	for _, group := range [][]*engine.Command{
		definitions(),
		registerCommands(),
		expansionCommands(),
		conditionals(),
		miscCommands(),
		{luaCommand()},
	} {
		for _, cmd := range group {
			p.PutControlSequence(cmd, true)
		}
	}
	p.SetRegister("escapechar", token.Number('\\'), true)
	// \empty and \space are macros in plain TeX and LaTeX
	p.PutControlSequence(engine.NewMacro("empty", &engine.Macro{}), true)
	p.PutControlSequence(engine.NewMacro("space", &engine.Macro{
		Body: token.List{token.Char{Code: ' ', Cat: token.Space}},
	}), true)
	tracer().Debugf("primitives loaded")
}

func isOther(obj token.Object, r rune) bool {
	ch, ok := obj.(token.Char)
	return ok && ch.Code == r && ch.Cat == token.Other
}

func isSpace(obj token.Object) bool {
	ch, ok := obj.(token.Char)
	return ok && ch.Cat == token.Space
}

func nop(*engine.Parser, engine.Cursor) error {
	return nil
}
