package latex

import (
	"strconv"
	"strings"

	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/token"
)

// defineMode tells how a definition treats existing commands.
type defineMode uint8

const (
	defineNew     defineMode = iota // fails for defined commands
	defineRenew                     // fails for undefined commands
	defineProvide                   // keeps defined commands
)

func definitionCommands() []*engine.Command {
	return []*engine.Command{
		newCommand("newcommand", defineNew),
		newCommand("renewcommand", defineRenew),
		newCommand("providecommand", defineProvide),
		newEnvironment("newenvironment", defineNew),
		newEnvironment("renewenvironment", defineRenew),
	}
}

// checkDefinition tells whether a definition of cs may proceed.
func checkDefinition(p *engine.Parser, cs token.CsRef, mode defineMode) (bool, error) {
	defined := p.IsDefined(cs)
	switch {
	case mode == defineNew && defined:
		return false, p.Errorf(engine.ErrAlreadyDefined, cs)
	case mode == defineRenew && !defined:
		return false, p.Errorf(engine.ErrUndefined, cs)
	case mode == defineProvide && defined:
		return false, nil
	}
	return true, nil
}

// popSignature reads the optional number of arguments and the optional
// default of the first argument. The default is nil if there is none.
func popSignature(p *engine.Parser, c engine.Cursor, name string) (int, token.List, error) {
	arity, ok, err := p.PopOptArg(c)
	if err != nil || !ok {
		return 0, nil, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(arity.Format(p.EscapeChar())))
	if err != nil || n < 0 || n > 9 {
		return 0, nil, p.Errorf(engine.ErrParamNumber, name)
	}
	opt, ok, err := p.PopOptArg(c)
	if err != nil || !ok {
		return n, nil, err
	}
	if n == 0 {
		return 0, nil, p.Errorf(engine.ErrParamNumber, name)
	}
	if opt == nil {
		opt = token.List{}
	}
	return n, opt, nil
}

// buildMacro creates a macro with n undelimited parameters.
func buildMacro(p *engine.Parser, raw token.List, n int, opt token.List, name string) (*engine.Macro, error) {
	body, err := p.MacroBody(raw, n, name)
	if err != nil {
		return nil, err
	}
	m := &engine.Macro{Body: body, Optional: opt}
	for i := 1; i <= n; i++ {
		m.Params = append(m.Params, token.Param{N: i})
	}
	return m, nil
}

// newCommand creates \newcommand and its relatives. The starred forms
// define macros which are not long.
func newCommand(name string, mode defineMode) *engine.Command {
	return engine.NewPrimitive(name, 0, func(p *engine.Parser, c engine.Cursor) error {
		long := !p.PopStar(c)
		cs, err := p.PopCs(c)
		if err != nil {
			return err
		}
		n, opt, err := popSignature(p, c, cs.String())
		if err != nil {
			return err
		}
		raw, err := p.PopArg(c)
		if err != nil {
			return err
		}
		ok, err := checkDefinition(p, cs, mode)
		if !ok {
			return err
		}
		m, err := buildMacro(p, raw, n, opt, cs.String())
		if err != nil {
			return err
		}
		m.Long = long
		tracer().P("cs", cs.Name).Debugf("\\%s with %d argument(s)", name, n)
		p.Bind(cs, engine.NewMacro(cs.Name, m), false)
		return nil
	})
}

// newEnvironment creates \newenvironment and \renewenvironment. The
// environment foo is implemented by the macros \foo and \endfoo.
func newEnvironment(name string, mode defineMode) *engine.Command {
	return engine.NewPrimitive(name, 0, func(p *engine.Parser, c engine.Cursor) error {
		long := !p.PopStar(c)
		env, err := p.PopText(c)
		if err != nil {
			return err
		}
		cs := token.Cs(env)
		n, opt, err := popSignature(p, c, cs.String())
		if err != nil {
			return err
		}
		rawBegin, err := p.PopArg(c)
		if err != nil {
			return err
		}
		rawEnd, err := p.PopArg(c)
		if err != nil {
			return err
		}
		if ok, err := checkDefinition(p, cs, mode); !ok {
			return err
		}
		begin, err := buildMacro(p, rawBegin, n, opt, cs.String())
		if err != nil {
			return err
		}
		end, err := buildMacro(p, rawEnd, 0, nil, "\\end"+env)
		if err != nil {
			return err
		}
		begin.Long, end.Long = long, long
		tracer().P("env", env).Debugf("\\%s", name)
		p.Bind(cs, engine.NewMacro(env, begin), false)
		p.Bind(token.Cs("end"+env), engine.NewMacro("end"+env, end), false)
		return nil
	})
}
