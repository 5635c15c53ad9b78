package primitives

import (
	"strings"

	"github.com/npillmayer/texparse/dimen"
	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/token"
	"github.com/shopspring/decimal"
	lua "github.com/yuin/gopher-lua"
)

// luaExtension is the key of the Lua state in a parser's extensions.
const luaExtension = "primitives.lua"

// luaState is the Lua interpreter of a parser. Lines printed by Lua code
// are collected and read by the parser when the chunk has finished.
type luaState struct {
	L     *lua.LState
	p     *engine.Parser
	lines []string
}

// luaCommand creates \directlua{…}, which runs a chunk of Lua code and
// reads what it prints via tex.print and tex.sprint.
func luaCommand() *engine.Command {
	return engine.NewExpandable("directlua", func(p *engine.Parser, c engine.Cursor) (token.List, error) {
		code, err := p.PopGroup(c, "\\directlua")
		if err != nil {
			return nil, err
		}
		if code, err = p.ExpandFully(code, nil); err != nil {
			return nil, err
		}
		return RunLua(p, code.Format('\\'))
	})
}

// RunLua runs a chunk of Lua code in the interpreter of p and returns
// what the chunk printed, tokenized with the current category codes.
func RunLua(p *engine.Parser, code string) (token.List, error) {
	ls := luaFor(p)
	ls.lines = ls.lines[:0]
	tracer().Debugf("lua: %s", code)
	if err := ls.L.DoString(code); err != nil {
		return nil, p.Errorf(engine.ErrLua, err)
	}
	if len(ls.lines) == 0 {
		return nil, nil
	}
	return p.Tokenize(strings.Join(ls.lines, "\n"))
}

func luaFor(p *engine.Parser) *luaState {
	if ls, ok := p.Extension(luaExtension).(*luaState); ok {
		return ls
	}
	ls := &luaState{L: lua.NewState(), p: p}
	ls.openTeX()
	p.SetExtension(luaExtension, ls)
	p.OnClose(ls.L.Close)
	return ls
}

// openTeX installs the global table tex.
func (ls *luaState) openTeX() {
	L := ls.L
	tex := L.NewTable()
	L.SetField(tex, "print", L.NewFunction(ls.print))
	L.SetField(tex, "sprint", L.NewFunction(ls.sprint))
	L.SetField(tex, "count", ls.registerTable(engine.CountRegister))
	L.SetField(tex, "dimen", ls.registerTable(engine.DimenRegister))
	L.SetGlobal("tex", tex)
}

// print adds every argument as a line of its own.
func (ls *luaState) print(L *lua.LState) int {
	for i := 1; i <= L.GetTop(); i++ {
		ls.lines = append(ls.lines, L.ToStringMeta(L.Get(i)).String())
	}
	return 0
}

// sprint appends its arguments to the current line.
func (ls *luaState) sprint(L *lua.LState) int {
	var b strings.Builder
	for i := 1; i <= L.GetTop(); i++ {
		b.WriteString(L.ToStringMeta(L.Get(i)).String())
	}
	if n := len(ls.lines); n > 0 {
		ls.lines[n-1] += b.String()
	} else {
		ls.lines = append(ls.lines, b.String())
	}
	return 0
}

// registerTable creates a table proxying registers of type typ. Numeric
// keys address numbered registers (tex.count[5]), string keys named ones
// (tex.count.mycounter). Dimensions are read and written in points.
func (ls *luaState) registerTable(typ engine.RegisterType) *lua.LTable {
	L := ls.L
	key := func(L *lua.LState) string {
		if n, ok := L.Get(2).(lua.LNumber); ok {
			return registerKey(typ, token.Number(n))
		}
		return L.CheckString(2)
	}
	mt := L.NewTable()
	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		switch v := ls.p.RegisterValue(key(L), typ).(type) {
		case token.Number:
			L.Push(lua.LNumber(v))
		case token.Dimen:
			f, _ := v.Length.InPoints(ls.p.Settings().Metrics()).Float64()
			L.Push(lua.LNumber(f))
		default:
			L.Push(lua.LNil)
		}
		return 1
	}))
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		name := key(L)
		n := L.CheckNumber(3)
		if typ == engine.DimenRegister {
			l := dimen.New(decimal.NewFromFloat(float64(n)), dimen.PT)
			ls.p.SetRegister(name, token.NewDimen(l), false)
			return 0
		}
		ls.p.SetRegister(name, token.Number(int64(n)), false)
		return 0
	}))
	t := L.NewTable()
	L.SetMetatable(t, mt)
	return t
}
