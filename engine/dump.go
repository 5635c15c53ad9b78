package engine

import (
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/texparse/dimen"
	"github.com/npillmayer/texparse/token"
)

// Binding is a name together with a printable meaning or value.
type Binding struct {
	Name  string
	Value string
}

// ControlSequences lists the visible control sequences starting with
// prefix, sorted by name.
func (p *Parser) ControlSequences(prefix string) []Binding {
	esc := p.EscapeChar()
	sorted := treemap.NewWithStringComparator()
	for key, obj := range p.settings.VisibleControlSequences() {
		name := token.KeyName(key)
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		meaning := obj.Format(esc)
		if cmd, ok := obj.(*Command); ok {
			meaning = cmd.Meaning(esc)
		}
		sorted.Put(name, meaning)
	}
	return bindings(sorted)
}

// Registers lists the register values visible in the current group,
// sorted by register name.
func (p *Parser) Registers() []Binding {
	m := p.settings.Metrics()
	sorted := treemap.NewWithStringComparator()
	for name, v := range p.settings.VisibleRegisters() {
		sorted.Put(name, FormatQuantity(v, m, p.EscapeChar()))
	}
	return bindings(sorted)
}

func bindings(sorted *treemap.Map) []Binding {
	list := make([]Binding, 0, sorted.Size())
	it := sorted.Iterator()
	for it.Next() {
		list = append(list, Binding{Name: it.Key().(string), Value: it.Value().(string)})
	}
	return list
}

// FormatQuantity renders a register value the way \the does.
func FormatQuantity(v token.Object, m dimen.Metrics, esc rune) string {
	switch t := v.(type) {
	case token.Dimen:
		return t.Length.TeXString(m)
	case nil:
		return ""
	}
	return v.Format(esc)
}
