package scope

import (
	"github.com/npillmayer/texparse/dimen"
	"github.com/npillmayer/texparse/token"
	"github.com/shopspring/decimal"
)

// Stack is the stack of settings frames. The zero value is not usable,
// call NewStack.
type Stack struct {
	base *Frame
	tos  *Frame
}

// NewStack creates a stack with a root frame, holding the document
// defaults.
func NewStack() *Stack {
	root := newFrame(GlobalGroup, "global", nil)
	root.font = DefaultFont
	root.mode = ModeText
	return &Stack{base: root, tos: root}
}

// Current gets the innermost frame.
func (s *Stack) Current() *Frame {
	return s.tos
}

// Globals gets the root frame.
func (s *Stack) Globals() *Frame {
	return s.base
}

// Depth is the number of open groups.
func (s *Stack) Depth() int {
	return s.tos.Level
}

// StartGroup pushes a new frame.
func (s *Stack) StartGroup(kind GroupKind, id string) *Frame {
	f := newFrame(kind, id, s.tos)
	s.tos = f
	tracer().P("frame", f).Debugf("start group")
	return f
}

// EndGroup pops the innermost frame, which has to be of the given kind. If
// id is not empty, it has to match the frame's ID. Nothing is changed if
// an error is returned.
//
// The popped frame is returned, so that the caller may run its end hooks.
func (s *Stack) EndGroup(kind GroupKind, id string) (*Frame, error) {
	f := s.tos
	if f == s.base {
		return nil, ErrNoGroup
	}
	if f.Kind != kind || (id != "" && f.ID != id) {
		return nil, &MismatchError{Open: f.Kind, OpenID: f.ID, Kind: kind, ID: id}
	}
	s.tos = f.Parent
	tracer().P("frame", f).Debugf("end group, restoring %v", f.changed)
	return f, nil
}

// Frames calls fn for every frame from the innermost to the root.
func (s *Stack) Frames(fn func(*Frame)) {
	for f := s.tos; f != nil; f = f.Parent {
		fn(f)
	}
}

// --- Generic access to frame tables ---------------------------------------

func lookup[K comparable, V any](s *Stack, tbl func(*Frame) *map[K]V, key K) (V, bool) {
	for f := s.tos; f != nil; f = f.Parent {
		if v, ok := (*tbl(f))[key]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// assign binds key in the current frame. Global assignments bind the key in
// the root frame and in every frame in between where it is bound.
func assign[K comparable, V any](s *Stack, tbl func(*Frame) *map[K]V, key K, v V, ledger string, global bool) {
	put := func(f *Frame) {
		m := tbl(f)
		if *m == nil {
			*m = make(map[K]V)
		}
		(*m)[key] = v
		f.note(ledger)
	}
	if !global {
		put(s.tos)
		return
	}
	for f := s.tos; f != s.base; f = f.Parent {
		if _, ok := (*tbl(f))[key]; ok {
			put(f)
		}
	}
	put(s.base)
}

func catcodes(f *Frame) *map[rune]token.Catcode { return &f.catcodes }
func controls(f *Frame) *map[string]token.Object { return &f.cs }
func registers(f *Frame) *map[string]token.Object { return &f.registers }

// --- Catcodes -------------------------------------------------------------

// Catcode returns the category code currently assigned to r.
func (s *Stack) Catcode(r rune) token.Catcode {
	if c, ok := lookup(s, catcodes, r); ok {
		return c
	}
	return token.DefaultCatcode(r)
}

// SetCatcode changes the category code of r.
func (s *Stack) SetCatcode(r rune, c token.Catcode, global bool) {
	assign(s, catcodes, r, c, "catcode:"+string(r), global)
}

// --- Control sequences ----------------------------------------------------

// ControlSequence finds the object bound to a control sequence key, or nil.
func (s *Stack) ControlSequence(key string) token.Object {
	obj, _ := lookup(s, controls, key)
	return obj
}

// PutControlSequence binds a control sequence key.
func (s *Stack) PutControlSequence(key string, obj token.Object, global bool) {
	assign(s, controls, key, obj, "cs:"+token.KeyName(key), global)
}

// VisibleControlSequences returns all bindings visible from the current
// frame.
func (s *Stack) VisibleControlSequences() map[string]token.Object {
	return visible(s, controls)
}

// --- Registers ------------------------------------------------------------

// Register returns the value of a register.
func (s *Stack) Register(name string) (token.Object, bool) {
	return lookup(s, registers, name)
}

// SetRegister assigns a value to a register.
func (s *Stack) SetRegister(name string, v token.Object, global bool) {
	assign(s, registers, name, v, "reg:"+name, global)
}

// VisibleRegisters returns all register values visible from the current
// frame.
func (s *Stack) VisibleRegisters() map[string]token.Object {
	return visible(s, registers)
}

func visible[V any](s *Stack, tbl func(*Frame) *map[string]V) map[string]V {
	m := make(map[string]V)
	for f := s.tos; f != nil; f = f.Parent {
		for k, v := range *tbl(f) {
			if _, shadowed := m[k]; !shadowed {
				m[k] = v
			}
		}
	}
	return m
}

// --- Font, mode and alignment ---------------------------------------------

// Font returns the font attributes in effect.
func (s *Stack) Font() Font {
	var font Font
	for _, a := range []FontAttr{FontFamily, FontShape, FontWeight, FontSize} {
		font.set(a, s.FontAttr(a))
	}
	return font
}

// FontAttr returns the value of one font attribute in effect.
func (s *Stack) FontAttr(a FontAttr) int {
	for f := s.tos; f != nil; f = f.Parent {
		if v := f.font.Get(a); v != Inherit {
			return v
		}
	}
	return DefaultFont.Get(a)
}

// SetFont changes one font attribute in the current frame.
func (s *Stack) SetFont(a FontAttr, v int) {
	s.tos.font.set(a, v)
	s.tos.note("font:" + a.String())
}

// Mode returns the typesetting mode in effect.
func (s *Stack) Mode() Mode {
	for f := s.tos; f != nil; f = f.Parent {
		if f.mode != ModeInherit {
			return f.mode
		}
	}
	return ModeText
}

// SetMode changes the mode in the current frame.
func (s *Stack) SetMode(m Mode) {
	s.tos.mode = m
	s.tos.note("mode")
}

// Alignment returns the innermost alignment, or nil.
func (s *Stack) Alignment() *Alignment {
	for f := s.tos; f != nil; f = f.Parent {
		if f.align != nil {
			return f.align
		}
	}
	return nil
}

// SetAlignment starts an alignment in the current frame.
func (s *Stack) SetAlignment(a *Alignment) {
	s.tos.align = a
	s.tos.note("align")
}

// --- Metrics --------------------------------------------------------------

// LineWidthRegister is the dimen register percentages refer to.
const LineWidthRegister = "linewidth"

// Metrics returns the sizes relative units currently refer to.
func (s *Stack) Metrics() dimen.Metrics {
	size := s.Font().PointSize()
	base := dimen.DefaultMetrics.PercentBase()
	if r, ok := s.Register(LineWidthRegister); ok {
		if d, ok := r.(token.Dimen); ok && !d.Length.Unit.IsRelative() {
			base = d.Length.InPoints(nil)
		}
	}
	return dimen.FixedMetrics(size, size.Mul(decimal.New(43, -2)), base)
}
