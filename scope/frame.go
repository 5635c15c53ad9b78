package scope

import (
	"fmt"

	"github.com/npillmayer/texparse/dimen"
	"github.com/npillmayer/texparse/token"
)

// GroupKind tells what started a group.
type GroupKind uint8

// Kinds of groups.
const (
	GlobalGroup     GroupKind = iota // the root frame
	BraceGroup                       // { … }
	SemiSimpleGroup                  // \begingroup … \endgroup
	EnvironmentGroup                 // \begin{x} … \end{x}
	MathGroup                        // $ … $ or $$ … $$
	CellGroup                        // a cell of an alignment
)

var groupNames = [...]string{"global", "brace", "semi-simple", "environment", "math", "cell"}

func (k GroupKind) String() string {
	if int(k) < len(groupNames) {
		return groupNames[k]
	}
	return fmt.Sprintf("group(%d)", uint8(k))
}

// EndHook is called when the frame it is registered with is popped.
type EndHook func() error

// Frame is one level of the settings stack.
type Frame struct {
	ID     string    // name of an environment, or a description
	Kind   GroupKind // what opened the frame
	Parent *Frame
	Level  int // nesting depth, 0 for the root frame

	catcodes  map[rune]token.Catcode
	cs        map[string]token.Object
	registers map[string]token.Object
	font      Font
	mode      Mode
	align     *Alignment
	changed   []string
	hooks     []EndHook
}

func newFrame(kind GroupKind, id string, parent *Frame) *Frame {
	f := &Frame{
		ID:     id,
		Kind:   kind,
		Parent: parent,
		font:   inheritFont,
		mode:   ModeInherit,
	}
	if parent != nil {
		f.Level = parent.Level + 1
	}
	return f
}

func (f *Frame) String() string {
	if f.ID == "" {
		return fmt.Sprintf("<%s group %d>", f.Kind, f.Level)
	}
	return fmt.Sprintf("<%s group %d %q>", f.Kind, f.Level, f.ID)
}

// Changed lists the settings changed in this frame, in order of their
// first change. Keys look like "cs:foo", "catcode:@", "reg:count0",
// "font:weight", "mode" and "align".
func (f *Frame) Changed() []string {
	return f.changed
}

// AddEndHook registers a function to be called when the frame is popped.
func (f *Frame) AddEndHook(h EndHook) {
	f.hooks = append(f.hooks, h)
}

// EndHooks returns the hooks in order of registration.
func (f *Frame) EndHooks() []EndHook {
	return f.hooks
}

func (f *Frame) note(key string) {
	for _, k := range f.changed {
		if k == key {
			return
		}
	}
	f.changed = append(f.changed, key)
}

// ---------------------------------------------------------------------------

// Column describes a column of an alignment.
type Column struct {
	Align rune         // 'l', 'c', 'r' or 'p'
	Width dimen.Length // for 'p' columns
}

// Alignment is the state of a tabular construct.
type Alignment struct {
	Columns []Column
	Row     int
	Column  int
}

// ---------------------------------------------------------------------------

// ErrNoGroup is returned when ending a group while only the root frame is
// left.
var ErrNoGroup = fmt.Errorf("no group to end")

// MismatchError is returned when a group is ended by a construct which did
// not start it, for example a } closing a \begingroup.
type MismatchError struct {
	Open   GroupKind
	OpenID string
	Kind   GroupKind
	ID     string
}

func (e *MismatchError) Error() string {
	if e.Open == EnvironmentGroup && e.Kind == EnvironmentGroup {
		return fmt.Sprintf("environment %q ended by \\end{%s}", e.OpenID, e.ID)
	}
	return fmt.Sprintf("%s group ended by end of %s group", e.Open, e.Kind)
}
