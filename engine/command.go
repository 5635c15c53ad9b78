package engine

import (
	"fmt"
	"strings"

	"github.com/npillmayer/texparse/scope"
	"github.com/npillmayer/texparse/token"
)

// CommandKind is the variant of a command.
type CommandKind uint8

// Kinds of commands.
const (
	KindPrimitive   CommandKind = iota // built into the engine
	KindMacro                          // defined by \def and friends
	KindDeclaration                    // a setting which ends with its group
	KindRegister                       // a named register
	KindChar                           // a character constant (\let\x=a, \chardef)
	KindAlias                          // created by \let\x=\y
	KindUndefined                      // sentinel for unbound names
)

var commandKindNames = [...]string{"primitive", "macro", "declaration", "register", "char", "alias", "undefined"}

func (k CommandKind) String() string {
	if int(k) < len(commandKindNames) {
		return commandKindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Capability is a set of flags describing what a command supports.
type Capability uint16

// Capabilities.
const (
	CapExpandable       Capability = 1 << iota // may be expanded
	CapAssignment                              // may follow \global and friends
	CapPrefix                                  // is a prefix itself
	CapInternalQuantity                        // yields a value for \the, numbers, dimensions
	CapOpaqueResult                            // expansion result is not re-expanded by ExpandFully
)

// CondRole is the role of a command in conditional constructs.
type CondRole uint8

// Conditional roles.
const (
	CondNone CondRole = iota
	CondIf
	CondElse
	CondOr
	CondFi
)

// RegisterType tells what a register holds.
type RegisterType uint8

// Register types.
const (
	CountRegister RegisterType = iota
	DimenRegister
	ToksRegister
)

func (t RegisterType) String() string {
	switch t {
	case CountRegister:
		return "count"
	case DimenRegister:
		return "dimen"
	}
	return "toks"
}

// ExpandFunc expands a command, reading arguments from c.
type ExpandFunc func(p *Parser, c Cursor) (token.List, error)

// ProcessFunc performs the action of a command, reading arguments from c.
type ProcessFunc func(p *Parser, c Cursor) error

// QuantityFunc reads a value, possibly after reading arguments from c.
// It returns a token.Number, token.Dimen or token.List.
type QuantityFunc func(p *Parser, c Cursor) (token.Object, error)

// TestFunc evaluates the condition of an \if… command.
type TestFunc func(p *Parser, c Cursor) (bool, error)

// EndFunc is called when a declaration goes out of scope.
type EndFunc func(p *Parser) error

// Command is the value bound to a control sequence.
type Command struct {
	name     string
	kind     CommandKind
	caps     Capability
	cond     CondRole
	expand   ExpandFunc
	process  ProcessFunc
	quantity QuantityFunc
	test     TestFunc
	end      EndFunc
	macro    *Macro
	register string
	regType  RegisterType
	char     token.Char
	target   *Command
	action   Action
}

// NewPrimitive creates an unexpandable command.
func NewPrimitive(name string, caps Capability, process ProcessFunc) *Command {
	return &Command{name: name, kind: KindPrimitive, caps: caps &^ CapExpandable, process: process}
}

// NewExpandable creates an expandable primitive.
func NewExpandable(name string, expand ExpandFunc) *Command {
	return &Command{name: name, kind: KindPrimitive, caps: CapExpandable, expand: expand}
}

// NewQuantity creates a primitive yielding an internal quantity, like
// \catcode. If assign is not nil, the quantity may be assigned to.
func NewQuantity(name string, value QuantityFunc, assign ProcessFunc) *Command {
	cmd := &Command{name: name, kind: KindPrimitive, caps: CapInternalQuantity, quantity: value, process: assign}
	if assign != nil {
		cmd.caps |= CapAssignment
	}
	return cmd
}

// NewMacro creates a macro command.
func NewMacro(name string, m *Macro) *Command {
	return &Command{name: name, kind: KindMacro, caps: CapExpandable, macro: m}
}

// NewDeclaration creates a declaration. begin is called when the
// declaration is processed, end when the enclosing group ends.
func NewDeclaration(name string, begin ProcessFunc, end EndFunc) *Command {
	return &Command{name: name, kind: KindDeclaration, process: begin, end: end}
}

// NewFontDeclaration creates a declaration setting a font attribute.
func NewFontDeclaration(name string, attr scope.FontAttr, value int) *Command {
	begin := func(p *Parser, c Cursor) error {
		p.settings.SetFont(attr, value)
		return p.listener.Declaration(p, attr, value, true)
	}
	end := func(p *Parser) error {
		return p.listener.Declaration(p, attr, value, false)
	}
	return NewDeclaration(name, begin, end)
}

// NewRegister creates a command denoting a register. The register is
// stored in the settings under regName.
func NewRegister(name, regName string, typ RegisterType) *Command {
	cmd := &Command{name: name, kind: KindRegister, caps: CapAssignment | CapInternalQuantity, register: regName, regType: typ}
	cmd.quantity = func(p *Parser, c Cursor) (token.Object, error) {
		return p.RegisterValue(regName, typ), nil
	}
	return cmd
}

// NewCharCommand creates a character constant.
func NewCharCommand(name string, ch token.Char) *Command {
	cmd := &Command{name: name, kind: KindChar, caps: CapInternalQuantity, char: ch}
	cmd.quantity = func(*Parser, Cursor) (token.Object, error) {
		return token.Number(ch.Code), nil
	}
	return cmd
}

// NewAlias creates a command which has the meaning of target. Aliases
// always refer to non-alias commands.
func NewAlias(name string, target *Command) *Command {
	target = target.Unwrap()
	return &Command{name: name, kind: KindAlias, caps: target.caps, cond: target.cond, target: target}
}

// NewUndefined creates the sentinel for an unbound name.
func NewUndefined(name string, action Action) *Command {
	return &Command{name: name, kind: KindUndefined, action: action}
}

// NewPrefix creates a prefix command like \global.
func NewPrefix(name string, prefix Prefix) *Command {
	return NewPrimitive(name, CapPrefix, func(p *Parser, c Cursor) error {
		p.prefix |= prefix
		return nil
	})
}

// WithCaps adds capabilities to a newly created command.
func WithCaps(cmd *Command, caps Capability) *Command {
	cmd.caps |= caps
	return cmd
}

// --- Accessors ------------------------------------------------------------

// Name is the name the command has been created with.
func (cmd *Command) Name() string { return cmd.name }

// CommandKind returns the variant of the command.
func (cmd *Command) CommandKind() CommandKind { return cmd.kind }

// Caps returns the capabilities of the command.
func (cmd *Command) Caps() Capability { return cmd.caps }

// Has is true if the command has all capabilities in c.
func (cmd *Command) Has(c Capability) bool { return cmd.caps&c == c }

// CondRole returns the role of the command in conditionals.
func (cmd *Command) CondRole() CondRole { return cmd.cond }

// Macro returns the definition of a macro, or nil.
func (cmd *Command) Macro() *Macro { return cmd.Unwrap().macro }

// Register returns the register name and type of a register command.
func (cmd *Command) Register() (string, RegisterType, bool) {
	c := cmd.Unwrap()
	return c.register, c.regType, c.kind == KindRegister
}

// Char returns the character of a character constant.
func (cmd *Command) Char() (token.Char, bool) {
	c := cmd.Unwrap()
	return c.char, c.kind == KindChar
}

// Unwrap returns the target of an alias, or cmd itself.
func (cmd *Command) Unwrap() *Command {
	if cmd.kind == KindAlias {
		return cmd.target
	}
	return cmd
}

// IsExpandable is true for macros and expandable primitives.
func (cmd *Command) IsExpandable() bool {
	return cmd.Unwrap().caps&CapExpandable != 0
}

// IsUndefined is true for the undefined sentinel, and aliases of it.
func (cmd *Command) IsUndefined() bool {
	return cmd.Unwrap().kind == KindUndefined
}

// Is is true if cmd, after unwrapping, is the primitive named name.
func (cmd *Command) Is(name string) bool {
	c := cmd.Unwrap()
	return c.kind == KindPrimitive && c.name == name
}

// --- token.Object ---------------------------------------------------------

// Kind is token.KindCommand.
func (cmd *Command) Kind() token.Kind { return token.KindCommand }

// Clone returns cmd. Commands are immutable.
func (cmd *Command) Clone() token.Object { return cmd }

func (cmd *Command) String() string {
	return cmd.Format('\\')
}

// Format renders the name of the command.
func (cmd *Command) Format(esc rune) string {
	return token.Cs(cmd.name).Format(esc)
}

// Explode returns the characters of the command's name.
func (cmd *Command) Explode(esc rune) token.List {
	return token.Others(cmd.Format(esc))
}

// Meaning is the text \meaning shows for the command.
func (cmd *Command) Meaning(esc rune) string {
	c := cmd.Unwrap()
	switch c.kind {
	case KindMacro:
		return c.macro.Meaning(esc)
	case KindChar:
		return c.char.Meaning()
	case KindUndefined:
		return "undefined"
	case KindRegister:
		if n := strings.TrimPrefix(c.register, c.regType.String()); n != c.register {
			return token.Cs(c.regType.String()).Format(esc) + n
		}
		return token.Cs(c.register).Format(esc)
	}
	return token.Cs(c.name).Format(esc)
}

var _ token.Object = &Command{}
