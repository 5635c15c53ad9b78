package token

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind tells the variant of an Object.
type Kind uint8

// Kinds of objects.
const (
	KindChar Kind = iota
	KindCs
	KindParam
	KindList
	KindGroup
	KindNumber
	KindDimen
	KindCommand // a bound command, see package engine
	KindMarker  // engine-internal objects
)

var kindNames = [...]string{"char", "cs", "param", "list", "group", "number", "dimen", "command", "marker"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Object is the common interface of everything the engine handles.
//
// Format renders the object the way it would be written in source, using
// esc as the escape character. Explode returns the object as a list of
// characters of category 'other' (spaces stay spaces), which is the result
// of TeX's \string and \detokenize.
type Object interface {
	Kind() Kind
	Clone() Object
	String() string
	Format(esc rune) string
	Explode(esc rune) List
}

// ---------------------------------------------------------------------------

// Char is a character together with its category code.
type Char struct {
	Code rune
	Cat  Catcode
}

// NewChar creates a character with the initial category code of r.
func NewChar(r rune) Char {
	return Char{Code: r, Cat: DefaultCatcode(r)}
}

// Kind is KindChar.
func (c Char) Kind() Kind { return KindChar }

// Clone returns c.
func (c Char) Clone() Object { return c }

func (c Char) String() string {
	return string(c.Code)
}

// Format renders c as a string of one rune.
func (c Char) Format(esc rune) string {
	return string(c.Code)
}

// Explode returns c with category 'other', or a blank space.
func (c Char) Explode(esc rune) List {
	return List{otherChar(c.Code)}
}

// Meaning is the text TeX's \meaning shows for a character, e.g.
// "the letter a".
func (c Char) Meaning() string {
	if c.Cat == Space {
		return "blank space  "
	}
	return c.Cat.String() + " " + string(c.Code)
}

// IsSpace is true for characters of category 'space'.
func (c Char) IsSpace() bool {
	return c.Cat == Space
}

func otherChar(r rune) Char {
	if r == ' ' {
		return Char{Code: r, Cat: Space}
	}
	return Char{Code: r, Cat: Other}
}

// ---------------------------------------------------------------------------

// CsRef references a control sequence by name. Active characters are
// references, too, living in a separate name space.
type CsRef struct {
	Name   string
	Active bool
}

// Cs creates a reference to the control sequence \name.
func Cs(name string) CsRef {
	return CsRef{Name: name}
}

// ActiveChar creates a reference to the active character r.
func ActiveChar(r rune) CsRef {
	return CsRef{Name: string(r), Active: true}
}

const activePrefix = "\x01active:"

// Key is the name under which the reference is bound in the settings.
func (cs CsRef) Key() string {
	if cs.Active {
		return activePrefix + cs.Name
	}
	return cs.Name
}

// KeyName converts a settings key back to a printable name.
func KeyName(key string) string {
	return strings.TrimPrefix(key, activePrefix)
}

// Kind is KindCs.
func (cs CsRef) Kind() Kind { return KindCs }

// Clone returns cs.
func (cs CsRef) Clone() Object { return cs }

func (cs CsRef) String() string {
	return cs.Format('\\')
}

// Format prefixes the name with esc, unless cs is an active character.
func (cs CsRef) Format(esc rune) string {
	if cs.Active {
		return cs.Name
	}
	if esc < 0 {
		return cs.Name
	}
	return string(esc) + cs.Name
}

// Explode returns the characters of Format(esc).
func (cs CsRef) Explode(esc rune) List {
	return Others(cs.Format(esc))
}

// IsControlWord is true if the name of cs consists of letters only.
func (cs CsRef) IsControlWord() bool {
	if cs.Active || cs.Name == "" {
		return false
	}
	for _, r := range cs.Name {
		if !isLetter(r) {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------

// Param is the placeholder #N of a macro parameter, 1 ≤ N ≤ 9.
type Param struct {
	N int
}

// Kind is KindParam.
func (p Param) Kind() Kind { return KindParam }

// Clone returns p.
func (p Param) Clone() Object { return p }

func (p Param) String() string {
	return fmt.Sprintf("#%d", p.N)
}

// Format renders p as #N.
func (p Param) Format(esc rune) string {
	return p.String()
}

// Explode returns the characters of #N.
func (p Param) Explode(esc rune) List {
	return Others(p.String())
}

// ---------------------------------------------------------------------------

// Equal is token equality: characters are equal if code and category match,
// control sequences if their names match, lists if they are element-wise
// equal.
func Equal(a, b Object) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Char:
		y, ok := b.(Char)
		return ok && x == y
	case CsRef:
		y, ok := b.(CsRef)
		return ok && x == y
	case Param:
		y, ok := b.(Param)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case Dimen:
		y, ok := b.(Dimen)
		return ok && x.Length.Equal(y.Length)
	case List:
		y, ok := b.(List)
		return ok && x.Equal(y)
	case Group:
		y, ok := b.(Group)
		return ok && List(x).Equal(List(y))
	}
	return a == b
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}
