package token

import "fmt"

// Catcode is the category code TeX assigns to a character at the time it
// is read.
type Catcode uint8

// Category codes as defined by TeX.
const (
	Escape      Catcode = 0
	BeginGroup  Catcode = 1
	EndGroup    Catcode = 2
	MathShift   Catcode = 3
	AlignTab    Catcode = 4
	EndOfLine   Catcode = 5
	Parameter   Catcode = 6
	Superscript Catcode = 7
	Subscript   Catcode = 8
	Ignored     Catcode = 9
	Space       Catcode = 10
	Letter      Catcode = 11
	Other       Catcode = 12
	Active      Catcode = 13
	Comment     Catcode = 14
	Invalid     Catcode = 15
)

var catcodeNames = [...]string{
	"escape character",
	"begin-group character",
	"end-group character",
	"math shift character",
	"alignment tab character",
	"end-of-line character",
	"macro parameter character",
	"superscript character",
	"subscript character",
	"ignored character",
	"blank space",
	"the letter",
	"the character",
	"active character",
	"comment character",
	"invalid character",
}

func (c Catcode) String() string {
	if int(c) < len(catcodeNames) {
		return catcodeNames[c]
	}
	return fmt.Sprintf("catcode(%d)", uint8(c))
}

// Valid is true for catcodes 0…15.
func (c Catcode) Valid() bool {
	return c <= Invalid
}

// DefaultCatcode returns the category code the initial (IniTeX + LaTeX)
// table assigns to r.
func DefaultCatcode(r rune) Catcode {
	switch r {
	case '\\':
		return Escape
	case '{':
		return BeginGroup
	case '}':
		return EndGroup
	case '$':
		return MathShift
	case '&':
		return AlignTab
	case '\n', '\r':
		return EndOfLine
	case '#':
		return Parameter
	case '^':
		return Superscript
	case '_':
		return Subscript
	case 0:
		return Ignored
	case ' ', '\t':
		return Space
	case '~':
		return Active
	case '%':
		return Comment
	case 0x7f:
		return Invalid
	}
	if isLetter(r) {
		return Letter
	}
	return Other
}
