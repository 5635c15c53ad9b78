package scope

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Inherit marks a font or mode field which has not been set in a frame.
const Inherit = -1

// FontAttr selects one of the independent font axes.
type FontAttr uint8

// Font axes.
const (
	FontFamily FontAttr = iota
	FontShape
	FontWeight
	FontSize
)

func (a FontAttr) String() string {
	switch a {
	case FontFamily:
		return "family"
	case FontShape:
		return "shape"
	case FontWeight:
		return "weight"
	case FontSize:
		return "size"
	}
	return fmt.Sprintf("attr(%d)", uint8(a))
}

// Font families.
const (
	FamilyRM = iota
	FamilySF
	FamilyTT
	FamilyCal
)

// Font shapes.
const (
	ShapeUp = iota
	ShapeIt
	ShapeSl
	ShapeEm
	ShapeSc
)

// Font weights.
const (
	WeightMd = iota
	WeightBf
)

// Font sizes, in the order of LaTeX's size commands.
const (
	SizeNormal = iota
	SizeLarge
	SizeXLarge
	SizeXXLarge
	SizeHuge
	SizeXHuge
	SizeXXHuge
	SizeSmall
	SizeFootnote
	SizeScript
	SizeTiny
)

// design sizes for a 10pt document, in units of 1/100 pt
var sizePoints = [...]int64{1000, 1200, 1440, 1728, 2074, 2488, 2488, 900, 800, 700, 500}

// Font is the set of font attributes in effect.
type Font struct {
	Family int
	Shape  int
	Weight int
	Size   int
}

// inheritFont is a font which inherits every attribute.
var inheritFont = Font{Family: Inherit, Shape: Inherit, Weight: Inherit, Size: Inherit}

// DefaultFont is the font at the start of a document.
var DefaultFont = Font{Family: FamilyRM, Shape: ShapeUp, Weight: WeightMd, Size: SizeNormal}

// Get returns the value of an attribute.
func (f Font) Get(a FontAttr) int {
	switch a {
	case FontFamily:
		return f.Family
	case FontShape:
		return f.Shape
	case FontWeight:
		return f.Weight
	case FontSize:
		return f.Size
	}
	return Inherit
}

func (f *Font) set(a FontAttr, v int) {
	switch a {
	case FontFamily:
		f.Family = v
	case FontShape:
		f.Shape = v
	case FontWeight:
		f.Weight = v
	case FontSize:
		f.Size = v
	}
}

// PointSize is the design size of the font, in points.
func (f Font) PointSize() decimal.Decimal {
	if f.Size < 0 || f.Size >= len(sizePoints) {
		return decimal.New(10, 0)
	}
	return decimal.New(sizePoints[f.Size], -2)
}

// Mode is the typesetting mode.
type Mode int8

// Modes. ModeInherit marks frames which do not change the mode.
const (
	ModeInherit Mode = Inherit
	ModeText    Mode = 0
	ModeInline  Mode = 1
	ModeDisplay Mode = 2
)

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeInline:
		return "inline math"
	case ModeDisplay:
		return "display math"
	}
	return "inherit"
}

// IsMath is true for both math modes.
func (m Mode) IsMath() bool {
	return m == ModeInline || m == ModeDisplay
}
