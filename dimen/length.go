package dimen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is a unit of measure.
type Unit uint8

// Units known to TeX, plus percentages of the line width.
const (
	PT Unit = iota
	PC
	IN
	BP
	CM
	MM
	DD
	CC
	SP
	EM
	EX
	Percent
)

var unitNames = [...]string{"pt", "pc", "in", "bp", "cm", "mm", "dd", "cc", "sp", "em", "ex", "%"}

func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return fmt.Sprintf("unit(%d)", uint8(u))
}

// UnitFromString finds a unit by its name. Case is not significant.
func UnitFromString(s string) (Unit, bool) {
	s = strings.ToLower(s)
	for i, n := range unitNames {
		if n == s {
			return Unit(i), true
		}
	}
	return PT, false
}

// Units lists the names of all units in TeX's order of keyword matching.
func Units() []string {
	return unitNames[:Percent]
}

// IsRelative is true for units depending on the current font or line width.
func (u Unit) IsRelative() bool {
	return u == EM || u == EX || u == Percent
}

func d(n, m int64) decimal.Decimal {
	return decimal.New(n, 0).Div(decimal.New(m, 0))
}

// factors to convert fixed units to printer's points
var factors = map[Unit]decimal.Decimal{
	PT: decimal.New(1, 0),
	PC: decimal.New(12, 0),
	IN: d(7227, 100),
	BP: d(7227, 7200),
	CM: d(7227, 254),
	MM: d(7227, 2540),
	DD: d(1238, 1157),
	CC: d(14856, 1157),
	SP: d(1, 65536),
}

// Metrics supplies the sizes relative units refer to, in points.
type Metrics interface {
	EmWidth() decimal.Decimal
	ExHeight() decimal.Decimal
	PercentBase() decimal.Decimal
}

type fixedMetrics struct {
	em, ex, base decimal.Decimal
}

func (m fixedMetrics) EmWidth() decimal.Decimal     { return m.em }
func (m fixedMetrics) ExHeight() decimal.Decimal    { return m.ex }
func (m fixedMetrics) PercentBase() decimal.Decimal { return m.base }

// FixedMetrics creates metrics with constant sizes, given in points.
func FixedMetrics(em, ex, base decimal.Decimal) Metrics {
	return fixedMetrics{em: em, ex: ex, base: base}
}

// DefaultMetrics are the metrics of a 10pt font on a 345pt line.
var DefaultMetrics = FixedMetrics(decimal.New(10, 0), decimal.New(43, -1), decimal.New(345, 0))

// ---------------------------------------------------------------------------

// Length is a decimal value together with a unit.
type Length struct {
	Value decimal.Decimal
	Unit  Unit
}

// Zero is 0pt.
var Zero = Length{Value: decimal.Zero, Unit: PT}

// New creates a length.
func New(v decimal.Decimal, u Unit) Length {
	return Length{Value: v, Unit: u}
}

// Points creates a length of n points.
func Points(n int64) Length {
	return Length{Value: decimal.New(n, 0), Unit: PT}
}

// ScaledPoints creates a length of n sp, expressed in points.
func ScaledPoints(n int64) Length {
	return Length{Value: d(n, 65536), Unit: PT}
}

func (l Length) String() string {
	return l.Value.String() + l.Unit.String()
}

// Equal compares value and unit, without converting.
func (l Length) Equal(o Length) bool {
	return l.Unit == o.Unit && l.Value.Equal(o.Value)
}

// IsZero is true for lengths of value 0, in any unit.
func (l Length) IsZero() bool {
	return l.Value.IsZero()
}

// InPoints converts l to points. If m is nil, DefaultMetrics are used for
// relative units.
func (l Length) InPoints(m Metrics) decimal.Decimal {
	if m == nil {
		m = DefaultMetrics
	}
	switch l.Unit {
	case EM:
		return l.Value.Mul(m.EmWidth())
	case EX:
		return l.Value.Mul(m.ExHeight())
	case Percent:
		return l.Value.Mul(m.PercentBase()).Div(decimal.New(100, 0))
	}
	return l.Value.Mul(factors[l.Unit])
}

// Sp converts l to scaled points, rounding to the nearest integer.
func (l Length) Sp(m Metrics) int64 {
	return l.InPoints(m).Mul(decimal.New(65536, 0)).Round(0).IntPart()
}

// Add returns l+o. If both lengths have the same unit, the unit is kept,
// otherwise the result is in points.
func (l Length) Add(o Length, m Metrics) Length {
	if l.Unit == o.Unit {
		return Length{Value: l.Value.Add(o.Value), Unit: l.Unit}
	}
	return Length{Value: l.InPoints(m).Add(o.InPoints(m)), Unit: PT}
}

// Negate returns -l.
func (l Length) Negate() Length {
	return Length{Value: l.Value.Neg(), Unit: l.Unit}
}

// Multiply returns l*n.
func (l Length) Multiply(n int64) Length {
	return Length{Value: l.Value.Mul(decimal.New(n, 0)), Unit: l.Unit}
}

// Scale returns l*f.
func (l Length) Scale(f decimal.Decimal) Length {
	return Length{Value: l.Value.Mul(f), Unit: l.Unit}
}

// ErrDivisionByZero is returned when dividing a length by 0.
var ErrDivisionByZero = errors.New("division of length by zero")

// Divide returns l/n.
func (l Length) Divide(n int64) (Length, error) {
	if n == 0 {
		return l, ErrDivisionByZero
	}
	return Length{Value: l.Value.Div(decimal.New(n, 0)), Unit: l.Unit}, nil
}

// Compare returns -1, 0 or +1, after converting both lengths to points.
func (l Length) Compare(o Length, m Metrics) int {
	if l.Unit == o.Unit {
		return l.Value.Cmp(o.Value)
	}
	return l.InPoints(m).Cmp(o.InPoints(m))
}

// TeXString formats l in points, the way TeX's \the shows dimensions.
func (l Length) TeXString(m Metrics) string {
	return FormatScaled(l.Sp(m)) + "pt"
}

// FormatScaled prints a number of scaled points as a decimal number of
// points, with the shortest digit sequence which converts back to s.
func FormatScaled(s int64) string {
	const unity = 65536
	var b strings.Builder
	if s < 0 {
		b.WriteByte('-')
		s = -s
	}
	fmt.Fprintf(&b, "%d.", s/unity)
	s = 10*(s%unity) + 5
	delta := int64(10)
	for {
		if delta > unity {
			s = s + 0x8000 - 50000 // round the last digit
		}
		b.WriteByte(byte('0' + s/unity))
		s = 10 * (s % unity)
		delta *= 10
		if s <= delta {
			break
		}
	}
	return b.String()
}
