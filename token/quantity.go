package token

import (
	"errors"
	"math"
	"strconv"

	"github.com/npillmayer/texparse/dimen"
)

// ErrArithOverflow is returned for results out of range of TeX integers.
var ErrArithOverflow = errors.New("arithmetic overflow")

// ErrDivisionByZero is returned when dividing a quantity by zero.
var ErrDivisionByZero = errors.New("division by zero")

// MaxNumber is the largest number TeX accepts.
const MaxNumber = math.MaxInt32

// Number is an integer value, as held by count registers.
type Number int64

// Kind is KindNumber.
func (n Number) Kind() Kind { return KindNumber }

// Clone returns n.
func (n Number) Clone() Object { return n }

func (n Number) String() string {
	return strconv.FormatInt(int64(n), 10)
}

// Format renders n in decimal.
func (n Number) Format(esc rune) string {
	return n.String()
}

// Explode returns the digits of n.
func (n Number) Explode(esc rune) List {
	return Others(n.String())
}

// Advance returns n+m.
func (n Number) Advance(m Number) (Number, error) {
	return checked(int64(n) + int64(m))
}

// Multiply returns n*m.
func (n Number) Multiply(m Number) (Number, error) {
	return checked(int64(n) * int64(m))
}

// Divide returns n/m, truncated towards zero.
func (n Number) Divide(m Number) (Number, error) {
	if m == 0 {
		return n, ErrDivisionByZero
	}
	return n / m, nil
}

func checked(v int64) (Number, error) {
	if v > MaxNumber || v < -MaxNumber {
		return 0, ErrArithOverflow
	}
	return Number(v), nil
}

// ---------------------------------------------------------------------------

// Dimen is a length value, as held by dimen registers.
type Dimen struct {
	dimen.Length
}

// NewDimen wraps a length.
func NewDimen(l dimen.Length) Dimen {
	return Dimen{Length: l}
}

// Kind is KindDimen.
func (d Dimen) Kind() Kind { return KindDimen }

// Clone returns d.
func (d Dimen) Clone() Object { return d }

// Format renders d with its unit, e.g. "1.5em".
func (d Dimen) Format(esc rune) string {
	return d.Length.String()
}

// Explode returns the characters of Format.
func (d Dimen) Explode(esc rune) List {
	return Others(d.Length.String())
}

// Advance returns d+e. Relative units are resolved with m.
func (d Dimen) Advance(e Dimen, m dimen.Metrics) Dimen {
	return Dimen{Length: d.Length.Add(e.Length, m)}
}

// Multiply returns d*n.
func (d Dimen) Multiply(n Number) Dimen {
	return Dimen{Length: d.Length.Multiply(int64(n))}
}

// Divide returns d/n.
func (d Dimen) Divide(n Number) (Dimen, error) {
	if n == 0 {
		return d, ErrDivisionByZero
	}
	l, err := d.Length.Divide(int64(n))
	return Dimen{Length: l}, err
}
