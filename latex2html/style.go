package latex2html

import (
	"github.com/npillmayer/texparse/dimen"
	"github.com/npillmayer/texparse/scope"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html/atom"
)

func styled(style string) element {
	return newElement(atom.Span, "style", style)
}

// fontElement maps a font declaration to an inline element.
func fontElement(attr scope.FontAttr, value int) element {
	switch attr {
	case scope.FontWeight:
		if value == scope.WeightBf {
			return newElement(atom.B)
		}
		return styled("font-weight: normal")
	case scope.FontShape:
		switch value {
		case scope.ShapeIt:
			return newElement(atom.I)
		case scope.ShapeEm:
			return newElement(atom.Em)
		case scope.ShapeSl:
			return styled("font-style: oblique")
		case scope.ShapeSc:
			return styled("font-variant: small-caps")
		}
		return styled("font-style: normal")
	case scope.FontFamily:
		switch value {
		case scope.FamilyTT:
			return newElement(atom.Code)
		case scope.FamilySF:
			return styled("font-family: sans-serif")
		case scope.FamilyCal:
			return styled("font-family: cursive")
		}
		return styled("font-family: serif")
	case scope.FontSize:
		pct := scope.Font{Size: value}.PointSize().Mul(decimal.New(10, 0))
		return styled("font-size: " + pct.StringFixed(0) + "%")
	}
	return newElement(atom.Span)
}

// cssLength formats a length for CSS. TeX units unknown to CSS are
// converted to points.
func cssLength(l dimen.Length, m dimen.Metrics) string {
	switch l.Unit {
	case dimen.BP, dimen.DD, dimen.CC, dimen.SP:
		return l.InPoints(m).Round(2).String() + "pt"
	}
	return l.String()
}
