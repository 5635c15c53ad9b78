package latex

import (
	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/scope"
)

var fontDeclarations = []struct {
	name  string
	attr  scope.FontAttr
	value int
}{
	{"rmfamily", scope.FontFamily, scope.FamilyRM},
	{"sffamily", scope.FontFamily, scope.FamilySF},
	{"ttfamily", scope.FontFamily, scope.FamilyTT},
	{"mdseries", scope.FontWeight, scope.WeightMd},
	{"bfseries", scope.FontWeight, scope.WeightBf},
	{"upshape", scope.FontShape, scope.ShapeUp},
	{"itshape", scope.FontShape, scope.ShapeIt},
	{"slshape", scope.FontShape, scope.ShapeSl},
	{"scshape", scope.FontShape, scope.ShapeSc},
	{"tiny", scope.FontSize, scope.SizeTiny},
	{"scriptsize", scope.FontSize, scope.SizeScript},
	{"footnotesize", scope.FontSize, scope.SizeFootnote},
	{"small", scope.FontSize, scope.SizeSmall},
	{"normalsize", scope.FontSize, scope.SizeNormal},
	{"large", scope.FontSize, scope.SizeLarge},
	{"Large", scope.FontSize, scope.SizeXLarge},
	{"LARGE", scope.FontSize, scope.SizeXXLarge},
	{"huge", scope.FontSize, scope.SizeHuge},
	{"Huge", scope.FontSize, scope.SizeXHuge},
	{"HUGE", scope.FontSize, scope.SizeXXHuge},
}

func fontCommands() []*engine.Command {
	cmds := make([]*engine.Command, 0, len(fontDeclarations)+2)
	for _, d := range fontDeclarations {
		cmds = append(cmds, engine.NewFontDeclaration(d.name, d.attr, d.value))
	}
	cmds = append(cmds,
		engine.NewDeclaration("em", emphasize, nil),
		engine.NewDeclaration("normalfont", normalfont, nil),
	)
	return cmds
}

// emphasize toggles between upright and emphasized shape.
func emphasize(p *engine.Parser, c engine.Cursor) error {
	shape := scope.ShapeEm
	if cur := p.Settings().FontAttr(scope.FontShape); cur == scope.ShapeEm || cur == scope.ShapeIt || cur == scope.ShapeSl {
		shape = scope.ShapeUp
	}
	return declare(p, scope.FontShape, shape)
}

// normalfont resets family, weight and shape, but not the size.
func normalfont(p *engine.Parser, c engine.Cursor) error {
	for _, d := range []struct {
		attr  scope.FontAttr
		value int
	}{
		{scope.FontFamily, scope.FamilyRM},
		{scope.FontWeight, scope.WeightMd},
		{scope.FontShape, scope.ShapeUp},
	} {
		if p.Settings().FontAttr(d.attr) == d.value {
			continue
		}
		if err := declare(p, d.attr, d.value); err != nil {
			return err
		}
	}
	return nil
}
