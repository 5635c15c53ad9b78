/*
Package latex2latex writes the output of the expansion engine back as
LaTeX.

The result is the input document with all macros expanded and all
assignments carried out: user-defined commands and environments are gone,
and what is left are characters, groups, font declarations and the few
constructs the engine reports to its listener. Characters special to TeX
are escaped.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package latex2latex

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'texparse.latex2latex'.
func tracer() tracing.Trace {
	return tracing.Select("texparse.latex2latex")
}
