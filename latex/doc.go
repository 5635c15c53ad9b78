/*
Package latex implements the LaTeX layer on top of the TeX primitives.

Load binds \newcommand and its relatives, environments (\begin, \end,
\newenvironment), font and size declarations, cross-references and
hyperlinks, explicit spacing, line breaks, tabular alignments and the
document environment. Text commands like \textbf are defined in TeX, in an
embedded kernel file read by Load.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package latex

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'texparse.latex'.
func tracer() tracing.Trace {
	return tracing.Select("texparse.latex")
}
