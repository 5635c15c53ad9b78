/*
Package dimen implements TeX lengths.

A Length is a decimal value together with a unit. Fixed units (pt, pc, in,
bp, cm, mm, dd, cc, sp) convert to points by constant factors. Relative units
(em, ex) and percentages depend on the current font size and line width and
are resolved through a Metrics value, supplied by the settings stack.

Arithmetic uses decimal numbers, so that 0.1em+0.2em is exactly 0.3em.
Conversion to scaled points and printing in TeX's \the format is available
for interoperability with register values.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dimen

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'texparse.dimen'.
func tracer() tracing.Trace {
	return tracing.Select("texparse.dimen")
}
