/*
Package primitives binds TeX's primitive commands to a parser.

Load populates the global frame of an engine.Parser with assignments and
prefixes (\def, \let, \global, …), register access and arithmetic,
expansion primitives (\expandafter, \csname, \the, …), conditionals, group
delimiters, diagnostics (\show, \message) and input handling (\input).
\directlua runs Lua code, which may print TeX input back to the parser.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package primitives

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'texparse.primitives'.
func tracer() tracing.Trace {
	return tracing.Select("texparse.primitives")
}
