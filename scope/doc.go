/*
Package scope implements the settings stack of the expansion engine.

TeX scoping is dynamic: every group opens a frame, and every setting made
inside the group is forgotten when the group ends. A frame holds catcode
overrides, control sequence bindings, register values and the current
font, mode and alignment. Lookup walks the frames from the innermost to the
root, falling back to the initial tables.

Global assignments write to the root frame and to every frame between the
current one and the root where the key is bound locally, so that the new
value survives the end of all enclosing groups.

Every frame keeps a ledger of the keys it changed and a list of end hooks.
The engine uses the hooks to close declarations (like \bfseries) when their
group ends.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scope

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'texparse.scope'.
func tracer() tracing.Trace {
	return tracing.Select("texparse.scope")
}
