/*
Package engine implements TeX's expansion engine.

A Parser reads tokens from a stack of input sources, resolves control
sequences against the settings stack (package scope), expands macros and
expandable primitives, evaluates conditionals, and hands everything else
to a Listener, which renders the document.

Expansion

Expansion comes in three flavours. ExpandOnce replaces an expandable object
by the result of one expansion step. ExpandFully repeats expansion until
only unexpandable objects are left, the way \edef does. Processing (the
Process method) performs the full semantic action of an object: macros are
expanded and their result is pushed back onto the input, assignments take
effect, characters are given to the listener.

Commands

Everything bound to a control sequence is a *Command. Commands are a tagged
variant: primitives, macros, declarations, registers, character constants,
aliases created by \let, and the sentinel for undefined names. A command
carries a set of capability flags telling whether it is expandable, may be
prefixed by \global, or yields an internal quantity.

Conditionals

Conditionals are evaluated against a stack of open \if…\fi constructs. An
untaken branch is skipped without expansion, honouring nesting. The taken
branch is not executed in isolation; its tokens flow on through the input,
so that paragraphs and groups opened in a branch stay open after \fi.

Cancellation

Run accepts a context. The parser polls the context between processing
steps and while skipping or expanding, and stops with an error matching
ErrCancelled. Group ends are atomic; a cancelled parse never leaves a
half-restored frame behind.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package engine

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'texparse.engine'.
func tracer() tracing.Trace {
	return tracing.Select("texparse.engine")
}
