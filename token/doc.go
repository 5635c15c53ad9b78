/*
Package token implements the object model of the TeX expansion engine.

Everything flowing through the engine is a token.Object: characters with
their category codes, references to control sequences, macro parameter
placeholders, lists and groups of objects, and numeric or dimension values.
Bound commands (see package engine) are objects, too.

Objects are value-like. Characters and control sequence references are
plain Go values and may be shared freely. Lists are cloned deeply whenever
a macro body is instantiated, so that two expansions of the same macro
never alias mutable state.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package token
