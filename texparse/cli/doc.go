/*
Package cli implements the texparse command line interface.

Without a sub-command, texparse converts the files given as arguments (or
standard input) and writes the result to standard output or to the file
named by --output. The output format is selected by --format:

    texparse --format html chapter.tex > chapter.html

Sub-command repl starts an interactive session, where every line typed is
expanded and rendered immediately.

Configuration is layered: built-in defaults, an optional YAML file
(--config) and command line flags, in increasing order of precedence.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cli

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'texparse.cli'
func tracer() tracing.Trace {
	return tracing.Select("texparse.cli")
}
