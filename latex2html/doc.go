/*
Package latex2html renders the output of the expansion engine as HTML.

A Listener translates engine events into HTML elements. Paragraphs are
opened on the first character of a paragraph and closed by \par. Font
declarations, links and inline math become inline elements, which are
closed at the end of a paragraph or table cell and re-opened at the start
of the next one, so that the output is always properly nested. Tabular
alignments become tables; rows are opened on demand, so a trailing \\ in a
tabular does not create an empty row.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package latex2html

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'texparse.html'.
func tracer() tracing.Trace {
	return tracing.Select("texparse.html")
}
