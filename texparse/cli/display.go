package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/npillmayer/texparse/engine"
)

// diagnostics prints messages of the parser, colored if the output is a
// terminal.
type diagnostics struct {
	w        io.Writer
	color    bool
	warnings int
	errors   int
}

func newDiagnostics(f *os.File) *diagnostics {
	fd := f.Fd()
	return &diagnostics{
		w:     f,
		color: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

var severityColors = map[engine.Severity]text.Colors{
	engine.SeverityMessage: {text.FgCyan},
	engine.SeverityWarning: {text.FgYellow},
	engine.SeverityError:   {text.FgRed, text.Bold},
}

func (d *diagnostics) paint(sev engine.Severity, s string) string {
	if !d.color {
		return s
	}
	return severityColors[sev].Sprint(s)
}

// report is an engine.MessageHandler.
func (d *diagnostics) report(sev engine.Severity, loc engine.Location, msg string) {
	switch sev {
	case engine.SeverityMessage:
		fmt.Fprintln(d.w, d.paint(sev, msg))
		return
	case engine.SeverityWarning:
		d.warnings++
	case engine.SeverityError:
		d.errors++
	}
	fmt.Fprintf(d.w, "%s: %s %s\n", loc, d.paint(sev, sev.String()+":"), msg)
}

// fail reports the error which stopped the parser.
func (d *diagnostics) fail(p *engine.Parser, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		d.report(engine.SeverityError, p.Location(), "time limit exceeded")
	case errors.Is(err, engine.ErrCancelled):
		d.report(engine.SeverityError, p.Location(), "interrupted")
	default:
		p.ReportError(err)
	}
}
