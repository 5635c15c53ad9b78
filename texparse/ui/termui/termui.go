/*
Package termui provides objects and methods for interactive UI in terminal windows.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package termui

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	prtxt "github.com/jedib0t/go-pretty/v6/text"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/texparse/engine"
)

// trace traces with key 'texparse.cli'.
func trace() tracing.Trace {
	return tracing.Select("texparse.cli")
}

// Formatter writes items to an interactive session.
type Formatter interface {
	Format(interface{}, io.Writer) (bool, error)
}

// DefaultFormatter formats strings, errors and tables.
type DefaultFormatter struct {
	Color bool // use terminal colors
}

// Format writes item to w.
func (df DefaultFormatter) Format(item interface{}, w io.Writer) (bool, error) {
	var err error
	switch t := item.(type) {
	case string:
		_, err = fmt.Fprintf(w, "▶ %s\n", t)
	case error:
		msg := t.Error()
		if df.Color {
			msg = prtxt.FgRed.Sprint(msg)
		}
		_, err = fmt.Fprintf(w, "▶ %s\n", msg)
	case table.Writer:
		if t == nil {
			_, err = io.WriteString(w, "▶ (empty table)\n")
		} else {
			_, err = fmt.Fprintf(w, "%s\n", t.Render())
		}
	default:
		_, err = fmt.Fprintf(w, "▶ object of type %T\n", t)
	}
	return err == nil, err
}

// BindingsTable lists names and values in a table with a title.
func BindingsTable(title string, bindings []engine.Binding) table.Writer {
	t := table.NewWriter()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Name", "Value"})
	for _, b := range bindings {
		t.AppendRow(table.Row{b.Name, b.Value})
	}
	t.SetStyle(table.StyleLight)
	return t
}
