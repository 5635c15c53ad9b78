package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/texparse"
	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/texparse/ui/termui"
	"github.com/spf13/cobra"
)

// replIntpr expands lines of input with a parser which lives for the whole
// session. Definitions made in one line are visible in the next.
type replIntpr struct {
	*termui.BaseREPL
	parser    *engine.Parser
	listener  documentListener
	formatter termui.DefaultFormatter
	lines     int
}

func runReplCmd(cmd *cobra.Command, args []string) error {
	k := texparse.Configuration
	repl, err := termui.NewBaseREPL("texparse", version, "show-cs", "show-registers")
	if err != nil {
		return err
	}
	stdout, stderr := repl.Outputs()
	intp := &replIntpr{BaseREPL: repl}
	intp.Interpreter = intp
	intp.Helper = func(w io.Writer) {
		io.WriteString(w, `
texparse will expand every other line of input and print the result:

  show-cs [prefix]   : list control sequences and their meaning
  show-registers     : list registers and their values

`)
	}
	if intp.listener, err = newListener(k.String("format"), stdout); err != nil {
		return err
	}
	diag := newDiagnostics(os.Stderr)
	diag.w = stderr
	intp.formatter.Color = diag.color
	opts, err := texparse.ParserOptions(k)
	if err != nil {
		return err
	}
	opts = append(opts, engine.WithFS(os.DirFS(".")), engine.WithMessageHandler(diag.report))
	if intp.parser, err = texparse.NewParser(intp.listener, opts...); err != nil {
		return err
	}
	defer intp.parser.Close()
	if err = texparse.ApplyRegisters(intp.parser, k); err != nil {
		return err
	}
	intp.Prompt(false)
	if err = intp.parser.Finish(); err != nil {
		intp.formatter.Format(err, stderr)
	}
	return nil
}

// InterpretCommand expands a line of input, or shows control sequences or
// registers.
func (intp *replIntpr) InterpretCommand(line string) {
	stdout, stderr := intp.Outputs()
	words := strings.Fields(line)
	if len(words) > 0 {
		switch words[0] {
		case "show-cs":
			prefix := ""
			if len(words) > 1 {
				prefix = strings.TrimPrefix(words[1], `\`)
			}
			cs := intp.parser.ControlSequences(prefix)
			intp.formatter.Format(termui.BindingsTable("Control sequences", cs), stdout)
			return
		case "show-registers":
			intp.formatter.Format(termui.BindingsTable("Registers", intp.parser.Registers()), stdout)
			return
		}
	}
	if intp.parser.Ended() {
		intp.formatter.Format("document has ended", stderr)
		return
	}
	intp.lines++
	name := fmt.Sprintf("<%d>", intp.lines)
	if err := intp.parser.PushString(name, line+"\n"); err != nil {
		intp.formatter.Format(err, stderr)
		return
	}
	if err := intp.parser.Drain(texparse.SignalContext); err != nil {
		intp.parser.ReportError(err)
		intp.parser.DiscardInput()
	}
	if err := intp.listener.Flush(); err != nil {
		intp.formatter.Format(err, stderr)
	}
	io.WriteString(stdout, "\n")
}
