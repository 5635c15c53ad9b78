package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/texparse"
	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/latex2html"
	"github.com/npillmayer/texparse/latex2latex"
	"github.com/spf13/cobra"
)

const version = "0.1 experimental"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "texparse [flags] [file...]",
	Short: "Expand TeX and LaTeX macros and render the result",
	Long: `Welcome to texparse V0.1 (experimental)

texparse reads TeX and LaTeX documents, expands their macros and carries
out assignments and conditionals. The result is written either as plain
LaTeX, free of user-defined macros, or as HTML.

Without file arguments, texparse reads from standard input.

`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvertCmd,
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Expand input interactively",
	Args:  cobra.NoArgs,
	RunE:  runReplCmd,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called exactly once by main().
func Execute() {
	rootCmd.AddCommand(replCmd)
	err := rootCmd.Execute()
	var docerr documentError
	switch {
	case errors.As(err, &docerr):
		texparse.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "texparse: %v\n", err)
		texparse.Exit(2)
	}
	texparse.Exit(0)
}

func init() {
	cobra.OnInitialize(loadConfig)
	// persistent flags which will be global for the application
	flags := rootCmd.PersistentFlags()
	flags.BoolP("interactive", "i", false, "Force run in interactive mode")
	flags.String("logfile", "stderr", "URL of log output location")
	flags.String("config", "", "YAML configuration file")
	flags.StringP("format", "f", "html", "Output format: html or latex")
	flags.StringP("output", "o", "", "Output file (default is standard output)")
	flags.BoolP("standalone", "s", false, "Write a complete document, including a preamble")
	flags.String("undefined", "error", "Handling of undefined control sequences: error, warning, message or ignore")
	flags.Duration("timeout", 0, "Time limit for processing a document (0 is unlimited)")
	flags.Int("max-expansions", engine.DefaultMaxExpansions, "Maximum number of consecutive macro expansions")
	flags.Int("max-input-depth", engine.DefaultMaxInputDepth, "Maximum nesting of input files")
}

// documentError signals that diagnostics for a document have already been
// reported.
type documentError struct {
	name string
	err  error
}

func (e documentError) Error() string {
	return e.name + ": " + e.err.Error()
}

func (e documentError) Unwrap() error {
	return e.err
}

// --- Conversion ------------------------------------------------------------

// documentListener is a listener which is able to write a document
// preamble.
type documentListener interface {
	engine.Listener
	Header(title string) error
	Flush() error
}

func newListener(format string, w io.Writer) (documentListener, error) {
	switch strings.ToLower(format) {
	case "html":
		return latex2html.New(w), nil
	case "latex", "tex":
		return latex2latex.New(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

func runConvertCmd(cmd *cobra.Command, args []string) error {
	if texparse.Configuration.Bool("interactive") {
		return runReplCmd(cmd, args)
	}
	out := io.Writer(os.Stdout)
	if name := texparse.Configuration.String("output"); name != "" {
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	diag := newDiagnostics(os.Stderr)
	if len(args) == 0 {
		return convert(texparse.SignalContext, "stdin", os.Stdin, os.DirFS("."), out, diag)
	}
	var failed error
	for _, name := range args {
		if err := convertFile(name, out, diag); err != nil {
			var docerr documentError
			if !errors.As(err, &docerr) {
				return err
			}
			failed = err
		}
	}
	return failed
}

func convertFile(name string, out io.Writer, diag *diagnostics) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	fsys := os.DirFS(filepath.Dir(name))
	return convert(texparse.SignalContext, filepath.Base(name), f, fsys, out, diag)
}

// convert processes a single document read from r. Files included with
// \input are looked up in fsys. The document is subject to the configured
// time limit.
func convert(ctx context.Context, name string, r io.Reader, fsys fs.FS, out io.Writer,
	diag *diagnostics) error {
	//
	k := texparse.Configuration
	l, err := newListener(k.String("format"), out)
	if err != nil {
		return err
	}
	if k.Bool("standalone") {
		title := strings.TrimSuffix(name, filepath.Ext(name))
		if err = l.Header(title); err != nil {
			return err
		}
	}
	opts, err := texparse.ParserOptions(k)
	if err != nil {
		return err
	}
	opts = append(opts, engine.WithFS(fsys), engine.WithMessageHandler(diag.report))
	p, err := texparse.NewParser(l, opts...)
	if err != nil {
		return err
	}
	defer p.Close()
	if err = texparse.ApplyRegisters(p, k); err != nil {
		return err
	}
	if err = p.PushReader(name, r); err != nil {
		return err
	}
	if d := texparse.Timeout(k); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	tracer().Infof("converting %s to %s", name, k.String("format"))
	if err = p.Run(ctx); err != nil {
		diag.fail(p, err)
		return documentError{name: name, err: err}
	}
	tracing.Infof("%s: %d warning(s)", name, diag.warnings)
	return nil
}
