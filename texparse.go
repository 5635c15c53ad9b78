/*
Package texparse is a macro-expansion engine for TeX and LaTeX documents.

Documents are read token by token; macros are expanded, assignments and
conditionals are carried out, and what remains is handed to a listener,
which renders it. Listeners for LaTeX (package latex2latex) and HTML
(package latex2html) are included.

This package holds process-wide configuration for the command line driver
and composes parsers from the engine (package engine), the TeX primitives
(package primitives) and the LaTeX layer (package latex).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package texparse

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/knadh/koanf"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/texparse/dimen"
	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/latex"
	"github.com/npillmayer/texparse/primitives"
	"github.com/npillmayer/texparse/token"
)

// tracer traces with key 'texparse'.
func tracer() tracing.Trace {
	return tracing.Select("texparse")
}

// Configuration holds global configuration values. We use koanf.
var Configuration *koanf.Koanf

// Tracefile is the file we write our log output, if not nil.
var Tracefile io.WriteCloser

// SignalContext is a global context for terminating the application by an interrupt
// signal.
var SignalContext context.Context = context.Background()

// Exit exits the application. It gracefully shuts down all resources.
func Exit(errcode int) {
	if Tracefile != nil {
		Tracefile.Close()
	}
	os.Exit(errcode)
}

// NewParser creates a parser reporting to l, with the TeX primitives and
// the LaTeX layer loaded.
func NewParser(l engine.Listener, opts ...engine.Option) (*engine.Parser, error) {
	p := engine.New(l, opts...)
	primitives.Load(p)
	if err := latex.Load(p); err != nil {
		p.Close()
		return nil, fmt.Errorf("loading LaTeX kernel: %w", err)
	}
	return p, nil
}

// ParserOptions derives engine options from configuration keys
// 'undefined', 'max-expansions' and 'max-input-depth'. Missing keys leave
// the engine defaults in place.
func ParserOptions(k *koanf.Koanf) ([]engine.Option, error) {
	var opts []engine.Option
	if k == nil {
		return opts, nil
	}
	if s := k.String("undefined"); s != "" {
		a, err := engine.ParseAction(s)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithUndefinedAction(a))
	}
	if k.Exists("max-expansions") {
		opts = append(opts, engine.WithMaxExpansions(k.Int("max-expansions")))
	}
	if k.Exists("max-input-depth") {
		opts = append(opts, engine.WithMaxInputDepth(k.Int("max-input-depth")))
	}
	return opts, nil
}

// Timeout returns the configured time limit for a document, or 0.
func Timeout(k *koanf.Koanf) time.Duration {
	if k == nil {
		return 0
	}
	return k.Duration("timeout")
}

// ApplyRegisters sets the registers configured under 'registers'. Values
// which parse as integers set count registers, everything else has to be
// a dimension. Registers are set globally.
func ApplyRegisters(p *engine.Parser, k *koanf.Koanf) error {
	if k == nil {
		return nil
	}
	for name, v := range k.Cut("registers").All() {
		s := fmt.Sprint(v)
		if n, err := strconv.Atoi(s); err == nil {
			p.SetRegister(name, token.Number(n), true)
			tracer().P("register", name).Debugf("= %d", n)
			continue
		}
		l, err := dimen.Parse(s)
		if err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		p.SetRegister(name, token.Dimen{Length: l}, true)
		tracer().P("register", name).Debugf("= %s", l)
	}
	return nil
}
