package latex2latex

import (
	"bytes"
	"context"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/latex"
	"github.com/npillmayer/texparse/primitives"
)

func render(t *testing.T, l *Listener, input string) error {
	p := engine.New(l)
	defer p.Close()
	primitives.Load(p)
	if err := latex.Load(p); err != nil {
		t.Fatal(err)
	}
	if err := p.PushString("test", input); err != nil {
		t.Fatal(err)
	}
	return p.Run(context.Background())
}

func TestLaTeX(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.latex2latex")
	defer teardown()
	//
	inputs := []struct {
		input, latex string
	}{
		{`\newcommand\x[1]{\textbf{#1}}\x{hi} there`, `{\bfseries hi} there`},
		{`\bfseries a\begin{center}\itshape b\end{center}c`, `\bfseries a` + "\n\n" + `\itshape b` + "\n\n" + `\upshape c`},
		{`\char"25 \char"26 x`, `\%\&x`},
		{`$a^2$ and \[x_1\]`, `$a^2$ and \[x_1\]`},
		{`\begin{tabular}{lp{2cm}}a&b\\\end{tabular}`, `\begin{tabular}{lp{2cm}}` + "\n" + `a & b \\` + "\n" + `\end{tabular}`},
		{`\href{http://x.org/#top}{t}\label{l}\hspace{1em}\\`, `\href{http://x.org/\#top}{t}\label{l}\hspace{1em}\\` + "\n"},
		{`\def\a{A}\edef\b{\a\a}\b`, `AA`},
	}
	for i, x := range inputs {
		var out bytes.Buffer
		if err := render(t, New(&out), x.input); err != nil {
			t.Errorf("%d: %q: unexpected error: %v", i, x.input, err)
			continue
		}
		if out.String() != x.latex {
			t.Errorf("%d: %q: expected\n%q\nhave\n%q", i, x.input, x.latex, out.String())
		}
	}
}

func TestHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.latex2latex")
	defer teardown()
	//
	var out bytes.Buffer
	l := New(&out)
	if err := l.Header("A & B"); err != nil {
		t.Fatal(err)
	}
	if err := render(t, l, "x"); err != nil {
		t.Fatal(err)
	}
	expected := `\documentclass{article}` + "\n" + `\title{A \& B}` + "\n" + `\begin{document}` + "\n" +
		"x\n" + `\end{document}` + "\n"
	if out.String() != expected {
		t.Errorf("expected\n%q\nhave\n%q", expected, out.String())
	}
}

func TestEscape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.latex2latex")
	defer teardown()
	//
	if s := Escape(`50% of {x}_1 \ ~`); s != `50\% of \{x\}\_1 \textbackslash{} \textasciitilde{}` {
		t.Errorf("unexpected escaping: %q", s)
	}
}
