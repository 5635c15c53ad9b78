package primitives

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/engine/enginetest"
)

type session struct {
	p        *engine.Parser
	rec      *enginetest.Recorder
	messages []string
}

func newSession(t *testing.T, opts ...engine.Option) *session {
	s := &session{rec: enginetest.NewRecorder()}
	opts = append(opts, engine.WithMessageHandler(func(sev engine.Severity, loc engine.Location, msg string) {
		s.messages = append(s.messages, msg)
	}))
	s.p = engine.New(s.rec, opts...)
	Load(s.p)
	t.Cleanup(s.p.Close)
	return s
}

func (s *session) run(input string) error {
	if err := s.p.PushString("test", input); err != nil {
		return err
	}
	return s.p.Run(context.Background())
}

func TestTextOutput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.primitives")
	defer teardown()
	//
	inputs := []struct {
		input, text string
	}{
		{`\def\foo#1{<#1>}\foo{ab}`, "<ab>"},
		{`\def\pair(#1,#2){#2-#1}\pair(a,{b,c})`, "b,c-a"},
		{`\def\a{x}\edef\b{\a\a}\def\a{y}\b`, "xx"},
		{`\def\a{x}\let\b=\a\def\a{y}\b\a`, "xy"},
		{`\let\x= a\x`, "a"},
		{`\def\a{x}\def\b{x}\ifx\a\b T\else F\fi`, "T"},
		{`\ifcase 2 zero\or one\or two\or three\fi`, "two"},
		{`\ifcase 7 zero\or one\else many\fi`, "many"},
		{`\count1=5 \advance\count1 by 3 \ifnum\count1>7 big\else small\fi`, "big"},
		{`\count2=7 \multiply\count2 by 6 \the\count2`, "42"},
		{`\count2=7 \divide\count2 by 2 \the\count2`, "3"},
		{`\unless\ifnum1<2 T\else F\fi`, "F"},
		{`\expandafter\def\csname my cs\endcsname{Z}\csname my cs\endcsname`, "Z"},
		{`\string\foo`, `\foo`},
		{`\romannumeral 1984`, "mcmlxxxiv"},
		{`\number 007`, "7"},
		{`{\gdef\a{g}\def\b{l}}\a\ifdefined\b L\else U\fi`, "gU"},
		{"\\catcode`\\@=11 \\def\\a@b{ok}\\a@b", "ok"},
		{`\uppercase{hello, World}`, "HELLO, WORLD"},
		{`\newif\iffoo \iffoo A\else B\fi\footrue\iffoo C\fi`, "BC"},
		{`\if aaT\fi\if ab\else F\fi`, "TF"},
		{`\ifcat a1 T\else F\fi`, "F"},
		{`\ifdim 1in>2cm T\else F\fi`, "T"},
		{`\ifodd 3 odd\fi`, "odd"},
		{`\def\a{A}\edef\b{\noexpand\a\a}\def\a{B}\b`, "BA"},
		{`\toks0={\a}\def\a{x}\edef\b{\the\toks0}\def\a{y}\b`, "y"},
		{`\chardef\c=65 \c`, "A"},
		{`\newcount\n \n=3 \advance\n by -1 \the\n`, "2"},
		{`\newdimen\d \d=1.5pt \advance\d by 1pt \the\d`, "2.5pt"},
		{`{\newcount\c}\ifdefined\c D\else U\fi`, "U"},
		{`{\global\newcount\c \global\c=4 }\the\c`, "4"},
		{`\def\a{\b}\def\b{c}\expandafter\def\expandafter\x\expandafter{\a}\def\b{d}\x`, "d"},
		{`\meaning\relax`, `\relax`},
		{`\detokenize{\a b}`, `\a b`},
		{`\escapechar=-1 \string\foo`, "foo"},
		{`\ifcsname relax\endcsname T\fi\ifcsname nix\endcsname\else F\fi`, "TF"},
	}
	for i, x := range inputs {
		s := newSession(t)
		if err := s.run(x.input); err != nil {
			t.Errorf("%d: %q: unexpected error: %v", i, x.input, err)
			continue
		}
		if text := s.rec.Text(); text != x.text {
			t.Errorf("%d: %q: expected %q, have %q", i, x.input, x.text, text)
		}
	}
}

func TestErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.primitives")
	defer teardown()
	//
	inputs := []struct {
		input string
		kind  engine.ErrorKind
	}{
		{"\\catcode`\\@=16 ", engine.ErrOutOfRange},
		{`\errmessage{boom}`, engine.ErrUser},
		{`\count1=0 \divide\count1 by 0 `, engine.ErrDivideByZero},
		{`\advance\relax by 1`, engine.ErrNotAssignable},
		{`\the x`, engine.ErrNotAssignable},
		{`\csname a\par`, engine.ErrMissingEndCsname},
		{`\ifnum 1 x 2 \fi`, engine.ErrExpected},
		{`\fi`, engine.ErrExtraFi},
		{`\else`, engine.ErrExtraElse},
		{`\endgroup`, engine.ErrMisplaced},
		{`\begingroup}`, engine.ErrGroupMismatch},
		{`\global a`, engine.ErrPrefix},
		{`\def\a#2{}`, engine.ErrParamNumber},
		{`\long\def\a#1.{}\a x`, engine.ErrRunaway},
		{`\def\a#1{}\a\par`, engine.ErrParagraphEnded},
		{`\unless\relax`, engine.ErrExpected},
		{`\count99999=1`, engine.ErrOutOfRange},
		{`\directlua{error("bad")}`, engine.ErrLua},
	}
	for i, x := range inputs {
		s := newSession(t)
		err := s.run(x.input)
		if err == nil {
			t.Errorf("%d: %q: expected error, have none", i, x.input)
			continue
		}
		if k := engine.ErrorKindOf(err); k != x.kind {
			t.Errorf("%d: %q: expected error kind %d, have %d (%v)", i, x.input, x.kind, k, err)
		}
	}
}

func TestMessages(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.primitives")
	defer teardown()
	//
	s := newSession(t)
	err := s.run(`\def\a{x}\message{hello \a}\show\a\count3=12 \showthe\count3 \show a`)
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{"hello x", `> \a=macro:->x.`, "> 12.", "> the letter a."}
	if diff := cmp.Diff(expected, s.messages); diff != "" {
		t.Errorf("messages differ (-want +got):\n%s", diff)
	}
}

func TestAfterGroup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.primitives")
	defer teardown()
	//
	s := newSession(t)
	if err := s.run(`\def\x{X}{\aftergroup\x a}`); err != nil {
		t.Fatal(err)
	}
	expected := []string{"group{", "text:a", "}group", "text:X", "finish"}
	if diff := cmp.Diff(expected, s.rec.Events()); diff != "" {
		t.Errorf("events differ (-want +got):\n%s", diff)
	}
}

func TestSkips(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.primitives")
	defer teardown()
	//
	s := newSession(t)
	if err := s.run(`\hskip 1em plus 1fil x\vskip 2pt minus 1pt`); err != nil {
		t.Fatal(err)
	}
	expected := []string{"hspace:1em", "text:x", "vspace:2pt", "finish"}
	if diff := cmp.Diff(expected, s.rec.Events()); diff != "" {
		t.Errorf("events differ (-want +got):\n%s", diff)
	}
}

func TestInputFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.primitives")
	defer teardown()
	//
	fsys := fstest.MapFS{
		"chap.tex": &fstest.MapFile{Data: []byte(`inner\endinput ignored`)},
	}
	s := newSession(t, engine.WithFS(fsys))
	if err := s.run(`A\input chap B\input{chap.tex}C`); err != nil {
		t.Fatal(err)
	}
	if text := s.rec.Text(); text != "AinnerBinnerC" {
		t.Errorf("expected AinnerBinnerC, have %q", text)
	}
	s = newSession(t, engine.WithFS(fsys))
	err := s.run(`\input missing `)
	if engine.ErrorKindOf(err) != engine.ErrInput || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected input error wrapping fs.ErrNotExist, have %v", err)
	}
}

func TestDirectLua(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.primitives")
	defer teardown()
	//
	s := newSession(t)
	input := `\directlua{tex.print("a" .. "b")}` +
		`\count1=7 \directlua{tex.sprint(tex.count[1] * 2)}` +
		`\directlua{tex.count.answer = 42}\countdef\c=1 \directlua{tex.print(tex.count["answer"])}`
	if err := s.run(input); err != nil {
		t.Fatal(err)
	}
	if text := s.rec.Text(); text != "ab1442" {
		t.Errorf("expected ab1442, have %q", text)
	}
}

func TestLuaOutputIsTokenized(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.primitives")
	defer teardown()
	//
	s := newSession(t)
	if err := s.run(`\def\x#1{[#1]}\directlua{tex.print("\string\\x{y}")}`); err != nil {
		t.Fatal(err)
	}
	if text := s.rec.Text(); !strings.Contains(text, "[y]") {
		t.Errorf("expected macro call printed by Lua to be expanded, have %q", text)
	}
}

func TestRoman(t *testing.T) {
	for n, r := range map[int64]string{1: "i", 4: "iv", 9: "ix", 14: "xiv", 2021: "mmxxi", 0: "", -5: ""} {
		if s := roman(n); s != r {
			t.Errorf("roman(%d): expected %q, have %q", n, r, s)
		}
	}
}
