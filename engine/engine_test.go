package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/texparse/engine"
	"github.com/npillmayer/texparse/engine/enginetest"
	"github.com/npillmayer/texparse/latex"
	"github.com/npillmayer/texparse/primitives"
	"github.com/npillmayer/texparse/token"
)

type message struct {
	sev  engine.Severity
	line int
	text string
}

type session struct {
	p        *engine.Parser
	rec      *enginetest.Recorder
	messages []message
}

func newSession(t *testing.T, opts ...engine.Option) *session {
	s := &session{rec: enginetest.NewRecorder()}
	opts = append(opts, engine.WithMessageHandler(func(sev engine.Severity, loc engine.Location, msg string) {
		s.messages = append(s.messages, message{sev: sev, line: loc.Line, text: msg})
	}))
	s.p = engine.New(s.rec, opts...)
	primitives.Load(s.p)
	if err := latex.Load(s.p); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.p.Close)
	return s
}

// define reads input without finishing the document.
func (s *session) define(t *testing.T, input string) {
	if err := s.p.PushString("defs", input); err != nil {
		t.Fatal(err)
	}
	if err := s.p.Drain(context.Background()); err != nil {
		t.Fatalf("reading %q: %v", input, err)
	}
}

func (s *session) run(input string) error {
	if err := s.p.PushString("test", input); err != nil {
		return err
	}
	return s.p.Run(context.Background())
}

func tokens(t *testing.T, s *session, input string) token.List {
	l, err := s.p.Tokenize(input)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestExpansionOfUnexpandables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	s := newSession(t)
	input := tokens(t, s, `a\relax{b} c`)
	for _, obj := range input {
		if l, ok, err := s.p.ExpandOnce(obj, nil); ok || err != nil || l != nil {
			t.Errorf("expected %v to be left alone, have %v, %v, %v", obj, l, ok, err)
		}
	}
	out, err := s.p.ExpandFully(input, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != input.String() {
		t.Errorf("expected %v, have %v", input, out)
	}
}

func TestExpandFully(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	s := newSession(t)
	s.define(t, `\def\a{\b}\def\b{x}\protected\def\c{y}\def\d#1{[#1]}`)
	inputs := []struct {
		input, output string
	}{
		{`\a\noexpand\a`, `x\a`},
		{`\c\a`, `\c x`},
		{`\d\a`, `[x]`},
		{`\d{\a\a}`, `[xx]`},
		{`\expandafter\d\expandafter{\a}`, `[x]`},
		{`\ifx\a\b T\else F\fi`, `F`},
		{`\the\catcode 92`, `0`},
	}
	for i, x := range inputs {
		out, err := s.p.ExpandFully(tokens(t, s, x.input), nil)
		if err != nil {
			t.Errorf("%d: %q: unexpected error: %v", i, x.input, err)
			continue
		}
		if out.String() != x.output {
			t.Errorf("%d: %q: expected %q, have %q", i, x.input, x.output, out.String())
		}
	}
	if n := s.p.Conditions(); n != 0 {
		t.Errorf("expected conditionals to be balanced, %d open", n)
	}
}

func TestExpandOnceIsOneLevel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	s := newSession(t)
	s.define(t, `\def\a{\b\b}\def\b{x}`)
	l, ok, err := s.p.ExpandOnce(token.Cs("a"), nil)
	if err != nil || !ok {
		t.Fatalf("expected \\a to expand, have %v, %v", ok, err)
	}
	if l.String() != `\b\b` {
		t.Errorf("expected \\b\\b, have %v", l)
	}
}

func TestConditionals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	inputs := []struct {
		input, text string
	}{
		{`\ifnum1<2 a\else b\fi`, "a"},
		{`\iffalse \ifx ab\else c\fi d\else e\fi`, "e"},
		{`\iftrue \iffalse a\else b\fi \else c\fi`, "b"},
		{`\ifcase 1 \ifnum1=1 x\fi\or y\or z\fi`, "y"},
		{`\ifcase 0 \iftrue x\fi\or y\fi`, "x"},
		{`\def\t{\iftrue}\t a\fi`, "a"},
		{`\let\myfi\fi \iffalse a\myfi b`, "b"},
		{`\def\boom{\global\advance\count1 by 1 }\iffalse\boom\else\fi\iftrue\else\boom\fi` +
			`\ifcase1 \boom\or\fi\ifnum1>2 \boom\fi\the\count1`, "0"},
		{`\ifcase 0 ok\or\errmessage{x}\undefinedfoo\else\boom\fi`, "ok"},
		{`\iffalse \errmessage{x}\undefinedfoo\fi ok`, "ok"},
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
		if n := s.p.Conditions(); n != 0 {
			t.Errorf("%d: %q: %d conditionals left open", i, x.input, n)
		}
	}
}

func TestTakenBranchKeepsGroupsOpen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	s := newSession(t)
	if err := s.run(`\iftrue Hello {\bfseries\else X\fi world}`); err != nil {
		t.Fatal(err)
	}
	expected := []string{"text:Hello ", "group{", "decl:weight=1", "text:world",
		"enddecl:weight=1", "}group", "finish"}
	if diff := cmp.Diff(expected, s.rec.Events()); diff != "" {
		t.Errorf("events differ (-want +got):\n%s", diff)
	}
}

func TestParagraphContinuesAfterConditional(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	s := newSession(t)
	if err := s.run(`a \iftrue b\par c \fi d`); err != nil {
		t.Fatal(err)
	}
	expected := []string{"text:a b", "par", "text:c d", "finish"}
	if diff := cmp.Diff(expected, s.rec.Events()); diff != "" {
		t.Errorf("events differ (-want +got):\n%s", diff)
	}
}

func TestUnfinishedConditionalWarns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	s := newSession(t)
	if err := s.run(`\iftrue a`); err != nil {
		t.Fatal(err)
	}
	if len(s.messages) != 1 || s.messages[0].sev != engine.SeverityWarning {
		t.Errorf("expected a warning, have %v", s.messages)
	}
}

func TestErrorKinds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	inputs := []struct {
		input string
		kind  engine.ErrorKind
	}{
		{`\fi`, engine.ErrExtraFi},
		{`\else`, engine.ErrExtraElse},
		{`\or`, engine.ErrExtraOr},
		{`\iffalse a\else b\else c\fi`, engine.ErrExtraElse},
		{`\iffalse a`, engine.ErrMissingFi},
		{`}`, engine.ErrNoEG},
		{`{a`, engine.ErrMissingEG},
		{`\begingroup }`, engine.ErrGroupMismatch},
		{`{\endgroup`, engine.ErrGroupMismatch},
		{`\endgroup`, engine.ErrMisplaced},
		{`\nope`, engine.ErrUndefined},
		{`\def\a{\a}\a`, engine.ErrExpansionDepth},
		{`\def\a{\a}\edef\b{\a}`, engine.ErrExpansionDepth},
		{`\def\a#1{}\a}`, engine.ErrMisplaced},
		{`\def\a#1{}\a`, engine.ErrRunaway},
		{`\def\a.{}\a,`, engine.ErrDefMismatch},
		{`\def\a#1{}\a{x\par}`, engine.ErrParagraphEnded},
		{`\global a`, engine.ErrPrefix},
		{`$$x$`, engine.ErrDisplayMath},
		{`\csname a\relax`, engine.ErrMissingEndCsname},
		{"a\n#", engine.ErrMisplaced},
	}
	for i, x := range inputs {
		s := newSession(t, engine.WithMaxExpansions(1000))
		err := s.run(x.input)
		if err == nil {
			t.Errorf("%d: %q: expected error, have none", i, x.input)
			continue
		}
		if k := engine.ErrorKindOf(err); k != x.kind {
			t.Errorf("%d: %q: expected error kind %d, have %d (%v)", i, x.input, x.kind, k, err)
		}
		if !engine.IsStructural(err) {
			t.Errorf("%d: %q: expected a syntax error, have %T", i, x.input, err)
		}
	}
}

func TestErrorLocation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	s := newSession(t)
	err := s.run("a\nb\n\\nope")
	var se *engine.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected syntax error, have %v", err)
	}
	if se.File != "test" || se.Line != 3 {
		t.Errorf("expected error at test:3, have %s", se.Location)
	}
	if !strings.HasPrefix(err.Error(), "test:3: ") {
		t.Errorf("expected location in message, have %q", err.Error())
	}
}

func TestUndefinedActions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	inputs := []struct {
		action   engine.Action
		messages int
		sev      engine.Severity
	}{
		{engine.ActionWarning, 1, engine.SeverityWarning},
		{engine.ActionMessage, 1, engine.SeverityMessage},
		{engine.ActionIgnore, 0, 0},
	}
	for _, x := range inputs {
		s := newSession(t, engine.WithUndefinedAction(x.action))
		if err := s.run(`a\nope b`); err != nil {
			t.Errorf("%s: unexpected error: %v", x.action, err)
			continue
		}
		if s.rec.Text() != "ab" {
			t.Errorf("%s: expected text 'ab', have %q", x.action, s.rec.Text())
		}
		if len(s.messages) != x.messages {
			t.Errorf("%s: expected %d message(s), have %v", x.action, x.messages, s.messages)
			continue
		}
		if x.messages > 0 && (s.messages[0].sev != x.sev || !strings.Contains(s.messages[0].text, `\nope`)) {
			t.Errorf("%s: unexpected message %v", x.action, s.messages[0])
		}
	}
	if a, err := engine.ParseAction("warning"); err != nil || a != engine.ActionWarning {
		t.Errorf("expected to parse action 'warning', have %v, %v", a, err)
	}
	if _, err := engine.ParseAction("shout"); err == nil {
		t.Errorf("expected unknown action to fail")
	}
}

func TestCancellation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	s := newSession(t, engine.WithMaxExpansions(0))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := s.p.PushString("test", `\def\a{\a}\a`); err != nil {
		t.Fatal(err)
	}
	err := s.p.Run(ctx)
	if !errors.Is(err, engine.ErrCancelled) {
		t.Fatalf("expected parse to be cancelled, have %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected cause to be the deadline, have %v", err)
	}
	if engine.IsStructural(err) {
		t.Errorf("expected cancellation not to be a syntax error")
	}
}

func TestCancelledBeforeStart(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	s := newSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.p.PushString("test", "abc")
	if err := s.p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, have %v", err)
	}
	if len(s.rec.Events()) != 0 {
		t.Errorf("expected no output, have %v", s.rec.Events())
	}
}

func TestInputDepth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	fsys := fstest.MapFS{"loop.tex": {Data: []byte(`x\input{loop}`)}}
	s := newSession(t, engine.WithFS(fsys), engine.WithMaxInputDepth(4))
	err := s.run(`\input{loop}`)
	if k := engine.ErrorKindOf(err); k != engine.ErrInputDepth {
		t.Errorf("expected input depth to be exceeded, have %v", err)
	}
	if text := s.rec.Text(); text != "xxx" {
		t.Errorf("expected three nested files to be read, have %q", text)
	}
}

func TestStep(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	s := newSession(t)
	s.p.PushString("test", `\def\a{b}a\a`)
	var states []engine.State
	for {
		st, err := s.p.Step()
		if err != nil {
			t.Fatal(err)
		}
		states = append(states, st)
		if st == engine.Finished {
			break
		}
	}
	// \def, a, \a, b, end of input
	if len(states) != 5 {
		t.Errorf("expected 5 steps, have %v", states)
	}
	if err := s.p.Finish(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"text:ab", "finish"}, s.rec.Events()); diff != "" {
		t.Errorf("events differ (-want +got):\n%s", diff)
	}
}

func TestScopes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	inputs := []struct {
		input, text string
	}{
		{`\def\a{x}{\def\a{y}\a}\a`, "yx"},
		{`\def\a{x}{\gdef\a{y}}\a`, "y"},
		{`\def\a{x}\begingroup\global\let\a\relax\def\a{z}\endgroup\a`, ""},
		{`\count1=5 {\count1=7 \the\count1}\the\count1`, "75"},
		{`\count1=5 {\global\count1=7 {\count1=9 }}\the\count1`, "7"},
		{"{\\catcode`+ =1 \\catcode`- =2 +a-}b", "ab"},
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

func TestMessageLocation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	s := newSession(t)
	if err := s.run("a\n\\message{hi}"); err != nil {
		t.Fatal(err)
	}
	if len(s.messages) != 1 || s.messages[0].text != "hi" || s.messages[0].line != 2 {
		t.Errorf("expected message 'hi' at line 2, have %v", s.messages)
	}
}

func TestListings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	s := newSession(t)
	s.define(t, `\def\myfoo{x}\long\def\myfob{y}\count3=12 `)
	want := []engine.Binding{
		{Name: "myfob", Value: `\long macro:->y`},
		{Name: "myfoo", Value: "macro:->x"},
	}
	if diff := cmp.Diff(want, s.p.ControlSequences("myfo")); diff != "" {
		t.Errorf("control sequences differ (-want +got):\n%s", diff)
	}
	found := false
	for _, b := range s.p.Registers() {
		if b.Name == "count3" {
			found = b.Value == "12"
		}
	}
	if !found {
		t.Errorf("expected count3 = 12 in %v", s.p.Registers())
	}
}

func TestDiscardInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	s := newSession(t)
	if err := s.p.PushString("test", `a\undefined b`); err != nil {
		t.Fatal(err)
	}
	if err := s.p.Drain(context.Background()); engine.ErrorKindOf(err) != engine.ErrUndefined {
		t.Fatalf("expected undefined control sequence, have %v", err)
	}
	s.p.DiscardInput()
	if err := s.run("c"); err != nil {
		t.Fatal(err)
	}
	if text := s.rec.Text(); text != "ac" {
		t.Errorf("expected remaining input to be dropped, have %q", text)
	}
}
