package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/texparse"
	"github.com/npillmayer/texparse/engine"
)

func configure(t *testing.T, values map[string]interface{}) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		t.Fatal(err)
	}
	saved := texparse.Configuration
	texparse.Configuration = k
	t.Cleanup(func() { texparse.Configuration = saved })
}

func TestConvert(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.cli")
	defer teardown()
	//
	inputs := []struct {
		format, input, output string
	}{
		{"html", `\def\x{\textbf{hi}}\x`, "<p><b>hi</b></p>\n"},
		{"latex", `\def\x{\textbf{hi}}\x`, `{\bfseries hi}`},
		{"LaTeX", `\input{part}!`, `part!`},
	}
	fsys := fstest.MapFS{"part.tex": {Data: []byte("part")}}
	for i, x := range inputs {
		configure(t, map[string]interface{}{"format": x.format})
		var out, msgs bytes.Buffer
		diag := &diagnostics{w: &msgs}
		err := convert(context.Background(), "test", strings.NewReader(x.input), fsys, &out, diag)
		if err != nil {
			t.Errorf("%d: unexpected error: %v", i, err)
			continue
		}
		if out.String() != x.output {
			t.Errorf("%d: expected %q, have %q", i, x.output, out.String())
		}
	}
}

func TestConvertStandalone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.cli")
	defer teardown()
	//
	configure(t, map[string]interface{}{"format": "html", "standalone": true})
	var out bytes.Buffer
	err := convert(context.Background(), "intro.tex", strings.NewReader("x"), fstest.MapFS{}, &out,
		&diagnostics{w: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "<title>intro</title>") {
		t.Errorf("expected document title 'intro', have %q", out.String())
	}
}

func TestConvertReportsErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.cli")
	defer teardown()
	//
	configure(t, map[string]interface{}{"format": "latex", "undefined": "warning"})
	var out, msgs bytes.Buffer
	diag := &diagnostics{w: &msgs}
	err := convert(context.Background(), "doc.tex", strings.NewReader("\\nope\n{"), fstest.MapFS{}, &out, diag)
	var docerr documentError
	if !errors.As(err, &docerr) {
		t.Fatalf("expected document error, have %v", err)
	}
	if engine.ErrorKindOf(err) != engine.ErrMissingEG {
		t.Errorf("expected missing group end, have %v", err)
	}
	if diag.warnings != 1 || diag.errors != 1 {
		t.Errorf("expected 1 warning and 1 error, have %d and %d", diag.warnings, diag.errors)
	}
	if !strings.HasPrefix(msgs.String(), "doc.tex:1: warning: ") {
		t.Errorf("unexpected diagnostics %q", msgs.String())
	}
}

func TestConvertTimeout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.cli")
	defer teardown()
	//
	configure(t, map[string]interface{}{
		"format":         "latex",
		"timeout":        "20ms",
		"max-expansions": 0,
	})
	var out, msgs bytes.Buffer
	start := time.Now()
	err := convert(context.Background(), "loop", strings.NewReader(`\def\a{\a}\a`), fstest.MapFS{}, &out,
		&diagnostics{w: &msgs})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected time limit to be exceeded, have %v", err)
	}
	if time.Since(start) > 10*time.Second {
		t.Errorf("time limit not respected")
	}
	if !strings.Contains(msgs.String(), "time limit exceeded") {
		t.Errorf("expected diagnostic for time limit, have %q", msgs.String())
	}
}

func TestUnknownFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.cli")
	defer teardown()
	//
	if _, err := newListener("rtf", &bytes.Buffer{}); err == nil {
		t.Errorf("expected format rtf to be rejected")
	}
}
