package texparse

import (
	"context"
	"testing"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/texparse/engine/enginetest"
)

func config(t *testing.T, values map[string]interface{}) *koanf.Koanf {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestConfiguredParser(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse")
	defer teardown()
	//
	k := config(t, map[string]interface{}{
		"undefined":           "ignore",
		"max-expansions":      500,
		"timeout":             "2s",
		"registers.tabcolsep": "3.5pt",
		"registers.count7":    "42",
	})
	opts, err := ParserOptions(k)
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 2 {
		t.Errorf("expected 2 options, have %d", len(opts))
	}
	if d := Timeout(k); d != 2*time.Second {
		t.Errorf("expected timeout of 2s, have %v", d)
	}
	rec := enginetest.NewRecorder()
	p, err := NewParser(rec, opts...)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if err = ApplyRegisters(p, k); err != nil {
		t.Fatal(err)
	}
	p.PushString("test", `\nope\the\tabcolsep,\the\count7`)
	if err = p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if text := rec.Text(); text != "3.5pt,42" {
		t.Errorf("expected '3.5pt,42', have %q", text)
	}
}

func TestBadConfiguration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse")
	defer teardown()
	//
	if _, err := ParserOptions(config(t, map[string]interface{}{"undefined": "shout"})); err == nil {
		t.Errorf("expected unknown action to be rejected")
	}
	p, err := NewParser(enginetest.NewRecorder())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	err = ApplyRegisters(p, config(t, map[string]interface{}{"registers.linewidth": "wide"}))
	if err == nil {
		t.Errorf("expected malformed dimension to be rejected")
	}
}
