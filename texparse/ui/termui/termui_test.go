package termui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/texparse/engine"
)

func TestFormatter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.cli")
	defer teardown()
	//
	var out bytes.Buffer
	f := DefaultFormatter{}
	f.Format("hello", &out)
	f.Format(errors.New("failed"), &out)
	f.Format(42, &out)
	expected := "▶ hello\n▶ failed\n▶ object of type int\n"
	if out.String() != expected {
		t.Errorf("expected %q, have %q", expected, out.String())
	}
}

func TestBindingsTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.cli")
	defer teardown()
	//
	tw := BindingsTable("Registers", []engine.Binding{
		{Name: "count1", Value: "7"},
		{Name: "tabcolsep", Value: "6.0pt"},
	})
	var out bytes.Buffer
	if ok, err := (DefaultFormatter{}).Format(tw, &out); !ok || err != nil {
		t.Fatalf("table not formatted: %v", err)
	}
	for _, s := range []string{"Registers", "count1", "tabcolsep", "6.0pt"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("expected %q in table\n%s", s, out.String())
		}
	}
}

func TestCompleter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.cli")
	defer teardown()
	//
	c := replCompleter([]string{"show-cs"})
	names := []string{}
	for _, child := range c.GetChildren() {
		names = append(names, strings.TrimSpace(string(child.GetName())))
	}
	if strings.Join(names, ",") != "help,bye,mode,setprompt,show-cs" {
		t.Errorf("unexpected completions %v", names)
	}
}
