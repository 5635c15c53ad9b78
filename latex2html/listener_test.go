package latex2html

import (
	"bytes"
	"context"
	"strings"
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

func TestHTML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.html")
	defer teardown()
	//
	inputs := []struct {
		input, html string
	}{
		{`Hello \textbf{bold} world.\par Next`, "<p>Hello <b>bold</b> world.</p>\n<p>Next</p>\n"},
		{`x<y>z`, "<p>x&lt;y&gt;z</p>\n"},
		{`\itshape a\par b`, "<p><i>a</i></p>\n<p><i>b</i></p>\n"},
		{`\emph{a}`, "<p><em>a</em></p>\n"},
		{`{\large x}`, "<p><span style=\"font-size: 120%\">x</span></p>\n"},
		{`a\\b`, "<p>a<br>\nb</p>\n"},
		{`a $x$ b`, "<p>a <span class=\"math\">x</span> b</p>\n"},
		{`a$$x$$b`, "<p>a</p>\n<div class=\"displaymath\">x</div>\n<p>b</p>\n"},
		{`see \href{http://a.b/?x=1&y=2}{here}.`, "<p>see <a href=\"http://a.b/?x=1&amp;y=2\">here</a>.</p>\n"},
		{`\label{}x`, "<a id=\"anchor-id1\"></a><p>x</p>\n"},
		{`a\hspace{2em}b\vspace{10bp}`, "<p>a<span style=\"display: inline-block; width: 2em\"></span>b</p>\n" +
			"<div style=\"height: 10.04pt\"></div>\n"},
		{`\begin{tabular}{lr}a&b\\c&d\\\end{tabular}`, "<table>\n" +
			"<tr><td style=\"text-align: left\">a</td><td style=\"text-align: right\">b</td></tr>\n" +
			"<tr><td style=\"text-align: left\">c</td><td style=\"text-align: right\">d</td></tr>\n" +
			"</table>\n"},
	}
	for i, x := range inputs {
		var out bytes.Buffer
		l := New(&out)
		l.NewID = func() string { return "id1" }
		if err := render(t, l, x.input); err != nil {
			t.Errorf("%d: %q: unexpected error: %v", i, x.input, err)
			continue
		}
		if out.String() != x.html {
			t.Errorf("%d: %q: expected\n%q\nhave\n%q", i, x.input, x.html, out.String())
		}
	}
}

func TestStandaloneDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.html")
	defer teardown()
	//
	var out bytes.Buffer
	l := New(&out)
	if err := l.Header("T & U"); err != nil {
		t.Fatal(err)
	}
	if err := render(t, l, `\begin{document}x\end{document}`); err != nil {
		t.Fatal(err)
	}
	html := out.String()
	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Errorf("expected document type, have %q", html)
	}
	if !strings.Contains(html, "<title>T &amp; U</title>") {
		t.Errorf("expected escaped title, have %q", html)
	}
	if !strings.HasSuffix(html, "<p>x</p>\n</body>\n</html>\n") {
		t.Errorf("expected closed document, have %q", html)
	}
}

func TestAnchorIDsAreUnique(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.html")
	defer teardown()
	//
	var out bytes.Buffer
	if err := render(t, New(&out), `\label{}\label{}`); err != nil {
		t.Fatal(err)
	}
	ids := strings.Split(out.String(), "</a>")
	if len(ids) != 3 || ids[0] == ids[1] {
		t.Errorf("expected two different anchors, have %q", out.String())
	}
}
