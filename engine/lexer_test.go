package engine

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/texparse/token"
)

func lex(t *testing.T, input string) (token.List, *lexer) {
	lx := newLexer("test", strings.NewReader(input), token.DefaultCatcode)
	var l token.List
	for {
		obj, err := lx.next()
		if err == io.EOF {
			return l, lx
		} else if err != nil {
			t.Fatalf("lexing %q: %v", input, err)
		}
		l = append(l, obj)
	}
}

func TestLexer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	space := token.Char{Code: ' ', Cat: token.Space}
	letter := func(r rune) token.Char { return token.Char{Code: r, Cat: token.Letter} }
	inputs := []struct {
		input  string
		tokens token.List
	}{
		{`\foo  bar`, token.List{token.Cs("foo"), letter('b'), letter('a'), letter('r')}},
		{"a  \t b", token.List{letter('a'), space, letter('b')}},
		{"a\n\nb", token.List{letter('a'), space, token.Cs("par"), letter('b')}},
		{"a % comment\n   b", token.List{letter('a'), space, letter('b')}},
		{`\ x`, token.List{token.Cs(" "), letter('x')}},
		{`\\x`, token.List{token.Cs(`\`), letter('x')}},
		{`\1 x`, token.List{token.Cs("1"), space, letter('x')}},
		{"a", token.List{letter('a')}},
		{"a\r\nb", token.List{letter('a'), space, letter('b')}},
		{"~", token.List{token.ActiveChar('~')}},
		{"{$#}", token.List{
			token.Char{Code: '{', Cat: token.BeginGroup},
			token.Char{Code: '$', Cat: token.MathShift},
			token.Char{Code: '#', Cat: token.Parameter},
			token.Char{Code: '}', Cat: token.EndGroup},
		}},
	}
	for i, x := range inputs {
		l, _ := lex(t, x.input)
		if diff := cmp.Diff(x.tokens, l); diff != "" {
			t.Errorf("%d: %q: tokens differ (-want +got):\n%s", i, x.input, diff)
		}
	}
}

func TestLexerCountsLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	_, lx := lex(t, "a\nb % c\nd\n")
	if lx.line != 4 {
		t.Errorf("expected lexer to be at line 4, is at %d", lx.line)
	}
}

func TestLexerUsesCurrentCatcodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.engine")
	defer teardown()
	//
	cats := map[rune]token.Catcode{'@': token.Letter}
	lx := newLexer("test", strings.NewReader(`\a@b@`), func(r rune) token.Catcode {
		if c, ok := cats[r]; ok {
			return c
		}
		return token.DefaultCatcode(r)
	})
	obj, err := lx.next()
	if err != nil {
		t.Fatal(err)
	}
	if !token.Equal(obj, token.Cs("a@b@")) {
		t.Errorf("expected \\a@b@, have %v", obj)
	}
	lx = newLexer("test", strings.NewReader(`\a@`), token.DefaultCatcode)
	if obj, _ = lx.next(); !token.Equal(obj, token.Cs("a")) {
		t.Errorf("expected \\a, have %v", obj)
	}
}
