package token

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/texparse/dimen"
)

func TestDefaultCatcodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.token")
	defer teardown()
	//
	for r, cat := range map[rune]Catcode{
		'\\': Escape, '{': BeginGroup, '}': EndGroup, '$': MathShift,
		'&': AlignTab, '#': Parameter, '^': Superscript, '_': Subscript,
		' ': Space, 'a': Letter, 'Z': Letter, 'ä': Letter, '1': Other,
		'.': Other, '~': Active, '%': Comment, '\n': EndOfLine,
	} {
		if c := DefaultCatcode(r); c != cat {
			t.Errorf("expected catcode of %q to be %d, is %d", r, cat, c)
		}
	}
}

func TestFormatList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.token")
	defer teardown()
	//
	l := List{Cs("foo"), Char{'b', Letter}, Cs("bar"), Char{'1', Other}, Param{1}}
	if s := l.Format('\\'); s != `\foo b\bar1#1` {
		t.Errorf("unexpected format: %q", s)
	}
	g := Group(Letters("ab"))
	if s := g.String(); s != "{ab}" {
		t.Errorf("unexpected format of group: %q", s)
	}
}

func TestExplode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.token")
	defer teardown()
	//
	l := List{Cs("foo"), Char{'x', Letter}}.Explode('\\')
	expected := Others(`\foo x`)
	if !l.Equal(expected) {
		t.Errorf("expected %v, have %v", expected, l)
	}
	for _, o := range l {
		c := o.(Char)
		if c.Code == ' ' && c.Cat != Space || c.Code != ' ' && c.Cat != Other {
			t.Errorf("unexpected catcode %d for %q", c.Cat, c.Code)
		}
	}
	if s := ActiveChar('~').Explode('\\').Text(); s != "~" {
		t.Errorf("expected active char to explode to ~, is %q", s)
	}
}

func TestCloneIsDeep(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.token")
	defer teardown()
	//
	inner := List{Char{'a', Letter}}
	l := List{Group(inner), Cs("x")}
	c := l.Copy()
	inner[0] = Char{'z', Letter}
	if !cmp.Equal(c.Format('\\'), `{a}\x`) {
		t.Errorf("clone shares state with original: %s", c)
	}
}

func TestEquality(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.token")
	defer teardown()
	//
	if Equal(Char{'a', Letter}, Char{'a', Other}) {
		t.Errorf("characters with different catcodes must differ")
	}
	if !Equal(Cs("x"), Cs("x")) || Equal(Cs("x"), ActiveChar('x')) {
		t.Errorf("control sequence equality broken")
	}
	if !Equal(NewDimen(dimen.Points(2)), NewDimen(dimen.Points(2))) {
		t.Errorf("equal dimensions must be equal")
	}
}

func TestNumberArithmetic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.token")
	defer teardown()
	//
	n, err := Number(7).Multiply(6)
	if err != nil || n != 42 {
		t.Errorf("expected 7*6 = 42, have %d (%v)", n, err)
	}
	if _, err = Number(1).Divide(0); err != ErrDivisionByZero {
		t.Errorf("expected division by zero error, have %v", err)
	}
	if _, err = Number(MaxNumber).Advance(1); err != ErrArithOverflow {
		t.Errorf("expected overflow, have %v", err)
	}
	q, _ := Number(-7).Divide(2)
	if q != -3 {
		t.Errorf("expected -7/2 to truncate to -3, is %d", q)
	}
}
