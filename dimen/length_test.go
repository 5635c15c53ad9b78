package dimen

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/shopspring/decimal"
)

func TestParseLength(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.dimen")
	defer teardown()
	//
	for i, x := range []struct {
		input string
		value string
		unit  Unit
	}{
		{"12pt", "12", PT},
		{"-1.5em", "-1.5", EM},
		{"3 cm", "3", CM},
		{".5in", "0.5", IN},
		{"2,5mm", "2.5", MM},
		{"50%", "50", Percent},
		{"7PT", "7", PT},
	} {
		l, err := Parse(x.input)
		if err != nil {
			t.Errorf("%d: unexpected error for %q: %v", i, x.input, err)
			continue
		}
		v, _ := decimal.NewFromString(x.value)
		if !l.Value.Equal(v) || l.Unit != x.unit {
			t.Errorf("%d: expected %s%s, have %s", i, x.value, x.unit, l)
		}
	}
}

func TestParseIllegalLength(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.dimen")
	defer teardown()
	//
	for _, input := range []string{"12", "pt", "12furlongs", "1pt 2pt", ""} {
		if _, err := Parse(input); err == nil {
			t.Errorf("expected %q to be rejected", input)
		}
	}
}

func TestConversion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.dimen")
	defer teardown()
	//
	inch := New(decimal.New(1, 0), IN)
	cm := New(decimal.New(254, -2), CM)
	if inch.Sp(nil) != cm.Sp(nil) {
		t.Errorf("expected 1in = 2.54cm, have %d sp and %d sp", inch.Sp(nil), cm.Sp(nil))
	}
	if Points(1).Sp(nil) != 65536 {
		t.Errorf("expected 1pt to be 65536sp, is %d", Points(1).Sp(nil))
	}
	em := New(decimal.New(2, 0), EM)
	if !em.InPoints(nil).Equal(decimal.New(20, 0)) {
		t.Errorf("expected 2em to be 20pt with default metrics, is %s", em.InPoints(nil))
	}
	half := New(decimal.New(50, 0), Percent)
	if !half.InPoints(nil).Equal(decimal.New(1725, -1)) {
		t.Errorf("expected 50%% to be 172.5pt, is %s", half.InPoints(nil))
	}
	big := FixedMetrics(decimal.New(20, 0), decimal.New(9, 0), decimal.New(400, 0))
	if em.Compare(Points(40), big) != 0 {
		t.Errorf("expected 2em to be 40pt for a 20pt font")
	}
}

func TestArithmetic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.dimen")
	defer teardown()
	//
	a := New(decimal.New(1, -1), EM)
	b := New(decimal.New(2, -1), EM)
	sum := a.Add(b, nil)
	if !sum.Equal(New(decimal.New(3, -1), EM)) {
		t.Errorf("expected 0.1em+0.2em = 0.3em, have %s", sum)
	}
	mixed := Points(10).Add(New(decimal.New(1, 0), EM), nil)
	if mixed.Unit != PT || !mixed.Value.Equal(decimal.New(20, 0)) {
		t.Errorf("expected 10pt+1em = 20pt, have %s", mixed)
	}
	if _, err := Points(1).Divide(0); err == nil {
		t.Errorf("expected division by zero to fail")
	}
	q, _ := Points(9).Divide(2)
	if q.String() != "4.5pt" {
		t.Errorf("expected 9pt/2 = 4.5pt, have %s", q)
	}
}

func TestTeXString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.dimen")
	defer teardown()
	//
	for _, x := range []struct {
		l    Length
		text string
	}{
		{Points(3), "3.0pt"},
		{New(decimal.New(125, -1), PT), "12.5pt"},
		{Points(-2), "-2.0pt"},
		{Zero, "0.0pt"},
	} {
		if s := x.l.TeXString(nil); s != x.text {
			t.Errorf("expected %s, have %s", x.text, s)
		}
	}
}
