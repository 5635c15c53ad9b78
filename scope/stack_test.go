package scope

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/texparse/token"
)

func TestLocalBindingIsRestored(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.scope")
	defer teardown()
	//
	s := NewStack()
	s.PutControlSequence("x", token.Letters("outer"), false)
	s.StartGroup(BraceGroup, "")
	s.PutControlSequence("x", token.Letters("inner"), false)
	if v := s.ControlSequence("x"); v.String() != "inner" {
		t.Errorf("expected inner binding, have %v", v)
	}
	f, err := s.EndGroup(BraceGroup, "")
	if err != nil {
		t.Fatal(err)
	}
	if v := s.ControlSequence("x"); v.String() != "outer" {
		t.Errorf("expected outer binding to be restored, have %v", v)
	}
	if len(f.Changed()) != 1 || f.Changed()[0] != "cs:x" {
		t.Errorf("expected ledger to contain cs:x, is %v", f.Changed())
	}
}

func TestGlobalAssignmentSurvivesGroups(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.scope")
	defer teardown()
	//
	s := NewStack()
	s.StartGroup(BraceGroup, "")
	s.SetRegister("count1", token.Number(1), false)
	s.StartGroup(SemiSimpleGroup, "")
	s.SetRegister("count1", token.Number(7), true)
	if _, err := s.EndGroup(SemiSimpleGroup, ""); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Register("count1"); v != token.Number(7) {
		t.Errorf("expected 7 after inner group, have %v", v)
	}
	if _, err := s.EndGroup(BraceGroup, ""); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Register("count1"); v != token.Number(7) {
		t.Errorf("expected global value 7, have %v", v)
	}
}

func TestCatcodeScoping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.scope")
	defer teardown()
	//
	s := NewStack()
	if s.Catcode('@') != token.Other {
		t.Errorf("expected @ to be other initially")
	}
	s.StartGroup(BraceGroup, "")
	s.SetCatcode('@', token.Letter, false)
	if s.Catcode('@') != token.Letter {
		t.Errorf("expected @ to be a letter inside group")
	}
	s.EndGroup(BraceGroup, "")
	if s.Catcode('@') != token.Other {
		t.Errorf("expected @ to be other again")
	}
}

func TestFontAttributesInherit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.scope")
	defer teardown()
	//
	s := NewStack()
	s.StartGroup(BraceGroup, "")
	s.SetFont(FontWeight, WeightBf)
	s.StartGroup(BraceGroup, "")
	s.SetFont(FontShape, ShapeIt)
	f := s.Font()
	if f.Weight != WeightBf || f.Shape != ShapeIt || f.Family != FamilyRM {
		t.Errorf("unexpected font %+v", f)
	}
	s.EndGroup(BraceGroup, "")
	if s.FontAttr(FontShape) != ShapeUp || s.FontAttr(FontWeight) != WeightBf {
		t.Errorf("expected shape restored and weight kept, have %+v", s.Font())
	}
	s.EndGroup(BraceGroup, "")
	if s.Font() != DefaultFont {
		t.Errorf("expected default font at top level, have %+v", s.Font())
	}
}

func TestGroupMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.scope")
	defer teardown()
	//
	s := NewStack()
	if _, err := s.EndGroup(BraceGroup, ""); err != ErrNoGroup {
		t.Errorf("expected ErrNoGroup, have %v", err)
	}
	s.StartGroup(EnvironmentGroup, "itemize")
	_, err := s.EndGroup(EnvironmentGroup, "enumerate")
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected mismatch error, have %v", err)
	}
	if s.Depth() != 1 || s.Current().ID != "itemize" {
		t.Errorf("expected failed EndGroup to leave the stack untouched")
	}
	if _, err = s.EndGroup(BraceGroup, ""); err == nil {
		t.Errorf("expected } to mismatch an environment")
	}
}

func TestMetricsFollowFontSize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texparse.scope")
	defer teardown()
	//
	s := NewStack()
	if em := s.Metrics().EmWidth().String(); em != "10" {
		t.Errorf("expected 1em = 10pt, is %s", em)
	}
	s.StartGroup(BraceGroup, "")
	s.SetFont(FontSize, SizeLarge)
	if em := s.Metrics().EmWidth().String(); em != "12" {
		t.Errorf("expected 1em = 12pt in \\large, is %s", em)
	}
}
