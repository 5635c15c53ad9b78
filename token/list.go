package token

import "strings"

// List is a sequence of objects. Lists are produced by the tokenizer,
// by argument scanning and as macro replacement texts.
type List []Object

// Kind is KindList.
func (l List) Kind() Kind { return KindList }

// Clone copies l deeply.
func (l List) Clone() Object {
	return l.Copy()
}

// Copy is Clone with a typed result.
func (l List) Copy() List {
	if l == nil {
		return nil
	}
	c := make(List, len(l))
	for i, o := range l {
		c[i] = o.Clone()
	}
	return c
}

func (l List) String() string {
	return l.Format('\\')
}

// Format renders l as source text. As TeX does, a control word is followed
// by a space if the next object is a letter.
func (l List) Format(esc rune) string {
	var b strings.Builder
	for i, o := range l {
		b.WriteString(o.Format(esc))
		if cs, ok := o.(CsRef); ok && cs.IsControlWord() && i+1 < len(l) {
			if c, ok := l[i+1].(Char); ok && c.Cat == Letter {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

// Explode detokenizes l. Unlike Format, every control word is followed by
// a space, the way \detokenize does it.
func (l List) Explode(esc rune) List {
	out := make(List, 0, len(l))
	for _, o := range l {
		out = append(out, o.Explode(esc)...)
		if cs, ok := o.(CsRef); ok && cs.IsControlWord() {
			out = append(out, Char{Code: ' ', Cat: Space})
		}
	}
	return out
}

// Equal compares l and m element-wise.
func (l List) Equal(m List) bool {
	if len(l) != len(m) {
		return false
	}
	for i := range l {
		if !Equal(l[i], m[i]) {
			return false
		}
	}
	return true
}

// Text concatenates the character codes of l, skipping everything which
// is not a character.
func (l List) Text() string {
	var b strings.Builder
	for _, o := range l {
		if c, ok := o.(Char); ok {
			b.WriteRune(c.Code)
		}
	}
	return b.String()
}

// TrimSpace removes leading and trailing blank spaces.
func (l List) TrimSpace() List {
	isSpace := func(o Object) bool {
		c, ok := o.(Char)
		return ok && c.Cat == Space
	}
	for len(l) > 0 && isSpace(l[0]) {
		l = l[1:]
	}
	for len(l) > 0 && isSpace(l[len(l)-1]) {
		l = l[:len(l)-1]
	}
	return l
}

// ---------------------------------------------------------------------------

// Group is a list which has been read as a brace-delimited group. When the
// engine processes a group, it opens a local scope around the content.
type Group List

// Kind is KindGroup.
func (g Group) Kind() Kind { return KindGroup }

// Clone copies g deeply.
func (g Group) Clone() Object {
	return Group(List(g).Copy())
}

func (g Group) String() string {
	return g.Format('\\')
}

// Format renders g with surrounding braces.
func (g Group) Format(esc rune) string {
	return "{" + List(g).Format(esc) + "}"
}

// Explode detokenizes g, including the braces.
func (g Group) Explode(esc rune) List {
	out := List{otherChar('{')}
	out = append(out, List(g).Explode(esc)...)
	return append(out, otherChar('}'))
}

// Unwrap returns the braced content together with the delimiting
// characters, as the tokenizer would have produced them.
func (g Group) Unwrap() List {
	out := make(List, 0, len(g)+2)
	out = append(out, Char{Code: '{', Cat: BeginGroup})
	out = append(out, g...)
	return append(out, Char{Code: '}', Cat: EndGroup})
}

// ---------------------------------------------------------------------------

// Letters converts s into a list of characters with category 'letter' for
// letters, 'space' for blanks and 'other' for everything else.
func Letters(s string) List {
	l := make(List, 0, len(s))
	for _, r := range s {
		switch {
		case r == ' ':
			l = append(l, Char{Code: r, Cat: Space})
		case isLetter(r):
			l = append(l, Char{Code: r, Cat: Letter})
		default:
			l = append(l, Char{Code: r, Cat: Other})
		}
	}
	return l
}

// Others converts s into a list of characters with category 'other',
// except for blanks. This is what \the and \string produce.
func Others(s string) List {
	l := make(List, 0, len(s))
	for _, r := range s {
		l = append(l, otherChar(r))
	}
	return l
}
