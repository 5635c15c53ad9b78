package engine

import (
	"bufio"
	"io"

	"github.com/npillmayer/texparse/token"
)

// lexState is TeX's state of the input line: at the beginning of a line
// (N), in the middle of a line (M), or skipping blanks (S).
type lexState uint8

const (
	stateNewLine lexState = iota
	stateMidLine
	stateSkipBlanks
)

// lexer converts characters into tokens. Category codes are looked up at
// the time a character is read, so catcode changes take effect for all
// input not yet tokenized.
type lexer struct {
	input     io.RuneReader
	name      string
	line      int
	state     lexState
	catcode   func(rune) token.Catcode
	lookahead struct {
		r  rune
		ok bool
	}
	isEOF     bool
	onInvalid func(r rune)
}

func newLexer(name string, r io.Reader, catcode func(rune) token.Catcode) *lexer {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	return &lexer{input: rr, name: name, line: 1, catcode: catcode}
}

func (l *lexer) read() (rune, error) {
	if l.lookahead.ok {
		l.lookahead.ok = false
		return l.lookahead.r, nil
	}
	if l.isEOF {
		return 0, io.EOF
	}
	r, _, err := l.input.ReadRune()
	if err != nil {
		if err == io.EOF {
			l.isEOF = true
		}
		return 0, err
	}
	if r == '\r' { // CR and CRLF end a line, too
		next, _, err := l.input.ReadRune()
		if err == nil && next != '\n' {
			l.unread(next)
		} else if err == io.EOF {
			l.isEOF = true
		}
		r = '\n'
	}
	return r, nil
}

func (l *lexer) unread(r rune) {
	l.lookahead.r, l.lookahead.ok = r, true
}

// next returns the next token, or io.EOF.
func (l *lexer) next() (token.Object, error) {
	for {
		r, err := l.read()
		if err != nil {
			return nil, err
		}
		cat := l.catcode(r)
		if r == '\n' && cat != token.EndOfLine {
			l.line++
		}
		switch cat {
		case token.Escape:
			return l.controlSequence()
		case token.EndOfLine:
			l.line++
			st := l.state
			l.state = stateNewLine
			switch st {
			case stateNewLine:
				return token.Cs("par"), nil
			case stateMidLine:
				return token.Char{Code: ' ', Cat: token.Space}, nil
			}
		case token.Space:
			if l.state == stateMidLine {
				l.state = stateSkipBlanks
				return token.Char{Code: ' ', Cat: token.Space}, nil
			}
		case token.Comment:
			l.skipLine()
		case token.Ignored:
		case token.Invalid:
			if l.onInvalid != nil {
				l.onInvalid(r)
			}
		case token.Active:
			l.state = stateMidLine
			return token.ActiveChar(r), nil
		default:
			l.state = stateMidLine
			return token.Char{Code: r, Cat: cat}, nil
		}
	}
}

func (l *lexer) controlSequence() (token.Object, error) {
	r, err := l.read()
	if err == io.EOF || r == '\n' {
		if r == '\n' {
			l.line++
		}
		l.state = stateNewLine
		return token.Cs(" "), nil
	} else if err != nil {
		return nil, err
	}
	cat := l.catcode(r)
	if cat != token.Letter {
		if cat == token.Space {
			l.state = stateSkipBlanks
		} else {
			l.state = stateMidLine
		}
		return token.Cs(string(r)), nil
	}
	name := []rune{r}
	for {
		r, err = l.read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if l.catcode(r) != token.Letter {
			l.unread(r)
			break
		}
		name = append(name, r)
	}
	l.state = stateSkipBlanks
	return token.Cs(string(name)), nil
}

// skipLine drops the rest of the current line, including the line end.
func (l *lexer) skipLine() {
	for {
		r, err := l.read()
		if err != nil {
			return
		}
		if r == '\n' {
			l.line++
			l.state = stateNewLine
			return
		}
	}
}
