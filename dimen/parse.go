package dimen

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Token values of the length lexer.
const (
	tokNumber int = iota + 1
	tokUnit
	tokPercent
)

var lexer *lexmachine.Lexer
var lexerErr error
var initOnce sync.Once // monitors one-time initialization

func initLexer() {
	initOnce.Do(func() {
		lexer = lexmachine.NewLexer()
		lexer.Add([]byte(`[\+\-]?([0-9]+([\.,][0-9]*)?|[\.,][0-9]+)`), makeToken(tokNumber))
		lexer.Add([]byte(`([a-z]|[A-Z])+`), makeToken(tokUnit))
		lexer.Add([]byte(`%`), makeToken(tokPercent))
		lexer.Add([]byte(`( |\t|\n|\r)+`), skip)
		lexerErr = lexer.Compile()
	})
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// Parse reads a length from a string, such as "12pt", "-1.5em" or "50%".
// Blanks between value and unit are permitted, as is a decimal comma.
func Parse(s string) (Length, error) {
	initLexer()
	if lexerErr != nil {
		return Zero, lexerErr
	}
	scanner, err := lexer.Scanner([]byte(s))
	if err != nil {
		return Zero, err
	}
	var toks []*lexmachine.Token
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if err != nil {
			return Zero, fmt.Errorf("illegal length %q: %w", s, err)
		}
		toks = append(toks, tok.(*lexmachine.Token))
	}
	if len(toks) != 2 || toks[0].Type != tokNumber {
		return Zero, fmt.Errorf("illegal length %q", s)
	}
	v, err := ParseDecimal(toks[0].Value.(string))
	if err != nil {
		return Zero, fmt.Errorf("illegal length %q: %w", s, err)
	}
	var u Unit
	switch toks[1].Type {
	case tokPercent:
		u = Percent
	case tokUnit:
		var ok bool
		if u, ok = UnitFromString(toks[1].Value.(string)); !ok {
			return Zero, fmt.Errorf("illegal unit of measure in %q", s)
		}
	default:
		return Zero, fmt.Errorf("missing unit of measure in %q", s)
	}
	tracer().Debugf("parsed length %s%s", v, u)
	return New(v, u), nil
}

// ParseDecimal converts a TeX decimal constant, which may use a comma
// as decimal separator and may omit digits before or after it.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.Replace(s, ",", ".", 1)
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	if i := strings.Index(s, "."); i >= 0 && (i == 0 || !isDigit(s[i-1])) {
		s = s[:i] + "0" + s[i:]
	}
	return decimal.NewFromString(s)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
