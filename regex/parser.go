package regex

import (
	"errors"
	"fmt"
)

var (
	ErrPatternTooLong    = errors.New("pattern exceeds token capacity")
	ErrClassTooLong      = errors.New("bracket expression exceeds class capacity")
	ErrUnterminatedClass = errors.New("did not find closing ']'")
	ErrMissingOperand    = errors.New("nothing to repeat")
	ErrMisplacedAnchor   = errors.New("unexpected anchor")
	ErrInvalidRange      = errors.New("invalid range in bracket expression")
)

type parserError struct {
	inner   error
	message string
}

func (p parserError) Error() string {
	return p.message
}

func (p parserError) Unwrap() error {
	return p.inner
}

func newParserError(i int, inner error) parserError {
	return parserError{message: fmt.Sprintf("parser error at %d: %v", i, inner), inner: inner}
}

type parser struct {
	re     string
	tokens []Token
	// first degradation seen, reported only by CompileStrict
	err error
}

func (p *parser) fail(i int, inner error) {
	if p.err == nil {
		p.err = newParserError(i, inner)
	}
}

// parse compiles the whole pattern. It never stops on malformed input, it only
// records the first problem in p.err and carries on the way Compile documents.
func (p *parser) parse() {
	re := p.re
	i := 0
	for i < len(re) {
		if len(p.tokens)+1 >= MaxTokens {
			p.fail(i, ErrPatternTooLong)
			break
		}

		var tok Token
		switch re[i] {
		case '[':
			tok, i = p.parseBracket(i)
		case '^':
			if i != 0 {
				p.fail(i, ErrMisplacedAnchor)
			}
			tok = Token{Kind: BeginAnchor}
			i++
		case '$':
			if i != len(re)-1 {
				p.fail(i, ErrMisplacedAnchor)
			}
			tok = Token{Kind: EndAnchor}
			i++
		case '.':
			tok = Token{Kind: AnyChar}
			i++
		case '*', '+', '?':
			p.checkOperand(i)
			tok = Token{Kind: quantifierKind(re[i])}
			i++
		case '\\':
			tok, i = parseEscape(re, i)
		default:
			tok = Token{Kind: Literal, Char: re[i]}
			i++
		}
		p.tokens = append(p.tokens, tok)
	}
	p.tokens = append(p.tokens, Token{Kind: End})
}

// a quantifier needs a preceding token that consumes a byte
func (p *parser) checkOperand(i int) {
	if len(p.tokens) == 0 {
		p.fail(i, ErrMissingOperand)
		return
	}
	switch p.tokens[len(p.tokens)-1].Kind {
	case Star, Plus, Question, BeginAnchor, EndAnchor:
		p.fail(i, ErrMissingOperand)
	}
}

func quantifierKind(c byte) Kind {
	switch c {
	case '*':
		return Star
	case '+':
		return Plus
	}
	return Question
}

// \d, \D, \w, \W, \s, \S, otherwise the escaped byte itself
// a trailing '\' is a literal '\'
func parseEscape(re string, i int) (Token, int) {
	if i+1 >= len(re) {
		return Token{Kind: Literal, Char: '\\'}, i + 1
	}
	if k, ok := shorthandKind(re[i+1]); ok {
		return Token{Kind: k}, i + 2
	}
	return Token{Kind: Literal, Char: re[i+1]}, i + 2
}

// [...] and [^...]
// an unescaped ']' always ends the expression, escape it to include it
// a missing ']' consumes the rest of the pattern
func (p *parser) parseBracket(i int) (Token, int) {
	re := p.re
	open := i

	// pop off '['
	j := i + 1

	tok := Token{Kind: CharClass, Class: make([]ClassItem, 0)}
	if j < len(re) && re[j] == '^' {
		tok.Kind = NegatedCharClass
		j++
	}

	used := 0
	for j < len(re) && re[j] != ']' {
		itemStart := j
		var item ClassItem
		item, j = parseClassItem(re, j)

		// range a-z, '-' is literal when it starts or ends the body
		if item.Kind == Literal && j+1 < len(re) && re[j] == '-' && re[j+1] != ']' {
			if hi, next, ok := parseRangeEnd(re, j+1); ok {
				if hi < item.From {
					p.fail(itemStart, ErrInvalidRange)
				}
				item.To = hi
				j = next
			}
		}

		if used+j-itemStart > MaxClassLen-1 {
			p.fail(itemStart, ErrClassTooLong)
			continue
		}
		used += j - itemStart
		tok.Class = append(tok.Class, item)
	}

	if j >= len(re) {
		p.fail(open, ErrUnterminatedClass)
		return tok, j
	}

	// pop off ']'
	return tok, j + 1
}

func parseClassItem(re string, j int) (ClassItem, int) {
	if re[j] != '\\' {
		return ClassItem{Kind: Literal, From: re[j], To: re[j]}, j + 1
	}
	if j+1 >= len(re) {
		return ClassItem{Kind: Literal, From: '\\', To: '\\'}, j + 1
	}
	if k, ok := shorthandKind(re[j+1]); ok {
		return ClassItem{Kind: k}, j + 2
	}
	return ClassItem{Kind: Literal, From: re[j+1], To: re[j+1]}, j + 2
}

// the upper bound of a range is a plain byte or an escaped non-shorthand byte
func parseRangeEnd(re string, j int) (byte, int, bool) {
	if re[j] != '\\' {
		return re[j], j + 1, true
	}
	if j+1 >= len(re) {
		return '\\', j + 1, true
	}
	if _, ok := shorthandKind(re[j+1]); ok {
		return 0, j, false
	}
	return re[j+1], j + 2, true
}
