package regex

import (
	"fmt"
	"strings"
)

const (
	// MaxTokens is the number of tokens a compiled pattern can hold, including
	// the terminating End token.
	MaxTokens = 30
	// MaxClassLen bounds the body of a bracket expression. At most
	// MaxClassLen-1 pattern bytes contribute class items.
	MaxClassLen = 40
)

type Kind uint8

const (
	End Kind = iota
	Literal
	AnyChar
	BeginAnchor
	EndAnchor
	Star
	Plus
	Question
	Digit
	NotDigit
	AlphaNum
	NotAlphaNum
	Whitespace
	NotWhitespace
	CharClass
	NegatedCharClass
)

var kindNames = []string{
	"End",
	"Literal",
	"AnyChar",
	"BeginAnchor",
	"EndAnchor",
	"Star",
	"Plus",
	"Question",
	"Digit",
	"NotDigit",
	"AlphaNum",
	"NotAlphaNum",
	"Whitespace",
	"NotWhitespace",
	"CharClass",
	"NegatedCharClass",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

func (k Kind) isShorthand() bool {
	return k >= Digit && k <= NotWhitespace
}

// ClassItem is one member of a bracket expression. Kind is Literal for a single
// byte or an inclusive range (From == To for a single byte), or one of the
// shorthand kinds Digit through NotWhitespace.
type ClassItem struct {
	Kind Kind
	From byte
	To   byte
}

func (it ClassItem) matches(c byte) bool {
	if it.Kind == Literal {
		return c >= it.From && c <= it.To
	}
	return matchShorthand(it.Kind, c)
}

func (it ClassItem) String() string {
	if it.Kind.isShorthand() {
		return `\` + string(shorthandLetter(it.Kind))
	}
	if it.From == it.To {
		return classByte(it.From)
	}
	return classByte(it.From) + "-" + classByte(it.To)
}

type Token struct {
	Kind  Kind
	Char  byte
	Class []ClassItem
}

// Matches reports whether the token accepts the single byte c. Anchors,
// quantifier markers and End never accept a byte; the matcher handles them.
func (t Token) Matches(c byte) bool {
	switch t.Kind {
	case Literal:
		return t.Char == c
	case AnyChar:
		return c != '\n' && c != '\r'
	case CharClass, NegatedCharClass:
		found := false
		for _, it := range t.Class {
			if it.matches(c) {
				found = true
				break
			}
		}
		return found != (t.Kind == NegatedCharClass)
	}
	if t.Kind.isShorthand() {
		return matchShorthand(t.Kind, c)
	}
	return false
}

func (t Token) String() string {
	switch t.Kind {
	case Literal:
		return fmt.Sprintf("%s %q", t.Kind, t.Char)
	case CharClass, NegatedCharClass:
		out := strings.Builder{}
		out.WriteString(t.Kind.String())
		out.WriteString(" [")
		for _, it := range t.Class {
			out.WriteString(it.String())
		}
		out.WriteString("]")
		return out.String()
	}
	return t.Kind.String()
}

func (t Token) clone() Token {
	if t.Class != nil {
		t.Class = append([]ClassItem(nil), t.Class...)
	}
	return t
}

func matchShorthand(k Kind, c byte) bool {
	switch k {
	case Digit:
		return isDigit(c)
	case NotDigit:
		return !isDigit(c)
	case AlphaNum:
		return isWord(c)
	case NotAlphaNum:
		return !isWord(c)
	case Whitespace:
		return isSpace(c)
	case NotWhitespace:
		return !isSpace(c)
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWord(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || isDigit(c) || c == '_'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// supported: \d, \D, \w, \W, \s, \S
func shorthandKind(c byte) (Kind, bool) {
	switch c {
	case 'd':
		return Digit, true
	case 'D':
		return NotDigit, true
	case 'w':
		return AlphaNum, true
	case 'W':
		return NotAlphaNum, true
	case 's':
		return Whitespace, true
	case 'S':
		return NotWhitespace, true
	}
	return End, false
}

func shorthandLetter(k Kind) byte {
	return "dDwWsS"[k-Digit]
}

// classByte renders c for the token dump, escaping bytes that are special inside [...]
func classByte(c byte) string {
	switch c {
	case ']', '\\', '-', '^':
		return `\` + string(c)
	}
	if c < 0x20 || c >= 0x7f {
		return fmt.Sprintf(`\x%02x`, c)
	}
	return string(c)
}
