package regex

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func lit(c byte) Token {
	return Token{Kind: Literal, Char: c}
}

func one(c byte) ClassItem {
	return ClassItem{Kind: Literal, From: c, To: c}
}

func span(from, to byte) ClassItem {
	return ClassItem{Kind: Literal, From: from, To: to}
}

var endTok = Token{Kind: End}

func TestCompile(t *testing.T) {
	tests := map[string]struct {
		givenRe    string
		wantTokens []Token
	}{
		"empty pattern": {
			givenRe:    "",
			wantTokens: []Token{endTok},
		},
		"literals": {
			givenRe:    "abc",
			wantTokens: []Token{lit('a'), lit('b'), lit('c'), endTok},
		},
		"anchors and wildcard": {
			givenRe:    "^a.b$",
			wantTokens: []Token{{Kind: BeginAnchor}, lit('a'), {Kind: AnyChar}, lit('b'), {Kind: EndAnchor}, endTok},
		},
		"quantifiers follow their operand": {
			givenRe:    "a*b+c?",
			wantTokens: []Token{lit('a'), {Kind: Star}, lit('b'), {Kind: Plus}, lit('c'), {Kind: Question}, endTok},
		},
		"perl shorthands": {
			givenRe: `\d\D\w\W\s\S`,
			wantTokens: []Token{
				{Kind: Digit}, {Kind: NotDigit},
				{Kind: AlphaNum}, {Kind: NotAlphaNum},
				{Kind: Whitespace}, {Kind: NotWhitespace},
				endTok,
			},
		},
		"escaped meta characters are literals": {
			givenRe:    `\.\*\\\[`,
			wantTokens: []Token{lit('.'), lit('*'), lit('\\'), lit('['), endTok},
		},
		"escaped letters are the letter itself": {
			givenRe:    `\n\t`,
			wantTokens: []Token{lit('n'), lit('t'), endTok},
		},
		"trailing backslash": {
			givenRe:    `a\`,
			wantTokens: []Token{lit('a'), lit('\\'), endTok},
		},
		"alternation bar and braces are literal": {
			givenRe:    "a|b{2}",
			wantTokens: []Token{lit('a'), lit('|'), lit('b'), lit('{'), lit('2'), lit('}'), endTok},
		},
		"leading quantifier is kept as is": {
			givenRe:    "*a",
			wantTokens: []Token{{Kind: Star}, lit('a'), endTok},
		},
		"bracket with range": {
			givenRe:    "[a-h]+",
			wantTokens: []Token{{Kind: CharClass, Class: []ClassItem{span('a', 'h')}}, {Kind: Plus}, endTok},
		},
		"negated bracket": {
			givenRe:    "[^abc]",
			wantTokens: []Token{{Kind: NegatedCharClass, Class: []ClassItem{one('a'), one('b'), one('c')}}, endTok},
		},
		"bracket with shorthands": {
			givenRe:    `[\d_\S]`,
			wantTokens: []Token{{Kind: CharClass, Class: []ClassItem{{Kind: Digit}, one('_'), {Kind: NotWhitespace}}}, endTok},
		},
		"dash at the edges is literal": {
			givenRe:    "[-a-]",
			wantTokens: []Token{{Kind: CharClass, Class: []ClassItem{one('-'), one('a'), one('-')}}, endTok},
		},
		"dash after a range is literal": {
			givenRe:    "[a-b-c]",
			wantTokens: []Token{{Kind: CharClass, Class: []ClassItem{span('a', 'b'), one('-'), one('c')}}, endTok},
		},
		"dash before a shorthand is literal": {
			givenRe:    `[a-\d]`,
			wantTokens: []Token{{Kind: CharClass, Class: []ClassItem{one('a'), one('-'), {Kind: Digit}}}, endTok},
		},
		"escaped range bounds": {
			givenRe:    `[\.-\]]`,
			wantTokens: []Token{{Kind: CharClass, Class: []ClassItem{span('.', ']')}}, endTok},
		},
		"escaped closing bracket": {
			givenRe:    `[\]x]`,
			wantTokens: []Token{{Kind: CharClass, Class: []ClassItem{one(']'), one('x')}}, endTok},
		},
		"empty bracket": {
			givenRe:    "[]a",
			wantTokens: []Token{{Kind: CharClass}, lit('a'), endTok},
		},
		"unterminated bracket consumes the rest": {
			givenRe:    "x[ab*",
			wantTokens: []Token{lit('x'), {Kind: CharClass, Class: []ClassItem{one('a'), one('b'), one('*')}}, endTok},
		},
		"lone bracket": {
			givenRe:    "[",
			wantTokens: []Token{{Kind: CharClass}, endTok},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			gotTokens := Compile(tt.givenRe).Tokens()

			// then
			if d := cmp.Diff(tt.wantTokens, gotTokens, cmpopts.EquateEmpty()); d != "" {
				t.Errorf("got diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestCompileTruncates(t *testing.T) {
	t.Run("token capacity", func(t *testing.T) {
		// when
		toks := Compile(strings.Repeat("a", 2*MaxTokens)).Tokens()

		// then
		if len(toks) != MaxTokens {
			t.Fatalf("got %d tokens, want %d", len(toks), MaxTokens)
		}
		if toks[len(toks)-1].Kind != End {
			t.Errorf("last token is %v, want End", toks[len(toks)-1])
		}
	})

	t.Run("class capacity drops excess items", func(t *testing.T) {
		// when
		toks := Compile("[" + strings.Repeat("x", MaxClassLen-1) + "yz]q").Tokens()

		// then
		want := []Token{{Kind: CharClass}, lit('q'), endTok}
		if d := cmp.Diff(want, toks, cmpopts.IgnoreFields(Token{}, "Class")); d != "" {
			t.Errorf("got diff (-want +got):\n%s", d)
		}
		if len(toks[0].Class) != MaxClassLen-1 {
			t.Errorf("got %d class items, want %d", len(toks[0].Class), MaxClassLen-1)
		}
		if toks[0].Matches('y') || toks[0].Matches('z') {
			t.Errorf("class %v kept items beyond its capacity", toks[0])
		}
	})

	t.Run("escape pair must fit entirely", func(t *testing.T) {
		// when
		toks := Compile("[" + strings.Repeat("x", MaxClassLen-2) + `\d]`).Tokens()

		// then
		if toks[0].Matches('5') {
			t.Errorf("class %v kept a shorthand beyond its capacity", toks[0])
		}
		if !toks[0].Matches('x') {
			t.Errorf("class %v lost its leading items", toks[0])
		}
	})
}

func TestCompileStrict(t *testing.T) {
	tests := map[string]struct {
		givenRe string
		wantErr error
	}{
		"valid":                   {givenRe: `^\w+@[a-z]+\.com$`},
		"exactly at capacity":     {givenRe: strings.Repeat("a", MaxTokens-1)},
		"too many tokens":         {givenRe: strings.Repeat("a", MaxTokens), wantErr: ErrPatternTooLong},
		"class too long":          {givenRe: "[" + strings.Repeat("x", MaxClassLen) + "]", wantErr: ErrClassTooLong},
		"unterminated class":      {givenRe: "[abc", wantErr: ErrUnterminatedClass},
		"leading quantifier":      {givenRe: "*a", wantErr: ErrMissingOperand},
		"double quantifier":       {givenRe: "a**", wantErr: ErrMissingOperand},
		"quantified begin anchor": {givenRe: "^*a", wantErr: ErrMissingOperand},
		"begin anchor not first":  {givenRe: "a^b", wantErr: ErrMisplacedAnchor},
		"end anchor not last":     {givenRe: "a$b", wantErr: ErrMisplacedAnchor},
		"reversed range":          {givenRe: "[z-a]", wantErr: ErrInvalidRange},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			_, gotErr := CompileStrict(tt.givenRe)

			// then
			if !errors.Is(gotErr, tt.wantErr) {
				t.Errorf("got error %v, want %v", gotErr, tt.wantErr)
			}
		})
	}
}

func TestCompileStrictErrorPosition(t *testing.T) {
	_, err := CompileStrict("ab[cd")
	if err == nil {
		t.Fatal("expected an error")
	}
	if d := cmp.Diff("parser error at 2: did not find closing ']'", err.Error()); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
}

func TestCompileStrictMatchesCompile(t *testing.T) {
	re := `[A-Z][a-z]*\s\d+`
	strict, err := CompileStrict(re)
	if err != nil {
		t.Fatalf("CompileStrict: %v", err)
	}
	if d := cmp.Diff(Compile(re).Tokens(), strict.Tokens()); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
}

func TestCompileIndependent(t *testing.T) {
	a := Compile("x[bc]+")
	b := Compile("x[bc]+")

	toks := a.Tokens()
	toks[1].Class[0].From = 'z'
	toks[1].Class[0].To = 'z'
	toks[0].Char = 'y'

	if d := cmp.Diff(b.Tokens(), a.Tokens()); d != "" {
		t.Errorf("mutating a copy changed the pattern (-want +got):\n%s", d)
	}
	if d := cmp.Diff(b.Find("axbcb"), a.Find("axbcb")); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}

	// compiling another pattern must not disturb a live one
	_ = Compile("q")
	if got := a.Find("axbcb"); !got.Found || got.Start != 1 || got.Length != 4 {
		t.Errorf("got %+v after compiling another pattern", got)
	}
}
