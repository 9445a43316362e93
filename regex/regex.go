// Package regex implements a small backtracking regular expression engine.
//
// Supported syntax:
//
//	.          any byte except '\n' and '\r'
//	^ $        start of input, end of input or a '\n'
//	* + ?      zero or more, one or more, zero or one of the previous token (greedy)
//	\d \D      digit, non-digit
//	\w \W      [A-Za-z0-9_], its complement
//	\s \S      space, \t, \n, \r, \f, \v, their complement
//	[...]      bracket expression with ranges and the shorthands above, [^...] negates
//	\x         the byte x itself for any other x
//
// There are no groups, no alternation and no bounded repetition. Patterns are
// limited to MaxTokens tokens and bracket expressions to MaxClassLen bytes;
// Compile silently truncates what does not fit, CompileStrict reports it.
package regex

import (
	"strings"
)

// Regex is a compiled pattern. It is immutable and safe for concurrent use.
type Regex struct {
	source string
	tokens []Token
	pre    *prefilter
}

// Match is the result of a search. Start and Length are only meaningful
// when Found is set.
type Match struct {
	Found  bool
	Start  int
	Length int
}

func (m Match) End() int {
	return m.Start + m.Length
}

// Compile never fails. Malformed patterns degrade the way the package
// documentation describes.
func Compile(re string) Regex {
	p := parser{re: re}
	p.parse()
	return newRegex(re, p.tokens)
}

// CompileStrict compiles re like Compile but reports the first truncation,
// unterminated bracket expression or misplaced operator as an error.
func CompileStrict(re string) (Regex, error) {
	p := parser{re: re}
	p.parse()
	if p.err != nil {
		return Regex{}, p.err
	}
	return newRegex(re, p.tokens), nil
}

func newRegex(source string, tokens []Token) Regex {
	return Regex{
		source: source,
		tokens: tokens,
		pre:    newPrefilter(tokens),
	}
}

func (re Regex) anchored() bool {
	return len(re.tokens) > 0 && re.tokens[0].Kind == BeginAnchor
}

// body is the token sequence without a leading '^'
func (re Regex) body() []Token {
	if re.anchored() {
		return re.tokens[1:]
	}
	return re.tokens
}

// MatchPrefix matches the pattern exactly at the start of s and returns the
// number of bytes consumed. A leading '^' is ignored.
func (re Regex) MatchPrefix(s string) (int, bool) {
	if re.tokens == nil {
		return 0, false
	}
	end, ok := match(re.body(), s, 0)
	return end, ok
}

// Find returns the leftmost match in s. A match is never reported at offset
// len(s), so an empty s never matches.
func (re Regex) Find(s string) Match {
	return re.findFrom(s, re.haystack(s), 0, -1)
}

// FindAll returns up to n successive non-overlapping matches, all of them if n
// is negative. An empty match directly after the previous match is skipped.
func (re Regex) FindAll(s string, n int) []Match {
	var matches []Match
	hay := re.haystack(s)
	pos, prevEnd := 0, -1
	for n < 0 || len(matches) < n {
		m := re.findFrom(s, hay, pos, prevEnd)
		if !m.Found {
			break
		}
		matches = append(matches, m)
		prevEnd = m.End()
		pos = m.End()
		if m.Length == 0 {
			pos++
		}
	}
	return matches
}

func (re Regex) Match(s string) bool {
	return re.Find(s).Found
}

// ReplaceAll replaces every match in s with the literal text with. The
// second result is false, and s is returned as is, when nothing matched.
func (re Regex) ReplaceAll(s string, with string) (string, bool) {
	matches := re.FindAll(s, -1)
	if len(matches) == 0 {
		return s, false
	}

	out := strings.Builder{}
	out.Grow(len(s))
	last := 0
	for _, m := range matches {
		out.WriteString(s[last:m.Start])
		out.WriteString(with)
		last = m.End()
	}
	out.WriteString(s[last:])
	return out.String(), true
}

// Tokens returns a copy of the compiled token sequence, End included.
func (re Regex) Tokens() []Token {
	toks := make([]Token, len(re.tokens))
	for i, t := range re.tokens {
		toks[i] = t.clone()
	}
	return toks
}

// Dump renders the compiled tokens one per line.
func (re Regex) Dump() string {
	out := strings.Builder{}
	for _, t := range re.tokens {
		out.WriteString(t.String())
		out.WriteByte('\n')
	}
	return out.String()
}

// String returns the source pattern.
func (re Regex) String() string {
	return re.source
}

func (re Regex) haystack(s string) []byte {
	if re.pre == nil {
		return nil
	}
	return []byte(s)
}

// findFrom searches s for the leftmost match starting at or after from.
// An empty match at skipEmptyAt is not reported.
func (re Regex) findFrom(s string, hay []byte, from, skipEmptyAt int) Match {
	if re.tokens == nil {
		return Match{}
	}

	if re.anchored() {
		if from != 0 || len(s) == 0 {
			return Match{}
		}
		end, ok := match(re.body(), s, 0)
		if !ok || (end == 0 && skipEmptyAt == 0) {
			return Match{}
		}
		return Match{Found: true, Start: 0, Length: end}
	}

	for i := from; i < len(s); i++ {
		if re.pre != nil {
			i = re.pre.next(hay, i)
			if i < 0 {
				break
			}
		}

		end, ok := match(re.tokens, s, i)
		if !ok || (end == i && i == skipEmptyAt) {
			continue
		}
		return Match{Found: true, Start: i, Length: end - i}
	}
	return Match{}
}

// Find compiles pattern and returns its leftmost match in text.
func Find(pattern, text string) Match {
	return Compile(pattern).Find(text)
}

// Replace compiles pattern and replaces all of its matches in text.
func Replace(pattern, text, replacement string) (string, bool) {
	return Compile(pattern).ReplaceAll(text, replacement)
}
