package regex

import (
	"github.com/coregx/ahocorasick"
)

// prefilter finds candidate start positions for patterns that begin with a
// run of required literal bytes. Every match starts with that run, so only
// its occurrences need to be handed to the backtracking matcher.
type prefilter struct {
	literal []byte
	auto    *ahocorasick.Automaton
}

// requiredPrefix collects the leading Literal tokens that every match must
// start with. A literal repeated by '+' is required once, '*' and '?' make it
// optional.
func requiredPrefix(toks []Token) []byte {
	var lit []byte
	for i := 0; toks[i].Kind == Literal; i++ {
		switch toks[i+1].Kind {
		case Star, Question:
			return lit
		case Plus:
			return append(lit, toks[i].Char)
		}
		lit = append(lit, toks[i].Char)
	}
	return lit
}

func newPrefilter(toks []Token) *prefilter {
	if toks[0].Kind == BeginAnchor {
		return nil
	}
	lit := requiredPrefix(toks)
	if len(lit) == 0 {
		return nil
	}

	builder := ahocorasick.NewBuilder()
	builder.AddPattern(lit)
	auto, err := builder.Build()
	if err != nil {
		// plain scanning is always correct
		return nil
	}
	return &prefilter{literal: lit, auto: auto}
}

// next returns the first candidate start at or after at, or -1
func (p *prefilter) next(haystack []byte, at int) int {
	if at >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, at)
	if m == nil {
		return -1
	}
	return m.Start
}
