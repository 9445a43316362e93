package regex

// match tries toks against in starting exactly at i and returns the offset
// the match ends at. toks is always terminated by an End token.
func match(toks []Token, in string, i int) (int, bool) {
	for {
		t := toks[0]
		switch t.Kind {
		case End:
			return i, true
		case EndAnchor:
			// a trailing newline counts as the end of input
			return i, i == len(in) || in[i] == '\n'
		}

		switch toks[1].Kind {
		case Question:
			return matchQuestion(t, toks[2:], in, i)
		case Star:
			return matchRepeat(t, toks[2:], in, i, 0)
		case Plus:
			return matchRepeat(t, toks[2:], in, i, 1)
		}

		if i >= len(in) || !t.Matches(in[i]) {
			return i, false
		}
		toks = toks[1:]
		i++
	}
}

// matchRepeat consumes as many bytes matching t as possible, then backs off
// one byte at a time until rest matches or fewer than mi bytes are left.
func matchRepeat(t Token, rest []Token, in string, i, mi int) (int, bool) {
	j := i
	for j < len(in) && t.Matches(in[j]) {
		j++
	}

	for ; j >= i+mi; j-- {
		if end, ok := match(rest, in, j); ok {
			return end, true
		}
	}
	return i, false
}

// matchQuestion is greedy like matchRepeat: one occurrence is tried before none
func matchQuestion(t Token, rest []Token, in string, i int) (int, bool) {
	if i < len(in) && t.Matches(in[i]) {
		if end, ok := match(rest, in, i+1); ok {
			return end, true
		}
	}
	return match(rest, in, i)
}
