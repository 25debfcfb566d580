package tokenizer

import (
	"unicode"
	"unicode/utf8"
)

// PretokenPattern is the reference GPT-2 pre-tokenization pattern:
//
//	's|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+
//
// Go's RE2 engine cannot express the (?!\S) lookahead, and its \s class is
// ASCII-only where the reference engine's is unicode-aware, so pretokenize
// below implements the alternation by hand instead of compiling this
// string. The constant is retained for documentation and for the agreement
// tests that pin the splitter against reference behavior.
const PretokenPattern = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

// pretokenize splits text into GPT-2 pre-tokens. Concatenating the result
// always reproduces text exactly; the split only decides merge boundaries.
//
// Alternation semantics, applied leftmost-first at each position:
//  1. a contraction suffix ('s, 't, 're, 've, 'm, 'll, 'd)
//  2. an optional single space followed by a letter run
//  3. an optional single space followed by a number run
//  4. an optional single space followed by a run of non-space,
//     non-letter, non-number characters
//  5. a whitespace run not followed by non-whitespace; with backtracking
//     this yields the run minus its final character when more input
//     follows, leaving that character to lead the next pre-token
//  6. any remaining whitespace run (a single whitespace character stuck
//     directly before non-whitespace)
func pretokenize(text string) []string {
	if text == "" {
		return nil
	}

	// Decode runes while keeping byte offsets into text, so pre-tokens can
	// be sliced from the original string. Invalid UTF-8 bytes come through
	// as single-byte utf8.RuneError entries but the slices still carry the
	// original bytes, keeping the split lossless for arbitrary input.
	runes := make([]rune, 0, len(text))
	offs := make([]int, 0, len(text)+1)
	for pos := 0; pos < len(text); {
		r, size := utf8.DecodeRuneInString(text[pos:])
		runes = append(runes, r)
		offs = append(offs, pos)
		pos += size
	}
	offs = append(offs, len(text))

	cut := func(lo, hi int) string { return text[offs[lo]:offs[hi]] }

	pretokens := make([]string, 0, len(runes)/4+1)

	i := 0
	for i < len(runes) {
		if n := matchContraction(runes[i:]); n > 0 {
			pretokens = append(pretokens, cut(i, i+n))
			i += n
			continue
		}

		// Word-like branches: optional single leading space absorbed into
		// the following letter / number / punctuation run.
		start := i
		j := i
		if runes[j] == ' ' && j+1 < len(runes) && !unicode.IsSpace(runes[j+1]) {
			j++
		}
		if j < len(runes) && !unicode.IsSpace(runes[j]) {
			var class func(rune) bool
			switch {
			case unicode.IsLetter(runes[j]):
				class = unicode.IsLetter
			case unicode.IsNumber(runes[j]):
				class = unicode.IsNumber
			default:
				class = func(r rune) bool {
					return !unicode.IsSpace(r) && !unicode.IsLetter(r) && !unicode.IsNumber(r)
				}
			}
			for j < len(runes) && class(runes[j]) {
				j++
			}
			pretokens = append(pretokens, cut(start, j))
			i = j
			continue
		}

		// Whitespace branches.
		run := i
		for run < len(runes) && unicode.IsSpace(runes[run]) {
			run++
		}
		switch {
		case run == len(runes):
			// Trailing whitespace: the lookahead succeeds at end of input.
			pretokens = append(pretokens, cut(i, run))
			i = run
		case run-i > 1:
			// Inner run: the lookahead forces the final whitespace
			// character out of this match so it can prefix what follows.
			pretokens = append(pretokens, cut(i, run-1))
			i = run - 1
		default:
			// Single whitespace character directly before non-whitespace.
			pretokens = append(pretokens, cut(i, run))
			i = run
		}
	}

	return pretokens
}

// matchContraction reports the length in runes of a contraction suffix
// ('s, 't, 're, 've, 'm, 'll, 'd) at the start of rest, or 0. Lowercase
// only, as in the reference pattern.
func matchContraction(rest []rune) int {
	if len(rest) < 2 || rest[0] != '\'' {
		return 0
	}
	switch rest[1] {
	case 's', 't', 'm', 'd':
		return 2
	case 'r', 'v', 'l':
		if len(rest) >= 3 {
			two, three := rest[1], rest[2]
			if (two == 'r' && three == 'e') || (two == 'v' && three == 'e') || (two == 'l' && three == 'l') {
				return 3
			}
		}
	}
	return 0
}
