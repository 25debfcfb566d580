// Package tokenizer implements a byte-level Byte-Pair-Encoding tokenizer
// compatible with the GPT-2 vocabulary and merge table. Encoding and
// decoding are exact inverses for arbitrary byte content, including
// invalid UTF-8, because the merge machinery operates on a fixed bijection
// between raw bytes and printable unicode stand-ins rather than on
// characters.
package tokenizer

import (
	"fmt"
	"sync"
)

// symbolPair is an adjacent pair of merge symbols. Comparable, so it can
// key the rank table directly.
type symbolPair struct {
	left  string
	right string
}

// Tokenizer holds the immutable vocabulary and merge-rank tables. All
// fields are read-only after New returns; Encode and Decode may be called
// concurrently on a shared instance without synchronization.
type Tokenizer struct {
	vocab   map[string]int // token string -> id
	inverse map[int]string // id -> token string
	ranks   map[symbolPair]int

	// cache memoizes encodePretoken results. Purely transparent: it never
	// changes observable output, only skips repeated merge work for
	// pre-tokens already seen (the reference GPT-2 encoder keeps the same
	// per-word cache).
	cache sync.Map // string -> []int
}

// New builds a Tokenizer from a token-string->id vocabulary and an ordered
// merge-rule list (lower index = higher merge priority). It returns a
// *ConfigError when the vocabulary is empty or ambiguous, when a merge
// pair's concatenation is missing from the vocabulary, or when the
// byte-to-unicode table is not a complete bijection.
func New(vocab map[string]int, merges [][2]string) (*Tokenizer, error) {
	if len(vocab) == 0 {
		return nil, &ConfigError{Reason: "vocabulary is empty"}
	}
	if err := validateByteTable(); err != nil {
		return nil, err
	}

	inverse := make(map[int]string, len(vocab))
	for tok, id := range vocab {
		if id < 0 {
			return nil, &ConfigError{Reason: fmt.Sprintf("negative token id %d for token %q", id, tok)}
		}
		if prev, ok := inverse[id]; ok {
			return nil, &ConfigError{Reason: fmt.Sprintf("token id %d assigned to both %q and %q", id, prev, tok)}
		}
		inverse[id] = tok
	}

	ranks := make(map[symbolPair]int, len(merges))
	for i, m := range merges {
		if _, ok := vocab[m[0]+m[1]]; !ok {
			return nil, &ConfigError{
				Reason: fmt.Sprintf("merge rule %d produces %q which is not in the vocabulary", i, m[0]+m[1]),
			}
		}
		p := symbolPair{left: m[0], right: m[1]}
		if _, ok := ranks[p]; !ok {
			ranks[p] = i
		}
	}

	return &Tokenizer{
		vocab:   vocab,
		inverse: inverse,
		ranks:   ranks,
	}, nil
}

// VocabSize returns the number of entries in the vocabulary.
func (t *Tokenizer) VocabSize() int {
	return len(t.vocab)
}

// MergeCount returns the number of loaded merge rules.
func (t *Tokenizer) MergeCount() int {
	return len(t.ranks)
}

// Count returns len(Encode(text)) without retaining the id slice.
func (t *Tokenizer) Count(text string) (int, error) {
	ids, err := t.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
