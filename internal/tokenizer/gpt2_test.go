package tokenizer_test

import (
	"reflect"
	"testing"

	"github.com/example/go-gpt2-bpe/internal/testutil"
	"github.com/example/go-gpt2-bpe/internal/tokenizer"
	"github.com/example/go-gpt2-bpe/internal/vocab"
)

// loadGPT2 builds a tokenizer from the real GPT-2 asset files, skipping
// the test when they are not available locally.
func loadGPT2(t *testing.T) *tokenizer.Tokenizer {
	t.Helper()

	vocabPath, mergesPath := testutil.RequireGPT2Assets(t)
	v, merges, err := vocab.Load(vocabPath, mergesPath)
	if err != nil {
		t.Fatalf("vocab.Load: %v", err)
	}
	tok, err := tokenizer.New(v, merges)
	if err != nil {
		t.Fatalf("tokenizer.New: %v", err)
	}
	return tok
}

func TestGPT2_KnownValues(t *testing.T) {
	tok := loadGPT2(t)

	cases := []struct {
		text string
		want []int
	}{
		{"Hello, world!", []int{15496, 11, 995, 0}},
		{"", []int{}},
	}

	for _, tc := range cases {
		got, err := tok.Encode(tc.text)
		if err != nil {
			t.Fatalf("Encode(%q): %v", tc.text, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Encode(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestGPT2_TableSizes(t *testing.T) {
	tok := loadGPT2(t)

	if got, want := tok.VocabSize(), 50257; got != want {
		t.Errorf("VocabSize() = %d, want %d", got, want)
	}
	if got, want := tok.MergeCount(), 50000; got != want {
		t.Errorf("MergeCount() = %d, want %d", got, want)
	}
}

func TestGPT2_RoundTrip(t *testing.T) {
	tok := loadGPT2(t)

	inputs := []string{
		"The quick brown fox jumps over the lazy dog.",
		"We're testing GPT-2 compatibility — café, 北京, 🎉!",
		"    indented code\n\tand tabs\n",
		"numbers 1234567890 and punct !@#$%^&*()",
		"\xffraw\x00bytes\x80",
	}

	for _, in := range inputs {
		ids, err := tok.Encode(in)
		if err != nil {
			t.Fatalf("Encode(%q): %v", in, err)
		}
		back, err := tok.Decode(ids)
		if err != nil {
			t.Fatalf("Decode(Encode(%q)): %v", in, err)
		}
		if back != in {
			t.Errorf("round trip changed %q to %q", in, back)
		}
	}
}
