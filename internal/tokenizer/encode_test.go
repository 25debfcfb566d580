package tokenizer_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/example/go-gpt2-bpe/internal/testutil"
	"github.com/example/go-gpt2-bpe/internal/tokenizer"
)

// newSynthetic builds a tokenizer over the 256 byte symbols plus extras,
// failing the test on construction errors.
func newSynthetic(t *testing.T, extras []string, pairs ...string) *tokenizer.Tokenizer {
	t.Helper()
	tok, err := tokenizer.New(testutil.SyntheticVocab(extras...), testutil.MergesFor(pairs...))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tok
}

// ---------------------------------------------------------------------------
// basic encoding
// ---------------------------------------------------------------------------

func TestEncode_EmptyInput(t *testing.T) {
	tok := newSynthetic(t, nil)

	ids, err := tok.Encode("")
	if err != nil {
		t.Fatalf("Encode(\"\"): %v", err)
	}
	if ids == nil || len(ids) != 0 {
		t.Errorf("Encode(\"\") = %v, want empty non-nil slice", ids)
	}
}

func TestEncode_ByteFallbackWithoutMerges(t *testing.T) {
	tok := newSynthetic(t, nil)

	// With no merges every byte stays its own token, and byte-symbol ids
	// equal the byte values.
	ids, err := tok.Encode("Hi!")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []int{'H', 'i', '!'}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Encode(%q) = %v, want %v", "Hi!", ids, want)
	}
}

func TestEncode_AppliesMerges(t *testing.T) {
	tok := newSynthetic(t, []string{"ab", "abc"}, "a b", "ab c")

	ids, err := tok.Encode("abc")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// "a b" fires first, then "ab c": a single token remains.
	want := []int{257} // "abc" is the second extra after the 256 byte ids
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Encode(%q) = %v, want %v", "abc", ids, want)
	}
}

func TestEncode_LowestRankWinsFirst(t *testing.T) {
	// "b c" outranks "a b": encoding "abc" must fuse (b,c) first, leaving
	// (a,bc) which has no rule.
	tok := newSynthetic(t, []string{"bc", "ab"}, "b c", "a b")

	ids, err := tok.Encode("abc")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []int{'a', 256} // "bc" is the first extra
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Encode(%q) = %v, want %v", "abc", ids, want)
	}
}

func TestEncode_FusesNonOverlappingLeftToRight(t *testing.T) {
	tok := newSynthetic(t, []string{"aa"}, "a a")

	ids, err := tok.Encode("aaa")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// One pass fuses positions 0-1; the trailing 'a' cannot overlap, and
	// (aa,a) is not a rule.
	want := []int{256, 'a'}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Encode(%q) = %v, want %v", "aaa", ids, want)
	}
}

func TestEncode_MergesNeverCrossPretokenBoundaries(t *testing.T) {
	// "a" and "b" sit in different pre-tokens ("a", " b"), so the "a b"
	// rule never sees them adjacent. The space spells as "Ġ" but keeps
	// its byte-value id.
	tok := newSynthetic(t, []string{"ab"}, "a b")

	ids, err := tok.Encode("a b")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []int{'a', 0x20, 'b'}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Encode(%q) = %v, want %v", "a b", ids, want)
	}
}

// ---------------------------------------------------------------------------
// determinism and helpers
// ---------------------------------------------------------------------------

func TestEncode_Deterministic(t *testing.T) {
	tok := newSynthetic(t, []string{"ab", "abc"}, "a b", "ab c")

	const text = "abc abc  ab"
	first, err := tok.Encode(text)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := tok.Encode(text)
		if err != nil {
			t.Fatalf("Encode (repeat %d): %v", i, err)
		}
		if !reflect.DeepEqual(again, first) {
			t.Fatalf("Encode not deterministic: %v vs %v", again, first)
		}
	}
}

func TestEncodeTokens_ReturnsMergedStrings(t *testing.T) {
	tok := newSynthetic(t, []string{"ab"}, "a b")

	toks, err := tok.EncodeTokens("abx")
	if err != nil {
		t.Fatalf("EncodeTokens: %v", err)
	}
	want := []string{"ab", "x"}
	if !reflect.DeepEqual(toks, want) {
		t.Errorf("EncodeTokens(%q) = %q, want %q", "abx", toks, want)
	}
}

func TestCount_MatchesEncodeLength(t *testing.T) {
	tok := newSynthetic(t, []string{"ab"}, "a b")

	const text = "ab ab cd"
	ids, err := tok.Encode(text)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	n, err := tok.Count(text)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != len(ids) {
		t.Errorf("Count(%q) = %d, want %d", text, n, len(ids))
	}
}

// ---------------------------------------------------------------------------
// error paths
// ---------------------------------------------------------------------------

func TestEncode_UnknownSymbolFails(t *testing.T) {
	// A vocabulary without byte-symbol coverage cannot encode bytes it
	// has never seen.
	tok, err := tokenizer.New(map[string]int{"a": 0}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = tok.Encode("b")

	var unkErr *tokenizer.UnknownTokenError
	if !errors.As(err, &unkErr) {
		t.Fatalf("Encode error = %v, want *UnknownTokenError", err)
	}
	if unkErr.Token != "b" {
		t.Errorf("UnknownTokenError.Token = %q, want %q", unkErr.Token, "b")
	}
}
