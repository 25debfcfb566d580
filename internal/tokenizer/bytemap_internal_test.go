package tokenizer

import (
	"reflect"
	"testing"
)

func TestByteTable_Bijection(t *testing.T) {
	if err := validateByteTable(); err != nil {
		t.Fatalf("validateByteTable() = %v", err)
	}

	seen := make(map[rune]bool, 256)
	for b := 0; b < 256; b++ {
		r := byteEncoder[b]
		if seen[r] {
			t.Fatalf("byte 0x%02X maps to duplicate rune %q", b, r)
		}
		seen[r] = true

		back, ok := byteDecoder[r]
		if !ok || back != byte(b) {
			t.Fatalf("byte 0x%02X -> %q -> 0x%02X round trip failed", b, r, back)
		}
	}
}

func TestByteTable_KnownMappings(t *testing.T) {
	cases := []struct {
		b    byte
		want rune
	}{
		{'!', '!'},  // first printable latin byte, identity
		{'A', 'A'},  // identity
		{'~', '~'},  // last low printable byte, identity
		{0x00, 256}, // first shifted byte
		{0x20, 'Ġ'}, // space shifts to U+0120
		{0x0A, 'Ċ'}, // newline shifts to U+010A
		{0xAD, 'Ń'}, // soft hyphen, the lone shifted high byte
		{0xFF, 'ÿ'}, // identity in the high printable range
	}

	for _, tc := range cases {
		if got := byteEncoder[tc.b]; got != tc.want {
			t.Errorf("byteEncoder[0x%02X] = %q, want %q", tc.b, got, tc.want)
		}
	}
}

func TestSymbolize_OneSymbolPerByte(t *testing.T) {
	got := symbolize("a é")
	// 'a', space, then the two UTF-8 bytes of 'é' (0xC3 0xA9).
	want := []string{"a", "Ġ", "Ã", "©"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("symbolize(%q) = %q, want %q", "a é", got, want)
	}
}

func TestByteSymbols_CoversAllBytes(t *testing.T) {
	syms := ByteSymbols()
	if len(syms) != 256 {
		t.Fatalf("len(ByteSymbols()) = %d, want 256", len(syms))
	}
	if syms['A'] != "A" {
		t.Errorf("syms['A'] = %q, want %q", syms['A'], "A")
	}
	if syms[0x20] != "Ġ" {
		t.Errorf("syms[0x20] = %q, want %q", syms[0x20], "Ġ")
	}
}
