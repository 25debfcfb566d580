package tokenizer

import "fmt"

// The GPT-2 byte-to-unicode table. Every raw byte value 0..255 maps to a
// printable unicode code point so that arbitrary bytes survive life as
// JSON vocabulary keys: bytes that are already printable latin characters
// map to themselves, the rest are shifted into the U+0100.. range in
// ascending order. The table is fixed at design time, not learned.
var (
	byteEncoder [256]rune
	byteDecoder map[rune]byte
)

func init() {
	printable := func(b int) bool {
		return (b >= '!' && b <= '~') || (b >= 0xA1 && b <= 0xAC) || (b >= 0xAE && b <= 0xFF)
	}

	next := rune(256)
	byteDecoder = make(map[rune]byte, 256)
	for b := 0; b < 256; b++ {
		r := rune(b)
		if !printable(b) {
			r = next
			next++
		}
		byteEncoder[b] = r
		byteDecoder[r] = byte(b)
	}
}

// validateByteTable confirms the encoder/decoder pair is a complete
// bijection over 0..255. Runs once per tokenizer construction.
func validateByteTable() error {
	if len(byteDecoder) != 256 {
		return &ConfigError{Reason: "byte-to-unicode table is not a bijection over 0..255"}
	}
	for b := 0; b < 256; b++ {
		back, ok := byteDecoder[byteEncoder[b]]
		if !ok || back != byte(b) {
			return &ConfigError{Reason: fmt.Sprintf("byte-to-unicode table does not round-trip byte 0x%02X", b)}
		}
	}
	return nil
}

// ByteSymbols returns the 256 byte-level symbol strings in byte-value
// order. Fixture builders use it to assemble vocabularies that cover
// every base symbol.
func ByteSymbols() []string {
	syms := make([]string, 256)
	for b := 0; b < 256; b++ {
		syms[b] = string(byteEncoder[b])
	}
	return syms
}

// symbolize maps every raw byte of s through the byte-to-unicode table,
// yielding the initial merge-symbol sequence: one symbol per input byte.
func symbolize(s string) []string {
	syms := make([]string, len(s))
	for i := 0; i < len(s); i++ {
		syms[i] = string(byteEncoder[s[i]])
	}
	return syms
}
