package tokenizer

import "strings"

// Decode maps a token id sequence back to text. The recovered bytes are
// returned exactly as a Go string with no UTF-8 validation or replacement:
// that is what makes decode(encode(s)) == s hold for arbitrary byte
// content, including invalid UTF-8 fragments that a single token boundary
// can split. Callers that require well-formed UTF-8 should pass the result
// through strings.ToValidUTF8. An empty input yields "".
func (t *Tokenizer) Decode(ids []int) (string, error) {
	if len(ids) == 0 {
		return "", nil
	}

	var joined strings.Builder
	for _, id := range ids {
		tok, ok := t.inverse[id]
		if !ok {
			return "", &UnknownIDError{ID: id}
		}
		joined.WriteString(tok)
	}

	out := make([]byte, 0, joined.Len())
	for _, r := range joined.String() {
		b, ok := byteDecoder[r]
		if !ok {
			return "", &InvalidByteMappingError{Rune: r}
		}
		out = append(out, b)
	}
	return string(out), nil
}
