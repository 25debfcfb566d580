package tokenizer

import "fmt"

// ConfigError reports an inconsistent or malformed vocabulary / merge
// table at construction time. It is fatal: a Tokenizer is never returned
// alongside one.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "tokenizer config: " + e.Reason
}

// UnknownTokenError reports a post-merge symbol with no vocabulary entry.
// Unreachable with a consistent vocabulary/merge-table pair, but checked
// rather than assumed.
type UnknownTokenError struct {
	Token string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("no vocabulary entry for merged symbol %q", e.Token)
}

// UnknownIDError reports a decode id absent from the vocabulary.
type UnknownIDError struct {
	ID int
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("no vocabulary entry for token id %d", e.ID)
}

// InvalidByteMappingError reports a token-string character outside the
// byte-to-unicode table during decode. This signals corrupted vocabulary
// data, not a normal condition.
type InvalidByteMappingError struct {
	Rune rune
}

func (e *InvalidByteMappingError) Error() string {
	return fmt.Sprintf("character %q (U+%04X) has no byte mapping", e.Rune, e.Rune)
}
