// Package testutil provides shared fixture builders and skip helpers for
// tokenizer tests.
//
// Unit tests run against small synthetic vocabularies built with
// SyntheticVocab; tests that need the real GPT-2 tables call
// RequireGPT2Assets, which skips with a clear reason when the downloaded
// asset files are absent, so the suite remains runnable in partial
// environments.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-gpt2-bpe/internal/tokenizer"
)

// SyntheticVocab returns a vocabulary containing the 256 byte-level base
// symbols (ids 0..255) plus one entry per extra token string, assigned
// ids 256 onward in the given order. Extras that duplicate a base symbol
// keep their base id.
func SyntheticVocab(extras ...string) map[string]int {
	vocab := make(map[string]int, 256+len(extras))
	for id, sym := range tokenizer.ByteSymbols() {
		vocab[sym] = id
	}
	next := 256
	for _, tok := range extras {
		if _, ok := vocab[tok]; ok {
			continue
		}
		vocab[tok] = next
		next++
	}
	return vocab
}

// MergesFor builds a merge-rule list from "<left> <right>" strings, in
// priority order.
func MergesFor(pairs ...string) [][2]string {
	merges := make([][2]string, 0, len(pairs))
	for _, p := range pairs {
		left, right, ok := strings.Cut(p, " ")
		if !ok {
			panic(fmt.Sprintf("testutil: malformed merge pair %q", p))
		}
		merges = append(merges, [2]string{left, right})
	}
	return merges
}

// WriteAssetFiles writes vocab.json and merges.txt into dir and returns
// their paths. The merges file carries the reference "#version" header.
func WriteAssetFiles(tb testing.TB, dir string, vocab map[string]int, merges [][2]string) (vocabPath, mergesPath string) {
	tb.Helper()

	vocabPath = filepath.Join(dir, "vocab.json")
	mergesPath = filepath.Join(dir, "merges.txt")

	vocabJSON, err := json.Marshal(vocab)
	if err != nil {
		tb.Fatalf("marshal vocab fixture: %v", err)
	}
	if err := os.WriteFile(vocabPath, vocabJSON, 0o644); err != nil {
		tb.Fatalf("write vocab fixture: %v", err)
	}

	var sb strings.Builder
	sb.WriteString("#version: 0.2\n")
	for _, m := range merges {
		sb.WriteString(m[0] + " " + m[1] + "\n")
	}
	if err := os.WriteFile(mergesPath, []byte(sb.String()), 0o644); err != nil {
		tb.Fatalf("write merges fixture: %v", err)
	}

	return vocabPath, mergesPath
}

// RequireGPT2Assets skips the test unless the real GPT-2 vocab.json and
// merges.txt are present. It checks the GPT2BPE_TEST_ASSET_DIR environment
// variable first, then the default models/gpt2 download location relative
// to the repository root.
func RequireGPT2Assets(tb testing.TB) (vocabPath, mergesPath string) {
	tb.Helper()

	dirs := []string{}
	if d := os.Getenv("GPT2BPE_TEST_ASSET_DIR"); d != "" {
		dirs = append(dirs, d)
	}
	dirs = append(dirs, filepath.Join("models", "gpt2"), filepath.Join("..", "..", "models", "gpt2"))

	for _, dir := range dirs {
		v := filepath.Join(dir, "vocab.json")
		m := filepath.Join(dir, "merges.txt")
		if fileExists(v) && fileExists(m) {
			return v, m
		}
	}

	tb.Skip("GPT-2 assets not available; run `gpt2bpe model download` or set GPT2BPE_TEST_ASSET_DIR")
	return "", ""
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
