// Package vocab loads GPT-2 tokenizer assets from their reference
// serialized forms: a vocab.json token->id mapping and a merges.txt file
// listing merge pairs one per line in priority order.
package vocab

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Load reads and parses the vocabulary and merge-rule files from disk.
func Load(vocabPath, mergesPath string) (map[string]int, [][2]string, error) {
	vocabJSON, err := os.ReadFile(vocabPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read vocabulary file: %w", err)
	}
	mergesTxt, err := os.ReadFile(mergesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read merges file: %w", err)
	}

	vocabMap, merges, err := LoadBytes(vocabJSON, mergesTxt)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %q / %q: %w", vocabPath, mergesPath, err)
	}
	return vocabMap, merges, nil
}

// LoadBytes parses in-memory vocab.json and merges.txt content.
//
// merges.txt lines are "<left> <right>", split on a single space (token
// fragments are byte-level encoded, so they never contain a raw space
// themselves). Blank lines are skipped, as is a "#version" header on the
// first line. Only the first line gets the header treatment: '#' is a
// legitimate byte-level token character, so later lines starting with '#'
// are real merge rules.
func LoadBytes(vocabJSON, mergesTxt []byte) (map[string]int, [][2]string, error) {
	var vocabMap map[string]int
	if err := json.Unmarshal(vocabJSON, &vocabMap); err != nil {
		return nil, nil, fmt.Errorf("decode vocabulary JSON: %w", err)
	}

	merges := make([][2]string, 0, 50000)
	scanner := bufio.NewScanner(bytes.NewReader(mergesTxt))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		if lineNo == 1 && strings.HasPrefix(line, "#version") {
			continue
		}
		left, right, ok := strings.Cut(line, " ")
		if !ok || left == "" || right == "" || strings.Contains(right, " ") {
			return nil, nil, fmt.Errorf("merges line %d: expected %q, got %q", lineNo, "<left> <right>", line)
		}
		merges = append(merges, [2]string{left, right})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan merges: %w", err)
	}

	return vocabMap, merges, nil
}
