package model

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/go-gpt2-bpe/internal/tokenizer"
	"github.com/example/go-gpt2-bpe/internal/vocab"
)

// VerifyOptions configures local asset verification.
type VerifyOptions struct {
	Repo   string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// roundTripProbe exercises the whole encode/decode path during verify:
// contractions, repeated spaces and a multi-byte emoji.
const roundTripProbe = "We're  testing GPT-2 round trips — café, 42, \U0001F389!"

// Verify re-hashes the local asset files against the pinned manifest and
// lock records, then smoke-loads the tokenizer and runs a round-trip
// probe. It fails on any missing file, digest mismatch, load error or
// round-trip divergence.
func Verify(opts VerifyOptions) error {
	if opts.Dir == "" {
		return errors.New("asset dir is required")
	}
	if opts.Repo == "" {
		opts.Repo = DefaultRepo
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}

	manifest, err := PinnedManifest(opts.Repo)
	if err != nil {
		return err
	}

	lock := readLockManifest(filepath.Join(opts.Dir, LockFilename))

	var failures []string
	for _, f := range manifest.Files {
		localPath := filepath.Join(opts.Dir, filepath.FromSlash(f.Filename))
		if err := verifyFile(localPath, f, lock); err != nil {
			fmt.Fprintf(opts.Stderr, "FAIL %s: %v\n", f.Filename, err)
			failures = append(failures, f.Filename)
			continue
		}
		fmt.Fprintf(opts.Stdout, "PASS %s\n", f.Filename)
	}
	if len(failures) > 0 {
		return fmt.Errorf("verify failed for %d file(s): %s", len(failures), strings.Join(failures, ", "))
	}

	if err := smokeLoad(opts.Dir); err != nil {
		return err
	}
	fmt.Fprintf(opts.Stdout, "PASS tokenizer smoke load and round trip\n")
	return nil
}

func verifyFile(path string, f AssetFile, lock lockManifest) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("missing: %w", err)
	}

	expected := strings.ToLower(f.SHA256)
	if expected == "" {
		lr, ok := lock.Files[f.Filename]
		if !ok || !isSHA256Hex(lr.SHA256) {
			return fmt.Errorf("no pinned or locked checksum; run download first")
		}
		if lr.Revision != f.Revision {
			return fmt.Errorf("lock revision %s does not match manifest revision %s", lr.Revision, f.Revision)
		}
		expected = strings.ToLower(lr.SHA256)
	}

	actual, err := FileSHA256(path)
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("checksum mismatch: expected %s got %s", expected, actual)
	}
	return nil
}

func smokeLoad(dir string) error {
	vocabMap, merges, err := vocab.Load(filepath.Join(dir, "vocab.json"), filepath.Join(dir, "merges.txt"))
	if err != nil {
		return fmt.Errorf("smoke load failed: %w", err)
	}
	tok, err := tokenizer.New(vocabMap, merges)
	if err != nil {
		return fmt.Errorf("smoke construct failed: %w", err)
	}

	ids, err := tok.Encode(roundTripProbe)
	if err != nil {
		return fmt.Errorf("smoke encode failed: %w", err)
	}
	back, err := tok.Decode(ids)
	if err != nil {
		return fmt.Errorf("smoke decode failed: %w", err)
	}
	if back != roundTripProbe {
		return fmt.Errorf("round trip diverged: %q -> %q", roundTripProbe, back)
	}
	return nil
}
