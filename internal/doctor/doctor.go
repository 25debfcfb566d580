// Package doctor provides environment preflight checks for gpt2bpe.
package doctor

import (
	"fmt"
	"io"
	"os"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// LoadFunc constructs a tokenizer from the configured asset paths and
// returns its vocabulary size, or an error if construction fails.
type LoadFunc func() (vocabSize int, err error)

// RoundTripFunc encodes and decodes a probe string and returns an error
// on any divergence.
type RoundTripFunc func() error

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// VocabPath and MergesPath are the asset files to verify on disk.
	VocabPath  string
	MergesPath string
	// LoadTokenizer smoke-constructs the tokenizer from the asset files.
	LoadTokenizer LoadFunc
	// RoundTrip runs a fixed encode/decode probe on the constructed tokenizer.
	RoundTrip RoundTripFunc
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- asset files ------------------------------------------------------
	assetsPresent := true
	for _, path := range []string{cfg.VocabPath, cfg.MergesPath} {
		if _, err := os.Stat(path); err != nil {
			assetsPresent = false
			res.fail(fmt.Sprintf("asset file %q: %v", path, err))
			fmt.Fprintf(w, "%s asset file %s: not found\n", FailMark, path)
		} else {
			fmt.Fprintf(w, "%s asset file: %s\n", PassMark, path)
		}
	}

	// ---- tokenizer construction -------------------------------------------
	if cfg.LoadTokenizer == nil || !assetsPresent {
		fmt.Fprintf(w, "%s tokenizer load: skipped\n", PassMark)
		return res
	}
	vocabSize, err := cfg.LoadTokenizer()
	if err != nil {
		res.fail(fmt.Sprintf("tokenizer load: %v", err))
		fmt.Fprintf(w, "%s tokenizer load: %v\n", FailMark, err)
		return res
	}
	fmt.Fprintf(w, "%s tokenizer load: %d vocabulary entries\n", PassMark, vocabSize)

	// ---- round trip -------------------------------------------------------
	if cfg.RoundTrip == nil {
		fmt.Fprintf(w, "%s round trip: skipped\n", PassMark)
		return res
	}
	if err := cfg.RoundTrip(); err != nil {
		res.fail(fmt.Sprintf("round trip: %v", err))
		fmt.Fprintf(w, "%s round trip: %v\n", FailMark, err)
		return res
	}
	fmt.Fprintf(w, "%s round trip: ok\n", PassMark)

	return res
}
