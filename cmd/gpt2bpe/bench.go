package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/example/go-gpt2-bpe/internal/bench"
	"github.com/example/go-gpt2-bpe/internal/tokenizer"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		text      string
		repeat    int
		runs      int
		format    string
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark encode throughput",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("--text is required for bench")
			}
			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if repeat < 1 {
				return fmt.Errorf("--repeat must be at least 1")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}

			tok, err := loadTokenizer(cfg)
			if err != nil {
				return err
			}

			input := strings.Repeat(text, repeat)

			results, err := runBench(tok, input, runs)
			if err != nil {
				return err
			}

			durations := make([]time.Duration, len(results))
			for i, r := range results {
				durations[i] = r.Duration
			}
			stats := bench.ComputeStats(durations)

			switch format {
			case "json":
				bench.FormatJSON(results, stats, os.Stdout)
			default:
				bench.FormatTable(results, stats, os.Stdout)
			}

			var totalTPS float64
			for _, r := range results {
				totalTPS += r.TokensPerSec
			}
			meanTPS := totalTPS / float64(len(results))

			return bench.CheckThroughputThreshold(meanTPS, threshold)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to encode for each run (required)")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "Concatenate the text N times before encoding")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of encode runs")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&threshold, "tps-threshold", 0, "Exit non-zero if mean tokens/s falls below this value (0 = disabled)")

	return cmd
}

func runBench(tok *tokenizer.Tokenizer, input string, runs int) ([]bench.RunResult, error) {
	results := make([]bench.RunResult, 0, runs)

	for i := 0; i < runs; i++ {
		start := time.Now()
		ids, err := tok.Encode(input)
		if err != nil {
			return nil, fmt.Errorf("run %d failed: %w", i+1, err)
		}
		dur := time.Since(start)

		results = append(results, bench.RunResult{
			Index:        i,
			Cold:         i == 0,
			Duration:     dur,
			Tokens:       len(ids),
			TokensPerSec: bench.CalcTokensPerSec(len(ids), dur),
			MBPerSec:     bench.CalcMBPerSec(len(input), dur),
		})
	}

	return results, nil
}
