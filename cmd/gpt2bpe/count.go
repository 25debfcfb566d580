package main

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/example/go-gpt2-bpe/internal/tokenizer"
	"github.com/spf13/cobra"
)

type countReport struct {
	Name   string  `json:"name,omitempty"`
	Tokens int     `json:"tokens"`
	Bytes  int     `json:"bytes"`
	Chars  int     `json:"chars"`
	Ratio  float64 `json:"bytes_per_token"`
}

func newCountCmd() *cobra.Command {
	var (
		text   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "count [file...]",
		Short: "Count tokens, bytes and characters",
		Long: "Count tokens, bytes and characters for --text, stdin, or one or\n" +
			"more files, along with the bytes-per-token compression ratio.",
		RunE: func(_ *cobra.Command, args []string) error {
			if format != "plain" && format != "json" {
				return fmt.Errorf("invalid --format %q (want plain or json)", format)
			}

			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			tok, err := loadTokenizer(cfg)
			if err != nil {
				return err
			}

			var reports []countReport
			if len(args) > 0 {
				if text != "" {
					return fmt.Errorf("--text and file arguments are mutually exclusive")
				}
				for _, path := range args {
					b, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("read %s: %w", path, err)
					}
					rep, err := countText(tok, string(b))
					if err != nil {
						return fmt.Errorf("count %s: %w", path, err)
					}
					rep.Name = path
					reports = append(reports, rep)
				}
			} else {
				input, err := readInputText(text, os.Stdin)
				if err != nil {
					return err
				}
				rep, err := countText(tok, input)
				if err != nil {
					return fmt.Errorf("count failed: %w", err)
				}
				reports = append(reports, rep)
			}

			if format == "json" {
				enc := json.NewEncoder(os.Stdout)
				if len(reports) == 1 && reports[0].Name == "" {
					return enc.Encode(reports[0])
				}
				return enc.Encode(reports)
			}

			for _, rep := range reports {
				if rep.Name != "" {
					fmt.Printf("%s:\n", rep.Name)
				}
				fmt.Printf("tokens:          %d\n", rep.Tokens)
				fmt.Printf("bytes:           %d\n", rep.Bytes)
				fmt.Printf("chars:           %d\n", rep.Chars)
				fmt.Printf("bytes per token: %.2f\n", rep.Ratio)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "text to count (reads stdin when empty and no files given)")
	cmd.Flags().StringVar(&format, "format", "plain", "output format: plain or json")

	return cmd
}

func countText(tok *tokenizer.Tokenizer, input string) (countReport, error) {
	n, err := tok.Count(input)
	if err != nil {
		return countReport{}, err
	}

	rep := countReport{
		Tokens: n,
		Bytes:  len(input),
		Chars:  utf8.RuneCountInString(input),
	}
	if n > 0 {
		rep.Ratio = float64(rep.Bytes) / float64(n)
	}
	return rep, nil
}
