package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var text string
	var format string
	var showTokens bool

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode text to GPT-2 token ids",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if format != "plain" && format != "json" {
				return fmt.Errorf("--format must be 'plain' or 'json'")
			}

			inputText, err := readInputText(text, os.Stdin)
			if err != nil {
				return err
			}

			tok, err := loadTokenizer(cfg)
			if err != nil {
				return err
			}

			ids, err := tok.Encode(inputText)
			if err != nil {
				return fmt.Errorf("encode failed: %w", err)
			}

			var tokens []string
			if showTokens {
				tokens, err = tok.EncodeTokens(inputText)
				if err != nil {
					return fmt.Errorf("encode failed: %w", err)
				}
			}

			return writeEncodeOutput(os.Stdout, format, ids, tokens)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to encode (if empty, read from stdin)")
	cmd.Flags().StringVar(&format, "format", "plain", "Output format (plain|json)")
	cmd.Flags().BoolVar(&showTokens, "show-tokens", false, "Also print the merged token strings")

	return cmd
}

func writeEncodeOutput(w io.Writer, format string, ids []int, tokens []string) error {
	if format == "json" {
		out := struct {
			IDs    []int    `json:"ids"`
			Count  int      `json:"count"`
			Tokens []string `json:"tokens,omitempty"`
		}{IDs: ids, Count: len(ids), Tokens: tokens}
		enc := json.NewEncoder(w)
		return enc.Encode(out)
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
		return err
	}
	if tokens != nil {
		for i, t := range tokens {
			if _, err := fmt.Fprintf(w, "%6d  %q\n", ids[i], t); err != nil {
				return err
			}
		}
	}
	return nil
}

// readInputText returns the --text value, or the full stdin contents when
// the flag is empty. Unlike interactive prompts, stdin text is taken as-is
// apart from a trailing newline so that whitespace survives the round trip.
func readInputText(text string, stdin io.Reader) (string, error) {
	if text != "" {
		return text, nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	input := strings.TrimSuffix(string(b), "\n")
	if input == "" {
		return "", fmt.Errorf("either provide --text or pipe text on stdin")
	}
	return input, nil
}
