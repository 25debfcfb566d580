package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [id...]",
		Short: "Decode GPT-2 token ids back to text",
		Long: "Decode token ids back to text. Ids are taken from the argument list,\n" +
			"or from stdin (whitespace- or comma-separated) when no arguments are given.",
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			ids, err := readIDs(args, os.Stdin)
			if err != nil {
				return err
			}

			tok, err := loadTokenizer(cfg)
			if err != nil {
				return err
			}

			text, err := tok.Decode(ids)
			if err != nil {
				return fmt.Errorf("decode failed: %w", err)
			}

			// Print without a trailing newline; the decoded text owns its
			// own whitespace.
			_, err = fmt.Fprint(os.Stdout, text)
			return err
		},
	}

	return cmd
}

// readIDs parses token ids from args, or from stdin when args is empty.
// Accepts whitespace- and comma-separated ids, plus a bracketed JSON-style
// list ("[15496, 11]") so server output can be piped back in directly.
func readIDs(args []string, stdin io.Reader) ([]int, error) {
	fields := args
	if len(fields) == 0 {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		raw := strings.TrimSpace(string(b))
		if raw == "" {
			return nil, fmt.Errorf("either pass ids as arguments or pipe them on stdin")
		}
		raw = strings.Trim(raw, "[]")
		raw = strings.ReplaceAll(raw, ",", " ")
		fields = strings.Fields(raw)
	}

	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ",")
		if f == "" {
			continue
		}
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid token id %q: %w", f, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no token ids given")
	}
	return ids, nil
}
