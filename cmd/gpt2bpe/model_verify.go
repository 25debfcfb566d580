package main

import (
	"fmt"
	"os"

	"github.com/example/go-gpt2-bpe/internal/model"
	"github.com/spf13/cobra"
)

func newModelVerifyCmd() *cobra.Command {
	var hfRepo string
	var dir string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify downloaded vocabulary files and smoke-load the tokenizer",
		RunE: func(_ *cobra.Command, _ []string) error {
			err := model.Verify(model.VerifyOptions{
				Repo:   hfRepo,
				Dir:    dir,
				Stdout: os.Stdout,
				Stderr: os.Stderr,
			})
			if err != nil {
				return fmt.Errorf("model verify failed: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&hfRepo, "hf-repo", model.DefaultRepo, "Hugging Face model repository")
	cmd.Flags().StringVar(&dir, "dir", "models/gpt2", "Directory holding the downloaded vocabulary files")

	return cmd
}
