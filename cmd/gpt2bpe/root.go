package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/example/go-gpt2-bpe/internal/config"
	"github.com/example/go-gpt2-bpe/internal/server"
	"github.com/example/go-gpt2-bpe/internal/tokenizer"
	"github.com/example/go-gpt2-bpe/internal/vocab"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	activeCfg config.Config
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "gpt2bpe",
		Short: "GPT-2 byte-level BPE tokenizer command line",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newEncodeCmd())
	cmd.AddCommand(newDecodeCmd())
	cmd.AddCommand(newCountCmd())
	cmd.AddCommand(newBenchCmd())
	cmd.AddCommand(newModelCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newDoctorCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := server.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if activeCfg.Paths.VocabPath == "" {
		return config.Config{}, fmt.Errorf("configuration not loaded")
	}
	return activeCfg, nil
}

// loadTokenizer constructs the tokenizer from the configured asset paths.
func loadTokenizer(cfg config.Config) (*tokenizer.Tokenizer, error) {
	vocabMap, merges, err := vocab.Load(cfg.Paths.VocabPath, cfg.Paths.MergesPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer assets: %w", err)
	}
	tok, err := tokenizer.New(vocabMap, merges)
	if err != nil {
		return nil, fmt.Errorf("construct tokenizer: %w", err)
	}
	return tok, nil
}
