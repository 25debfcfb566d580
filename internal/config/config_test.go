package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

// fakeBinder wraps a pflag.FlagSet to satisfy the flagBinder interface.
type fakeBinder struct {
	fs *pflag.FlagSet
}

func (f *fakeBinder) Flags() *pflag.FlagSet { return f.fs }

// newFlagBinder creates a FlagSet with all config flags registered at their defaults.
func newFlagBinder(defaults Config) *fakeBinder {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)

	return &fakeBinder{fs: fs}
}

// --- DefaultConfig ---

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Paths.VocabPath != "models/gpt2/vocab.json" {
		t.Errorf("VocabPath = %q; want %q", cfg.Paths.VocabPath, "models/gpt2/vocab.json")
	}

	if cfg.Paths.MergesPath != "models/gpt2/merges.txt" {
		t.Errorf("MergesPath = %q; want %q", cfg.Paths.MergesPath, "models/gpt2/merges.txt")
	}

	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("Server.ListenAddr = %q; want %q", cfg.Server.ListenAddr, ":8080")
	}

	if cfg.Server.Workers != 4 {
		t.Errorf("Server.Workers = %d; want 4", cfg.Server.Workers)
	}

	if cfg.Server.MaxTextBytes != 1<<20 {
		t.Errorf("Server.MaxTextBytes = %d; want %d", cfg.Server.MaxTextBytes, 1<<20)
	}

	if cfg.Server.RequestTimeout != 30 {
		t.Errorf("Server.RequestTimeout = %d; want 30", cfg.Server.RequestTimeout)
	}

	if cfg.Server.ShutdownTimeout != 30 {
		t.Errorf("Server.ShutdownTimeout = %d; want 30", cfg.Server.ShutdownTimeout)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "info")
	}
}

// --- Load precedence ---

func TestLoad_DefaultsOnly(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load(LoadOptions{Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Paths.VocabPath != "models/gpt2/vocab.json" {
		t.Errorf("VocabPath = %q; want default", cfg.Paths.VocabPath)
	}
}

func TestLoad_FlagOverridesDefault(t *testing.T) {
	chdirTemp(t)

	binder := newFlagBinder(DefaultConfig())
	if err := binder.fs.Set("paths-vocab-path", "/tmp/custom-vocab.json"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(LoadOptions{Cmd: binder, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Paths.VocabPath != "/tmp/custom-vocab.json" {
		t.Errorf("VocabPath = %q; want flag value", cfg.Paths.VocabPath)
	}
	if cfg.Paths.MergesPath != "models/gpt2/merges.txt" {
		t.Errorf("MergesPath = %q; untouched fields must keep defaults", cfg.Paths.MergesPath)
	}
}

func TestLoad_EnvOverridesDefault(t *testing.T) {
	chdirTemp(t)

	t.Setenv("GPT2BPE_SERVER_LISTEN_ADDR", ":9999")
	t.Setenv("GPT2BPE_LOG_LEVEL", "debug")

	cfg, err := Load(LoadOptions{Cmd: newFlagBinder(DefaultConfig()), Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q; want env value :9999", cfg.Server.ListenAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q; want env value debug", cfg.LogLevel)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gpt2bpe.yaml")
	content := "paths:\n  vocab_path: from-file.json\nserver:\n  workers: 9\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(LoadOptions{ConfigFile: path, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Paths.VocabPath != "from-file.json" {
		t.Errorf("VocabPath = %q; want file value", cfg.Paths.VocabPath)
	}
	if cfg.Server.Workers != 9 {
		t.Errorf("Workers = %d; want file value 9", cfg.Server.Workers)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q; fields absent from the file keep defaults", cfg.Server.ListenAddr)
	}
}

func TestLoad_FlagOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gpt2bpe.yaml")
	content := "paths:\n  vocab_path: from-file.json\nserver:\n  workers: 9\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	binder := newFlagBinder(DefaultConfig())
	if err := binder.fs.Set("server-workers", "2"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(LoadOptions{Cmd: binder, ConfigFile: path, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Workers != 2 {
		t.Errorf("Workers = %d; a set flag must beat the file value", cfg.Server.Workers)
	}
	if cfg.Paths.VocabPath != "from-file.json" {
		t.Errorf("VocabPath = %q; unset flags must not mask file values", cfg.Paths.VocabPath)
	}
}

func TestLoad_EnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gpt2bpe.yaml")
	if err := os.WriteFile(path, []byte("log_level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GPT2BPE_LOG_LEVEL", "debug")

	cfg, err := Load(LoadOptions{Cmd: newFlagBinder(DefaultConfig()), ConfigFile: path, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q; env must beat the file value", cfg.LogLevel)
	}
}

func TestLoad_MissingExplicitConfigFileFails(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: "/nonexistent/gpt2bpe.yaml", Defaults: DefaultConfig()})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

// chdirTemp moves the test into an empty directory so a stray gpt2bpe.yaml
// in the working tree cannot leak into config discovery.
func chdirTemp(t *testing.T) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	})
}
