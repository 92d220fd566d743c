package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-synth/internal/config"
	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/generation"
	"github.com/jonathan/resume-synth/internal/llm"
	"github.com/jonathan/resume-synth/internal/observability"
	"github.com/jonathan/resume-synth/internal/pipeline"
)

// resolveConfig loads the config file if given, fills defaults, applies the
// environment and finally the --db-url flag.
func resolveConfig(path, databaseURL string) (*config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	merged.ApplyEnv()
	if databaseURL != "" {
		merged.DatabaseURL = databaseURL
	}
	if verbose {
		merged.Verbose = true
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// openStore connects to the database named by cfg.
func openStore(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	store, err := db.ConnectWithConfig(ctx, cfg.PoolConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return store, nil
}

// stack is everything a generating command needs
type stack struct {
	cfg     *config.Config
	store   *db.DB
	client  llm.Client
	builder *pipeline.Builder
	printer *observability.Printer
}

func (s *stack) Close() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.store != nil {
		s.store.Close()
	}
}

// newStack wires the store, the model client and the resume builder.
func newStack(ctx context.Context, cfg *config.Config) (*stack, error) {
	mode, err := pipeline.ParseMode(cfg.PersistMode)
	if err != nil {
		return nil, err
	}
	if llm.Provider(cfg.Provider) != llm.ProviderVertex && cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &stack{cfg: cfg, store: store, printer: observability.NewPrinter(os.Stdout)}

	s.client, err = llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	opts := pipeline.Options{Mode: mode, Parallel: cfg.ParallelSections}
	if cfg.Verbose {
		opts.OnProgress = s.printer.PrintProgress
	}
	s.builder = pipeline.NewBuilder(store, generation.NewService(s.client, cfg.Timeout()), opts)
	return s, nil
}

// readBackground returns the trimmed contents of a background text file.
func readBackground(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("a background file is required (--background or 'background' in config)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read background file: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("background file %s is empty", path)
	}
	return text, nil
}
