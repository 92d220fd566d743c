package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-synth/internal/server"
	"github.com/jonathan/resume-synth/internal/server/ratelimit"
)

var (
	servePort       int
	serveBackground string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes jobs, job analysis and resume generation.
Generation endpoints are rate limited per client.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	serveCmd.Flags().StringVar(&serveBackground, "background", "", "Default background text file for create requests without one")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(configPath, dbURL)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveBackground != "" {
		cfg.Background = serveBackground
	}

	var background string
	if cfg.Background != "" {
		if background, err = readBackground(cfg.Background); err != nil {
			return err
		}
	}

	st, err := newStack(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	limits := ratelimit.NewConfig(ratelimit.Settings{
		Disabled:          cfg.RateLimitDisabled,
		GenerationPerHour: cfg.GenerationPerHour,
		GenerationBurst:   cfg.GenerationBurst,
		DefaultPerMinute:  cfg.DefaultPerMinute,
	})
	srv := server.New(server.Config{Port: cfg.Port, Background: background, RateLimit: limits}, st.store, st.builder)

	log.Printf("Persist mode: %s, provider: %s", cfg.PersistMode, cfg.Provider)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
