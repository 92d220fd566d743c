// Package main provides the resume_agent CLI: job ingestion, batch resume
// generation, and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dbURL      string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Targeted resume synthesis",
	Long: `resume_agent ingests job postings, analyzes their requirements, and builds a
tailored resume per job from a free-form candidate background. Resumes are
stored relationally, one per job.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed progress")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
