package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/ingestion"
)

var ingestJobCmd = &cobra.Command{
	Use:   "ingest-job",
	Short: "Ingest job postings from a scraper output file or a URL",
	Long: `Ingest job postings into the jobs table. --file reads a JSON array of postings
(or an object with a "jobs" array); --url fetches a single posting page.
Postings already stored under the same id are left unchanged.`,
	RunE: runIngestJob,
}

var (
	ingestFile       string
	ingestURL        string
	ingestUseBrowser bool
)

func init() {
	ingestJobCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "Path to jobs JSON file")
	ingestJobCmd.Flags().StringVarP(&ingestURL, "url", "u", "", "URL to fetch job posting from")
	ingestJobCmd.Flags().BoolVar(&ingestUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")

	rootCmd.AddCommand(ingestJobCmd)
}

func validateIngestFlags(file, url string) error {
	if file == "" && url == "" {
		return fmt.Errorf("either --file or --url must be provided")
	}
	if file != "" && url != "" {
		return fmt.Errorf("--file and --url are mutually exclusive; provide only one")
	}
	return nil
}

func runIngestJob(cmd *cobra.Command, _ []string) error {
	if err := validateIngestFlags(ingestFile, ingestURL); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Parse before connecting so a bad file fails fast.
	var inputs []db.JobCreateInput
	if ingestFile != "" {
		parsed, skipped, err := ingestion.LoadJobsFile(ingestFile)
		if err != nil {
			return err
		}
		for _, s := range skipped {
			fmt.Fprintf(os.Stderr, "Skipped entry %d (%s): %s\n", s.Index, s.Title, s.Reason)
		}
		inputs = parsed
	}

	cfg, err := resolveConfig(configPath, dbURL)
	if err != nil {
		return err
	}

	if ingestURL != "" {
		in, err := ingestion.FromURL(ctx, ingestURL, ingestion.URLOptions{
			UseBrowser: ingestUseBrowser || cfg.UseBrowser,
			Verbose:    cfg.Verbose,
		})
		if err != nil {
			return fmt.Errorf("failed to ingest from URL: %w", err)
		}
		inputs = append(inputs, *in)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	created, existing, err := storeJobs(ctx, store, inputs)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Ingested %d job postings (%d new, %d already stored)\n", created+existing, created, existing)
	return nil
}

// jobCreator is the slice of the store ingest needs
type jobCreator interface {
	CreateJob(ctx context.Context, input *db.JobCreateInput) (*db.Job, bool, error)
}

func storeJobs(ctx context.Context, store jobCreator, inputs []db.JobCreateInput) (created, existing int, err error) {
	for i := range inputs {
		_, isNew, err := store.CreateJob(ctx, &inputs[i])
		if err != nil {
			return created, existing, fmt.Errorf("failed to store job %s: %w", inputs[i].ExternalID, err)
		}
		if isNew {
			created++
		} else {
			existing++
		}
	}
	return created, existing, nil
}
