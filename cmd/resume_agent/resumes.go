package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/observability"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Args:  cobra.NoArgs,
	RunE: withStore(func(ctx context.Context, store *db.DB, _ []string) error {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Schema applied")
		return nil
	}),
}

var markAppliedCmd = &cobra.Command{
	Use:   "mark-applied <job-id>",
	Short: "Mark a job as applied so batch runs skip it",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(ctx context.Context, store *db.DB, args []string) error {
		ok, err := store.MarkJobApplied(ctx, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("job not found: %s", args[0])
		}
		fmt.Fprintf(os.Stdout, "Marked job %s as applied\n", args[0])
		return nil
	}),
}

var (
	showJSON bool
	byJob    bool
)

var showResumeCmd = &cobra.Command{
	Use:   "show-resume <resume-id>",
	Short: "Print a stored resume",
	Long:  "Print a stored resume by id, or with --job by the job id it was generated for.",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(ctx context.Context, store *db.DB, args []string) error {
		id, err := resolveResumeID(ctx, store, args[0], byJob)
		if err != nil {
			return err
		}
		full, err := store.GetFullResume(ctx, id)
		if err != nil {
			return err
		}
		if full == nil {
			return fmt.Errorf("resume not found: %d", id)
		}
		if showJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(full)
		}
		observability.NewPrinter(os.Stdout).PrintResume(full)
		return nil
	}),
}

var deleteResumeCmd = &cobra.Command{
	Use:   "delete-resume <resume-id>",
	Short: "Delete a resume and every row under it",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(ctx context.Context, store *db.DB, args []string) error {
		id, err := resolveResumeID(ctx, store, args[0], byJob)
		if err != nil {
			return err
		}
		ok, err := store.DeleteResume(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("resume not found: %d", id)
		}
		fmt.Fprintf(os.Stdout, "Deleted resume %d\n", id)
		return nil
	}),
}

var dbSchemaCmd = &cobra.Command{
	Use:   "db-schema [table]",
	Short: "List tables, or the columns of one table",
	Args:  cobra.MaximumNArgs(1),
	RunE: withStore(func(ctx context.Context, store *db.DB, args []string) error {
		if len(args) == 0 {
			tables, err := store.ListTables(ctx)
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Fprintln(os.Stdout, t)
			}
			return nil
		}
		cols, err := store.DescribeTable(ctx, args[0])
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			return fmt.Errorf("table not found: %s", args[0])
		}
		for _, c := range cols {
			fmt.Fprintln(os.Stdout, formatColumn(c))
		}
		return nil
	}),
}

func init() {
	showResumeCmd.Flags().BoolVar(&showJSON, "json", false, "Print the resume as JSON")
	for _, c := range []*cobra.Command{showResumeCmd, deleteResumeCmd} {
		c.Flags().BoolVar(&byJob, "job", false, "Treat the argument as a job id")
	}
	rootCmd.AddCommand(migrateCmd, markAppliedCmd, showResumeCmd, deleteResumeCmd, dbSchemaCmd)
}

// withStore resolves config, connects, and runs fn with the open store.
func withStore(fn func(ctx context.Context, store *db.DB, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, err := resolveConfig(configPath, dbURL)
		if err != nil {
			return err
		}
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		return fn(ctx, store, args)
	}
}

// resumeFinder looks up the resume generated for a job
type resumeFinder interface {
	FindResumeByJobID(ctx context.Context, jobID string) (*db.Resume, error)
}

// resolveResumeID parses a resume id, or looks one up by job id when byJob is set.
func resolveResumeID(ctx context.Context, store resumeFinder, arg string, byJob bool) (int64, error) {
	if !byJob {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("invalid resume id %q (use --job to look up by job id)", arg)
		}
		return id, nil
	}
	resume, err := store.FindResumeByJobID(ctx, arg)
	if err != nil {
		return 0, err
	}
	if resume == nil {
		return 0, fmt.Errorf("no resume for job %s", arg)
	}
	return resume.ID, nil
}

func formatColumn(c db.ColumnInfo) string {
	s := fmt.Sprintf("%-24s %s", c.Name, c.DataType)
	if !c.Nullable {
		s += " NOT NULL"
	}
	if c.Default != nil {
		s += " DEFAULT " + *c.Default
	}
	return s
}
