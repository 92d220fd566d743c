package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-synth/internal/db"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Build resumes for every pending job",
	Long: `For every unapplied job matching the seniority filter, analyze the posting and
build a tailored resume from the background file. Jobs that already have a
resume are reported as existing and not regenerated.

Configuration can be loaded from a JSON or YAML file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runBackground string
	runSeniority  string
	runAll        bool
	runLimit      int
	runMode       string
	runParallel   bool
)

func init() {
	runCommand.Flags().StringVarP(&runBackground, "background", "b", "", "Path to background text file")
	runCommand.Flags().StringVarP(&runSeniority, "seniority", "s", "", "Seniority level to process (default \"Mid-Senior level\")")
	runCommand.Flags().BoolVar(&runAll, "all-seniorities", false, "Process jobs of every seniority level")
	runCommand.Flags().IntVar(&runLimit, "limit", 0, "Maximum number of jobs to process (0 = no limit)")
	runCommand.Flags().StringVar(&runMode, "persist-mode", "", "transactional or incremental")
	runCommand.Flags().BoolVar(&runParallel, "parallel", false, "Generate sections concurrently (transactional mode)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(configPath, dbURL)
	if err != nil {
		return err
	}
	if runBackground != "" {
		cfg.Background = runBackground
	}
	if runSeniority != "" {
		cfg.Seniority = runSeniority
	}
	if runMode != "" {
		cfg.PersistMode = runMode
	}
	cfg.ParallelSections = cfg.ParallelSections || runParallel

	background, err := readBackground(cfg.Background)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, err := newStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	filter := db.JobFilter{SeniorityLevel: cfg.Seniority, Limit: runLimit}
	if runAll {
		filter.SeniorityLevel = ""
	}

	report, err := st.builder.ProcessPending(ctx, filter, background)
	if report != nil {
		st.printer.PrintBatchReport(report)
	}
	if err != nil {
		return fmt.Errorf("batch stopped: %w", err)
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", report.Failed, len(report.Outcomes))
	}
	return nil
}
