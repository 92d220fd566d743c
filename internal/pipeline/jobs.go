package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/parsing"
	"github.com/jonathan/resume-synth/internal/types"
)

// AnalyzeJob runs the job analyzer over a stored posting and saves the result
// as a new job requirements row.
func (b *Builder) AnalyzeJob(ctx context.Context, jobID string) (*db.JobRequirements, error) {
	job, err := b.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, &StorageError{Op: "get job", Cause: err}
	}
	if job == nil {
		return nil, &NotFoundError{Entity: "job", ID: jobID}
	}

	analyzed, err := parsing.AnalyzeJob(ctx, b.gen, draftFromJob(job))
	if err != nil {
		return nil, err
	}

	row, err := b.store.CreateJobRequirements(ctx, jobID, analyzed)
	if err != nil {
		return nil, &StorageError{Op: "create job requirements", Cause: err}
	}
	log.Printf("[pipeline] analyzed job %s into requirements %d", jobID, row.ID)
	return row, nil
}

func draftFromJob(job *db.Job) *types.JobRequirements {
	return &types.JobRequirements{
		CompanyName:    job.Company,
		JobTitle:       job.Title,
		JobDescription: job.Description,
		Location:       deref(job.Location),
		ApplicationURL: deref(job.ApplicationURL),
		SeniorityLevel: deref(job.SeniorityLevel),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ProcessJob analyzes a job and creates its resume. A job that already has a
// resume is returned without running the analyzer.
func (b *Builder) ProcessJob(ctx context.Context, jobID, background string) (*Result, error) {
	existing, err := b.store.FindResumeByJobID(ctx, jobID)
	if err != nil {
		return nil, &StorageError{Op: "find resume by job id", Cause: err}
	}
	if existing != nil {
		return &Result{ResumeID: existing.ID, Existing: true}, nil
	}

	reqs, err := b.AnalyzeJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return b.CreateResume(ctx, CreateResumeInput{
		JobID:          jobID,
		RequirementsID: reqs.ID,
		Background:     background,
	})
}

// BatchOutcome is the result of processing one job in a batch
type BatchOutcome struct {
	JobID    string
	Company  string
	Title    string
	ResumeID int64
	Existing bool
	Err      error
}

// BatchReport summarizes ProcessPending
type BatchReport struct {
	Outcomes []BatchOutcome
	Created  int
	Existing int
	Failed   int
}

// ProcessPending creates resumes for every unapplied job matching filter.
// Per-job failures are recorded and the batch continues; cancellation stops it.
func (b *Builder) ProcessPending(ctx context.Context, filter db.JobFilter, background string) (*BatchReport, error) {
	filter.OnlyUnapplied = true
	jobs, err := b.store.ListJobs(ctx, filter)
	if err != nil {
		return nil, &StorageError{Op: "list jobs", Cause: err}
	}
	log.Printf("[pipeline] processing %d pending jobs", len(jobs))

	report := &BatchReport{}
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		out := BatchOutcome{JobID: job.ExternalID, Company: job.Company, Title: job.Title}
		res, err := b.ProcessJob(ctx, job.ExternalID, background)
		switch {
		case err != nil:
			out.Err = err
			report.Failed++
			log.Printf("[pipeline] job %s failed: %v", job.ExternalID, err)
			if errors.Is(err, context.Canceled) {
				report.Outcomes = append(report.Outcomes, out)
				return report, err
			}
		case res.Existing:
			out.ResumeID, out.Existing = res.ResumeID, true
			report.Existing++
		default:
			out.ResumeID = res.ResumeID
			report.Created++
		}
		report.Outcomes = append(report.Outcomes, out)
	}
	return report, nil
}

// String renders a one-line summary of the batch
func (r *BatchReport) String() string {
	return fmt.Sprintf("%d created, %d existing, %d failed", r.Created, r.Existing, r.Failed)
}
