// Package pipeline orchestrates resume synthesis: requirements lookup,
// idempotency, background parsing, section generation, and persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/generation"
	"github.com/jonathan/resume-synth/internal/parsing"
	"github.com/jonathan/resume-synth/internal/sections"
	"github.com/jonathan/resume-synth/internal/types"
)

// Store is the persistence surface the pipeline needs. *db.DB implements it.
type Store interface {
	GetJob(ctx context.Context, externalID string) (*db.Job, error)
	ListJobs(ctx context.Context, filter db.JobFilter) ([]db.Job, error)
	GetApplicationURL(ctx context.Context, externalID string) (string, error)
	GetJobRequirements(ctx context.Context, id int64) (*db.JobRequirements, error)
	CreateJobRequirements(ctx context.Context, jobID string, req *types.JobRequirements) (*db.JobRequirements, error)
	FindResumeByJobID(ctx context.Context, jobID string) (*db.Resume, error)
	WithTx(ctx context.Context, fn func(tx db.ResumeTx) error) error
}

var _ Store = (*db.DB)(nil)

// Mode selects how a resume is persisted
type Mode string

const (
	// ModeTransactional generates every section first and writes the whole
	// resume in one transaction. Nothing is visible if any step fails.
	ModeTransactional Mode = "transactional"
	// ModeIncremental commits the shell first and then each section as it is
	// generated. A failure leaves a visible partial resume.
	ModeIncremental Mode = "incremental"
)

// ParseMode validates a mode name. The empty string selects ModeTransactional.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeTransactional:
		return ModeTransactional, nil
	case ModeIncremental:
		return ModeIncremental, nil
	default:
		return "", fmt.Errorf("unknown persist mode %q (want %s or %s)", s, ModeTransactional, ModeIncremental)
	}
}

// Options configures a Builder
type Options struct {
	Mode Mode
	// Parallel runs the five section generators concurrently in transactional mode
	Parallel   bool
	OnProgress ProgressCallback
	// Extra is appended to every section prompt
	Extra string
}

// Builder creates resumes for jobs
type Builder struct {
	store Store
	gen   generation.Generator
	opts  Options
}

// NewBuilder creates a Builder
func NewBuilder(store Store, gen generation.Generator, opts Options) *Builder {
	if opts.Mode == "" {
		opts.Mode = ModeTransactional
	}
	return &Builder{store: store, gen: gen, opts: opts}
}

// CreateResumeInput identifies the job and carries the raw background text
type CreateResumeInput struct {
	JobID          string
	RequirementsID int64
	Background     string
	// OnProgress overrides Options.OnProgress for this call
	OnProgress ProgressCallback
}

// Result is the outcome of CreateResume
type Result struct {
	RunID    uuid.UUID `json:"run_id"`
	ResumeID int64     `json:"resume_id"`
	// Existing is true when a resume for the job already existed
	Existing bool `json:"existing"`
}

// CreateResume builds and persists a tailored resume for in.JobID. At most
// one resume exists per job id: if one already exists, or another caller
// commits one first, its id is returned with Existing set.
func (b *Builder) CreateResume(ctx context.Context, in CreateResumeInput) (*Result, error) {
	r := &run{id: uuid.New(), jobID: in.JobID, progress: b.opts.OnProgress}
	if in.OnProgress != nil {
		r.progress = in.OnProgress
	}

	res, err := b.createResume(ctx, r, in)
	if err != nil {
		log.Printf("[pipeline] run %s for job %s failed (%s): %v", r.id, in.JobID, Classify(err), err)
		r.emit(StepFailed, 0, err.Error(), nil)
		return nil, err
	}
	r.emit(StepDone, res.ResumeID, fmt.Sprintf("Resume %d ready", res.ResumeID), res)
	return res, nil
}

func (b *Builder) createResume(ctx context.Context, r *run, in CreateResumeInput) (*Result, error) {
	if strings.TrimSpace(in.JobID) == "" {
		return nil, &parsing.ValidationError{Field: "job_id", Message: "job id is required"}
	}
	r.emit(StepRequested, 0, fmt.Sprintf("Creating resume for job %s", in.JobID), nil)

	reqRow, err := b.store.GetJobRequirements(ctx, in.RequirementsID)
	if err != nil {
		return nil, &StorageError{Op: "get job requirements", Cause: err}
	}
	if reqRow == nil {
		return nil, &NotFoundError{Entity: "job requirements", ID: fmt.Sprint(in.RequirementsID)}
	}

	existing, err := b.store.FindResumeByJobID(ctx, in.JobID)
	if err != nil {
		return nil, &StorageError{Op: "find resume by job id", Cause: err}
	}
	if existing != nil {
		r.emit(StepExistingFound, existing.ID, fmt.Sprintf("Resume %d already exists for job %s", existing.ID, in.JobID), nil)
		return &Result{RunID: r.id, ResumeID: existing.ID, Existing: true}, nil
	}

	appURL, err := b.store.GetApplicationURL(ctx, in.JobID)
	if err != nil {
		return nil, &StorageError{Op: "get application url", Cause: err}
	}

	bg, err := parsing.ParseBackground(ctx, b.gen, in.Background)
	if err != nil {
		return nil, err
	}
	r.emit(StepBackgroundParsed, 0,
		fmt.Sprintf("Parsed background: %d positions, %d education, %d skills, %d projects",
			len(bg.WorkHistory), len(bg.Education), len(bg.Skills), len(bg.Projects)), bg)

	reqs := reqRow.JobRequirements
	shell := shellFor(in.JobID, reqRow.ID, &reqs, appURL)
	secIn := sections.Input{Background: bg, Requirements: &reqs, Extra: b.opts.Extra}

	if b.opts.Mode == ModeIncremental {
		return b.persistIncremental(ctx, r, shell, bg, secIn)
	}
	return b.persistTransactional(ctx, r, shell, bg, secIn)
}

func (b *Builder) persistTransactional(ctx context.Context, r *run, shell *db.ResumeCreateInput, bg *types.ParsedBackground, in sections.Input) (*Result, error) {
	r.emit(StepSectionsGenerating, 0, "Generating sections", nil)
	secs, err := sections.GenerateAll(ctx, b.gen, in, b.opts.Parallel, func(k sections.Kind) {
		r.emit(StepSectionGenerated, 0, fmt.Sprintf("Generated %s", k), k)
	})
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.emit(StepPersisting, 0, "Persisting resume", nil)

	var resumeID int64
	err = b.store.WithTx(ctx, func(tx db.ResumeTx) error {
		id, err := writeShell(ctx, tx, shell, &bg.PersonalInfo)
		if err != nil {
			return err
		}
		resumeID = id
		for _, kind := range sections.Order {
			if err := writeSection(ctx, tx, id, kind, secs); err != nil {
				return err
			}
		}
		return nil
	})
	if res, ok := r.existingWinner(err); ok {
		return res, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "persist resume", Cause: err}
	}
	return &Result{RunID: r.id, ResumeID: resumeID}, nil
}

func (b *Builder) persistIncremental(ctx context.Context, r *run, shell *db.ResumeCreateInput, bg *types.ParsedBackground, in sections.Input) (*Result, error) {
	r.emit(StepPersisting, 0, "Persisting resume shell", nil)

	var resumeID int64
	err := b.store.WithTx(ctx, func(tx db.ResumeTx) error {
		id, err := writeShell(ctx, tx, shell, &bg.PersonalInfo)
		resumeID = id
		return err
	})
	if res, ok := r.existingWinner(err); ok {
		return res, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "persist resume shell", Cause: err}
	}

	r.emit(StepSectionsGenerating, resumeID, "Generating sections", nil)
	for _, kind := range sections.Order {
		var secs types.Sections
		if err := sections.Generate(ctx, b.gen, kind, in, &secs); err != nil {
			return nil, &PartialResumeError{ResumeID: resumeID, Section: string(kind), Cause: err}
		}
		r.emit(StepSectionGenerated, resumeID, fmt.Sprintf("Generated %s", kind), kind)

		err := b.store.WithTx(ctx, func(tx db.ResumeTx) error {
			return writeSection(ctx, tx, resumeID, kind, &secs)
		})
		if err != nil {
			return nil, &PartialResumeError{
				ResumeID: resumeID,
				Section:  string(kind),
				Cause:    &StorageError{Op: "persist " + string(kind), Cause: err},
			}
		}
		r.emit(StepSectionPersisted, resumeID, fmt.Sprintf("Persisted %s", kind), kind)
	}
	return &Result{RunID: r.id, ResumeID: resumeID}, nil
}

// existingWinner turns a lost creation race into an Existing result
func (r *run) existingWinner(err error) (*Result, bool) {
	var exists *db.ResumeExistsError
	if !errors.As(err, &exists) {
		return nil, false
	}
	log.Printf("[pipeline] job %s: resume %d was created concurrently", exists.JobID, exists.ResumeID)
	r.emit(StepExistingFound, exists.ResumeID, fmt.Sprintf("Resume %d already exists for job %s", exists.ResumeID, exists.JobID), nil)
	return &Result{RunID: r.id, ResumeID: exists.ResumeID, Existing: true}, true
}
