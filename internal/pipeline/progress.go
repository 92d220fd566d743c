package pipeline

import (
	"sync"

	"github.com/google/uuid"
)

// Step names the state a resume build has reached
type Step string

const (
	StepRequested          Step = "requested"
	StepExistingFound      Step = "existing_found"
	StepBackgroundParsed   Step = "background_parsed"
	StepSectionsGenerating Step = "sections_generating"
	StepSectionGenerated   Step = "section_generated"
	StepSectionPersisted   Step = "section_persisted"
	StepPersisting         Step = "persisting"
	StepDone               Step = "done"
	StepFailed             Step = "failed"
)

// ProgressEvent represents a progress update during resume synthesis
type ProgressEvent struct {
	RunID    uuid.UUID `json:"run_id"`
	JobID    string    `json:"job_id"`
	Step     Step      `json:"step"`
	Message  string    `json:"message"`
	ResumeID int64     `json:"resume_id,omitempty"`
	Content  any       `json:"content,omitempty"`
}

// ProgressCallback is called for every progress event. Calls for one run are
// serialized.
type ProgressCallback func(event ProgressEvent)

// run carries per-request state through one CreateResume call
type run struct {
	id       uuid.UUID
	jobID    string
	progress ProgressCallback
	mu       sync.Mutex
}

func (r *run) emit(step Step, resumeID int64, message string, content any) {
	if r.progress == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress(ProgressEvent{
		RunID:    r.id,
		JobID:    r.jobID,
		Step:     step,
		Message:  message,
		ResumeID: resumeID,
		Content:  content,
	})
}
