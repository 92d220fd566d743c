package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/pipeline"
)

// CreateResumeRequest is the body of POST /resumes and /resumes/stream
type CreateResumeRequest struct {
	JobID string `json:"job_id" validate:"required"`
	// RequirementsID selects an analysis run; zero uses the latest one for the job
	RequirementsID int64  `json:"requirements_id,omitempty" validate:"gte=0"`
	Background     string `json:"background,omitempty"`
}

// CreateResumeResponse is returned by POST /resumes
type CreateResumeResponse struct {
	*pipeline.Result
	Status string `json:"status"`
}

// VisibilityRequest toggles one resume row
type VisibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

// UpdateResumeRequest edits resume metadata. Nil fields are left unchanged.
type UpdateResumeRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
}

// UpdateSummaryRequest replaces the summary text
type UpdateSummaryRequest struct {
	Content string `json:"content" validate:"required"`
}

// prepareCreate decodes the request and resolves defaults for the background
// text and the requirements id.
func (s *Server) prepareCreate(r *http.Request) (*pipeline.CreateResumeInput, error) {
	var req CreateResumeRequest
	if err := s.decodeBody(r, &req); err != nil {
		return nil, err
	}

	background := req.Background
	if background == "" {
		background = s.background
	}
	if background == "" {
		return nil, &ErrValidation{Field: "background", Message: "background is required when the server has no default"}
	}

	reqID := req.RequirementsID
	if reqID == 0 {
		latest, err := s.store.GetLatestJobRequirements(r.Context(), req.JobID)
		if err != nil {
			return nil, &pipeline.StorageError{Op: "get latest job requirements", Cause: err}
		}
		if latest == nil {
			return nil, &pipeline.NotFoundError{Entity: "job requirements for job", ID: req.JobID}
		}
		reqID = latest.ID
	}

	return &pipeline.CreateResumeInput{
		JobID:          req.JobID,
		RequirementsID: reqID,
		Background:     background,
	}, nil
}

// handleCreateResume creates a resume and waits for it. An existing resume
// for the job returns 200 with its id; a new one returns 201.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	in, err := s.prepareCreate(r)
	if err != nil {
		s.failResponse(w, err)
		return
	}

	res, err := s.builder.CreateResume(r.Context(), *in)
	if err != nil {
		s.failResponse(w, err)
		return
	}

	if res.Existing {
		s.jsonResponse(w, http.StatusOK, CreateResumeResponse{Result: res, Status: "existing"})
		return
	}
	s.jsonResponse(w, http.StatusCreated, CreateResumeResponse{Result: res, Status: "created"})
}

// handleCreateResumeStream creates a resume and streams progress via SSE
func (s *Server) handleCreateResumeStream(w http.ResponseWriter, r *http.Request) {
	in, err := s.prepareCreate(r)
	if err != nil {
		s.failResponse(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	in.OnProgress = func(ev pipeline.ProgressEvent) {
		if err := sse.WriteProgress(ev); err != nil {
			log.Printf("Error writing SSE event: %v", err)
		}
	}

	// Canceling the request context stops generation.
	res, err := s.builder.CreateResume(r.Context(), *in)
	if err != nil {
		sse.WriteError(err)
		return
	}
	sse.WriteComplete(res)
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	resumes, err := s.store.ListResumes(r.Context())
	if err != nil {
		s.failResponse(w, &pipeline.StorageError{Op: "list resumes", Cause: err})
		return
	}
	if resumes == nil {
		resumes = []db.Resume{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": resumes, "count": len(resumes)})
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.failResponse(w, err)
		return
	}
	s.writeFullResume(w, r, id)
}

func (s *Server) writeFullResume(w http.ResponseWriter, r *http.Request, id int64) {
	full, err := s.store.GetFullResume(r.Context(), id)
	if err != nil {
		s.failResponse(w, &pipeline.StorageError{Op: "get resume", Cause: err})
		return
	}
	if full == nil {
		s.failResponse(w, &pipeline.NotFoundError{Entity: "resume", ID: strconv.FormatInt(id, 10)})
		return
	}
	s.jsonResponse(w, http.StatusOK, full)
}

func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.failResponse(w, err)
		return
	}
	var req UpdateResumeRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.failResponse(w, err)
		return
	}

	resume, err := s.store.UpdateResume(r.Context(), id, req.Name, req.Description)
	if err != nil {
		s.failResponse(w, &pipeline.StorageError{Op: "update resume", Cause: err})
		return
	}
	if resume == nil {
		s.failResponse(w, &pipeline.NotFoundError{Entity: "resume", ID: strconv.FormatInt(id, 10)})
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

func (s *Server) handleUpdateSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.failResponse(w, err)
		return
	}
	var req UpdateSummaryRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.failResponse(w, err)
		return
	}

	ok, err := s.store.UpdateSummary(r.Context(), id, req.Content)
	if err != nil {
		s.failResponse(w, &pipeline.StorageError{Op: "update summary", Cause: err})
		return
	}
	if !ok {
		s.failResponse(w, &pipeline.NotFoundError{Entity: "summary for resume", ID: strconv.FormatInt(id, 10)})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resume_id": id, "content": req.Content})
}

// handleDeleteResume removes a resume and, by cascade, every row under it
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.failResponse(w, err)
		return
	}
	deleted, err := s.store.DeleteResume(r.Context(), id)
	if err != nil {
		s.failResponse(w, &pipeline.StorageError{Op: "delete resume", Cause: err})
		return
	}
	if !deleted {
		s.failResponse(w, &pipeline.NotFoundError{Entity: "resume", ID: strconv.FormatInt(id, 10)})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetVisibility toggles is_visible on one row of resume {id}. A row
// owned by another resume is reported as not found.
func (s *Server) handleSetVisibility(w http.ResponseWriter, r *http.Request) {
	resumeID, entity, entityID, err := entityPath(r)
	if err != nil {
		s.failResponse(w, err)
		return
	}
	var req VisibilityRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.failResponse(w, err)
		return
	}

	ok, err := s.store.SetVisibility(r.Context(), resumeID, entity, entityID, *req.Visible)
	if err != nil {
		s.failResponse(w, entityError("set visibility", err))
		return
	}
	if !ok {
		s.failResponse(w, &pipeline.NotFoundError{Entity: entity, ID: strconv.FormatInt(entityID, 10)})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"entity": entity, "id": entityID, "is_visible": *req.Visible})
}

// handleDeleteEntity removes one row of resume {id} and its own children
func (s *Server) handleDeleteEntity(w http.ResponseWriter, r *http.Request) {
	resumeID, entity, entityID, err := entityPath(r)
	if err != nil {
		s.failResponse(w, err)
		return
	}

	ok, err := s.store.DeleteEntity(r.Context(), resumeID, entity, entityID)
	if err != nil {
		s.failResponse(w, entityError("delete entity", err))
		return
	}
	if !ok {
		s.failResponse(w, &pipeline.NotFoundError{Entity: entity, ID: strconv.FormatInt(entityID, 10)})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func entityPath(r *http.Request) (resumeID int64, entity string, entityID int64, err error) {
	if resumeID, err = pathID(r, "id"); err != nil {
		return 0, "", 0, err
	}
	if entityID, err = pathID(r, "entity_id"); err != nil {
		return 0, "", 0, err
	}
	return resumeID, r.PathValue("entity"), entityID, nil
}

// entityError passes unknown entity names through as client errors.
func entityError(op string, err error) error {
	if _, ok := err.(*db.UnknownEntityError); ok {
		return err
	}
	return &pipeline.StorageError{Op: op, Cause: err}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &ErrValidation{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}
