package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/pipeline"
)

// handleListJobs lists jobs. Query: seniority, unapplied, limit, offset.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := db.JobFilter{
		SeniorityLevel: q.Get("seniority"),
		OnlyUnapplied:  q.Get("unapplied") == "true",
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit"), 50); err != nil {
		s.failResponse(w, &ErrValidation{Field: "limit", Message: err.Error()})
		return
	}
	if filter.Offset, err = intParam(q.Get("offset"), 0); err != nil {
		s.failResponse(w, &ErrValidation{Field: "offset", Message: err.Error()})
		return
	}

	jobs, err := s.store.ListJobs(r.Context(), filter)
	if err != nil {
		s.failResponse(w, &pipeline.StorageError{Op: "list jobs", Cause: err})
		return
	}
	if jobs == nil {
		jobs = []db.Job{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobs, "count": len(jobs)})
}

// handleCreateJob ingests one posting. An existing external id returns 200
// with the stored row; a new one returns 201.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req db.JobCreateInput
	if err := s.decodeBody(r, &req); err != nil {
		s.failResponse(w, err)
		return
	}
	if req.Description == "" {
		s.failResponse(w, &ErrValidation{Field: "description", Message: "description is required"})
		return
	}

	job, created, err := s.store.CreateJob(r.Context(), &req)
	if err != nil {
		s.failResponse(w, &pipeline.StorageError{Op: "create job", Cause: err})
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.jsonResponse(w, status, job)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		s.failResponse(w, &pipeline.StorageError{Op: "get job", Cause: err})
		return
	}
	if job == nil {
		s.failResponse(w, &pipeline.NotFoundError{Entity: "job", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req db.JobUpdateInput
	if err := s.decodeBody(r, &req); err != nil {
		s.failResponse(w, err)
		return
	}

	job, err := s.store.UpdateJob(r.Context(), id, &req)
	if err != nil {
		s.failResponse(w, &pipeline.StorageError{Op: "update job", Cause: err})
		return
	}
	if job == nil {
		s.failResponse(w, &pipeline.NotFoundError{Entity: "job", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted, err := s.store.DeleteJob(r.Context(), id)
	if err != nil {
		s.failResponse(w, &pipeline.StorageError{Op: "delete job", Cause: err})
		return
	}
	if !deleted {
		s.failResponse(w, &pipeline.NotFoundError{Entity: "job", ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkApplied(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ok, err := s.store.MarkJobApplied(r.Context(), id)
	if err != nil {
		s.failResponse(w, &pipeline.StorageError{Op: "mark job applied", Cause: err})
		return
	}
	if !ok {
		s.failResponse(w, &pipeline.NotFoundError{Entity: "job", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"job_id": id, "applied": true})
}

// handleAnalyzeJob runs the job analyzer and stores a new requirements row
func (s *Server) handleAnalyzeJob(w http.ResponseWriter, r *http.Request) {
	reqs, err := s.builder.AnalyzeJob(r.Context(), r.PathValue("id"))
	if err != nil {
		s.failResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, reqs)
}

// handleGetResumeByJob returns the full resume generated for a job
func (s *Server) handleGetResumeByJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	resume, err := s.store.FindResumeByJobID(r.Context(), id)
	if err != nil {
		s.failResponse(w, &pipeline.StorageError{Op: "find resume by job id", Cause: err})
		return
	}
	if resume == nil {
		s.failResponse(w, &pipeline.NotFoundError{Entity: "resume for job", ID: id})
		return
	}
	s.writeFullResume(w, r, resume.ID)
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
