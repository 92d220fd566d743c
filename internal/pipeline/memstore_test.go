package pipeline

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/types"
)

type memCategory struct {
	name   string
	order  int
	skills []db.SkillInput
}

type memExperience struct {
	db.ExperienceInput
	accomplishments []string
}

type memResume struct {
	db.Resume
	personal    []db.PersonalInfoInput
	contacts    []db.ContactDetailInput
	summaries   []string
	categories  []memCategory
	experiences []memExperience
	educations  []db.EducationInput
	projects    []db.ProjectInput
}

func (r *memResume) clone() *memResume {
	c := *r
	c.personal = slices.Clone(r.personal)
	c.contacts = slices.Clone(r.contacts)
	c.summaries = slices.Clone(r.summaries)
	c.categories = make([]memCategory, len(r.categories))
	for i, cat := range r.categories {
		cat.skills = slices.Clone(cat.skills)
		c.categories[i] = cat
	}
	c.experiences = make([]memExperience, len(r.experiences))
	for i, e := range r.experiences {
		e.accomplishments = slices.Clone(e.accomplishments)
		c.experiences[i] = e
	}
	c.educations = slices.Clone(r.educations)
	c.projects = slices.Clone(r.projects)
	return &c
}

// memStore is an in-memory Store. WithTx is serialized and stages writes
// until fn returns nil, mirroring the advisory lock and commit semantics of
// the PostgreSQL store.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID       int64
	jobs         map[string]*db.Job
	requirements map[int64]*db.JobRequirements
	resumes      map[int64]*memResume

	// failOn makes the named tx operation fail
	failOn string
	// beforeCreate runs inside CreateResume before the uniqueness check
	beforeCreate func(s *memStore, jobID string)
	txCount      int
}

func newMemStore() *memStore {
	return &memStore{
		jobs:         make(map[string]*db.Job),
		requirements: make(map[int64]*db.JobRequirements),
		resumes:      make(map[int64]*memResume),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addJob(j db.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j.ID = s.id()
	s.jobs[j.ExternalID] = &j
}

func (s *memStore) addRequirements(jobID string, r types.JobRequirements) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.requirements[id] = &db.JobRequirements{ID: id, JobID: &jobID, JobRequirements: r, IsVisible: true}
	return id
}

// commitResume inserts a resume row directly, as a concurrent writer would
func (s *memStore) commitResume(jobID string) int64 {
	id := s.id()
	s.resumes[id] = &memResume{Resume: db.Resume{ID: id, JobID: jobID, Name: "winner", IsVisible: true}}
	return id
}

func (s *memStore) resumeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.resumes)
}

func (s *memStore) resume(id int64) *memResume {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.resumes[id]; ok {
		return r.clone()
	}
	return nil
}

func (s *memStore) GetJob(_ context.Context, externalID string) (*db.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[externalID]; ok {
		c := *j
		return &c, nil
	}
	return nil, nil
}

func (s *memStore) ListJobs(_ context.Context, filter db.JobFilter) ([]db.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.Job
	for _, j := range s.jobs {
		if filter.OnlyUnapplied && j.Applied {
			continue
		}
		if filter.SeniorityLevel != "" && (j.SeniorityLevel == nil || *j.SeniorityLevel != filter.SeniorityLevel) {
			continue
		}
		out = append(out, *j)
	}
	slices.SortFunc(out, func(a, b db.Job) int { return int(a.ID - b.ID) })
	return out, nil
}

func (s *memStore) GetApplicationURL(_ context.Context, externalID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[externalID]; ok && j.ApplicationURL != nil {
		return *j.ApplicationURL, nil
	}
	return "", nil
}

func (s *memStore) GetJobRequirements(_ context.Context, id int64) (*db.JobRequirements, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.requirements[id]; ok {
		c := *r
		return &c, nil
	}
	return nil, nil
}

func (s *memStore) CreateJobRequirements(_ context.Context, jobID string, req *types.JobRequirements) (*db.JobRequirements, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	row := &db.JobRequirements{ID: id, JobID: &jobID, JobRequirements: *req, IsVisible: true, CreatedAt: time.Now()}
	s.requirements[id] = row
	c := *row
	return &c, nil
}

func (s *memStore) FindResumeByJobID(_ context.Context, jobID string) (*db.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.resumes {
		if r.JobID == jobID {
			c := r.Resume
			return &c, nil
		}
	}
	return nil, nil
}

func (s *memStore) WithTx(ctx context.Context, fn func(tx db.ResumeTx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.txCount++
	s.mu.Unlock()

	tx := &memTx{store: s, staged: make(map[int64]*memResume)}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range tx.staged {
		s.resumes[id] = r
	}
	return nil
}

type memTx struct {
	store  *memStore
	staged map[int64]*memResume
}

func (t *memTx) fail(op string) error {
	if t.store.failOn == op {
		return fmt.Errorf("injected failure in %s", op)
	}
	return nil
}

// get returns the staged copy of a resume, cloning the committed row on first touch
func (t *memTx) get(resumeID int64) (*memResume, error) {
	if r, ok := t.staged[resumeID]; ok {
		return r, nil
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	r, ok := t.store.resumes[resumeID]
	if !ok {
		return nil, fmt.Errorf("foreign key violation: resume %d does not exist", resumeID)
	}
	c := r.clone()
	t.staged[resumeID] = c
	return c, nil
}

func (t *memTx) CreateResume(_ context.Context, input *db.ResumeCreateInput) (int64, error) {
	if t.store.beforeCreate != nil {
		t.store.mu.Lock()
		t.store.beforeCreate(t.store, input.JobID)
		t.store.mu.Unlock()
	}
	if err := t.fail("resume"); err != nil {
		return 0, err
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, r := range t.store.resumes {
		if r.JobID == input.JobID {
			return 0, &db.ResumeExistsError{JobID: input.JobID, ResumeID: r.ID}
		}
	}
	id := t.store.id()
	desc := input.Description
	t.staged[id] = &memResume{Resume: db.Resume{
		ID:                id,
		JobID:             input.JobID,
		JobRequirementsID: input.JobRequirementsID,
		Name:              input.Name,
		Description:       &desc,
		IsVisible:         true,
	}}
	return id, nil
}

func (t *memTx) AddPersonalInfo(_ context.Context, resumeID int64, input *db.PersonalInfoInput) (int64, error) {
	r, err := t.get(resumeID)
	if err != nil {
		return 0, err
	}
	if len(r.personal) > 0 {
		return 0, fmt.Errorf("unique violation: personal_info for resume %d", resumeID)
	}
	r.personal = append(r.personal, *input)
	return t.nextID(), t.fail("personal_info")
}

func (t *memTx) AddContactDetail(_ context.Context, resumeID int64, input *db.ContactDetailInput) (int64, error) {
	r, err := t.get(resumeID)
	if err != nil {
		return 0, err
	}
	r.contacts = append(r.contacts, *input)
	return t.nextID(), t.fail("contact_detail")
}

func (t *memTx) AddSummary(_ context.Context, resumeID int64, content string) (int64, error) {
	r, err := t.get(resumeID)
	if err != nil {
		return 0, err
	}
	if len(r.summaries) > 0 {
		return 0, fmt.Errorf("unique violation: summary for resume %d", resumeID)
	}
	r.summaries = append(r.summaries, content)
	return t.nextID(), t.fail("summary")
}

func (t *memTx) AddSkillCategory(_ context.Context, resumeID int64, name string, displayOrder int) (int64, error) {
	r, err := t.get(resumeID)
	if err != nil {
		return 0, err
	}
	for _, c := range r.categories {
		if c.order == displayOrder {
			return 0, fmt.Errorf("unique violation: skill_categories display_order %d", displayOrder)
		}
	}
	r.categories = append(r.categories, memCategory{name: name, order: displayOrder})
	// Category ids encode their index so AddSkill can find them.
	return int64(len(r.categories) - 1), t.fail("skill_category")
}

func (t *memTx) AddSkill(_ context.Context, resumeID, categoryID int64, input *db.SkillInput) (int64, error) {
	r, err := t.get(resumeID)
	if err != nil {
		return 0, err
	}
	if categoryID < 0 || int(categoryID) >= len(r.categories) {
		return 0, fmt.Errorf("foreign key violation: category %d", categoryID)
	}
	r.categories[categoryID].skills = append(r.categories[categoryID].skills, *input)
	return t.nextID(), t.fail("skill")
}

func (t *memTx) AddExperience(_ context.Context, resumeID int64, input *db.ExperienceInput) (int64, error) {
	r, err := t.get(resumeID)
	if err != nil {
		return 0, err
	}
	for _, e := range r.experiences {
		if e.DisplayOrder == input.DisplayOrder {
			return 0, fmt.Errorf("unique violation: experiences display_order %d", input.DisplayOrder)
		}
	}
	r.experiences = append(r.experiences, memExperience{ExperienceInput: *input})
	return int64(len(r.experiences) - 1), t.fail("experience")
}

func (t *memTx) AddAccomplishment(_ context.Context, resumeID, experienceID int64, description string, _ int) (int64, error) {
	r, err := t.get(resumeID)
	if err != nil {
		return 0, err
	}
	if experienceID < 0 || int(experienceID) >= len(r.experiences) {
		return 0, fmt.Errorf("foreign key violation: experience %d", experienceID)
	}
	r.experiences[experienceID].accomplishments = append(r.experiences[experienceID].accomplishments, description)
	return t.nextID(), t.fail("job_accomplishment")
}

func (t *memTx) AddEducation(_ context.Context, resumeID int64, input *db.EducationInput) (int64, error) {
	r, err := t.get(resumeID)
	if err != nil {
		return 0, err
	}
	r.educations = append(r.educations, *input)
	return t.nextID(), t.fail("education")
}

func (t *memTx) AddProject(_ context.Context, resumeID int64, input *db.ProjectInput) (int64, error) {
	r, err := t.get(resumeID)
	if err != nil {
		return 0, err
	}
	for _, p := range r.projects {
		if p.DisplayOrder == input.DisplayOrder {
			return 0, fmt.Errorf("unique violation: projects display_order %d", input.DisplayOrder)
		}
	}
	r.projects = append(r.projects, *input)
	return t.nextID(), t.fail("project")
}

func (t *memTx) nextID() int64 {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.store.id()
}
