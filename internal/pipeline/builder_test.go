package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/generation"
	"github.com/jonathan/resume-synth/internal/generation/generationtest"
	"github.com/jonathan/resume-synth/internal/parsing"
	"github.com/jonathan/resume-synth/internal/schemas"
	"github.com/jonathan/resume-synth/internal/types"
)

const testBackground = `Jane Doe - Backend Engineer
jane@example.com | 555-123-4567

Senior Dev, Acme, 2020-2023
- built X

Skills: Python, SQL`

func testResponses() map[string]string {
	return map[string]string{
		schemas.ParsedBackground: `{
		  "personal_info": {"name": "Jane Doe", "headline": "Backend Engineer", "contacts": [
		    {"label": "Email", "kind": "Email", "value": "jane@example.com"},
		    {"label": "Phone", "kind": "Phone", "value": "555-123-4567"}
		  ]},
		  "work_history": [{"title": "Senior Dev", "company": "Acme", "date_range": "2020-2023", "responsibilities": ["built X"]}],
		  "education": [],
		  "skills": ["Python", "SQL"],
		  "projects": []
		}`,
		schemas.Summary: `{"content": "Backend engineer experienced in Python and SQL. Built X at Acme."}`,
		schemas.Skills: `{"categories": [
		  {"name": "Core Technical", "skills": [{"name": "SQL", "proficiency": 80}, {"name": "Python", "proficiency": 85}]}
		]}`,
		schemas.Experience: `{"entries": [
		  {"job_title": "Senior Dev", "company": "Acme", "accomplishments": ["Built X using Python and SQL"], "display_order": 0}
		]}`,
		schemas.Education:  `{"entries": []}`,
		schemas.Projects:   `{"entries": []}`,
		schemas.JobAnalysis: `{"company_name": "Other Name", "about": "Analytics", "required_skills": "Python, SQL"}`,
	}
}

type fixture struct {
	store *memStore
	gen   *generationtest.Fake
	reqID int64
}

func newFixture() *fixture {
	store := newMemStore()
	url := "https://jobs.example.com/123"
	seniority := db.SeniorityMidSenior
	store.addJob(db.Job{
		ExternalID:     "job-1",
		Title:          "Data Engineer",
		Company:        "Initrode",
		Description:    "We need Python and SQL.",
		SeniorityLevel: &seniority,
		ApplicationURL: &url,
	})
	reqID := store.addRequirements("job-1", types.JobRequirements{
		CompanyName:    "Initrode",
		JobTitle:       "Data Engineer",
		JobDescription: "We need Python and SQL.",
		RequiredSkills: "Python, SQL",
	})
	return &fixture{store: store, gen: &generationtest.Fake{Responses: testResponses()}, reqID: reqID}
}

func (f *fixture) input() CreateResumeInput {
	return CreateResumeInput{JobID: "job-1", RequirementsID: f.reqID, Background: testBackground}
}

func TestCreateResume_PersistsFullResume(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts Options
	}{
		{"transactional", Options{}},
		{"transactional parallel", Options{Parallel: true}},
		{"incremental", Options{Mode: ModeIncremental}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			b := NewBuilder(f.store, f.gen, tc.opts)

			res, err := b.CreateResume(context.Background(), f.input())
			require.NoError(t, err)
			assert.False(t, res.Existing)

			r := f.store.resume(res.ResumeID)
			require.NotNil(t, r)
			assert.Equal(t, "job-1", r.JobID)
			assert.Equal(t, "Resume for Initrode", r.Name)
			assert.Equal(t, "Targeted resume for position at Initrode\nApplication URL: https://jobs.example.com/123", *r.Description)
			require.NotNil(t, r.JobRequirementsID)
			assert.Equal(t, f.reqID, *r.JobRequirementsID)

			require.Len(t, r.personal, 1)
			assert.Equal(t, "Jane Doe", r.personal[0].Name)
			assert.Equal(t, "jane@example.com | 555-123-4567", r.personal[0].ContactInfo)
			require.Len(t, r.contacts, 2)
			assert.Equal(t, "fas fa-envelope", r.contacts[0].Icon)
			assert.Equal(t, 1, r.contacts[1].DisplayOrder)

			assert.Equal(t, []string{"Backend engineer experienced in Python and SQL. Built X at Acme."}, r.summaries)

			require.Len(t, r.categories, 1)
			assert.Equal(t, "Core Technical", r.categories[0].name)
			require.Len(t, r.categories[0].skills, 2)
			assert.Equal(t, "SQL", r.categories[0].skills[0].Name, "required skills keep generated relative order")
			assert.Equal(t, 1, r.categories[0].skills[1].DisplayOrder)

			require.Len(t, r.experiences, 1)
			exp := r.experiences[0]
			assert.Equal(t, "Acme", exp.Company)
			assert.Equal(t, "2020-2023", exp.DateRange)
			assert.Equal(t, 0, exp.DisplayOrder)
			assert.Equal(t, []string{"Built X using Python and SQL"}, exp.accomplishments)

			assert.Empty(t, r.educations)
			assert.Empty(t, r.projects)
		})
	}
}

func TestCreateResume_ProgressEvents(t *testing.T) {
	f := newFixture()
	var events []ProgressEvent
	b := NewBuilder(f.store, f.gen, Options{OnProgress: func(e ProgressEvent) { events = append(events, e) }})

	res, err := b.CreateResume(context.Background(), f.input())
	require.NoError(t, err)

	var steps []Step
	for _, e := range events {
		steps = append(steps, e.Step)
		assert.Equal(t, res.RunID, e.RunID)
		assert.Equal(t, "job-1", e.JobID)
	}
	assert.Equal(t, []Step{
		StepRequested, StepBackgroundParsed, StepSectionsGenerating,
		StepSectionGenerated, StepSectionGenerated, StepSectionGenerated, StepSectionGenerated, StepSectionGenerated,
		StepPersisting, StepDone,
	}, steps)
	assert.Equal(t, res.ResumeID, events[len(events)-1].ResumeID)
}

func TestCreateResume_Idempotent(t *testing.T) {
	f := newFixture()
	b := NewBuilder(f.store, f.gen, Options{})

	first, err := b.CreateResume(context.Background(), f.input())
	require.NoError(t, err)

	var steps []Step
	in := f.input()
	in.OnProgress = func(e ProgressEvent) { steps = append(steps, e.Step) }
	second, err := b.CreateResume(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, second.Existing)
	assert.Equal(t, first.ResumeID, second.ResumeID)
	assert.Equal(t, 1, f.store.resumeCount())
	assert.Equal(t, 1, f.gen.CallCount(schemas.ParsedBackground), "no generation on the second call")
	assert.Equal(t, []Step{StepRequested, StepExistingFound, StepDone}, steps)
}

func TestCreateResume_ConcurrentWinner(t *testing.T) {
	for _, mode := range []Mode{ModeTransactional, ModeIncremental} {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture()
			var winner int64
			f.store.beforeCreate = func(s *memStore, jobID string) {
				if winner == 0 {
					winner = s.commitResume(jobID)
				}
			}
			b := NewBuilder(f.store, f.gen, Options{Mode: mode})

			res, err := b.CreateResume(context.Background(), f.input())
			require.NoError(t, err)
			assert.True(t, res.Existing)
			assert.Equal(t, winner, res.ResumeID)
			assert.Equal(t, 1, f.store.resumeCount())
			assert.Equal(t, "winner", f.store.resume(winner).Name)
		})
	}
}

func TestCreateResume_ConcurrentCallersSameJob(t *testing.T) {
	f := newFixture()
	b := NewBuilder(f.store, f.gen, Options{Parallel: true})

	const callers = 5
	ids := make([]int64, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := b.CreateResume(context.Background(), f.input())
			if assert.NoError(t, err) {
				ids[i] = res.ResumeID
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.store.resumeCount())
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestCreateResume_RequirementsNotFound(t *testing.T) {
	f := newFixture()
	b := NewBuilder(f.store, f.gen, Options{})

	in := f.input()
	in.RequirementsID = 999
	_, err := b.CreateResume(context.Background(), in)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, KindNotFound, Classify(err))
	assert.Empty(t, f.gen.Calls())
	assert.Equal(t, 0, f.store.resumeCount())
}

func TestCreateResume_EmptyJobID(t *testing.T) {
	f := newFixture()
	in := f.input()
	in.JobID = " "

	_, err := NewBuilder(f.store, f.gen, Options{}).CreateResume(context.Background(), in)
	assert.Equal(t, KindValidation, Classify(err))
}

func TestCreateResume_NoApplicationURL(t *testing.T) {
	f := newFixture()
	f.store.jobs["job-1"].ApplicationURL = nil

	res, err := NewBuilder(f.store, f.gen, Options{}).CreateResume(context.Background(), f.input())
	require.NoError(t, err)
	assert.Equal(t, "Targeted resume for position at Initrode", *f.store.resume(res.ResumeID).Description)
}

func TestCreateResume_TransactionalFailureLeavesNothing(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(f *fixture)
		kind   ErrorKind
		before int
	}{
		{
			name: "generator service failure",
			setup: func(f *fixture) {
				f.gen.Errors = map[string]error{schemas.Projects: &generation.ServiceError{Schema: schemas.Projects, Cause: errors.New("503")}}
			},
			kind: KindTransient,
		},
		{
			name: "experience count mismatch",
			setup: func(f *fixture) {
				f.gen.Responses[schemas.Experience] = `{"entries": []}`
			},
			kind: KindSchemaViolation,
		},
		{
			name:  "storage failure mid transaction",
			setup: func(f *fixture) { f.store.failOn = "job_accomplishment" },
			kind:  KindStorage,
		},
		{
			name: "ungrounded background",
			setup: func(f *fixture) {
				f.gen.Responses[schemas.ParsedBackground] = `{"personal_info": {"name": "Jane"}, "work_history": [{"title": "CTO", "company": "Globex"}], "education": [], "skills": [], "projects": []}`
			},
			kind: KindSchemaViolation,
		},
	}

	for _, tt := range tests {
		for _, parallel := range []bool{false, true} {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture()
				tt.setup(f)
				b := NewBuilder(f.store, f.gen, Options{Parallel: parallel})

				res, err := b.CreateResume(context.Background(), f.input())
				assert.Nil(t, res)
				assert.Equal(t, tt.kind, Classify(err))
				assert.Equal(t, 0, f.store.resumeCount())
			})
		}
	}
}

func TestCreateResume_IncrementalPartialFailure(t *testing.T) {
	f := newFixture()
	f.gen.Responses[schemas.Experience] = `{"entries": []}`
	b := NewBuilder(f.store, f.gen, Options{Mode: ModeIncremental})

	_, err := b.CreateResume(context.Background(), f.input())
	var partial *PartialResumeError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "experience", partial.Section)
	assert.Equal(t, KindSchemaViolation, Classify(err))

	r := f.store.resume(partial.ResumeID)
	require.NotNil(t, r, "partial resume stays visible")
	assert.Len(t, r.summaries, 1)
	assert.Len(t, r.categories, 1)
	assert.Empty(t, r.experiences)
	assert.Zero(t, f.gen.CallCount(schemas.Education)+f.gen.CallCount(schemas.Projects))

	retry, err := b.CreateResume(context.Background(), f.input())
	require.NoError(t, err)
	assert.True(t, retry.Existing)
	assert.Equal(t, partial.ResumeID, retry.ResumeID)
	assert.Equal(t, 1, f.gen.CallCount(schemas.Summary), "retry does not regenerate the summary")
	assert.Equal(t, 1, f.gen.CallCount(schemas.Skills), "retry does not regenerate skills")
	assert.Equal(t, 1, f.store.resumeCount())
}

func TestCreateResume_OneJobOneDegree(t *testing.T) {
	f := newFixture()
	f.gen.Responses[schemas.ParsedBackground] = `{
	  "personal_info": {"name": "Jane Doe", "contacts": []},
	  "work_history": [{"title": "Senior Dev", "company": "Acme", "date_range": "2020-2023", "responsibilities": ["built X"]}],
	  "education": [{"degree": "BS Computer Science", "institution": "State University", "date_range": "2017"}],
	  "skills": ["Python", "SQL"],
	  "projects": []
	}`
	f.gen.Responses[schemas.Education] = `{"entries": [{"degree": "BS Computer Science", "institution": "State University", "description": "Databases coursework"}]}`
	in := f.input()
	in.Background = testBackground + "\n\nBS Computer Science, State University, 2017"

	res, err := NewBuilder(f.store, f.gen, Options{}).CreateResume(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.resumeCount())

	r := f.store.resume(res.ResumeID)
	require.NotNil(t, r)
	require.Len(t, r.experiences, 1)
	assert.Equal(t, 0, r.experiences[0].DisplayOrder)
	assert.Equal(t, "Senior Dev", r.experiences[0].JobTitle)

	require.Len(t, r.educations, 1)
	assert.Equal(t, "BS Computer Science", r.educations[0].Degree)
	assert.Equal(t, "State University", r.educations[0].Institution)
	assert.Equal(t, 0, r.educations[0].DisplayOrder)

	got := make(map[string]*int)
	for _, cat := range r.categories {
		for _, sk := range cat.skills {
			got[sk.Name] = sk.Proficiency
		}
	}
	for _, name := range []string{"Python", "SQL"} {
		p, ok := got[name]
		require.True(t, ok, "missing skill %s", name)
		require.NotNil(t, p, name)
		assert.GreaterOrEqual(t, *p, 0)
		assert.LessOrEqual(t, *p, 100)
	}
}

func TestCreateResume_IncrementalCommitsPerSection(t *testing.T) {
	f := newFixture()
	b := NewBuilder(f.store, f.gen, Options{Mode: ModeIncremental})

	_, err := b.CreateResume(context.Background(), f.input())
	require.NoError(t, err)
	assert.Equal(t, 6, f.store.txCount, "shell plus one transaction per section")
}

func TestCreateResume_Cancellation(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		f := newFixture()
		ctx, cancel := context.WithCancel(context.Background())
		f.gen.Hook = func(hctx context.Context, req generation.Request) error {
			if req.Schema == schemas.Skills {
				cancel()
				return &generation.ServiceError{Schema: req.Schema, Cause: hctx.Err()}
			}
			return nil
		}
		b := NewBuilder(f.store, f.gen, Options{Parallel: parallel})

		_, err := b.CreateResume(ctx, f.input())
		require.Error(t, err)
		assert.Equal(t, KindCanceled, Classify(err))
		assert.Equal(t, 0, f.store.resumeCount())
	}
}

func TestCreateResume_CanceledBeforePersist(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	f.gen.Hook = func(_ context.Context, req generation.Request) error {
		if req.Schema == schemas.Projects {
			cancel()
		}
		return nil
	}

	_, err := NewBuilder(f.store, f.gen, Options{}).CreateResume(ctx, f.input())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.store.resumeCount())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeTransactional, m)

	m, err = ParseMode(" Incremental ")
	require.NoError(t, err)
	assert.Equal(t, ModeIncremental, m)

	_, err = ParseMode("eventual")
	assert.Error(t, err)
}

func TestResumeNaming(t *testing.T) {
	assert.Equal(t, "Resume for Acme", ResumeName("Acme"))
	assert.Equal(t, "Resume for Unknown Company", ResumeName(" "))
	assert.Equal(t, "Targeted resume for position at Acme", ResumeDescription("Acme", ""))
	assert.Equal(t, "Targeted resume for position at Acme\nApplication URL: https://x", ResumeDescription("Acme", "https://x"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"not found", &NotFoundError{Entity: "job", ID: "1"}, KindNotFound},
		{"schema", &generation.SchemaViolationError{Schema: "summary"}, KindSchemaViolation},
		{"grounding", &parsing.GroundingError{}, KindSchemaViolation},
		{"service", &generation.ServiceError{Cause: errors.New("x")}, KindTransient},
		{"timeout", &generation.ServiceError{Timeout: true, Cause: context.DeadlineExceeded}, KindTransient},
		{"storage", &StorageError{Op: "x", Cause: errors.New("y")}, KindStorage},
		{"validation", &parsing.ValidationError{Message: "x"}, KindValidation},
		{"canceled", &generation.ServiceError{Cause: context.Canceled}, KindCanceled},
		{"partial wraps cause", &PartialResumeError{Cause: &generation.ServiceError{Cause: errors.New("x")}}, KindTransient},
		{"unknown", errors.New("x"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
