package parsing

import (
	"context"
	"testing"

	"github.com/jonathan/resume-synth/internal/generation/generationtest"
	"github.com/jonathan/resume-synth/internal/schemas"
	"github.com/jonathan/resume-synth/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backgroundText = `Jane Doe - Backend Engineer
jane@example.com | 555-123-4567 | github.com/janedoe

Senior Dev, Acme, 2020-2023
- built X

Dev, Initech, 2017-2020
- maintained billing jobs

BS Computer Science, State University, 2017

Skills: Python, SQL`

const backgroundJSON = `{
  "personal_info": {
    "name": "Jane Doe",
    "headline": "Backend Engineer",
    "contacts": [
      {"label": "Email", "kind": "Email", "value": "jane@example.com"},
      {"label": "Phone", "kind": "mobile", "value": "555-123-4567"},
      {"label": "Code", "value": "github.com/janedoe"}
    ]
  },
  "work_history": [
    {"title": "Senior Dev", "company": "Acme", "date_range": "2020-2023", "responsibilities": ["built X"]},
    {"title": "Dev", "company": "Initech", "date_range": "2017-2020", "responsibilities": ["maintained billing jobs"]}
  ],
  "education": [{"degree": "BS Computer Science", "institution": "State University", "date_range": "2017"}],
  "skills": ["Python", "SQL", "Haskell"],
  "projects": []
}`

func TestParseBackground_Success(t *testing.T) {
	gen := &generationtest.Fake{Responses: map[string]string{schemas.ParsedBackground: backgroundJSON}}

	bg, err := ParseBackground(context.Background(), gen, backgroundText)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", bg.PersonalInfo.Name)
	require.Len(t, bg.PersonalInfo.Contacts, 3)
	assert.Equal(t, types.ContactEmail, bg.PersonalInfo.Contacts[0].Kind)
	assert.Equal(t, types.ContactPhone, bg.PersonalInfo.Contacts[1].Kind)
	assert.Equal(t, types.ContactGitHub, bg.PersonalInfo.Contacts[2].Kind)

	require.Len(t, bg.WorkHistory, 2)
	assert.Equal(t, "Acme", bg.WorkHistory[0].Company, "source order preserved")
	assert.Equal(t, "Initech", bg.WorkHistory[1].Company)
	assert.Equal(t, []string{"Python", "SQL"}, bg.Skills, "ungrounded skill dropped")

	assert.Equal(t, "jane@example.com | 555-123-4567", CondensedContact(&bg.PersonalInfo))
}

func TestParseBackground_EmptyInput(t *testing.T) {
	_, err := ParseBackground(context.Background(), &generationtest.Fake{}, "   ")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestParseBackground_InventedCompany(t *testing.T) {
	gen := &generationtest.Fake{Responses: map[string]string{schemas.ParsedBackground: `{
	  "personal_info": {"name": "Jane Doe", "contacts": []},
	  "work_history": [{"title": "CTO", "company": "Globex", "responsibilities": []}],
	  "education": [], "skills": [], "projects": []
	}`}}

	_, err := ParseBackground(context.Background(), gen, backgroundText)
	var gErr *GroundingError
	require.ErrorAs(t, err, &gErr)
	assert.Equal(t, "Globex", gErr.Violations[0].Value)
}

func TestCondensedContact_NoEmailOrPhone(t *testing.T) {
	p := &types.PersonalInfo{Contacts: []types.ContactDetail{{Label: "Site", Kind: types.ContactWebsite, Value: "https://x.dev"}}}
	assert.Equal(t, "", CondensedContact(p))
}
