package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/parsing"
	"github.com/jonathan/resume-synth/internal/sections"
	"github.com/jonathan/resume-synth/internal/types"
)

// placeholderCompany names the shell when the requirements carry no company
const placeholderCompany = "Unknown Company"

// ResumeName is the display name of a generated resume
func ResumeName(company string) string {
	if company = strings.TrimSpace(company); company == "" {
		company = placeholderCompany
	}
	return "Resume for " + company
}

// ResumeDescription describes a generated resume, with the application URL when known
func ResumeDescription(company, applicationURL string) string {
	if company = strings.TrimSpace(company); company == "" {
		company = placeholderCompany
	}
	desc := "Targeted resume for position at " + company
	if applicationURL != "" {
		desc += "\nApplication URL: " + applicationURL
	}
	return desc
}

func shellFor(jobID string, requirementsID int64, reqs *types.JobRequirements, appURL string) *db.ResumeCreateInput {
	if appURL == "" {
		appURL = reqs.ApplicationURL
	}
	return &db.ResumeCreateInput{
		JobID:             jobID,
		JobRequirementsID: &requirementsID,
		Name:              ResumeName(reqs.CompanyName),
		Description:       ResumeDescription(reqs.CompanyName, appURL),
	}
}

// writeShell inserts the resume row, its personal info, and contact details
func writeShell(ctx context.Context, tx db.ResumeTx, shell *db.ResumeCreateInput, p *types.PersonalInfo) (int64, error) {
	resumeID, err := tx.CreateResume(ctx, shell)
	if err != nil {
		return 0, err
	}

	if _, err := tx.AddPersonalInfo(ctx, resumeID, &db.PersonalInfoInput{
		Name:        p.Name,
		Headline:    p.Headline,
		ContactInfo: parsing.CondensedContact(p),
	}); err != nil {
		return 0, err
	}

	for i, c := range p.Contacts {
		if _, err := tx.AddContactDetail(ctx, resumeID, &db.ContactDetailInput{
			Label:        c.Label,
			Icon:         c.Kind.Icon(),
			Value:        c.Value,
			DisplayOrder: i,
		}); err != nil {
			return 0, err
		}
	}
	return resumeID, nil
}

// writeSection persists one generated section. Absent sections are skipped.
func writeSection(ctx context.Context, tx db.ResumeTx, resumeID int64, kind sections.Kind, s *types.Sections) error {
	switch kind {
	case sections.KindSummary:
		if s.Summary == nil {
			return nil
		}
		_, err := tx.AddSummary(ctx, resumeID, s.Summary.Content)
		return err

	case sections.KindSkills:
		if s.Skills == nil {
			return nil
		}
		for i, cat := range s.Skills.Categories {
			catID, err := tx.AddSkillCategory(ctx, resumeID, cat.Name, i)
			if err != nil {
				return err
			}
			for j, sk := range cat.Skills {
				if _, err := tx.AddSkill(ctx, resumeID, catID, &db.SkillInput{
					Name:         sk.Name,
					Proficiency:  sk.Proficiency,
					DisplayOrder: j,
				}); err != nil {
					return err
				}
			}
		}
		return nil

	case sections.KindExperience:
		if s.Experience == nil {
			return nil
		}
		for _, e := range s.Experience.Entries {
			expID, err := tx.AddExperience(ctx, resumeID, &db.ExperienceInput{
				JobTitle:     e.JobTitle,
				Company:      e.Company,
				Location:     e.Location,
				DateRange:    e.DateRange,
				DisplayOrder: e.DisplayOrder,
			})
			if err != nil {
				return err
			}
			for j, a := range e.Accomplishments {
				if _, err := tx.AddAccomplishment(ctx, resumeID, expID, a, j); err != nil {
					return err
				}
			}
		}
		return nil

	case sections.KindEducation:
		if s.Education == nil {
			return nil
		}
		for _, e := range s.Education.Entries {
			if _, err := tx.AddEducation(ctx, resumeID, &db.EducationInput{
				Degree:       e.Degree,
				Institution:  e.Institution,
				Location:     e.Location,
				DateRange:    e.DateRange,
				Description:  e.Description,
				DisplayOrder: e.DisplayOrder,
			}); err != nil {
				return err
			}
		}
		return nil

	case sections.KindProjects:
		if s.Projects == nil {
			return nil
		}
		for _, p := range s.Projects.Entries {
			if _, err := tx.AddProject(ctx, resumeID, &db.ProjectInput{
				Title:        p.Title,
				Technologies: strings.Join(p.Technologies, ", "),
				Link:         p.Link,
				Description:  p.Description(),
				DisplayOrder: p.DisplayOrder,
			}); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown section %q", kind)
}
