package types

// ContactKind is the icon/category tag of a contact detail.
type ContactKind string

// Contact kinds form a closed vocabulary.
const (
	ContactEmail    ContactKind = "Email"
	ContactPhone    ContactKind = "Phone"
	ContactLinkedIn ContactKind = "LinkedIn"
	ContactGitHub   ContactKind = "GitHub"
	ContactWebsite  ContactKind = "Website"
)

var contactIcons = map[ContactKind]string{
	ContactEmail:    "fas fa-envelope",
	ContactPhone:    "fas fa-phone",
	ContactLinkedIn: "fab fa-linkedin",
	ContactGitHub:   "fab fa-github",
	ContactWebsite:  "fas fa-globe",
}

// Icon returns the Font Awesome class for the kind.
func (k ContactKind) Icon() string {
	if icon, ok := contactIcons[k]; ok {
		return icon
	}
	return contactIcons[ContactWebsite]
}

// Valid reports whether k belongs to the vocabulary.
func (k ContactKind) Valid() bool {
	_, ok := contactIcons[k]
	return ok
}

// ParsedBackground is the structured bundle extracted from raw background text.
type ParsedBackground struct {
	PersonalInfo PersonalInfo           `json:"personal_info" validate:"required"`
	WorkHistory  []WorkHistoryItem      `json:"work_history" validate:"dive"`
	Education    []EducationHistoryItem `json:"education" validate:"dive"`
	Skills       []string               `json:"skills"`
	Projects     []ProjectHistoryItem   `json:"projects" validate:"dive"`
}

// PersonalInfo holds the candidate's identity and contact details.
type PersonalInfo struct {
	Name     string          `json:"name" validate:"required"`
	Headline string          `json:"headline,omitempty"`
	Contacts []ContactDetail `json:"contacts" validate:"dive"`
}

// ContactDetail is one labeled contact entry.
type ContactDetail struct {
	Label string      `json:"label" validate:"required"`
	Kind  ContactKind `json:"kind"`
	Value string      `json:"value" validate:"required"`
}

// WorkHistoryItem is one position from the background, in source order.
type WorkHistoryItem struct {
	Title            string   `json:"title" validate:"required"`
	Company          string   `json:"company" validate:"required"`
	DateRange        string   `json:"date_range"`
	Location         string   `json:"location,omitempty"`
	Responsibilities []string `json:"responsibilities"`
}

// EducationHistoryItem is one credential from the background.
type EducationHistoryItem struct {
	Degree      string `json:"degree" validate:"required"`
	Institution string `json:"institution" validate:"required"`
	Location    string `json:"location,omitempty"`
	DateRange   string `json:"date_range,omitempty"`
	Details     string `json:"details,omitempty"`
}

// ProjectHistoryItem is one project from the background.
type ProjectHistoryItem struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
	Link         string   `json:"link,omitempty"`
}
