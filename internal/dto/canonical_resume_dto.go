package dto

import "encoding/json"

type Contact struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	Links   []string `json:"links"`
}

type ExperienceEntry struct {
	Organization string `json:"organization"`
	Title        string `json:"title"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Description  string `json:"description"`
	Summary      string `json:"summary"`
}

type EducationEntry struct {
	Institution string `json:"institution"`
	Credential  string `json:"credential"`
	Field       string `json:"field"`
	Year        string `json:"year"`
	Summary     string `json:"summary"`
}

// CanonicalResume is the normalized shape of a parsed resume. Use
// NewCanonicalResume so every list starts as an empty slice.
type CanonicalResume struct {
	Contact      Contact           `json:"contact"`
	Experience   []ExperienceEntry `json:"experience"`
	Education    []EducationEntry  `json:"education"`
	Skills       []string          `json:"skills"`
	Certificates []string          `json:"certificates"`
	Raw          json.RawMessage   `json:"raw,omitempty"`
}

func NewCanonicalResume() CanonicalResume {
	return CanonicalResume{
		Contact:      Contact{Links: []string{}},
		Experience:   []ExperienceEntry{},
		Education:    []EducationEntry{},
		Skills:       []string{},
		Certificates: []string{},
	}
}

// Fill replaces nil lists with empty ones.
func (r *CanonicalResume) Fill() {
	if r.Contact.Links == nil {
		r.Contact.Links = []string{}
	}
	if r.Experience == nil {
		r.Experience = []ExperienceEntry{}
	}
	if r.Education == nil {
		r.Education = []EducationEntry{}
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Certificates == nil {
		r.Certificates = []string{}
	}
}

func (r CanonicalResume) IsEmpty() bool {
	return r.Contact.Name == "" && r.Contact.Email == "" && len(r.Experience) == 0 &&
		len(r.Education) == 0 && len(r.Skills) == 0 && len(r.Certificates) == 0
}
