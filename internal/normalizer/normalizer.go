// Package normalizer maps the resume vendor's loosely shaped JSON into a
// dto.CanonicalResume.
//
// The vendor may put the same field at the root, under "data" or under
// "extracted_data", as a list or as a comma separated string. Every logical
// field is read through an ordered list of strategies; the first one that
// yields a value wins.
package normalizer

import (
	"encoding/json"
	"strings"

	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/tidwall/gjson"
)

// Strategy looks up one candidate location in a document.
type Strategy func(doc gjson.Result) (gjson.Result, bool)

// Wrappers in priority order.
var Wrappers = []string{"", "data.", "extracted_data."}

const (
	labelSeparator = " | "
	listSeparator  = ","
)

// Path returns a strategy reading a gjson path.
func Path(path string) Strategy {
	return func(doc gjson.Result) (gjson.Result, bool) {
		v := doc.Get(path)
		if !present(v) {
			return gjson.Result{}, false
		}
		return v, true
	}
}

// Candidates expands aliases under every wrapper, wrapper-major.
func Candidates(aliases ...string) []Strategy {
	out := make([]Strategy, 0, len(Wrappers)*len(aliases))
	for _, w := range Wrappers {
		for _, a := range aliases {
			out = append(out, Path(w+a))
		}
	}
	return out
}

var (
	nameStrategies    = Candidates("personal_info.name", "personal_info.full_name", "name", "full_name", "candidate_name", "contact.name")
	emailStrategies   = Candidates("personal_info.email", "email", "email_address", "contact.email")
	phoneStrategies   = Candidates("personal_info.phone", "personal_info.phone_number", "phone", "phone_number", "mobile", "contact.phone")
	addressStrategies = Candidates("personal_info.address", "personal_info.location", "address", "location", "contact.address")
	linkStrategies    = Candidates("personal_info.links", "personal_info.profiles", "links", "profiles", "urls", "social_links")
	extraLinkFields   = [][]Strategy{
		Candidates("personal_info.linkedin", "linkedin"),
		Candidates("personal_info.github", "github"),
		Candidates("personal_info.website", "website", "portfolio"),
	}
	experienceStrategies  = Candidates("work_experience", "experience", "employment_history", "professional_experience", "work_history")
	educationStrategies   = Candidates("education", "education_history", "academic_background", "qualifications")
	skillStrategies       = Candidates("skills", "technical_skills", "skill_set")
	certificateStrategies = Candidates("certifications", "certificates", "licenses_and_certifications")
)

// Normalize never fails: unknown or malformed parts come back as empty
// values and the input is kept verbatim in Raw.
func Normalize(raw []byte) dto.CanonicalResume {
	rec := dto.NewCanonicalResume()
	if len(strings.TrimSpace(string(raw))) == 0 {
		return rec
	}
	if !gjson.ValidBytes(raw) {
		quoted, _ := json.Marshal(string(raw))
		rec.Raw = quoted
		return rec
	}
	rec.Raw = append(json.RawMessage(nil), raw...)

	doc := unwrap(gjson.ParseBytes(raw))

	rec.Contact.Name = firstText(doc, nameStrategies)
	rec.Contact.Email = firstText(doc, emailStrategies)
	rec.Contact.Phone = firstText(doc, phoneStrategies)
	rec.Contact.Address = firstText(doc, addressStrategies)
	rec.Contact.Links = links(doc)

	if v, ok := First(doc, experienceStrategies); ok {
		rec.Experience = experience(v)
	}
	if v, ok := First(doc, educationStrategies); ok {
		rec.Education = education(v)
	}
	if v, ok := First(doc, skillStrategies); ok {
		rec.Skills = dedupe(toList(v))
	}
	if v, ok := First(doc, certificateStrategies); ok {
		rec.Certificates = dedupe(certificates(v))
	}

	rec.Fill()
	return rec
}

// NormalizeFile is Normalize applied to one vendor file entry's result.
func NormalizeFile(result gjson.Result) dto.CanonicalResume {
	if !result.Exists() {
		return dto.NewCanonicalResume()
	}
	return Normalize([]byte(result.Raw))
}

// First returns the value from the first strategy that matches.
func First(doc gjson.Result, strategies []Strategy) (gjson.Result, bool) {
	for _, s := range strategies {
		if v, ok := s(doc); ok {
			return v, true
		}
	}
	return gjson.Result{}, false
}

func firstText(doc gjson.Result, strategies []Strategy) string {
	for _, s := range strategies {
		v, ok := s(doc)
		if !ok {
			continue
		}
		if text := textOf(v); text != "" {
			return text
		}
	}
	return ""
}

// unwrap handles payloads that arrive as a single-element array or as a JSON
// document encoded inside a string.
func unwrap(doc gjson.Result) gjson.Result {
	if doc.Type == gjson.String && gjson.Valid(doc.Str) {
		doc = gjson.Parse(doc.Str)
	}
	if doc.IsArray() {
		items := doc.Array()
		if len(items) > 0 && items[0].IsObject() {
			return items[0]
		}
	}
	return doc
}

func present(v gjson.Result) bool {
	if !v.Exists() || v.Type == gjson.Null {
		return false
	}
	switch {
	case v.Type == gjson.String:
		return strings.TrimSpace(v.Str) != ""
	case v.IsArray():
		return len(v.Array()) > 0
	case v.IsObject():
		return len(v.Map()) > 0
	}
	return true
}

func textOf(v gjson.Result) string {
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return strings.TrimSpace(v.String())
	}
	if v.IsArray() {
		return strings.Join(toList(v), ", ")
	}
	return ""
}

func pick(obj gjson.Result, keys ...string) string {
	for _, k := range keys {
		if text := textOf(obj.Get(k)); text != "" {
			return text
		}
	}
	return ""
}

// toList coerces strings (comma separated), arrays and objects of arrays
// into a flat list of trimmed strings.
func toList(v gjson.Result) []string {
	out := []string{}
	switch {
	case v.Type == gjson.String:
		for _, part := range strings.Split(v.Str, listSeparator) {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	case v.Type == gjson.Number:
		out = append(out, v.String())
	case v.IsArray():
		v.ForEach(func(_, item gjson.Result) bool {
			switch {
			case item.Type == gjson.String || item.Type == gjson.Number:
				if s := strings.TrimSpace(item.String()); s != "" {
					out = append(out, s)
				}
			case item.IsObject():
				if s := pick(item, "name", "title", "skill", "value", "url", "link"); s != "" {
					out = append(out, s)
				}
			}
			return true
		})
	case v.IsObject():
		// grouped lists, e.g. {"technical": [...], "soft": "a, b"}
		v.ForEach(func(_, group gjson.Result) bool {
			if group.IsObject() {
				return true
			}
			out = append(out, toList(group)...)
			return true
		})
	}
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		key := strings.ToLower(it)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

func links(doc gjson.Result) []string {
	out := []string{}
	if v, ok := First(doc, linkStrategies); ok {
		out = append(out, toList(v)...)
	}
	for _, strategies := range extraLinkFields {
		if s := firstText(doc, strategies); s != "" {
			out = append(out, s)
		}
	}
	return dedupe(out)
}

func certificates(v gjson.Result) []string {
	if !v.IsArray() {
		return toList(v)
	}
	out := []string{}
	v.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			out = append(out, toList(item)...)
			return true
		}
		name := pick(item, "name", "title", "certificate", "certification")
		if name == "" {
			return true
		}
		if issuer := pick(item, "issuer", "issued_by", "organization", "authority"); issuer != "" {
			name += " - " + issuer
		}
		out = append(out, name)
		return true
	})
	return out
}

// labeled joins "Label: value" pairs, skipping empty values.
func labeled(pairs ...[2]string) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p[1] != "" {
			parts = append(parts, p[0]+": "+p[1])
		}
	}
	return strings.Join(parts, labelSeparator)
}

// entries walks v as a list of entries: objects go to fromObject, strings
// to fromText, anything else is skipped.
func entries(v gjson.Result, fromObject func(gjson.Result), fromText func(string)) {
	items := []gjson.Result{v}
	if v.IsArray() {
		items = v.Array()
	}
	for _, item := range items {
		switch {
		case item.IsObject():
			fromObject(item)
		case item.Type == gjson.String:
			for _, s := range toList(item) {
				fromText(s)
			}
		}
	}
}

func experience(v gjson.Result) []dto.ExperienceEntry {
	out := []dto.ExperienceEntry{}
	entries(v, func(obj gjson.Result) {
		e := dto.ExperienceEntry{
			Organization: pick(obj, "company", "organization", "employer", "company_name"),
			Title:        pick(obj, "title", "position", "role", "job_title"),
			StartDate:    pick(obj, "start_date", "from", "start"),
			EndDate:      pick(obj, "end_date", "to", "end"),
			Description:  pick(obj, "description", "summary", "responsibilities"),
		}
		duration := pick(obj, "duration", "dates", "period")
		if duration == "" && (e.StartDate != "" || e.EndDate != "") {
			duration = strings.Trim(e.StartDate+" - "+e.EndDate, " -")
		}
		e.Summary = labeled(
			[2]string{"Company", e.Organization},
			[2]string{"Position", e.Title},
			[2]string{"Duration", duration},
			[2]string{"Description", e.Description},
		)
		if e.Summary == "" {
			return
		}
		out = append(out, e)
	}, func(s string) {
		out = append(out, dto.ExperienceEntry{Summary: s})
	})
	return out
}

func education(v gjson.Result) []dto.EducationEntry {
	out := []dto.EducationEntry{}
	entries(v, func(obj gjson.Result) {
		e := dto.EducationEntry{
			Institution: pick(obj, "institution", "school", "university", "college"),
			Credential:  pick(obj, "degree", "credential", "qualification"),
			Field:       pick(obj, "field_of_study", "field", "major"),
			Year:        pick(obj, "graduation_year", "year", "end_date", "graduation_date"),
		}
		e.Summary = labeled(
			[2]string{"Institution", e.Institution},
			[2]string{"Degree", e.Credential},
			[2]string{"Field", e.Field},
			[2]string{"Year", e.Year},
		)
		if e.Summary == "" {
			return
		}
		out = append(out, e)
	}, func(s string) {
		out = append(out, dto.EducationEntry{Summary: s})
	})
	return out
}
