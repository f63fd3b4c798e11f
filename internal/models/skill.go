// internal/models/skill.go
package models

import (
	"encoding/json"
	"strings"
)

// Skill is a candidate skill entry. Upstream resume parsers emit either a
// bare name ("Python") or an object ({"name": "Python", "proficiency": 4}),
// so both wire forms decode into the same struct. Proficiency is nil for
// the bare form.
type Skill struct {
	Name        string   `json:"name"`
	Proficiency *float64 `json:"proficiency,omitempty"`
}

// NormalizedName returns the lowercased skill name used everywhere skill
// names are compared.
func (s Skill) NormalizedName() string {
	return strings.ToLower(strings.TrimSpace(s.Name))
}

// UnmarshalJSON accepts both the string and the object form. Entries that
// are neither decode to an empty name so a single malformed entry never
// fails a whole candidate record; empty names simply never match.
func (s *Skill) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		s.Name = name
		s.Proficiency = nil
		return nil
	}

	var obj struct {
		Name        string   `json:"name"`
		Proficiency *float64 `json:"proficiency"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		s.Name = obj.Name
		s.Proficiency = obj.Proficiency
		return nil
	}

	s.Name = ""
	s.Proficiency = nil
	return nil
}

// MarshalJSON writes the bare string form for plain names and the object
// form for rated ones, round-tripping whichever shape the parser produced.
func (s Skill) MarshalJSON() ([]byte, error) {
	if s.Proficiency == nil {
		return json.Marshal(s.Name)
	}
	return json.Marshal(struct {
		Name        string   `json:"name"`
		Proficiency *float64 `json:"proficiency"`
	}{Name: s.Name, Proficiency: s.Proficiency})
}

// SkillNames extracts normalized names from a skill list, dropping empties.
func SkillNames(skills []Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		if n := s.NormalizedName(); n != "" {
			names = append(names, n)
		}
	}
	return names
}
