// internal/models/job.go
package models

// Job is an open requisition with its scoring configuration. The three
// weights are taken verbatim from the job record; callers are trusted to
// keep them summing to 1.0 and the scorer never renormalizes them.
type Job struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	RequiredSkills     []string  `json:"requiredSkills"`
	RequiredExperience *float64  `json:"requiredExperience,omitempty"` // years
	RequiredCerts      []string  `json:"requiredCerts"`
	SkillsWeight       float64   `json:"skillsWeight"`
	ExperienceWeight   float64   `json:"experienceWeight"`
	CertsWeight        float64   `json:"certsWeight"`
	Embedding          []float64 `json:"embedding,omitempty"`
	CreatedAt          string    `json:"createdAt"`
	UpdatedAt          string    `json:"updatedAt"`
}

// HasEmbedding reports whether vector search can be used for this job.
// A job without an embedding degrades ranking to keyword-only scoring.
func (j *Job) HasEmbedding() bool {
	return len(j.Embedding) > 0
}
