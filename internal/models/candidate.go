// internal/models/candidate.go
package models

// Candidate is one applicant profile created at upload time. The worker
// populates Embedding after the resume is parsed; ResumeText holds the
// AES-GCM encrypted raw text and must be decrypted before use.
type Candidate struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Skills         []Skill   `json:"skills"`
	Experience     *float64  `json:"experience,omitempty"` // years
	Certifications []string  `json:"certifications"`
	Embedding      []float64 `json:"embedding,omitempty"`
	ResumeText     string    `json:"-"`
	CreatedAt      string    `json:"createdAt"`
	UpdatedAt      string    `json:"updatedAt"`
}

// HasEmbedding reports whether the embedding step already ran for this
// candidate. Guards the worker against duplicate queue delivery.
func (c *Candidate) HasEmbedding() bool {
	return len(c.Embedding) > 0
}
