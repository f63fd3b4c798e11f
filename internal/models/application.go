// internal/models/application.go
package models

// ApplicationStatus is the manual pipeline stage of an application. The
// stages are an ordered funnel but no transition graph is enforced; any
// status is reachable from any other.
type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "APPLIED"
	StatusScreening ApplicationStatus = "SCREENING"
	StatusInterview ApplicationStatus = "INTERVIEW"
	StatusOffered   ApplicationStatus = "OFFERED"
	StatusHired     ApplicationStatus = "HIRED"
	StatusRejected  ApplicationStatus = "REJECTED"
)

// ScoringBreakdown is the per-factor snapshot persisted alongside the
// overall score, mirrored to the dashboard as-is.
type ScoringBreakdown struct {
	SkillMatch  float64 `json:"skillMatch"`
	ExpMatch    float64 `json:"expMatch"`
	CertsMatch  float64 `json:"certsMatch"`
	VectorMatch float64 `json:"vectorMatch"`
}

// Application is the scored join between one Job and one Candidate. At most
// one row exists per (JobID, CandidateID); repeated scoring runs upsert the
// score fields and leave Status untouched.
type Application struct {
	ID               string            `json:"id"`
	JobID            string            `json:"jobId"`
	CandidateID      string            `json:"candidateId"`
	Status           ApplicationStatus `json:"status"`
	OverallScore     *float64          `json:"overallScore,omitempty"`
	SkillsScore      *float64          `json:"skillsScore,omitempty"`
	ExperienceScore  *float64          `json:"experienceScore,omitempty"`
	CertsScore       *float64          `json:"certsScore,omitempty"`
	VectorSimilarity *float64          `json:"vectorSimilarity,omitempty"`
	ScoringBreakdown *ScoringBreakdown `json:"scoringBreakdown,omitempty"`
	CreatedAt        string            `json:"createdAt"`
	UpdatedAt        string            `json:"updatedAt"`
}

// ScoreSet is a computed set of match scores for one (candidate, job) pair.
// All values are percentages rounded to two decimals; Overall can exceed
// 100 when a vector-similarity bonus applies.
type ScoreSet struct {
	Overall    float64 `json:"overallScore"`
	Skills     float64 `json:"skillsScore"`
	Experience float64 `json:"experienceScore"`
	Certs      float64 `json:"certsScore"`
}
