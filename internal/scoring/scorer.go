// internal/scoring/scorer.go

// Package scoring computes keyword match scores for a (candidate, job)
// pair. Score is pure and deterministic; the Service layers the AI
// service's semantic scoring on top with Score as the fallback.
package scoring

import (
	"math"
	"strings"

	"talent-workers/internal/models"
)

// Score computes the skill, experience and certification match percentages
// plus the weighted overall score. All values are in [0,100], rounded to
// two decimals. Weights come off the job record verbatim; a job whose
// weights do not sum to 1.0 produces a shifted overall and that is the
// caller's problem, not corrected here.
func Score(candidate *models.Candidate, job *models.Job) models.ScoreSet {
	skills := matchRatio(models.SkillNames(candidate.Skills), normalizeNames(job.RequiredSkills))
	experience := experienceScore(candidate.Experience, job.RequiredExperience)
	certs := matchRatio(normalizeNames(candidate.Certifications), normalizeNames(job.RequiredCerts))

	overall := skills*job.SkillsWeight + experience*job.ExperienceWeight + certs*job.CertsWeight

	return models.ScoreSet{
		Overall:    round2(overall),
		Skills:     round2(skills),
		Experience: round2(experience),
		Certs:      round2(certs),
	}
}

// matchRatio counts required entries matched by symmetric substring
// containment, deliberately permissive so "js" matches "javascript" in
// either direction. Inputs must already be lowercased; empty entries never
// match.
func matchRatio(have, required []string) float64 {
	if len(have) == 0 || len(required) == 0 {
		return 0
	}
	matched := 0
	for _, req := range required {
		if req == "" {
			continue
		}
		for _, h := range have {
			if h == "" {
				continue
			}
			if strings.Contains(req, h) || strings.Contains(h, req) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(required)) * 100
}

// experienceScore treats a missing requirement as zero required years: any
// candidate with known experience meets it and scores 100. A candidate
// short of the requirement scores proportionally; unknown experience
// scores 0.
func experienceScore(have, required *float64) float64 {
	if have == nil {
		return 0
	}
	req := 0.0
	if required != nil {
		req = *required
	}
	if *have >= req {
		return 100
	}
	return math.Min(*have/math.Max(req, 1)*100, 100)
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
