// internal/models/skill_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillUnmarshalString(t *testing.T) {
	var s Skill
	require.NoError(t, json.Unmarshal([]byte(`"Python"`), &s))
	assert.Equal(t, "Python", s.Name)
	assert.Nil(t, s.Proficiency)
}

func TestSkillUnmarshalObject(t *testing.T) {
	var s Skill
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Go","proficiency":4}`), &s))
	assert.Equal(t, "Go", s.Name)
	require.NotNil(t, s.Proficiency)
	assert.Equal(t, 4.0, *s.Proficiency)
}

func TestSkillUnmarshalMalformedEntry(t *testing.T) {
	// Malformed entries normalize to an empty name instead of failing the
	// whole candidate record.
	var skills []Skill
	require.NoError(t, json.Unmarshal([]byte(`["Python", 42, {"name":"SQL"}]`), &skills))
	require.Len(t, skills, 3)
	assert.Equal(t, "Python", skills[0].Name)
	assert.Equal(t, "", skills[1].Name)
	assert.Equal(t, "SQL", skills[2].Name)
}

func TestSkillMarshalRoundTrip(t *testing.T) {
	prof := 3.0
	skills := []Skill{{Name: "Python"}, {Name: "Go", Proficiency: &prof}}

	data, err := json.Marshal(skills)
	require.NoError(t, err)
	assert.JSONEq(t, `["Python",{"name":"Go","proficiency":3}]`, string(data))

	var back []Skill
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, skills, back)
}

func TestSkillNames(t *testing.T) {
	skills := []Skill{{Name: "  Python "}, {Name: ""}, {Name: "SQL"}}
	assert.Equal(t, []string{"python", "sql"}, SkillNames(skills))
}

func TestProcessingStatusProgress(t *testing.T) {
	cases := map[ProcessingStatus]int{
		ProcessingPending:   0,
		ProcessingParsing:   10,
		ProcessingEmbedding: 50,
		ProcessingScoring:   80,
		ProcessingCompleted: 100,
		ProcessingFailed:    0,
	}
	for status, want := range cases {
		assert.Equal(t, want, status.Progress(), string(status))
	}
}

func TestProcessingStatusTransitions(t *testing.T) {
	assert.True(t, ProcessingPending.CanTransitionTo(ProcessingParsing))
	assert.True(t, ProcessingParsing.CanTransitionTo(ProcessingEmbedding))
	assert.True(t, ProcessingEmbedding.CanTransitionTo(ProcessingScoring))
	assert.True(t, ProcessingScoring.CanTransitionTo(ProcessingCompleted))

	// FAILED is reachable from any non-terminal state.
	for _, s := range []ProcessingStatus{ProcessingPending, ProcessingParsing, ProcessingEmbedding, ProcessingScoring} {
		assert.True(t, s.CanTransitionTo(ProcessingFailed), string(s))
	}

	// No skips, no transitions out of terminal states.
	assert.False(t, ProcessingPending.CanTransitionTo(ProcessingEmbedding))
	assert.False(t, ProcessingParsing.CanTransitionTo(ProcessingCompleted))
	assert.False(t, ProcessingCompleted.CanTransitionTo(ProcessingParsing))
	assert.False(t, ProcessingFailed.CanTransitionTo(ProcessingParsing))
}
