package api

import (
	"encoding/json"
	"strings"
)

// Assessment is the structured form of a rubric evaluation. The server
// returns the evaluation as a string that usually contains JSON but is
// sometimes plain prose.
type Assessment struct {
	Score        int      `json:"score"`
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// ParseAssessment decodes an evaluation string. Unparsable input
// degrades to a prose-only assessment rather than an error, matching
// how candidates see malformed feedback.
func ParseAssessment(evaluation string) Assessment {
	evaluation = strings.TrimSpace(evaluation)
	if evaluation == "" {
		return Assessment{}
	}

	var parsed Assessment
	if err := json.Unmarshal([]byte(evaluation), &parsed); err != nil {
		return Assessment{Summary: evaluation}
	}
	return parsed
}

// Assessment parses the rubric evaluation attached to a voice upload.
func (r VoiceResult) Assessment() Assessment {
	return ParseAssessment(r.Evaluation)
}

// Assessment parses the rubric evaluation for a typed answer.
func (r EvaluateResult) Assessment() Assessment {
	return ParseAssessment(r.Evaluation)
}
