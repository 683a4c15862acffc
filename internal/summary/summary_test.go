package summary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IqraShah110/practice2panel/internal/api"
)

func TestRenderFullSummary(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, api.Summary{
		Name:           "Aisha",
		JobRole:        "AI Engineer",
		InterviewType:  "Behavioral",
		TotalQuestions: 5,
		TotalAnswers:   4,
		ClosingMessage: "Great effort today, Aisha!",
		OverallScores: map[string]string{
			"Communication Skill": "Score: 8/10",
			"Action Effectiveness": "Score: 6.5/10",
		},
		AreasOfImprovement: map[string]string{
			"Structure": "- **Use the STAR method** for every answer\n• 2. Keep results quantified",
		},
	})

	out := buf.String()
	require.Contains(t, out, "Candidate:      Aisha")
	require.Contains(t, out, "Interview Type: Behavioral")
	require.Contains(t, out, "5 asked, 4 answered")
	require.Contains(t, out, "Great effort today, Aisha!")
	require.Contains(t, out, "Communication Skill")
	require.Contains(t, out, "Score: 8/10")

	// Bullets and bold markers are stripped from advice lines.
	require.Contains(t, out, "- Use the STAR method for every answer")
	require.Contains(t, out, "- Keep results quantified")
	require.NotContains(t, out, "**")
	require.NotContains(t, out, "•")
}

func TestRenderSkipsEmptySections(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, api.Summary{Name: "Omar", JobRole: "Data Scientist", InterviewType: "Conceptual"})

	out := buf.String()
	require.NotContains(t, out, "Overall Performance Scores")
	require.NotContains(t, out, "Areas of Improvement")
	require.NotContains(t, out, "Questions:")
}

func TestImprovementLinesDropsEmpty(t *testing.T) {
	lines := improvementLines("\n  \n- first point\n\n2. second point\n")
	require.Equal(t, []string{"first point", "second point"}, lines)
}
