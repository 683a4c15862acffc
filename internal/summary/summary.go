// Package summary renders the end-of-interview report for the
// terminal.
package summary

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/IqraShah110/practice2panel/internal/api"
)

var (
	leadingBullet = regexp.MustCompile(`^[-•\d.\s]*`)
	boldMarkup    = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// Render writes a readable report to w. Score and improvement
// sections are skipped when the server sent nothing for them.
func Render(w io.Writer, s api.Summary) {
	fmt.Fprintln(w, "Interview Summary")
	fmt.Fprintln(w, "=================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Candidate:      %s\n", s.Name)
	fmt.Fprintf(w, "Job Role:       %s\n", s.JobRole)
	fmt.Fprintf(w, "Interview Type: %s\n", s.InterviewType)
	if s.TotalQuestions > 0 {
		fmt.Fprintf(w, "Questions:      %d asked, %d answered\n", s.TotalQuestions, s.TotalAnswers)
	}

	if s.ClosingMessage != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.ClosingMessage)
	}

	if len(s.OverallScores) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Overall Performance Scores")
		fmt.Fprintln(w, "--------------------------")
		for _, metric := range sortedKeys(s.OverallScores) {
			fmt.Fprintf(w, "  %-26s %s\n", metric, s.OverallScores[metric])
		}
	}

	if len(s.AreasOfImprovement) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Areas of Improvement")
		fmt.Fprintln(w, "--------------------")
		for _, category := range sortedKeys(s.AreasOfImprovement) {
			fmt.Fprintf(w, "  %s:\n", category)
			for _, line := range improvementLines(s.AreasOfImprovement[category]) {
				fmt.Fprintf(w, "    - %s\n", line)
			}
		}
	}
}

// improvementLines splits advice text into cleaned bullet lines. The
// model tends to emit its own bullets and markdown bold markers,
// which read poorly on a terminal.
func improvementLines(text string) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		line = leadingBullet.ReplaceAllString(line, "")
		line = boldMarkup.ReplaceAllString(line, "$1")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
