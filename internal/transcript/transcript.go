// Package transcript normalizes recognized speech before it is shown
// to the candidate or submitted as an answer.
package transcript

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	pronounIContraction = regexp.MustCompile(`\bi['’](?:m|d|ll|ve|re|s)\b`)
	pronounIWord        = regexp.MustCompile(`\bi\b`)
)

// Normalize collapses whitespace, capitalizes sentence starts, and
// fixes the standalone pronoun "i". Recognizers tend to emit all
// lowercase text with uneven spacing.
func Normalize(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return ""
	}

	normalized = capitalizeSentenceStarts(normalized)
	normalized = pronounIContraction.ReplaceAllStringFunc(normalized, func(match string) string {
		return "I" + match[1:]
	})
	return pronounIWord.ReplaceAllString(normalized, "I")
}

func capitalizeSentenceStarts(text string) string {
	runes := []rune(text)

	var out strings.Builder
	out.Grow(len(text))

	capitalizeNext := true
	for _, r := range runes {
		if capitalizeNext && unicode.IsLetter(r) {
			r = unicode.ToUpper(r)
			capitalizeNext = false
		}

		out.WriteRune(r)

		switch r {
		case '.', '!', '?':
			capitalizeNext = true
		}
	}

	return out.String()
}
