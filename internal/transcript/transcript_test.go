package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	got := Normalize("  the   quick\tbrown fox  ")
	require.Equal(t, "The quick brown fox", got)
}

func TestNormalizeEmptyInput(t *testing.T) {
	require.Equal(t, "", Normalize(""))
	require.Equal(t, "", Normalize("   \t  "))
}

func TestNormalizeCapitalizesSentenceStarts(t *testing.T) {
	got := Normalize("my answer is recursion. it calls itself! does that make sense? yes")
	require.Equal(t, "My answer is recursion. It calls itself! Does that make sense? Yes", got)
}

func TestNormalizePronounI(t *testing.T) {
	got := Normalize("i think i'm ready and i'll explain why i did it")
	require.Equal(t, "I think I'm ready and I'll explain why I did it", got)
}

func TestNormalizeLeavesInteriorWordsAlone(t *testing.T) {
	got := Normalize("binary search divides the input in half")
	require.Equal(t, "Binary search divides the input in half", got)
}
