package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IqraShah110/practice2panel/internal/api"
)

func TestSaveAndLatestRoundTrip(t *testing.T) {
	store := NewAt(filepath.Join(t.TempDir(), "sessions"))

	first := api.Summary{SessionID: "s-1", Name: "Aisha", JobRole: "AI Engineer"}
	path, err := store.Save(first)
	require.NoError(t, err)
	require.FileExists(t, path)

	second := api.Summary{
		SessionID:     "s-2",
		Name:          "Aisha",
		JobRole:       "AI Engineer",
		InterviewType: "Behavioral",
		OverallScores: map[string]string{"Communication Skill": "Score: 8/10"},
	}
	_, err = store.Save(second)
	require.NoError(t, err)

	record, err := store.Latest()
	require.NoError(t, err)
	require.Equal(t, "s-2", record.Summary.SessionID)
	require.Equal(t, "Score: 8/10", record.Summary.OverallScores["Communication Skill"])
	require.False(t, record.SavedAt.IsZero())
}

func TestSaveIncludesSessionIDInFilename(t *testing.T) {
	store := NewAt(filepath.Join(t.TempDir(), "sessions"))

	path, err := store.Save(api.Summary{SessionID: "abc/..123"})
	require.NoError(t, err)
	require.Contains(t, filepath.Base(path), "abc123")
	require.NotContains(t, filepath.Base(path), "/..")
}

func TestLatestWithNoRecords(t *testing.T) {
	store := NewAt(filepath.Join(t.TempDir(), "sessions"))

	_, err := store.Latest()
	require.ErrorIs(t, err, ErrNoRecords)
}

func TestLatestIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewAt(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	_, err := store.Latest()
	require.ErrorIs(t, err, ErrNoRecords)
}

func TestLatestRejectsCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	store := NewAt(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summary-20260101-000000.000.json"), []byte("{"), 0o644))

	_, err := store.Latest()
	require.ErrorContains(t, err, "decode summary")
}
