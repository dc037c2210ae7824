package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"promptforge/prompt"
)

func newFileStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	return New(path), path
}

func TestStore_AddAssignsIdentity(t *testing.T) {
	s, _ := newFileStore(t)

	p := s.Add(prompt.Prompt{Title: "First"})
	require.NotEmpty(t, p.ID)
	require.False(t, p.CreatedAt.IsZero())
	require.False(t, p.UpdatedAt.IsZero())

	got, ok := s.Get(p.ID)
	require.True(t, ok)
	require.Equal(t, "First", got.Title)
}

func TestStore_UpdateRefreshesUpdatedAt(t *testing.T) {
	s, _ := newFileStore(t)
	p := s.Add(prompt.Prompt{Title: "First"})

	time.Sleep(5 * time.Millisecond)
	got, ok := s.Update(p.ID, func(pp *prompt.Prompt) { pp.Title = "Renamed" })
	require.True(t, ok)
	require.Equal(t, "Renamed", got.Title)
	require.True(t, got.UpdatedAt.After(p.UpdatedAt), "UpdatedAt must move on every mutation")

	_, ok = s.Update("missing-id", func(pp *prompt.Prompt) {})
	require.False(t, ok)
}

func TestStore_SaveAppendsVersionHistory(t *testing.T) {
	s, _ := newFileStore(t)
	p := s.Add(prompt.Prompt{Title: "First", Compiled: "v1"})
	require.Len(t, p.Versions, 1)

	p, ok := s.Update(p.ID, func(pp *prompt.Prompt) { pp.Compiled = "v2" })
	require.True(t, ok)
	require.Len(t, p.Versions, 2)

	// Re-saving an unchanged compile does not duplicate history.
	p, _ = s.Update(p.ID, func(pp *prompt.Prompt) {})
	require.Len(t, p.Versions, 2)
}

func TestStore_DeleteCascades(t *testing.T) {
	s, _ := newFileStore(t)
	p := s.Add(prompt.Prompt{
		Title:       "With attachments",
		Attachments: []prompt.Attachment{{ID: "a1", Name: "f.txt", Status: prompt.StatusDone}},
	})
	s.SetActivePrompt(p.ID)

	require.True(t, s.Delete(p.ID))
	_, ok := s.Get(p.ID)
	require.False(t, ok)
	require.Empty(t, s.ActivePromptID(), "deleting the active prompt clears the selection")
	require.False(t, s.Delete(p.ID), "double delete reports false")
}

func TestStore_PersistsUnderNamespace(t *testing.T) {
	s, path := newFileStore(t)
	p := s.Add(prompt.Prompt{Title: "Persisted"})
	s.SetTheme("dark")
	s.SetPrimaryModel("gemini-2.5-pro")
	s.SetPersonaModel("gemini-2.5-flash")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]State
	require.NoError(t, json.Unmarshal(raw, &doc))
	_, ok := doc[Namespace]
	require.True(t, ok, "state must live under the fixed namespace key")

	reopened := New(path)
	got, ok := reopened.Get(p.ID)
	require.True(t, ok)
	require.Equal(t, "Persisted", got.Title)
	require.Equal(t, "dark", reopened.Theme())
	require.Equal(t, "gemini-2.5-pro", reopened.PrimaryModel())
	require.Equal(t, "gemini-2.5-flash", reopened.PersonaModel())
}

func TestStore_SessionStateIsNotPersisted(t *testing.T) {
	s, path := newFileStore(t)
	p := s.Add(prompt.Prompt{Title: "x"})
	s.SetActivePrompt(p.ID)
	s.SetAvailableModels([]string{"m1", "m2"})
	s.Save()

	require.Equal(t, []string{"m1", "m2"}, s.AvailableModels())

	reopened := New(path)
	require.Empty(t, reopened.ActivePromptID())
	require.Empty(t, reopened.AvailableModels())
}

func TestStore_ListKeepsInsertionOrder(t *testing.T) {
	s, _ := newFileStore(t)
	first := s.Add(prompt.Prompt{Title: "one"})
	second := s.Add(prompt.Prompt{Title: "two"})

	list := s.List()
	require.Len(t, list, 2)
	require.Equal(t, first.ID, list[0].ID)
	require.Equal(t, second.ID, list[1].ID)
}
