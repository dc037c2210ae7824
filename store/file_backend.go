package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"promptforge/prompt"
)

// The file backend writes one JSON document holding the namespace key, so
// the on-disk shape mirrors the key-value contract.

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var doc map[string]State
		if err := json.Unmarshal(b, &doc); err != nil {
			return
		}
		s.mu.Lock()
		s.state = doc[Namespace]
		s.mu.Unlock()
	})
}

// Save flushes the current state. File mutations already write through;
// this exists for callers that want an explicit flush point.
func (s *Store) Save() {
	if s.db != nil {
		return
	}
	s.saveFile()
}

func (s *Store) saveFile() {
	s.ensureLoadedFile()
	s.mu.RLock()
	doc := map[string]State{Namespace: s.state}
	b, err := json.MarshalIndent(doc, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) addFile(p prompt.Prompt) {
	s.ensureLoadedFile()
	s.mu.Lock()
	replaced := false
	for i := range s.state.Prompts {
		if s.state.Prompts[i].ID == p.ID {
			s.state.Prompts[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		s.state.Prompts = append(s.state.Prompts, p)
	}
	s.mu.Unlock()
	s.saveFile()
}

func (s *Store) updateFile(id string, apply func(*prompt.Prompt)) (prompt.Prompt, bool) {
	s.ensureLoadedFile()
	s.mu.Lock()
	var out prompt.Prompt
	found := false
	for i := range s.state.Prompts {
		if s.state.Prompts[i].ID != id {
			continue
		}
		apply(&s.state.Prompts[i])
		s.state.Prompts[i].ID = id
		touch(&s.state.Prompts[i])
		out = s.state.Prompts[i]
		found = true
		break
	}
	s.mu.Unlock()
	if found {
		s.saveFile()
	}
	return out, found
}

func (s *Store) deleteFile(id string) bool {
	s.ensureLoadedFile()
	s.mu.Lock()
	found := false
	for i := range s.state.Prompts {
		if s.state.Prompts[i].ID == id {
			s.state.Prompts = append(s.state.Prompts[:i], s.state.Prompts[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if found {
		s.saveFile()
	}
	return found
}

func (s *Store) getFile(id string) (prompt.Prompt, bool) {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.state.Prompts {
		if s.state.Prompts[i].ID == id {
			return s.state.Prompts[i], true
		}
	}
	return prompt.Prompt{}, false
}

func (s *Store) listFile() []prompt.Prompt {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]prompt.Prompt, len(s.state.Prompts))
	copy(out, s.state.Prompts)
	return out
}
