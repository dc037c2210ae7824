package store

import (
	"encoding/json"
	"log"

	"promptforge/prompt"
)

// The Postgres backend keeps one row per prompt plus a single
// preferences row under the namespace key. Prompt reads go through the
// LRU cache; writers invalidate.

func (s *Store) ensureSchema() error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS prompts (
  id TEXT PRIMARY KEY,
  doc JSONB NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS preferences (
  namespace TEXT PRIMARY KEY,
  doc JSONB NOT NULL
);
`)
	})
	return s.schemaErr
}

func (s *Store) addDB(p prompt.Prompt) {
	if err := s.ensureSchema(); err != nil {
		log.Printf("store: schema: %v", err)
		return
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return
	}
	_, err = s.db.Exec(`
INSERT INTO prompts (id, doc, created_at, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id)
DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
		p.ID, doc, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		log.Printf("store: add prompt %s: %v", p.ID, err)
		return
	}
	s.promptCache.Remove(p.ID)
}

func (s *Store) updateDB(id string, apply func(*prompt.Prompt)) (prompt.Prompt, bool) {
	if err := s.ensureSchema(); err != nil {
		return prompt.Prompt{}, false
	}
	tx, err := s.db.Begin()
	if err != nil {
		return prompt.Prompt{}, false
	}
	defer func() { _ = tx.Rollback() }()

	var raw []byte
	if err := tx.QueryRow(`SELECT doc FROM prompts WHERE id = $1 FOR UPDATE`, id).Scan(&raw); err != nil {
		return prompt.Prompt{}, false
	}
	var p prompt.Prompt
	if err := json.Unmarshal(raw, &p); err != nil {
		return prompt.Prompt{}, false
	}
	apply(&p)
	p.ID = id
	touch(&p)

	doc, err := json.Marshal(p)
	if err != nil {
		return prompt.Prompt{}, false
	}
	if _, err := tx.Exec(`UPDATE prompts SET doc = $2, updated_at = $3 WHERE id = $1`, id, doc, p.UpdatedAt); err != nil {
		return prompt.Prompt{}, false
	}
	if err := tx.Commit(); err != nil {
		return prompt.Prompt{}, false
	}
	s.promptCache.Remove(id)
	return p, true
}

func (s *Store) deleteDB(id string) bool {
	if err := s.ensureSchema(); err != nil {
		return false
	}
	res, err := s.db.Exec(`DELETE FROM prompts WHERE id = $1`, id)
	if err != nil {
		log.Printf("store: delete prompt %s: %v", id, err)
		return false
	}
	s.promptCache.Remove(id)
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *Store) getDB(id string) (prompt.Prompt, bool) {
	if err := s.ensureSchema(); err != nil {
		return prompt.Prompt{}, false
	}
	if cached, ok := s.promptCache.Get(id); ok {
		return cached, true
	}
	var raw []byte
	if err := s.db.QueryRow(`SELECT doc FROM prompts WHERE id = $1`, id).Scan(&raw); err != nil {
		return prompt.Prompt{}, false
	}
	var p prompt.Prompt
	if err := json.Unmarshal(raw, &p); err != nil {
		return prompt.Prompt{}, false
	}
	s.promptCache.Add(id, p)
	return p, true
}

func (s *Store) listDB() []prompt.Prompt {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	rows, err := s.db.Query(`SELECT doc FROM prompts ORDER BY created_at`)
	if err != nil {
		log.Printf("store: list prompts: %v", err)
		return nil
	}
	defer rows.Close()

	var out []prompt.Prompt
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			continue
		}
		var p prompt.Prompt
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Store) prefsDB() State {
	if err := s.ensureSchema(); err != nil {
		return State{}
	}
	var raw []byte
	if err := s.db.QueryRow(`SELECT doc FROM preferences WHERE namespace = $1`, Namespace).Scan(&raw); err != nil {
		return State{}
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}
	}
	return st
}

func (s *Store) setPrefDB(apply func(*State)) {
	st := s.prefsDB()
	apply(&st)
	st.Prompts = nil // prompts live in their own table
	doc, err := json.Marshal(st)
	if err != nil {
		return
	}
	_, err = s.db.Exec(`
INSERT INTO preferences (namespace, doc)
VALUES ($1, $2)
ON CONFLICT (namespace) DO UPDATE SET doc = EXCLUDED.doc`,
		Namespace, doc)
	if err != nil {
		log.Printf("store: save preferences: %v", err)
	}
}
