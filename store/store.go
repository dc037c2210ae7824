// Package store is the explicit state container for authored prompts and
// user preferences. The core never reaches into ambient global state; the
// presentation layer holds a Store and calls its mutation operations.
//
// Persistence is write-through under a fixed namespace key, either to a
// JSON file or to Postgres (PROMPT_STORE_PG_DSN). Available models and
// the active prompt id are session-only and never persisted.
package store

import (
	"database/sql"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"promptforge/prompt"
)

// Namespace is the fixed key the persisted state lives under.
const Namespace = "promptforge.state"

const promptCacheSize = 1024

// State is everything the store persists.
type State struct {
	Prompts      []prompt.Prompt `json:"prompts"`
	Theme        string          `json:"theme"`
	PrimaryModel string          `json:"primaryModel"`
	PersonaModel string          `json:"personaModel"`
}

type Store struct {
	path string
	db   *sql.DB

	loadOnce   sync.Once
	schemaOnce sync.Once
	schemaErr  error

	mu    sync.RWMutex
	state State

	// Session-only, deliberately excluded from persistence.
	activeID        string
	availableModels []string

	promptCache *lru.Cache[string, prompt.Prompt]
}

// New builds a file-backed store at path.
func New(path string) *Store {
	return &Store{path: path}
}

// NewPostgres builds a Postgres-backed store.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, prompt.Prompt](promptCacheSize)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, promptCache: cache}, nil
}

// NewFromEnv prefers Postgres when PROMPT_STORE_PG_DSN is set and
// reachable, falling back to the file backend at path.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("PROMPT_STORE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

// Add saves a new prompt, assigning an id and timestamps as needed, and
// returns the stored value.
func (s *Store) Add(p prompt.Prompt) prompt.Prompt {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	touch(&p)
	if s.db != nil {
		s.addDB(p)
		return p
	}
	s.addFile(p)
	return p
}

// Update applies apply to the prompt with the given id, refreshes
// UpdatedAt, and persists. Reports false when the id is unknown.
func (s *Store) Update(id string, apply func(*prompt.Prompt)) (prompt.Prompt, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return prompt.Prompt{}, false
	}
	if s.db != nil {
		return s.updateDB(id, apply)
	}
	return s.updateFile(id, apply)
}

// Delete removes a prompt by id, its attachments going with it.
func (s *Store) Delete(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	s.mu.Lock()
	if s.activeID == id {
		s.activeID = ""
	}
	s.mu.Unlock()
	if s.db != nil {
		return s.deleteDB(id)
	}
	return s.deleteFile(id)
}

// Get returns one prompt by id.
func (s *Store) Get(id string) (prompt.Prompt, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return prompt.Prompt{}, false
	}
	if s.db != nil {
		return s.getDB(id)
	}
	return s.getFile(id)
}

// List returns all prompts in insertion order.
func (s *Store) List() []prompt.Prompt {
	if s.db != nil {
		return s.listDB()
	}
	return s.listFile()
}

func (s *Store) Theme() string        { return s.pref(func(st State) string { return st.Theme }) }
func (s *Store) PrimaryModel() string { return s.pref(func(st State) string { return st.PrimaryModel }) }
func (s *Store) PersonaModel() string { return s.pref(func(st State) string { return st.PersonaModel }) }

func (s *Store) SetTheme(v string) {
	s.setPref(func(st *State) { st.Theme = v })
}

func (s *Store) SetPrimaryModel(v string) {
	s.setPref(func(st *State) { st.PrimaryModel = v })
}

func (s *Store) SetPersonaModel(v string) {
	s.setPref(func(st *State) { st.PersonaModel = v })
}

// SetActivePrompt tracks which prompt the editor has open. Session-only.
func (s *Store) SetActivePrompt(id string) {
	s.mu.Lock()
	s.activeID = strings.TrimSpace(id)
	s.mu.Unlock()
}

func (s *Store) ActivePromptID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// SetAvailableModels caches the discovery result for the session.
func (s *Store) SetAvailableModels(models []string) {
	cp := make([]string, len(models))
	copy(cp, models)
	s.mu.Lock()
	s.availableModels = cp
	s.mu.Unlock()
}

func (s *Store) AvailableModels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.availableModels))
	copy(out, s.availableModels)
	return out
}

// Close releases the database handle, if any.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) pref(read func(State) string) string {
	if s.db != nil {
		return read(s.prefsDB())
	}
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return read(s.state)
}

func (s *Store) setPref(apply func(*State)) {
	if s.db != nil {
		s.setPrefDB(apply)
		return
	}
	s.ensureLoadedFile()
	s.mu.Lock()
	apply(&s.state)
	s.mu.Unlock()
	s.saveFile()
}

// touch refreshes bookkeeping on every mutation: UpdatedAt always moves,
// and a save with a compiled string appends a version entry.
func touch(p *prompt.Prompt) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Compiled == "" {
		return
	}
	if n := len(p.Versions); n > 0 && p.Versions[n-1].Compiled == p.Compiled {
		return
	}
	p.Versions = append(p.Versions, prompt.Version{SavedAt: now, Compiled: p.Compiled})
}
