package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"promptforge/prompt"
)

const analysisCacheSize = 256

// Manager is the per-attachment state machine. Each attached file gets a
// record inserted in processing status and an independent ingestion
// goroutine; settlement updates exactly that record by id. One file's
// failure never touches the rest of the batch.
type Manager struct {
	ing *Ingestor

	mu      sync.Mutex
	wg      sync.WaitGroup
	order   []string
	records map[string]*prompt.Attachment

	// analyses caches successful results by content hash so an identical
	// re-attached file settles without a second provider call.
	analyses *lru.Cache[string, string]
}

func NewManager(ing *Ingestor) *Manager {
	cache, _ := lru.New[string, string](analysisCacheSize)
	return &Manager{
		ing:      ing,
		records:  make(map[string]*prompt.Attachment),
		analyses: cache,
	}
}

// Attach registers a file and starts ingesting it immediately. The
// returned snapshot is in processing status; poll Get or Snapshot for
// settlement. Attachments in one batch ingest concurrently with no
// completion-order guarantee.
func (m *Manager) Attach(ctx context.Context, name, mimeType string, content []byte) prompt.Attachment {
	att := prompt.Attachment{
		ID:       uuid.NewString(),
		Name:     name,
		Type:     InferType(name, mimeType, content),
		MIMEType: mimeType,
		Content:  content,
		Status:   prompt.StatusProcessing,
	}

	m.mu.Lock()
	rec := att
	m.records[att.ID] = &rec
	m.order = append(m.order, att.ID)
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run(ctx, att.ID, name, mimeType, content)
	return att
}

func (m *Manager) run(ctx context.Context, id, name, mimeType string, content []byte) {
	defer m.wg.Done()

	key := analysisKey(name, mimeType, content)
	if analysis, ok := m.analyses.Get(key); ok {
		m.settle(id, analysis, nil)
		return
	}

	analysis, err := m.ing.Ingest(ctx, name, mimeType, content)
	if err == nil {
		m.analyses.Add(key, analysis)
	}
	m.settle(id, analysis, err)
}

// settle moves one record to its terminal state. A record removed while
// its ingestion was in flight is simply gone: settlement is a no-op then.
func (m *Manager) settle(id, analysis string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return
	}
	if err != nil {
		rec.Status = prompt.StatusError
		rec.ErrorMessage = err.Error()
		return
	}
	rec.Status = prompt.StatusDone
	rec.Analysis = analysis
}

// Remove drops a record. An in-flight ingestion for it keeps running to
// completion and settles as a no-op.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return false
	}
	delete(m.records, id)
	for i, other := range m.order {
		if other == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a copy of one record.
func (m *Manager) Get(id string) (prompt.Attachment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return prompt.Attachment{}, false
	}
	return *rec, true
}

// Snapshot returns copies of all records in insertion order.
func (m *Manager) Snapshot() []prompt.Attachment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]prompt.Attachment, 0, len(m.order))
	for _, id := range m.order {
		if rec, ok := m.records[id]; ok {
			out = append(out, *rec)
		}
	}
	return out
}

// Wait blocks until every launched ingestion has settled.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func analysisKey(name, mimeType string, content []byte) string {
	sum := sha256.Sum256(content)
	return name + "|" + mimeType + "|" + hex.EncodeToString(sum[:])
}
