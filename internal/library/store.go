// Package library is the persistence collaborator for finished scans: the
// deduplicated, ranked candidate lists handed off by the orchestrator, and
// the exporters that write them out for downstream tooling.
package library

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shelfsnap/shelfsnap/internal/scan"
)

// Record is one completed scan: the source image reference plus the final
// ranked book list.
type Record struct {
	ID        string               `json:"id" yaml:"id"`
	ImageRef  string               `json:"image_ref" yaml:"image_ref"`
	Books     []scan.BookCandidate `json:"books" yaml:"books"`
	CreatedAt time.Time            `json:"created_at" yaml:"created_at"`
}

// Store persists completed scans and serves them to browsing surfaces.
type Store interface {
	SaveScan(ctx context.Context, imageRef string, books []scan.BookCandidate) error
	Get(id string) (Record, bool)
	List() []Record
	Delete(id string)
}

// MemoryStore keeps records in memory for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	order   []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
	}
}

// SaveScan stores a new record for the image. Empty book lists are stored
// too: a scan that found nothing is still a finished scan.
func (s *MemoryStore) SaveScan(_ context.Context, imageRef string, books []scan.BookCandidate) error {
	record := Record{
		ID:        uuid.NewString(),
		ImageRef:  imageRef,
		Books:     books,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	s.order = append(s.order, record.ID)
	return nil
}

// Get returns one record by ID.
func (s *MemoryStore) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	return record, ok
}

// List returns all records in insertion order.
func (s *MemoryStore) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Record, 0, len(s.order))
	for _, id := range s.order {
		if record, ok := s.records[id]; ok {
			result = append(result, record)
		}
	}
	return result
}

// Delete removes one record by ID.
func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
