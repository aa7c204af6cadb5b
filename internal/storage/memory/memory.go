// Package memory keeps the audit trail in process when no database is
// configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/storage"
)

type Storage struct {
	mu      sync.RWMutex
	entries []models.AuditEntry
	nextID  int64
	closed  bool
}

func New() *Storage {
	return &Storage{nextID: 1}
}

func (s *Storage) InsertAudit(_ context.Context, e models.AuditEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, storage.ErrStorageClosed
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = models.NewTimestamp(time.Now().UTC())
	}
	e.ID = s.nextID
	s.nextID++
	s.entries = append(s.entries, e)
	return e.ID, nil
}

func (s *Storage) ListAudit(_ context.Context, f storage.AuditFilter) ([]models.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, storage.ErrStorageClosed
	}
	limit := f.Limit
	if limit <= 0 {
		limit = storage.DefaultAuditLimit
	}
	out := make([]models.AuditEntry, 0)
	for _, e := range s.entries {
		if f.Resource != "" && e.Resource != f.Resource {
			continue
		}
		if f.RecordID != 0 && e.RecordID != f.RecordID {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Storage) Ping(context.Context) error {
	return nil
}

func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
