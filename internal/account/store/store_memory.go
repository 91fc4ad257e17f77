package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
	"github.com/BikashBaishnab/horibol-website-sub000/pkg/platform/sentinel"
)

// MemoryStore keeps deletion requests in process memory. It backs unit tests
// and the zero-config development mode.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string][]*models.DeletionRequest // identifier -> issuance history
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string][]*models.DeletionRequest)}
}

func (s *MemoryStore) Create(_ context.Context, req *models.DeletionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *req
	s.rows[req.Identifier] = append(s.rows[req.Identifier], &cp)
	return nil
}

func (s *MemoryStore) LatestEligible(_ context.Context, identifier string, now time.Time) (*models.DeletionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.DeletionRequest
	for _, row := range s.rows[identifier] {
		if !row.Eligible(now) {
			continue
		}
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) {
			latest = row
		}
	}
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (s *MemoryStore) MarkSuperseded(_ context.Context, identifier string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, row := range s.rows[identifier] {
		if row.Status == models.StatusPending {
			row.Status = models.StatusSuperseded
			changed++
		}
	}
	return changed, nil
}

func (s *MemoryStore) MarkCompleted(_ context.Context, id uuid.UUID, verifiedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, history := range s.rows {
		for _, row := range history {
			if row.ID != id {
				continue
			}
			if row.Status == models.StatusCompleted {
				return nil
			}
			row.Status = models.StatusCompleted
			vt := verifiedAt
			row.VerifiedAt = &vt
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *MemoryStore) ListByIdentifier(_ context.Context, identifier string) ([]*models.DeletionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.rows[identifier]
	out := make([]*models.DeletionRequest, 0, len(history))
	for _, row := range history {
		cp := *row
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
