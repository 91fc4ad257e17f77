package identity

import (
	"context"
	"sync"

	"github.com/BikashBaishnab/horibol-website-sub000/pkg/platform/sentinel"
)

// MemoryDirectory is an in-process directory for tests and the zero-config
// development mode.
type MemoryDirectory struct {
	mu         sync.RWMutex
	principals map[string]*Principal // keyed by principal ID
	anonymized map[string]bool
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		principals: make(map[string]*Principal),
		anonymized: make(map[string]bool),
	}
}

// Add seeds a principal. Test helper and dev-mode fixture loader.
func (d *MemoryDirectory) Add(p Principal) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := p
	d.principals[p.ID] = &cp
}

func (d *MemoryDirectory) Exists(_ context.Context, identifier string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.find(identifier) != nil, nil
}

func (d *MemoryDirectory) Resolve(_ context.Context, identifier string) (*Principal, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p := d.find(identifier); p != nil {
		cp := *p
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (d *MemoryDirectory) Anonymize(_ context.Context, principalID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.anonymized[principalID] = true
	return nil
}

// DeletePrincipal removes the record; deleting an absent principal is a
// no-op.
func (d *MemoryDirectory) DeletePrincipal(_ context.Context, principalID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.principals, principalID)
	return nil
}

// Anonymized reports whether Anonymize ran for the principal. Test helper.
func (d *MemoryDirectory) Anonymized(principalID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.anonymized[principalID]
}

func (d *MemoryDirectory) find(identifier string) *Principal {
	for _, p := range d.principals {
		if p.Email == identifier || p.Phone == identifier {
			return p
		}
	}
	return nil
}
