package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps playbooks in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	playbooks map[string]*Playbook
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{playbooks: make(map[string]*Playbook)}
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, p *Playbook) error {
	prepareCreate(p)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playbooks[p.ID] = clone(p)
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (*Playbook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.playbooks[id]
	if !ok || p.Deleted {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, opts ListOptions) ([]*Playbook, int, error) {
	opts = opts.Normalize()

	s.mu.RLock()
	var all []*Playbook
	for _, p := range s.playbooks {
		if !p.Deleted && matchesSearch(p, opts.Search) {
			all = append(all, p)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b *Playbook) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	total := len(all)
	if opts.Offset >= total {
		return []*Playbook{}, total, nil
	}
	end := min(opts.Offset+opts.Limit, total)
	page := make([]*Playbook, 0, end-opts.Offset)
	for _, p := range all[opts.Offset:end] {
		page = append(page, clone(p))
	}
	return page, total, nil
}

// Update implements Store.
func (s *MemoryStore) Update(_ context.Context, p *Playbook) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.playbooks[p.ID]
	if !ok || cur.Deleted {
		return ErrNotFound
	}
	next := clone(p)
	next.Version = cur.Version + 1
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = now()
	next.Deleted = false
	s.playbooks[p.ID] = next
	*p = *clone(next)
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.playbooks[id]
	if !ok || p.Deleted {
		return ErrNotFound
	}
	p.Deleted = true
	p.UpdatedAt = now()
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

func clone(p *Playbook) *Playbook {
	c := *p
	c.GraphJSON = slices.Clone(p.GraphJSON)
	return &c
}

var _ Store = (*MemoryStore)(nil)
