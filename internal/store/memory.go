package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	dom "github.com/Mahran1998/opsflow/internal/domain"
)

// MemoryStore is the volatile backend: a map guarded by one lock. Keeping the
// id counter under the same lock makes id assignment and read-modify-write
// updates atomic together, so two concurrent updates can never both validate
// against the same stale status and both win.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]dom.Request
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[int64]dom.Request)}
}

func (s *MemoryStore) Create(ctx context.Context, in CreateInput) (dom.Request, error) {
	if errs := dom.ValidateCreate(in.Title, in.Description); len(errs) > 0 {
		return dom.Request{}, &ValidationError{Fields: errs}
	}

	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	r := dom.Request{
		ID:          s.nextID,
		Title:       strings.TrimSpace(in.Title),
		Description: dom.NormalizeOptional(in.Description),
		Status:      dom.StatusNew,
		Priority:    in.Priority,
		Notes:       nil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.items[r.ID] = r
	return r, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id int64) (dom.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.items[id]
	if !ok {
		return dom.Request{}, &NotFoundError{ID: id}
	}
	return r, nil
}

func (s *MemoryStore) List(ctx context.Context, f ListFilter) ([]dom.Request, error) {
	needle := strings.ToLower(strings.TrimSpace(f.Query))

	s.mu.RLock()
	list := make([]dom.Request, 0, len(s.items))
	for _, r := range s.items {
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		if needle != "" && !matches(r, needle) {
			continue
		}
		list = append(list, r)
	}
	s.mu.RUnlock()

	// updated_at DESC, id DESC to keep ties deterministic.
	sort.Slice(list, func(i, j int) bool {
		if !list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, in UpdateInput) (dom.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.items[id]
	if !ok {
		return dom.Request{}, &NotFoundError{ID: id}
	}

	if errs := dom.ValidateUpdate(in.Status, in.Notes, r.Status); len(errs) > 0 {
		return dom.Request{}, &ValidationError{Fields: errs}
	}

	if in.Status != nil {
		r.Status = *in.Status
	}
	if in.Notes != nil {
		r.Notes = dom.NormalizeOptional(in.Notes)
	}
	r.UpdatedAt = time.Now().UTC()

	s.items[id] = r
	return r, nil
}

func matches(r dom.Request, needle string) bool {
	if strings.Contains(strings.ToLower(r.Title), needle) {
		return true
	}
	return r.Description != nil && strings.Contains(strings.ToLower(*r.Description), needle)
}
