package service

import (
	"context"

	"github.com/Mahran1998/opsflow/internal/cache"
	dom "github.com/Mahran1998/opsflow/internal/domain"
	"github.com/Mahran1998/opsflow/internal/store"

	"golang.org/x/sync/singleflight"
)

// RequestService is a thin composition layer over the active store. It adds
// list caching and nothing else: validation and the transition policy live in
// the store contract, so both backends behave identically.
type RequestService struct {
	store store.RequestStore
	cache *cache.RequestCache
	sf    singleflight.Group
}

// NewRequestService creates a RequestService. If c is nil, caching is disabled.
func NewRequestService(st store.RequestStore, c *cache.RequestCache) *RequestService {
	return &RequestService{store: st, cache: c}
}

func (s *RequestService) Create(ctx context.Context, in store.CreateInput) (dom.Request, error) {
	r, err := s.store.Create(ctx, in)
	if err != nil {
		return dom.Request{}, err
	}
	s.invalidateCache(ctx)
	return r, nil
}

func (s *RequestService) GetByID(ctx context.Context, id int64) (dom.Request, error) {
	return s.store.GetByID(ctx, id)
}

func (s *RequestService) List(ctx context.Context, f store.ListFilter) ([]dom.Request, error) {
	if s.cache != nil {
		key := cache.ListKey(f.Status, f.Query)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, key); err == nil && list != nil {
				return list, nil
			}
			list, err := s.store.List(ctx, f)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, key, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Request), nil
	}
	return s.store.List(ctx, f)
}

func (s *RequestService) Update(ctx context.Context, id int64, in store.UpdateInput) (dom.Request, error) {
	r, err := s.store.Update(ctx, id, in)
	if err != nil {
		return dom.Request{}, err
	}
	s.invalidateCache(ctx)
	return r, nil
}

func (s *RequestService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateLists(ctx)
	}
}
