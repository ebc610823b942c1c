// Package memory holds in-process implementations of the storage
// interfaces, used when no database is configured and as a read cache in
// front of one.
package memory

import (
	"context"
	"slices"
	"sync"

	"genai_portfolio/internal/domain"
	"genai_portfolio/internal/listing"
	"genai_portfolio/internal/seed"
)

// ContentStore serves a static dataset. Engagement counters live only as
// long as the process.
type ContentStore struct {
	mu         sync.RWMutex
	posts      []domain.BlogPost
	prompts    []domain.Prompt
	useCases   []domain.UseCase
	categories map[domain.Kind][]string
}

func NewContentStore(ds *seed.Dataset) *ContentStore {
	return &ContentStore{
		posts:    slices.Clone(ds.Blog),
		prompts:  slices.Clone(ds.Prompts),
		useCases: slices.Clone(ds.UseCases),
		categories: map[domain.Kind][]string{
			domain.KindBlog:    slices.Clone(ds.Categories.Blog),
			domain.KindPrompt:  slices.Clone(ds.Categories.Prompts),
			domain.KindUseCase: slices.Clone(ds.Categories.UseCases),
		},
	}
}

func (s *ContentStore) ListPosts(_ context.Context) ([]domain.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.posts), nil
}

func (s *ContentStore) GetPost(_ context.Context, key string) (*domain.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.posts, domain.KindBlog, key)
}

func (s *ContentStore) ListPrompts(_ context.Context) ([]domain.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.prompts), nil
}

func (s *ContentStore) GetPrompt(_ context.Context, id string) (*domain.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.prompts, domain.KindPrompt, id)
}

func (s *ContentStore) ListUseCases(_ context.Context) ([]domain.UseCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.useCases), nil
}

func (s *ContentStore) GetUseCase(_ context.Context, key string) (*domain.UseCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.useCases, domain.KindUseCase, key)
}

func (s *ContentStore) Categories(_ context.Context, kind domain.Kind) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories[kind]), nil
}

func (s *ContentStore) IncrementLikes(_ context.Context, id string) (*domain.Prompt, error) {
	return s.bump(id, func(m *domain.Metrics) { m.Likes++ })
}

func (s *ContentStore) IncrementViews(_ context.Context, id string) (*domain.Prompt, error) {
	return s.bump(id, func(m *domain.Metrics) { m.Views++ })
}

func (s *ContentStore) bump(id string, fn func(*domain.Metrics)) (*domain.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.prompts, func(p domain.Prompt) bool { return p.ID == id })
	if i < 0 {
		return nil, domain.NotFound(domain.KindPrompt, id)
	}
	fn(&s.prompts[i].Metrics)
	p := s.prompts[i]
	return &p, nil
}

func find[T domain.Searchable](items []T, kind domain.Kind, key string) (*T, error) {
	item, ok := listing.Find(items, key)
	if !ok {
		return nil, domain.NotFound(kind, key)
	}
	return &item, nil
}
