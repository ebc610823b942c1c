package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"genai_portfolio/internal/domain"
	"genai_portfolio/internal/service"
)

type snapshot struct {
	posts      []domain.BlogPost
	prompts    []domain.Prompt
	useCases   []domain.UseCase
	categories map[domain.Kind][]string
}

// Cache serves reads from a snapshot of a slower repository and forwards
// counter increments to it. Refresh replaces the snapshot.
type Cache struct {
	backend service.ContentRepository
	logger  *slog.Logger

	mu   sync.RWMutex
	snap *snapshot
}

func NewCache(backend service.ContentRepository, logger *slog.Logger) *Cache {
	return &Cache{
		backend: backend,
		logger:  logger.With("component", "content_cache"),
	}
}

// Refresh reloads every collection from the backend. On failure the
// previous snapshot stays in place.
func (c *Cache) Refresh(ctx context.Context) (*domain.RefreshStats, error) {
	startTime := time.Now()

	posts, err := c.backend.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}
	prompts, err := c.backend.ListPrompts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	useCases, err := c.backend.ListUseCases(ctx)
	if err != nil {
		return nil, fmt.Errorf("load use cases: %w", err)
	}

	categories := make(map[domain.Kind][]string, 3)
	for _, kind := range []domain.Kind{domain.KindBlog, domain.KindPrompt, domain.KindUseCase} {
		names, err := c.backend.Categories(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("load %s categories: %w", kind, err)
		}
		categories[kind] = names
	}

	c.mu.Lock()
	c.snap = &snapshot{posts: posts, prompts: prompts, useCases: useCases, categories: categories}
	c.mu.Unlock()

	stats := &domain.RefreshStats{
		Posts:    len(posts),
		Prompts:  len(prompts),
		UseCases: len(useCases),
		Duration: time.Since(startTime),
	}
	c.logger.Debug("content snapshot refreshed",
		"posts", stats.Posts,
		"prompts", stats.Prompts,
		"use_cases", stats.UseCases,
		"duration", stats.Duration,
	)
	return stats, nil
}

func (c *Cache) current(ctx context.Context) (*snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	if _, err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap, nil
}

func (c *Cache) ListPosts(ctx context.Context) ([]domain.BlogPost, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.posts), nil
}

func (c *Cache) GetPost(ctx context.Context, key string) (*domain.BlogPost, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return nil, err
	}
	return find(snap.posts, domain.KindBlog, key)
}

func (c *Cache) ListPrompts(ctx context.Context) ([]domain.Prompt, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(snap.prompts), nil
}

func (c *Cache) GetPrompt(ctx context.Context, id string) (*domain.Prompt, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return find(snap.prompts, domain.KindPrompt, id)
}

func (c *Cache) ListUseCases(ctx context.Context) ([]domain.UseCase, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.useCases), nil
}

func (c *Cache) GetUseCase(ctx context.Context, key string) (*domain.UseCase, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return nil, err
	}
	return find(snap.useCases, domain.KindUseCase, key)
}

func (c *Cache) Categories(ctx context.Context, kind domain.Kind) ([]string, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.categories[kind]), nil
}

func (c *Cache) IncrementLikes(ctx context.Context, id string) (*domain.Prompt, error) {
	p, err := c.backend.IncrementLikes(ctx, id)
	if err != nil {
		return nil, err
	}
	c.patch(p)
	return p, nil
}

func (c *Cache) IncrementViews(ctx context.Context, id string) (*domain.Prompt, error) {
	p, err := c.backend.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	c.patch(p)
	return p, nil
}

// patch writes fresh counters into the snapshot so readers see the
// increment before the next refresh.
func (c *Cache) patch(p *domain.Prompt) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap == nil {
		return
	}
	for i := range c.snap.prompts {
		if c.snap.prompts[i].ID == p.ID {
			c.snap.prompts[i].Metrics = p.Metrics
			return
		}
	}
}
