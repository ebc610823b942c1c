package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"genai_portfolio/internal/domain"
	"genai_portfolio/internal/seed"
)

// SeedService writes a static dataset into persistent storage. Runs are
// skipped when the stored checksum matches the dataset.
type SeedService struct {
	name       string
	content    ContentWriter
	categories CategoryStore
	seedState  SeedStateStore
	txManager  TransactionManager
	logger     *slog.Logger
}

func NewSeedService(
	name string,
	content ContentWriter,
	categories CategoryStore,
	seedState SeedStateStore,
	txManager TransactionManager,
	logger *slog.Logger,
) *SeedService {
	return &SeedService{
		name:       name,
		content:    content,
		categories: categories,
		seedState:  seedState,
		txManager:  txManager,
		logger:     logger.With("dataset", name),
	}
}

func (s *SeedService) Seed(ctx context.Context, ds *seed.Dataset) (*domain.SeedStats, error) {
	startTime := time.Now()

	checksum, err := Checksum(ds)
	if err != nil {
		return nil, err
	}

	state, err := s.seedState.Get(ctx, s.name)
	if err != nil {
		return nil, fmt.Errorf("get seed state: %w", err)
	}

	items := len(ds.Blog) + len(ds.Prompts) + len(ds.UseCases)
	stats := &domain.SeedStats{Dataset: s.name, Items: items}

	if state.Checksum == checksum {
		stats.Skipped = true
		stats.Duration = time.Since(startTime)
		s.logger.Info("dataset unchanged, skipping seed", "checksum", checksum)
		return stats, nil
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.content.UpsertPosts(txCtx, ds.Blog); err != nil {
			return fmt.Errorf("upsert posts: %w", err)
		}
		if err := s.content.UpsertPrompts(txCtx, ds.Prompts); err != nil {
			return fmt.Errorf("upsert prompts: %w", err)
		}
		if err := s.content.UpsertUseCases(txCtx, ds.UseCases); err != nil {
			return fmt.Errorf("upsert use cases: %w", err)
		}

		for kind, names := range map[domain.Kind][]string{
			domain.KindBlog:    ds.Categories.Blog,
			domain.KindPrompt:  ds.Categories.Prompts,
			domain.KindUseCase: ds.Categories.UseCases,
		} {
			if err := s.categories.Replace(txCtx, kind, names); err != nil {
				return fmt.Errorf("replace %s categories: %w", kind, err)
			}
		}

		return s.seedState.Update(txCtx, &domain.SeedState{
			Dataset:  s.name,
			Checksum: checksum,
			Items:    items,
			SeededAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}

	stats.Duration = time.Since(startTime)
	s.logger.Info("seed completed",
		"posts", len(ds.Blog),
		"prompts", len(ds.Prompts),
		"use_cases", len(ds.UseCases),
		"duration", stats.Duration,
	)
	return stats, nil
}

// Checksum fingerprints a dataset by its canonical YAML encoding.
func Checksum(ds *seed.Dataset) (string, error) {
	data, err := yaml.Marshal(ds)
	if err != nil {
		return "", fmt.Errorf("encode dataset: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
