package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"genai_portfolio/internal/domain"
)

type SeedStateStore struct {
	db *sqlx.DB
}

func NewSeedStateStore(db *sqlx.DB) *SeedStateStore {
	return &SeedStateStore{db: db}
}

func (s *SeedStateStore) Get(ctx context.Context, dataset string) (*domain.SeedState, error) {
	var state domain.SeedState
	query := `
		SELECT dataset, checksum, items, seeded_at
		FROM seed_state
		WHERE dataset = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &state, query, dataset)
	if errors.Is(err, sql.ErrNoRows) {
		// A dataset that was never seeded has no checksum.
		return &domain.SeedState{Dataset: dataset}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *SeedStateStore) Update(ctx context.Context, state *domain.SeedState) error {
	query := `
		INSERT INTO seed_state (dataset, checksum, items, seeded_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (dataset) DO UPDATE SET
			checksum = EXCLUDED.checksum,
			items = EXCLUDED.items,
			seeded_at = EXCLUDED.seeded_at`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		state.Dataset,
		state.Checksum,
		state.Items,
		state.SeededAt,
	)
	return err
}
