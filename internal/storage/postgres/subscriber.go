package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"genai_portfolio/internal/domain"
)

const subscriberColumns = `id, email, is_active, created_at, updated_at`

type SubscriberStore struct {
	db *sqlx.DB
}

func NewSubscriberStore(db *sqlx.DB) *SubscriberStore {
	return &SubscriberStore{db: db}
}

func (s *SubscriberStore) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	var sub domain.Subscriber
	query := `SELECT ` + subscriberColumns + ` FROM newsletter_subscribers WHERE email = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &sub, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("subscriber", email)
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubscriberStore) Create(ctx context.Context, sub *domain.Subscriber) error {
	query := `
		INSERT INTO newsletter_subscribers (` + subscriberColumns + `)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		sub.ID,
		sub.Email,
		sub.IsActive,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	return err
}

func (s *SubscriberStore) SetActive(ctx context.Context, email string, active bool) (*domain.Subscriber, error) {
	var sub domain.Subscriber
	query := `
		UPDATE newsletter_subscribers
		SET is_active = $2, updated_at = NOW()
		WHERE email = $1
		RETURNING ` + subscriberColumns

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &sub, query, email, active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("subscriber", email)
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubscriberStore) List(ctx context.Context, activeOnly bool) ([]domain.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM newsletter_subscribers`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY created_at`

	subs := []domain.Subscriber{}
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &subs, query)
	return subs, err
}
