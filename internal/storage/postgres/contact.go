package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"genai_portfolio/internal/domain"
)

const contactColumns = `id, name, email, subject, message, status, created_at`

type ContactStore struct {
	db *sqlx.DB
}

func NewContactStore(db *sqlx.DB) *ContactStore {
	return &ContactStore{db: db}
}

func (s *ContactStore) Create(ctx context.Context, sub *domain.ContactSubmission) error {
	query := `
		INSERT INTO contact_submissions (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		sub.ID,
		sub.Name,
		sub.Email,
		sub.Subject,
		sub.Message,
		string(sub.Status),
		sub.CreatedAt,
	)
	return err
}

// List returns submissions newest first. An empty status lists all of them.
func (s *ContactStore) List(ctx context.Context, status domain.ContactStatus) ([]domain.ContactSubmission, error) {
	query := `SELECT ` + contactColumns + ` FROM contact_submissions`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	subs := []domain.ContactSubmission{}
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &subs, query, args...)
	return subs, err
}

func (s *ContactStore) UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.ContactSubmission, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NotFound("contact submission", id)
	}

	var sub domain.ContactSubmission
	query := `
		UPDATE contact_submissions
		SET status = $2
		WHERE id = $1
		RETURNING ` + contactColumns

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &sub, query, id, string(status))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("contact submission", id)
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
