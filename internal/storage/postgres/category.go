package postgres

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"genai_portfolio/internal/domain"
)

type CategoryStore struct {
	db *sqlx.DB
}

func NewCategoryStore(db *sqlx.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// Replace swaps the declared categories of kind for names, keeping their
// order in the position column.
func (s *CategoryStore) Replace(ctx context.Context, kind domain.Kind, names []string) error {
	exec := GetExecutor(ctx, s.db)

	_, err := exec.ExecContext(ctx, "DELETE FROM categories WHERE kind = $1", string(kind))
	if err != nil {
		return err
	}

	if len(names) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO categories (kind, name, position) VALUES ")
	sb.WriteString(valuesList(len(names), 3))
	sb.WriteString(" ON CONFLICT (kind, name) DO NOTHING")

	valueArgs := make([]interface{}, 0, len(names)*3)
	for i, name := range names {
		valueArgs = append(valueArgs, string(kind), name, i)
	}

	_, err = exec.ExecContext(ctx, sb.String(), valueArgs...)
	return err
}

func (s *CategoryStore) List(ctx context.Context, kind domain.Kind) ([]string, error) {
	var names []string
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &names,
		"SELECT name FROM categories WHERE kind = $1 ORDER BY position", string(kind))
	return names, err
}
