package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"genai_portfolio/internal/domain"
)

type postRow struct {
	ID          string         `db:"id"`
	Slug        string         `db:"slug"`
	Title       string         `db:"title"`
	Excerpt     string         `db:"excerpt"`
	Category    string         `db:"category"`
	Tags        pq.StringArray `db:"tags"`
	ImageURL    string         `db:"image_url"`
	ReadTime    int            `db:"read_time"`
	PublishedAt time.Time      `db:"published_at"`
}

func (r postRow) toDomain() domain.BlogPost {
	return domain.BlogPost{
		ID:          r.ID,
		Slug:        r.Slug,
		Title:       r.Title,
		Excerpt:     r.Excerpt,
		Category:    r.Category,
		Tags:        []string(r.Tags),
		ImageURL:    r.ImageURL,
		ReadTime:    r.ReadTime,
		PublishedAt: r.PublishedAt,
	}
}

type promptRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	PromptText  string         `db:"prompt_text"`
	Category    string         `db:"category"`
	Tags        pq.StringArray `db:"tags"`
	Likes       int64          `db:"likes"`
	Views       int64          `db:"views"`
	CreatedAt   pq.NullTime    `db:"created_at"`
}

func (r promptRow) toDomain() domain.Prompt {
	return domain.Prompt{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		PromptText:  r.PromptText,
		Category:    r.Category,
		Tags:        []string(r.Tags),
		Metrics:     domain.Metrics{Likes: r.Likes, Views: r.Views},
		CreatedAt:   r.CreatedAt.Time,
	}
}

type useCaseRow struct {
	ID           string         `db:"id"`
	Slug         string         `db:"slug"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	ImageURL     string         `db:"image_url"`
	Technologies pq.StringArray `db:"technologies"`
}

func (r useCaseRow) toDomain() domain.UseCase {
	return domain.UseCase{
		ID:           r.ID,
		Slug:         r.Slug,
		Title:        r.Title,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		Technologies: []string(r.Technologies),
	}
}

const (
	postColumns    = `id, slug, title, excerpt, category, tags, image_url, read_time, published_at`
	promptColumns  = `id, title, description, prompt_text, category, tags, likes, views, created_at`
	useCaseColumns = `id, slug, title, description, image_url, technologies`
)

// ContentStore keeps the content collections. Listing order is the
// authoring order recorded in the position column.
type ContentStore struct {
	db *sqlx.DB
}

func NewContentStore(db *sqlx.DB) *ContentStore {
	return &ContentStore{db: db}
}

func (s *ContentStore) ListPosts(ctx context.Context) ([]domain.BlogPost, error) {
	var rows []postRow
	query := `SELECT ` + postColumns + ` FROM blog_posts ORDER BY position`
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query); err != nil {
		return nil, err
	}
	return mapRows(rows, postRow.toDomain), nil
}

func (s *ContentStore) GetPost(ctx context.Context, key string) (*domain.BlogPost, error) {
	var row postRow
	query := `SELECT ` + postColumns + ` FROM blog_posts
		WHERE id = $1 OR (slug <> '' AND slug = $1)
		ORDER BY position LIMIT 1`
	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, key); err != nil {
		return nil, notFound(err, domain.KindBlog, key)
	}
	post := row.toDomain()
	return &post, nil
}

func (s *ContentStore) ListPrompts(ctx context.Context) ([]domain.Prompt, error) {
	var rows []promptRow
	query := `SELECT ` + promptColumns + ` FROM prompts ORDER BY position`
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query); err != nil {
		return nil, err
	}
	return mapRows(rows, promptRow.toDomain), nil
}

func (s *ContentStore) GetPrompt(ctx context.Context, id string) (*domain.Prompt, error) {
	var row promptRow
	query := `SELECT ` + promptColumns + ` FROM prompts WHERE id = $1`
	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, id); err != nil {
		return nil, notFound(err, domain.KindPrompt, id)
	}
	prompt := row.toDomain()
	return &prompt, nil
}

func (s *ContentStore) ListUseCases(ctx context.Context) ([]domain.UseCase, error) {
	var rows []useCaseRow
	query := `SELECT ` + useCaseColumns + ` FROM use_cases ORDER BY position`
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query); err != nil {
		return nil, err
	}
	return mapRows(rows, useCaseRow.toDomain), nil
}

func (s *ContentStore) GetUseCase(ctx context.Context, key string) (*domain.UseCase, error) {
	var row useCaseRow
	query := `SELECT ` + useCaseColumns + ` FROM use_cases
		WHERE id = $1 OR (slug <> '' AND slug = $1)
		ORDER BY position LIMIT 1`
	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, key); err != nil {
		return nil, notFound(err, domain.KindUseCase, key)
	}
	useCase := row.toDomain()
	return &useCase, nil
}

func (s *ContentStore) Categories(ctx context.Context, kind domain.Kind) ([]string, error) {
	var names []string
	query := `SELECT name FROM categories WHERE kind = $1 ORDER BY position`
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &names, query, string(kind)); err != nil {
		return nil, err
	}
	return names, nil
}

func (s *ContentStore) IncrementLikes(ctx context.Context, id string) (*domain.Prompt, error) {
	return s.bump(ctx, id, `UPDATE prompts SET likes = likes + 1 WHERE id = $1 RETURNING `+promptColumns)
}

func (s *ContentStore) IncrementViews(ctx context.Context, id string) (*domain.Prompt, error) {
	return s.bump(ctx, id, `UPDATE prompts SET views = views + 1 WHERE id = $1 RETURNING `+promptColumns)
}

func (s *ContentStore) bump(ctx context.Context, id, query string) (*domain.Prompt, error) {
	var row promptRow
	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, id); err != nil {
		return nil, notFound(err, domain.KindPrompt, id)
	}
	prompt := row.toDomain()
	return &prompt, nil
}

// UpsertPosts writes posts in order and removes posts absent from the batch.
func (s *ContentStore) UpsertPosts(ctx context.Context, posts []domain.BlogPost) error {
	exec := GetExecutor(ctx, s.db)
	if len(posts) > 0 {
		args := make([]interface{}, 0, len(posts)*10)
		for i, p := range posts {
			args = append(args, p.ID, p.Slug, p.Title, p.Excerpt, p.Category,
				pq.Array(nonNil(p.Tags)), p.ImageURL, p.ReadTime, p.PublishedAt, i)
		}
		query := `INSERT INTO blog_posts (` + postColumns + `, position) VALUES ` + valuesList(len(posts), 10) + `
			ON CONFLICT (id) DO UPDATE SET
				slug = EXCLUDED.slug,
				title = EXCLUDED.title,
				excerpt = EXCLUDED.excerpt,
				category = EXCLUDED.category,
				tags = EXCLUDED.tags,
				image_url = EXCLUDED.image_url,
				read_time = EXCLUDED.read_time,
				published_at = EXCLUDED.published_at,
				position = EXCLUDED.position`
		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return deleteMissing(ctx, exec, "blog_posts", ids(posts))
}

// UpsertPrompts writes prompts in order. Counters of existing prompts are
// kept; the dataset's counters only seed new rows. Undated prompts are stored
// with a NULL created_at so newest-first ordering falls back to the id.
func (s *ContentStore) UpsertPrompts(ctx context.Context, prompts []domain.Prompt) error {
	exec := GetExecutor(ctx, s.db)
	if len(prompts) > 0 {
		args := make([]interface{}, 0, len(prompts)*10)
		for i, p := range prompts {
			createdAt := pq.NullTime{Time: p.CreatedAt, Valid: !p.CreatedAt.IsZero()}
			args = append(args, p.ID, p.Title, p.Description, p.PromptText, p.Category,
				pq.Array(nonNil(p.Tags)), p.Metrics.Likes, p.Metrics.Views, createdAt, i)
		}
		query := `INSERT INTO prompts (` + promptColumns + `, position) VALUES ` + valuesList(len(prompts), 10) + `
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				prompt_text = EXCLUDED.prompt_text,
				category = EXCLUDED.category,
				tags = EXCLUDED.tags,
				created_at = EXCLUDED.created_at,
				position = EXCLUDED.position`
		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return deleteMissing(ctx, exec, "prompts", ids(prompts))
}

func (s *ContentStore) UpsertUseCases(ctx context.Context, useCases []domain.UseCase) error {
	exec := GetExecutor(ctx, s.db)
	if len(useCases) > 0 {
		args := make([]interface{}, 0, len(useCases)*7)
		for i, u := range useCases {
			args = append(args, u.ID, u.Slug, u.Title, u.Description, u.ImageURL,
				pq.Array(nonNil(u.Technologies)), i)
		}
		query := `INSERT INTO use_cases (` + useCaseColumns + `, position) VALUES ` + valuesList(len(useCases), 7) + `
			ON CONFLICT (id) DO UPDATE SET
				slug = EXCLUDED.slug,
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				image_url = EXCLUDED.image_url,
				technologies = EXCLUDED.technologies,
				position = EXCLUDED.position`
		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return deleteMissing(ctx, exec, "use_cases", ids(useCases))
}

// deleteMissing removes rows whose id is not in keep. table is always a
// constant from this package.
func deleteMissing(ctx context.Context, exec sqlx.ExtContext, table string, keep []string) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM `+table+` WHERE id <> ALL($1)`, pq.Array(keep))
	return err
}

func ids[T domain.Searchable](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ItemID()
	}
	return out
}

func mapRows[R, T any](rows []R, fn func(R) T) []T {
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = fn(r)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func notFound(err error, kind domain.Kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(kind, id)
	}
	return err
}
