//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"genai_portfolio/internal/domain"
	"genai_portfolio/internal/listing"
	"genai_portfolio/internal/seed"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_content.up.sql"),
			filepath.Join(migrationsPath, "002_create_submissions.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	for _, table := range []string{"blog_posts", "prompts", "use_cases", "categories", "seed_state", "newsletter_subscribers", "contact_submissions"} {
		_, _ = s.db.ExecContext(s.ctx, "DELETE FROM "+table)
	}
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) loadDefault() (*ContentStore, *seed.Dataset) {
	ds, err := seed.Default()
	s.Require().NoError(err)

	store := NewContentStore(s.db)
	s.Require().NoError(store.UpsertPosts(s.ctx, ds.Blog))
	s.Require().NoError(store.UpsertPrompts(s.ctx, ds.Prompts))
	s.Require().NoError(store.UpsertUseCases(s.ctx, ds.UseCases))
	return store, ds
}

func (s *PostgresIntegrationSuite) TestContentStore_ListKeepsAuthoringOrder() {
	store, ds := s.loadDefault()

	posts, err := store.ListPosts(s.ctx)
	s.NoError(err)
	s.Require().Len(posts, len(ds.Blog))
	for i := range posts {
		s.Equal(ds.Blog[i].ID, posts[i].ID)
		s.Equal(ds.Blog[i].Tags, posts[i].Tags)
	}

	prompts, err := store.ListPrompts(s.ctx)
	s.NoError(err)
	s.Require().Len(prompts, len(ds.Prompts))
	s.Equal(ds.Prompts[0].Metrics, prompts[0].Metrics)

	useCases, err := store.ListUseCases(s.ctx)
	s.NoError(err)
	s.Require().Len(useCases, len(ds.UseCases))
	s.Equal(ds.UseCases[0].Technologies, useCases[0].Technologies)
}

func (s *PostgresIntegrationSuite) TestContentStore_GetByIDOrSlug() {
	store, ds := s.loadDefault()
	want := ds.Blog[1]

	byID, err := store.GetPost(s.ctx, want.ID)
	s.NoError(err)
	s.Equal(want.Title, byID.Title)

	if want.Slug != "" {
		bySlug, err := store.GetPost(s.ctx, want.Slug)
		s.NoError(err)
		s.Equal(want.ID, bySlug.ID)
	}

	_, err = store.GetPost(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = store.GetUseCase(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestContentStore_IncrementCounters() {
	store, ds := s.loadDefault()
	id := ds.Prompts[0].ID
	before := ds.Prompts[0].Metrics

	liked, err := store.IncrementLikes(s.ctx, id)
	s.NoError(err)
	s.Equal(before.Likes+1, liked.Metrics.Likes)

	viewed, err := store.IncrementViews(s.ctx, id)
	s.NoError(err)
	s.Equal(before.Views+1, viewed.Metrics.Views)
	s.Equal(before.Likes+1, viewed.Metrics.Likes)

	_, err = store.IncrementLikes(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestContentStore_ReseedKeepsCounters() {
	store, ds := s.loadDefault()
	id := ds.Prompts[0].ID

	_, err := store.IncrementLikes(s.ctx, id)
	s.NoError(err)

	s.NoError(store.UpsertPrompts(s.ctx, ds.Prompts))

	prompt, err := store.GetPrompt(s.ctx, id)
	s.NoError(err)
	s.Equal(ds.Prompts[0].Metrics.Likes+1, prompt.Metrics.Likes)
}

func (s *PostgresIntegrationSuite) TestContentStore_UndatedPromptsSortNewestByID() {
	store := NewContentStore(s.db)
	dated := domain.Prompt{ID: "1", Title: "Dated", Category: "Design", CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
	first := domain.Prompt{ID: "2", Title: "Undated A", Category: "Design"}
	second := domain.Prompt{ID: "3", Title: "Undated B", Category: "Design"}
	newest := domain.QuerySpec{Sort: domain.SortNewest}

	s.Require().NoError(store.UpsertPrompts(s.ctx, []domain.Prompt{second, dated, first}))
	prompts, err := store.ListPrompts(s.ctx)
	s.Require().NoError(err)
	s.True(prompts[0].CreatedAt.IsZero())
	s.Equal([]string{"1", "3", "2"}, promptIDs(listing.Apply(prompts, newest)))

	s.Require().NoError(store.UpsertPrompts(s.ctx, []domain.Prompt{first, second, dated}))
	prompts, err = store.ListPrompts(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"1", "3", "2"}, promptIDs(listing.Apply(prompts, newest)))
}

func promptIDs(prompts []domain.Prompt) []string {
	out := make([]string, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, p.ID)
	}
	return out
}

func (s *PostgresIntegrationSuite) TestContentStore_UpsertRemovesMissing() {
	store, ds := s.loadDefault()

	s.NoError(store.UpsertUseCases(s.ctx, ds.UseCases[:2]))

	useCases, err := store.ListUseCases(s.ctx)
	s.NoError(err)
	s.Len(useCases, 2)
}

func (s *PostgresIntegrationSuite) TestCategoryStore_ReplaceKeepsOrder() {
	categories := NewCategoryStore(s.db)
	content := NewContentStore(s.db)

	s.NoError(categories.Replace(s.ctx, domain.KindBlog, []string{"Ethics", "AI Research"}))
	s.NoError(categories.Replace(s.ctx, domain.KindBlog, []string{"Tutorials", "Ethics"}))

	names, err := content.Categories(s.ctx, domain.KindBlog)
	s.NoError(err)
	s.Equal([]string{"Tutorials", "Ethics"}, names)

	names, err = categories.List(s.ctx, domain.KindPrompt)
	s.NoError(err)
	s.Empty(names)
}

func (s *PostgresIntegrationSuite) TestSeedStateStore_GetNew() {
	store := NewSeedStateStore(s.db)

	state, err := store.Get(s.ctx, "content")
	s.NoError(err)
	s.Equal("content", state.Dataset)
	s.Empty(state.Checksum)
	s.True(state.SeededAt.IsZero())
}

func (s *PostgresIntegrationSuite) TestSeedStateStore_UpdateAndGet() {
	store := NewSeedStateStore(s.db)
	now := time.Now().Truncate(time.Microsecond)

	s.NoError(store.Update(s.ctx, &domain.SeedState{Dataset: "content", Checksum: "abc", Items: 22, SeededAt: now}))
	s.NoError(store.Update(s.ctx, &domain.SeedState{Dataset: "content", Checksum: "def", Items: 23, SeededAt: now}))

	state, err := store.Get(s.ctx, "content")
	s.NoError(err)
	s.Equal("def", state.Checksum)
	s.Equal(23, state.Items)
	s.WithinDuration(now, state.SeededAt, time.Second)
}

func (s *PostgresIntegrationSuite) TestSubscriberStore_Lifecycle() {
	store := NewSubscriberStore(s.db)
	now := time.Now().Truncate(time.Microsecond)

	_, err := store.GetByEmail(s.ctx, "a@example.com")
	s.ErrorIs(err, domain.ErrNotFound)

	sub := &domain.Subscriber{ID: uuid.NewString(), Email: "a@example.com", IsActive: true, CreatedAt: now, UpdatedAt: now}
	s.NoError(store.Create(s.ctx, sub))
	s.Error(store.Create(s.ctx, &domain.Subscriber{ID: uuid.NewString(), Email: "a@example.com", CreatedAt: now, UpdatedAt: now}))

	updated, err := store.SetActive(s.ctx, "a@example.com", false)
	s.NoError(err)
	s.False(updated.IsActive)
	s.Equal(sub.ID, updated.ID)

	active, err := store.List(s.ctx, true)
	s.NoError(err)
	s.Empty(active)

	all, err := store.List(s.ctx, false)
	s.NoError(err)
	s.Len(all, 1)

	_, err = store.SetActive(s.ctx, "b@example.com", true)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestContactStore_ListAndUpdate() {
	store := NewContactStore(s.db)
	now := time.Now().Truncate(time.Microsecond)
	subject := "Hello"

	older := &domain.ContactSubmission{ID: uuid.NewString(), Name: "Ann", Email: "ann@example.com", Subject: &subject, Message: "Hi", Status: domain.ContactNew, CreatedAt: now.Add(-time.Hour)}
	newer := &domain.ContactSubmission{ID: uuid.NewString(), Name: "Bob", Email: "bob@example.com", Message: "Yo", Status: domain.ContactNew, CreatedAt: now}
	s.NoError(store.Create(s.ctx, older))
	s.NoError(store.Create(s.ctx, newer))

	subs, err := store.List(s.ctx, "")
	s.NoError(err)
	s.Require().Len(subs, 2)
	s.Equal(newer.ID, subs[0].ID)
	s.Nil(subs[0].Subject)
	s.Equal("Hello", *subs[1].Subject)

	updated, err := store.UpdateStatus(s.ctx, older.ID, domain.ContactRead)
	s.NoError(err)
	s.Equal(domain.ContactRead, updated.Status)

	read, err := store.List(s.ctx, domain.ContactRead)
	s.NoError(err)
	s.Require().Len(read, 1)
	s.Equal(older.ID, read[0].ID)

	_, err = store.UpdateStatus(s.ctx, uuid.NewString(), domain.ContactRead)
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = store.UpdateStatus(s.ctx, "not-a-uuid", domain.ContactRead)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	tm := NewTransactionManager(s.db)
	categories := NewCategoryStore(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		return categories.Replace(ctx, domain.KindPrompt, []string{"Design"})
	})
	s.NoError(err)

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM categories WHERE kind = $1", "prompts")
	s.NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestTransaction_Rollback() {
	tm := NewTransactionManager(s.db)
	categories := NewCategoryStore(s.db)

	s.NoError(categories.Replace(s.ctx, domain.KindPrompt, []string{"Design"}))

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := categories.Replace(ctx, domain.KindPrompt, []string{"Education", "AI Art"}); err != nil {
			return err
		}
		return context.Canceled
	})
	s.ErrorIs(err, context.Canceled)

	names, err := categories.List(s.ctx, domain.KindPrompt)
	s.NoError(err)
	s.Equal([]string{"Design"}, names)
}

func (s *PostgresIntegrationSuite) TestTransaction_NestedCallJoinsOuter() {
	tm := NewTransactionManager(s.db)
	categories := NewCategoryStore(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		outer := GetTxFromContext(ctx)
		s.Require().NotNil(outer)

		if err := tm.WithTransaction(ctx, func(inner context.Context) error {
			s.Same(outer, GetTxFromContext(inner))
			return categories.Replace(inner, domain.KindPrompt, []string{"Design"})
		}); err != nil {
			return err
		}
		return context.Canceled
	})
	s.ErrorIs(err, context.Canceled)

	names, err := categories.List(s.ctx, domain.KindPrompt)
	s.NoError(err)
	s.Empty(names)
}

func (s *PostgresIntegrationSuite) TestTransaction_BeginErrorIsWrapped() {
	tm := NewTransactionManager(s.db)
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	called := false
	err := tm.WithTransaction(ctx, func(context.Context) error {
		called = true
		return nil
	})
	s.ErrorContains(err, "begin transaction")
	s.False(called)
}
