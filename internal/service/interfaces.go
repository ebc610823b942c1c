package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"genai_portfolio/internal/domain"
)

// ContentRepository is the read side of the content collections plus the
// two engagement counters. Lookups by key accept an id or a slug.
type ContentRepository interface {
	ListPosts(ctx context.Context) ([]domain.BlogPost, error)
	GetPost(ctx context.Context, key string) (*domain.BlogPost, error)
	ListPrompts(ctx context.Context) ([]domain.Prompt, error)
	GetPrompt(ctx context.Context, id string) (*domain.Prompt, error)
	ListUseCases(ctx context.Context) ([]domain.UseCase, error)
	GetUseCase(ctx context.Context, key string) (*domain.UseCase, error)
	Categories(ctx context.Context, kind domain.Kind) ([]string, error)
	IncrementLikes(ctx context.Context, id string) (*domain.Prompt, error)
	IncrementViews(ctx context.Context, id string) (*domain.Prompt, error)
}

// ContentWriter loads a dataset into persistent storage.
type ContentWriter interface {
	UpsertPosts(ctx context.Context, posts []domain.BlogPost) error
	UpsertPrompts(ctx context.Context, prompts []domain.Prompt) error
	UpsertUseCases(ctx context.Context, useCases []domain.UseCase) error
}

type CategoryStore interface {
	Replace(ctx context.Context, kind domain.Kind, names []string) error
}

type SeedStateStore interface {
	Get(ctx context.Context, dataset string) (*domain.SeedState, error)
	Update(ctx context.Context, state *domain.SeedState) error
}

type SubscriberStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	Create(ctx context.Context, sub *domain.Subscriber) error
	SetActive(ctx context.Context, email string, active bool) (*domain.Subscriber, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Subscriber, error)
}

type ContactStore interface {
	Create(ctx context.Context, sub *domain.ContactSubmission) error
	List(ctx context.Context, status domain.ContactStatus) ([]domain.ContactSubmission, error)
	UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.ContactSubmission, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.Event) error
	Close() error
}
