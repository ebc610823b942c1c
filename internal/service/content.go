package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"genai_portfolio/internal/domain"
	"genai_portfolio/internal/listing"
)

type ContentService struct {
	repo      ContentRepository
	publisher Publisher
	likes     *LikeGuard
	logger    *slog.Logger
}

// NewContentService wires the content use cases. publisher may be nil.
func NewContentService(repo ContentRepository, publisher Publisher, likes *LikeGuard, logger *slog.Logger) *ContentService {
	return &ContentService{
		repo:      repo,
		publisher: publisher,
		likes:     likes,
		logger:    logger.With("service", "content"),
	}
}

func (s *ContentService) ListPosts(ctx context.Context, query domain.QuerySpec) (listing.Result[domain.BlogPost], error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return listing.Result[domain.BlogPost]{}, fmt.Errorf("list posts: %w", err)
	}
	return listing.Query(posts, query), nil
}

func (s *ContentService) GetPost(ctx context.Context, key string) (*domain.BlogPost, error) {
	post, err := s.repo.GetPost(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *ContentService) ListPrompts(ctx context.Context, query domain.QuerySpec) (listing.Result[domain.Prompt], error) {
	prompts, err := s.repo.ListPrompts(ctx)
	if err != nil {
		return listing.Result[domain.Prompt]{}, fmt.Errorf("list prompts: %w", err)
	}
	return listing.Query(prompts, query), nil
}

// GetPrompt returns a prompt and counts the fetch as a view.
func (s *ContentService) GetPrompt(ctx context.Context, id string) (*domain.Prompt, error) {
	prompt, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get prompt: %w", err)
	}
	return prompt, nil
}

// LikePrompt adds one like from session. A repeated like from the same
// session returns the current prompt with applied set to false.
func (s *ContentService) LikePrompt(ctx context.Context, id, session string) (*domain.Prompt, bool, error) {
	session = strings.TrimSpace(session)
	if session == "" {
		return nil, false, domain.NewValidationError("session", "missing session id")
	}

	if !s.likes.Claim(session, id) {
		prompt, err := s.repo.GetPrompt(ctx, id)
		if err != nil {
			return nil, false, fmt.Errorf("get prompt: %w", err)
		}
		return prompt, false, nil
	}

	prompt, err := s.repo.IncrementLikes(ctx, id)
	if err != nil {
		s.likes.Release(session, id)
		return nil, false, fmt.Errorf("increment likes: %w", err)
	}

	s.logger.Debug("prompt liked", "prompt_id", id, "likes", prompt.Metrics.Likes)
	s.publish(ctx, &domain.Event{
		Action:    domain.ActionPromptLiked,
		SubjectID: id,
		Payload:   prompt.Metrics,
	})

	return prompt, true, nil
}

// RelatedPrompts returns up to limit prompts sharing a category or tag with
// the prompt id.
func (s *ContentService) RelatedPrompts(ctx context.Context, id string, limit int) ([]domain.Prompt, error) {
	prompts, err := s.repo.ListPrompts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}

	current, ok := listing.Find(prompts, id)
	if !ok {
		return nil, domain.NotFound(domain.KindPrompt, id)
	}
	return listing.Related(prompts, current, limit), nil
}

func (s *ContentService) ListUseCases(ctx context.Context, query domain.QuerySpec) (listing.Result[domain.UseCase], error) {
	useCases, err := s.repo.ListUseCases(ctx)
	if err != nil {
		return listing.Result[domain.UseCase]{}, fmt.Errorf("list use cases: %w", err)
	}
	return listing.Query(useCases, query), nil
}

func (s *ContentService) GetUseCase(ctx context.Context, key string) (*domain.UseCase, error) {
	useCase, err := s.repo.GetUseCase(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get use case: %w", err)
	}
	return useCase, nil
}

// Categories returns the filter values for kind with "All" first.
func (s *ContentService) Categories(ctx context.Context, kind domain.Kind) ([]string, error) {
	names, err := s.repo.Categories(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s categories: %w", kind, err)
	}
	return listing.NewCategorySet(names...).Values(), nil
}

func (s *ContentService) publish(ctx context.Context, event *domain.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "action", event.Action, "subject_id", event.SubjectID, "error", err)
	}
}
