package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"genai_portfolio/internal/domain"
	"genai_portfolio/internal/listing"
)

type ContentService interface {
	ListPosts(ctx context.Context, query domain.QuerySpec) (listing.Result[domain.BlogPost], error)
	GetPost(ctx context.Context, key string) (*domain.BlogPost, error)
	ListPrompts(ctx context.Context, query domain.QuerySpec) (listing.Result[domain.Prompt], error)
	GetPrompt(ctx context.Context, id string) (*domain.Prompt, error)
	LikePrompt(ctx context.Context, id, session string) (*domain.Prompt, bool, error)
	RelatedPrompts(ctx context.Context, id string, limit int) ([]domain.Prompt, error)
	ListUseCases(ctx context.Context, query domain.QuerySpec) (listing.Result[domain.UseCase], error)
	GetUseCase(ctx context.Context, key string) (*domain.UseCase, error)
	Categories(ctx context.Context, kind domain.Kind) ([]string, error)
}

type ContentHandler struct {
	content ContentService
	metrics *Metrics
	logger  *slog.Logger
}

func NewContentHandler(content ContentService, metrics *Metrics, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		content: content,
		metrics: metrics,
		logger:  logger.With("handler", "content"),
	}
}

// querySpec reads q, category and sort from the query string.
func querySpec(c *gin.Context) (domain.QuerySpec, error) {
	sort, err := domain.ParseSortKey(c.Query("sort"))
	if err != nil {
		return domain.QuerySpec{}, err
	}
	query := domain.QuerySpec{
		SearchText: c.Query("q"),
		Category:   c.DefaultQuery("category", domain.AllCategories),
		Sort:       sort,
	}
	return query, nil
}

func (h *ContentHandler) ListPosts(c *gin.Context) {
	query, err := querySpec(c)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	res, err := h.content.ListPosts(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) GetPost(c *gin.Context) {
	post, err := h.content.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Blog post not found")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *ContentHandler) ListPrompts(c *gin.Context) {
	query, err := querySpec(c)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	res, err := h.content.ListPrompts(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) GetPrompt(c *gin.Context) {
	prompt, err := h.content.GetPrompt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Prompt not found")
		return
	}
	c.JSON(http.StatusOK, prompt)
}

func (h *ContentHandler) RelatedPrompts(c *gin.Context) {
	limit := listing.DefaultRelatedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	related, err := h.content.RelatedPrompts(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, h.logger, err, "Prompt not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": related})
}

func (h *ContentHandler) LikePrompt(c *gin.Context) {
	prompt, liked, err := h.content.LikePrompt(c.Request.Context(), c.Param("id"), c.GetHeader(domain.SessionHeader))
	if err != nil {
		respondError(c, h.logger, err, "Prompt not found")
		return
	}
	if liked {
		h.metrics.PromptLikes.Inc()
	}
	c.JSON(http.StatusOK, domain.LikeResult{Prompt: *prompt, Liked: liked})
}

func (h *ContentHandler) ListUseCases(c *gin.Context) {
	query, err := querySpec(c)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	res, err := h.content.ListUseCases(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) GetUseCase(c *gin.Context) {
	useCase, err := h.content.GetUseCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Use case not found")
		return
	}
	c.JSON(http.StatusOK, useCase)
}

// Categories returns the filter values of kind, "All" first.
func (h *ContentHandler) Categories(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		names, err := h.content.Categories(c.Request.Context(), kind)
		if err != nil {
			respondError(c, h.logger, err, "")
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": names})
	}
}
