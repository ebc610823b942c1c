package apiclient_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"genai_portfolio/internal/api"
	"genai_portfolio/internal/apiclient"
	"genai_portfolio/internal/domain"
	"genai_portfolio/internal/seed"
	"genai_portfolio/internal/service"
	"genai_portfolio/internal/storage/memory"
)

func newPortfolioServer(t *testing.T) *apiclient.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	ds, err := seed.Default()
	require.NoError(t, err)

	router := api.NewRouter(api.Deps{
		Content: service.NewContentService(memory.NewContentStore(ds), nil, service.NewLikeGuard(time.Hour, time.Hour), logger),
		Submissions: service.NewSubmissionService(
			memory.NewSubscriberStore(),
			memory.NewContactStore(),
			memory.NewTransactionManager(),
			nil,
			logger,
		),
		Metrics: api.NewMetrics(),
		Limiter: api.NewIPRateLimiter(rate.Inf, 1),
		Logger:  logger,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return apiclient.New(apiclient.Config{
		BaseURL:        server.URL + "/api",
		Timeout:        time.Second,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}, logger)
}

func TestClient_LikeAgainstServer(t *testing.T) {
	client := newPortfolioServer(t)
	ctx := context.Background()

	first, err := client.LikeItem(ctx, "1", "session-1")
	require.NoError(t, err)
	assert.True(t, first.Liked)

	second, err := client.LikeItem(ctx, "1", "session-1")
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.Equal(t, first.Prompt.Metrics.Likes, second.Prompt.Metrics.Likes)
}

func TestClient_GetPromptCountsOneViewPerCall(t *testing.T) {
	client := newPortfolioServer(t)
	ctx := context.Background()

	before, err := client.GetPrompt(ctx, "1")
	require.NoError(t, err)
	after, err := client.GetPrompt(ctx, "1")
	require.NoError(t, err)

	assert.Equal(t, before.Metrics.Views+1, after.Metrics.Views)
}

func TestClient_ListPromptsAgainstServer(t *testing.T) {
	client := newPortfolioServer(t)

	res, err := client.ListPrompts(context.Background(), domain.QuerySpec{Sort: domain.SortPopular})
	require.NoError(t, err)
	require.NotEmpty(t, res.Items)
	for i := 1; i < len(res.Items); i++ {
		assert.GreaterOrEqual(t, res.Items[i-1].Metrics.Likes, res.Items[i].Metrics.Likes)
	}
}
