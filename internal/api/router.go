package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"genai_portfolio/internal/domain"
)

type Deps struct {
	Content     ContentService
	Submissions SubmissionService
	Metrics     *Metrics

	// Limiter throttles the form and like routes.
	Limiter     *IPRateLimiter
	CORSOrigins []string

	// Health reports backend readiness; nil means always healthy.
	Health func(ctx context.Context) error
	Logger *slog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(d.CORSOrigins))
	router.Use(loggingMiddleware(d.Logger))
	router.Use(metricsMiddleware(d.Metrics))

	router.GET("/health", healthHandler(d.Health, d.Logger))
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	content := NewContentHandler(d.Content, d.Metrics, d.Logger)
	submissions := NewSubmissionHandler(d.Submissions, d.Metrics, d.Logger)
	limited := rateLimitMiddleware(d.Limiter, d.Metrics)

	api := router.Group("/api")

	blog := api.Group("/blog")
	blog.GET("", content.ListPosts)
	blog.GET("/categories", content.Categories(domain.KindBlog))
	blog.GET("/:id", content.GetPost)

	prompts := api.Group("/prompts")
	prompts.GET("", content.ListPrompts)
	prompts.GET("/categories", content.Categories(domain.KindPrompt))
	prompts.GET("/:id", content.GetPrompt)
	prompts.GET("/:id/related", content.RelatedPrompts)
	prompts.POST("/:id/like", limited, content.LikePrompt)

	useCases := api.Group("/use-cases")
	useCases.GET("", content.ListUseCases)
	useCases.GET("/categories", content.Categories(domain.KindUseCase))
	useCases.GET("/:id", content.GetUseCase)

	newsletter := api.Group("/newsletter")
	newsletter.POST("/subscribe", limited, submissions.Subscribe)
	newsletter.POST("/unsubscribe", limited, submissions.Unsubscribe)
	newsletter.GET("/subscribers", submissions.ListSubscribers)

	contact := api.Group("/contact")
	contact.POST("/submit", limited, submissions.SubmitContact)
	contact.GET("/submissions", submissions.ListContacts)
	contact.PUT("/submissions/:id/status", submissions.UpdateContactStatus)

	return router
}

func healthHandler(check func(ctx context.Context) error, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				logger.Warn("health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
