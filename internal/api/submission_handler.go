package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"genai_portfolio/internal/domain"
)

type SubmissionService interface {
	Subscribe(ctx context.Context, email string) (*domain.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
	ListSubscribers(ctx context.Context, activeOnly bool) ([]domain.Subscriber, error)
	SubmitContact(ctx context.Context, form domain.ContactForm) (*domain.ContactSubmission, error)
	ListContacts(ctx context.Context, status domain.ContactStatus) ([]domain.ContactSubmission, error)
	UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.ContactSubmission, error)
}

type SubmissionHandler struct {
	submissions SubmissionService
	metrics     *Metrics
	logger      *slog.Logger
}

func NewSubmissionHandler(submissions SubmissionService, metrics *Metrics, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		metrics:     metrics,
		logger:      logger.With("handler", "submission"),
	}
}

type emailRequest struct {
	Email string `json:"email"`
}

type statusRequest struct {
	Status domain.ContactStatus `json:"status"`
}

const msgInvalidBody = "invalid request body"

func (h *SubmissionHandler) Subscribe(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	sub, err := h.submissions.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		h.metrics.Submissions.WithLabelValues("newsletter", "error").Inc()
		respondError(c, h.logger, err, "")
		return
	}
	h.metrics.Submissions.WithLabelValues("newsletter", "ok").Inc()
	c.JSON(http.StatusCreated, sub)
}

func (h *SubmissionHandler) Unsubscribe(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	if err := h.submissions.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, err, "Email not found in our subscriber list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully unsubscribed"})
}

func (h *SubmissionHandler) ListSubscribers(c *gin.Context) {
	activeOnly, err := strconv.ParseBool(c.DefaultQuery("active_only", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "active_only must be true or false"})
		return
	}

	subs, err := h.submissions.ListSubscribers(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *SubmissionHandler) SubmitContact(c *gin.Context) {
	var form domain.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	sub, err := h.submissions.SubmitContact(c.Request.Context(), form)
	if err != nil {
		h.metrics.Submissions.WithLabelValues("contact", "error").Inc()
		respondError(c, h.logger, err, "")
		return
	}
	h.metrics.Submissions.WithLabelValues("contact", "ok").Inc()
	c.JSON(http.StatusCreated, sub)
}

func (h *SubmissionHandler) ListContacts(c *gin.Context) {
	subs, err := h.submissions.ListContacts(c.Request.Context(), domain.ContactStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, subs)
}

// UpdateContactStatus takes the new status from the status query parameter
// or, when absent, from a JSON body.
func (h *SubmissionHandler) UpdateContactStatus(c *gin.Context) {
	status := domain.ContactStatus(c.Query("status"))
	if status == "" {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
			return
		}
		status = req.Status
	}

	sub, err := h.submissions.UpdateContactStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respondError(c, h.logger, err, "Submission not found")
		return
	}
	c.JSON(http.StatusOK, sub)
}
