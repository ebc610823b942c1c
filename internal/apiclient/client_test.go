package apiclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"genai_portfolio/internal/domain"
)

type ClientTestSuite struct {
	suite.Suite
	server *httptest.Server
	mux    *http.ServeMux
	client *Client
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.client = New(Config{
		BaseURL:        s.server.URL + "/api/",
		Timeout:        time.Second,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}, logger)
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *ClientTestSuite) TestSubscribeToNewsletter() {
	s.mux.HandleFunc("POST /api/newsletter/subscribe", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		s.NoError(json.NewDecoder(r.Body).Decode(&body))
		s.Equal("application/json", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusCreated, domain.Subscriber{ID: "sub-1", Email: body["email"], IsActive: true})
	})

	sub, err := s.client.SubscribeToNewsletter(context.Background(), "a@example.com")
	s.Require().NoError(err)
	s.Equal("a@example.com", sub.Email)
	s.True(sub.IsActive)
}

func (s *ClientTestSuite) TestSubmissionFailureIsNotRetried() {
	var calls atomic.Int32
	s.mux.HandleFunc("POST /api/contact/submit", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Something went wrong. Please try again."})
	})

	_, err := s.client.SubmitContactForm(context.Background(), domain.ContactForm{Name: "Ann", Email: "ann@example.com", Message: "Hi"})

	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusInternalServerError, apiErr.StatusCode)
	s.Equal("Something went wrong. Please try again.", apiErr.Message)
	s.Equal(int32(1), calls.Load())
}

func (s *ClientTestSuite) TestValidationMessageIsSurfaced() {
	s.mux.HandleFunc("POST /api/newsletter/subscribe", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Please enter a valid email address"})
	})

	_, err := s.client.SubscribeToNewsletter(context.Background(), "nope")

	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal("Please enter a valid email address", apiErr.Message)
}

func (s *ClientTestSuite) TestLikeItemSendsSession() {
	s.mux.HandleFunc("POST /api/prompts/{id}/like", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("3", r.PathValue("id"))
		s.Equal("session-1", r.Header.Get(domain.SessionHeader))
		writeJSON(w, http.StatusOK, domain.LikeResult{Prompt: domain.Prompt{ID: "3", Metrics: domain.Metrics{Likes: 57}}, Liked: true})
	})

	res, err := s.client.LikeItem(context.Background(), "3", "session-1")
	s.Require().NoError(err)
	s.True(res.Liked)
	s.Equal(int64(57), res.Prompt.Metrics.Likes)
}

func (s *ClientTestSuite) TestListPromptsEncodesQuery() {
	s.mux.HandleFunc("GET /api/prompts", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("story", r.URL.Query().Get("q"))
		s.Equal("Creative Writing", r.URL.Query().Get("category"))
		s.Equal("popular", r.URL.Query().Get("sort"))
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []domain.Prompt{{ID: "2", Title: "Creative Story Generator"}},
			"total": 6,
			"query": map[string]string{"q": "story", "category": "Creative Writing", "sort": "popular"},
		})
	})

	res, err := s.client.ListPrompts(context.Background(), domain.QuerySpec{SearchText: "story", Category: "Creative Writing", Sort: domain.SortPopular})
	s.Require().NoError(err)
	s.Require().Len(res.Items, 1)
	s.Equal("2", res.Items[0].ID)
	s.Equal(6, res.Total)
	s.Equal(domain.SortPopular, res.Query.Sort)
}

func (s *ClientTestSuite) TestGetRetriesServerErrors() {
	var calls atomic.Int32
	s.mux.HandleFunc("GET /api/prompts", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": []domain.Prompt{{ID: "4"}}, "total": 1})
	})

	res, err := s.client.ListPrompts(context.Background(), domain.QuerySpec{})
	s.Require().NoError(err)
	s.Require().Len(res.Items, 1)
	s.Equal("4", res.Items[0].ID)
	s.Equal(int32(3), calls.Load())
}

func (s *ClientTestSuite) TestGetPromptIsNotRetried() {
	var calls atomic.Int32
	s.mux.HandleFunc("GET /api/prompts/{id}", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := s.client.GetPrompt(context.Background(), "4")

	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusBadGateway, apiErr.StatusCode)
	s.Equal(int32(1), calls.Load())
}

func (s *ClientTestSuite) TestGetGivesUpAfterMaxAttempts() {
	var calls atomic.Int32
	s.mux.HandleFunc("GET /api/prompts", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := s.client.ListPrompts(context.Background(), domain.QuerySpec{})
	s.ErrorContains(err, "after 3 attempts")
	s.Equal(int32(3), calls.Load())
}

func (s *ClientTestSuite) TestGetDoesNotRetryNotFound() {
	var calls atomic.Int32
	s.mux.HandleFunc("GET /api/prompts/{id}", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Prompt not found"})
	})

	_, err := s.client.GetPrompt(context.Background(), "missing")

	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusNotFound, apiErr.StatusCode)
	s.Equal(int32(1), calls.Load())
}

func (s *ClientTestSuite) TestCalculateBackoffIsCapped() {
	c := &Client{initialBackoff: time.Second, maxBackoff: 5 * time.Second}
	s.Equal(time.Second, c.calculateBackoff(1))
	s.Equal(2*time.Second, c.calculateBackoff(2))
	s.Equal(4*time.Second, c.calculateBackoff(3))
	s.Equal(5*time.Second, c.calculateBackoff(4))
}
