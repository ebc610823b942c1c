// Package apiclient calls the portfolio HTTP API. Listings are retried with
// exponential backoff. Requests with server-side effects (form submissions,
// likes and prompt detail, which counts a view) are sent exactly once.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"genai_portfolio/internal/domain"
	"genai_portfolio/internal/listing"
)

const userAgent = "PortfolioClient/1.0"

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		maxAttempts:    maxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("component", "apiclient"),
	}
}

// APIError is a non-2xx response. Message is the server's user-facing
// error text when it sent one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status: %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

func (c *Client) SubscribeToNewsletter(ctx context.Context, email string) (*domain.Subscriber, error) {
	var sub domain.Subscriber
	body := map[string]string{"email": email}
	if err := c.send(ctx, http.MethodPost, "/newsletter/subscribe", body, nil, &sub); err != nil {
		return nil, fmt.Errorf("subscribe to newsletter: %w", err)
	}
	return &sub, nil
}

func (c *Client) UnsubscribeFromNewsletter(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	if err := c.send(ctx, http.MethodPost, "/newsletter/unsubscribe", body, nil, nil); err != nil {
		return fmt.Errorf("unsubscribe from newsletter: %w", err)
	}
	return nil
}

func (c *Client) SubmitContactForm(ctx context.Context, form domain.ContactForm) (*domain.ContactSubmission, error) {
	var sub domain.ContactSubmission
	if err := c.send(ctx, http.MethodPost, "/contact/submit", form, nil, &sub); err != nil {
		return nil, fmt.Errorf("submit contact form: %w", err)
	}
	return &sub, nil
}

func (c *Client) LikeItem(ctx context.Context, id, session string) (*domain.LikeResult, error) {
	var res domain.LikeResult
	header := http.Header{}
	header.Set(domain.SessionHeader, session)
	path := "/prompts/" + url.PathEscape(id) + "/like"
	if err := c.send(ctx, http.MethodPost, path, nil, header, &res); err != nil {
		return nil, fmt.Errorf("like item: %w", err)
	}
	return &res, nil
}

func (c *Client) ListPrompts(ctx context.Context, query domain.QuerySpec) (*listing.Result[domain.Prompt], error) {
	params := url.Values{}
	if query.SearchText != "" {
		params.Set("q", query.SearchText)
	}
	if !query.AllSelected() {
		params.Set("category", query.Category)
	}
	if query.Sort != domain.SortNone {
		params.Set("sort", string(query.Sort))
	}

	path := "/prompts"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var res listing.Result[domain.Prompt]
	if err := c.get(ctx, path, &res); err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return &res, nil
}

// GetPrompt is not retried: every fetch the server handles counts a view.
func (c *Client) GetPrompt(ctx context.Context, id string) (*domain.Prompt, error) {
	var prompt domain.Prompt
	if err := c.send(ctx, http.MethodGet, "/prompts/"+url.PathEscape(id), nil, nil, &prompt); err != nil {
		return nil, fmt.Errorf("get prompt: %w", err)
	}
	return &prompt, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	var err error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err = c.send(ctx, http.MethodGet, path, nil, nil, out)
		if err == nil {
			return nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.retryable() {
			return err
		}

		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"path", path,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("after %d attempts: %w", c.maxAttempts, err)
}

func (c *Client) send(ctx context.Context, method, path string, in any, header http.Header, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload); err == nil {
		apiErr.Message = payload.Error
	}
	return apiErr
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}
