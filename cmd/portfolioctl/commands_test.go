package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai_portfolio/internal/domain"
)

func run(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--base-url", server.URL + "/api"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPromptsCommand_RendersTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/prompts", r.URL.Path)
		assert.Equal(t, "popular", r.URL.Query().Get("sort"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []domain.Prompt{{ID: "6", Title: "Image Prompt Composer", Category: "AI Art", Metrics: domain.Metrics{Likes: 92, Views: 763}}},
			"total": 6,
		})
	}))
	defer server.Close()

	out, err := run(t, server, "prompts", "--sort", "mostLiked")
	require.NoError(t, err)
	assert.Contains(t, out, "Image Prompt Composer")
	assert.Contains(t, out, "1 of 6")
	assert.NotContains(t, out, "1 OF 6")
}

func TestPromptsCommand_RejectsUnknownSort(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := run(t, server, "prompts", "--sort", "random")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLikeCommand_GeneratesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get(domain.SessionHeader))
		_ = json.NewEncoder(w).Encode(domain.LikeResult{Prompt: domain.Prompt{ID: "1", Title: "Outline", Metrics: domain.Metrics{Likes: 43}}, Liked: true})
	}))
	defer server.Close()

	out, err := run(t, server, "like", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `Liked "Outline" (43 likes)`)
}

func TestSubscribeCommand_ShowsServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Please enter a valid email address"})
	}))
	defer server.Close()

	_, err := run(t, server, "subscribe", "nope")
	require.Error(t, err)
	assert.Equal(t, "Please enter a valid email address", err.Error())
}

func TestContactCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var form domain.ContactForm
		require.NoError(t, json.NewDecoder(r.Body).Decode(&form))
		assert.Equal(t, "Ann", form.Name)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.ContactSubmission{ID: "c-1", Name: form.Name, Status: domain.ContactNew})
	}))
	defer server.Close()

	out, err := run(t, server, "contact", "--name", "Ann", "--email", "ann@example.com", "--message", "Hi")
	require.NoError(t, err)
	assert.Contains(t, out, "reference c-1")
}
