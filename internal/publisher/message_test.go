package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai_portfolio/internal/domain"
)

func TestNewMessage_EncodesPayload(t *testing.T) {
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	event := &domain.Event{
		Action:    domain.ActionSubscribed,
		SubjectID: "sub-1",
		Payload:   domain.Subscriber{ID: "sub-1", Email: "a@example.com", IsActive: true},
	}

	msg, err := newMessage(event, now)
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, domain.ActionSubscribed, msg.Action)
	assert.Equal(t, "sub-1", msg.SubjectID)
	assert.Equal(t, time.UTC, msg.Timestamp.Location())

	var sub domain.Subscriber
	require.NoError(t, json.Unmarshal(msg.Payload, &sub))
	assert.Equal(t, "a@example.com", sub.Email)
}

func TestNewMessage_WithoutPayload(t *testing.T) {
	msg, err := newMessage(&domain.Event{Action: domain.ActionPromptLiked, SubjectID: "3"}, time.Now())
	require.NoError(t, err)
	assert.Nil(t, msg.Payload)

	body, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "payload")
}

func TestNewMessage_RejectsUnencodablePayload(t *testing.T) {
	_, err := newMessage(&domain.Event{Action: domain.ActionPromptLiked, Payload: make(chan int)}, time.Now())
	assert.Error(t, err)
}
