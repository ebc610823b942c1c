package domain

import "time"

type EventAction string

const (
	ActionSubscribed     EventAction = "newsletter.subscribed"
	ActionUnsubscribed   EventAction = "newsletter.unsubscribed"
	ActionContactCreated EventAction = "contact.submitted"
	ActionPromptLiked    EventAction = "prompt.liked"
)

// Event is emitted after a successful write so downstream consumers (mailer,
// CRM, analytics) can react.
type Event struct {
	Action    EventAction
	SubjectID string
	Payload   any
}

// RefreshStats holds statistics about one content snapshot refresh.
type RefreshStats struct {
	Posts    int
	Prompts  int
	UseCases int
	Duration time.Duration
}

// SeedState records the last dataset written to persistent storage.
type SeedState struct {
	Dataset  string    `db:"dataset"`
	Checksum string    `db:"checksum"`
	Items    int       `db:"items"`
	SeededAt time.Time `db:"seeded_at"`
}

// SeedStats holds statistics about one seeding run.
type SeedStats struct {
	Dataset  string
	Items    int
	Skipped  bool
	Duration time.Duration
}
