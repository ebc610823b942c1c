package domain

import "time"

// Searchable is the capability the listing engine filters on. Each content
// kind decides which of its fields take part in text and category matching.
type Searchable interface {
	ItemID() string
	ItemTitle() string
	ItemExcerpt() string
	// SearchTags returns the tags matched by free-text search, or nil when
	// the kind does not search its tags.
	SearchTags() []string
	// Categories returns the labels matched by the category filter.
	Categories() []string
}

// Sortable is implemented by kinds whose listings support an explicit sort.
type Sortable interface {
	Searchable
	ItemMetrics() Metrics
	ItemDate() time.Time
}

type Metrics struct {
	Likes int64 `json:"likes" yaml:"likes"`
	Views int64 `json:"views" yaml:"views"`
}

type BlogPost struct {
	ID          string    `json:"id" yaml:"id"`
	Slug        string    `json:"slug" yaml:"slug"`
	Title       string    `json:"title" yaml:"title"`
	Excerpt     string    `json:"excerpt" yaml:"excerpt"`
	Category    string    `json:"category" yaml:"category"`
	Tags        []string  `json:"tags" yaml:"tags"`
	ImageURL    string    `json:"image,omitempty" yaml:"image"`
	ReadTime    int       `json:"readTime" yaml:"read_time"`
	PublishedAt time.Time `json:"date" yaml:"date"`
}

func (p BlogPost) ItemID() string { return p.ID }
func (p BlogPost) ItemTitle() string { return p.Title }
func (p BlogPost) ItemExcerpt() string { return p.Excerpt }
func (p BlogPost) SearchTags() []string { return nil }
func (p BlogPost) Categories() []string { return []string{p.Category} }

type Prompt struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	PromptText  string    `json:"promptText" yaml:"prompt_text"`
	Category    string    `json:"category" yaml:"category"`
	Tags        []string  `json:"tags" yaml:"tags"`
	Metrics     Metrics   `json:"metrics" yaml:"metrics"`
	CreatedAt   time.Time `json:"createdAt" yaml:"created_at"`
}

func (p Prompt) ItemID() string { return p.ID }
func (p Prompt) ItemTitle() string { return p.Title }
func (p Prompt) ItemExcerpt() string { return p.Description }
func (p Prompt) SearchTags() []string { return p.Tags }
func (p Prompt) Categories() []string { return []string{p.Category} }
func (p Prompt) ItemMetrics() Metrics { return p.Metrics }
func (p Prompt) ItemDate() time.Time { return p.CreatedAt }

// UseCase is filtered by technology: any of its technologies can match the
// selected filter value.
type UseCase struct {
	ID           string   `json:"id" yaml:"id"`
	Slug         string   `json:"slug" yaml:"slug"`
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	ImageURL     string   `json:"image,omitempty" yaml:"image"`
	Technologies []string `json:"technologies" yaml:"technologies"`
}

func (u UseCase) ItemID() string { return u.ID }
func (u UseCase) ItemTitle() string { return u.Title }
func (u UseCase) ItemExcerpt() string { return u.Description }
func (u UseCase) SearchTags() []string { return nil }
func (u UseCase) Categories() []string { return u.Technologies }

// Kind names a content collection.
type Kind string

const (
	KindBlog    Kind = "blog"
	KindPrompt  Kind = "prompts"
	KindUseCase Kind = "use-cases"
)

// SessionHeader carries the session id the like guard is keyed on.
const SessionHeader = "X-Session-ID"

// LikeResult is the outcome of a like. Liked is false when the session had
// already liked the prompt.
type LikeResult struct {
	Prompt Prompt `json:"prompt"`
	Liked  bool   `json:"liked"`
}
