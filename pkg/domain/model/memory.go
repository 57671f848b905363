package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memora-app/memora/pkg/domain/types"
)

// Tag labels a memory. Tags are identified by (Name, Type), shared across
// memories and merged into the graph on first reference.
type Tag struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Validate checks if the tag is valid
func (t Tag) Validate() error {
	if t.Name == "" {
		return goerr.New("tag name is required", goerr.T(types.ErrTagValidation))
	}
	return nil
}

// Memory is a single user-authored journal entry. Date is the event
// timestamp supplied by the user, not the creation time.
type Memory struct {
	ID        types.MemoryID `json:"id"`
	UserID    types.UserID   `json:"-"`
	Text      string         `json:"text"`
	Date      time.Time      `json:"date"`
	MediaURL  string         `json:"mediaUrl,omitempty"`
	Tags      []Tag          `json:"tags"`
	Embedding []float32      `json:"-"`

	// Score is the similarity score of a vector search match. It is zero for
	// memories returned by graph queries.
	Score float32 `json:"score,omitempty"`
}

// Validate checks if the memory is valid
func (m *Memory) Validate() error {
	if m.UserID == "" {
		return goerr.New("memory user ID is required", goerr.T(types.ErrTagValidation))
	}
	if m.Text == "" {
		return goerr.New("memory text is required", goerr.T(types.ErrTagValidation))
	}
	for _, tag := range m.Tags {
		if err := tag.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeTags deduplicates tags by name, keeping the first occurrence.
// Insertion order of the surviving tags is preserved.
func NormalizeTags(tags []Tag) []Tag {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	return out
}

// TagNames returns the tag names of the memory in insertion order
func (m *Memory) TagNames() []string {
	names := make([]string, len(m.Tags))
	for i, t := range m.Tags {
		names[i] = t.Name
	}
	return names
}

// Clone returns a deep copy of the memory
func (m *Memory) Clone() *Memory {
	copied := *m
	if m.Tags != nil {
		copied.Tags = make([]Tag, len(m.Tags))
		copy(copied.Tags, m.Tags)
	}
	if m.Embedding != nil {
		copied.Embedding = make([]float32, len(m.Embedding))
		copy(copied.Embedding, m.Embedding)
	}
	return &copied
}

// DateRange is an inclusive event-date interval. A nil bound is open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the range
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}
