// Package catalog holds the read-only content registry: chapters grouped
// into topics, and the flat question pool. Progress tracking never writes
// here; it only reads shapes and counts.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Topic is the smallest content unit with its own question pool. A topic
// whose File is nil has no question content yet and is excluded from capped
// chapter scoring.
type Topic struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	File     *string `json:"file"`
	HasGuide bool    `json:"hasGuide,omitempty"`
}

// Available reports whether the topic has question content.
func (t Topic) Available() bool {
	return t.File != nil
}

// Chapter is a named, ordered group of topics sharing an aggregate mastery
// score.
type Chapter struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Emoji  string  `json:"emoji,omitempty"`
	Topics []Topic `json:"topics"`
}

// AvailableTopics returns the chapter's topics that have question content.
func (c Chapter) AvailableTopics() []Topic {
	var out []Topic
	for _, t := range c.Topics {
		if t.Available() {
			out = append(out, t)
		}
	}
	return out
}

// Registry is the full chapter/topic catalog.
type Registry struct {
	Chapters []Chapter `json:"chapters"`
}

// Question is one quiz item from the global pool.
type Question struct {
	ID         string `json:"id"`
	Topic      string `json:"topic"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
}

// LoadRegistry reads and validates the chapter registry from a JSON file.
func LoadRegistry(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return ParseRegistry(raw)
}

// ParseRegistry validates raw JSON against the registry schema and decodes it.
func ParseRegistry(raw []byte) (*Registry, error) {
	if err := validate(registrySchemaName, registrySchema, raw); err != nil {
		return nil, err
	}
	var reg Registry
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	return &reg, nil
}

// LoadQuestions reads and validates the flat question pool from a JSON file.
func LoadQuestions(path string) ([]Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return ParseQuestions(raw)
}

// ParseQuestions validates raw JSON against the pool schema and decodes it.
func ParseQuestions(raw []byte) ([]Question, error) {
	if err := validate(questionsSchemaName, questionsSchema, raw); err != nil {
		return nil, err
	}
	var qs []Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return qs, nil
}

// FindChapter returns the chapter with the given id, or nil.
func (r *Registry) FindChapter(chapterID string) *Chapter {
	for i := range r.Chapters {
		if r.Chapters[i].ID == chapterID {
			return &r.Chapters[i]
		}
	}
	return nil
}

// ChapterForTopic returns the chapter containing the given topic, or nil.
func (r *Registry) ChapterForTopic(topicID string) *Chapter {
	for i := range r.Chapters {
		for _, t := range r.Chapters[i].Topics {
			if t.ID == topicID {
				return &r.Chapters[i]
			}
		}
	}
	return nil
}

// TopicLabel returns the display label for a topic id, falling back to the
// id itself when the topic is not registered.
func (r *Registry) TopicLabel(topicID string) string {
	for _, ch := range r.Chapters {
		for _, t := range ch.Topics {
			if t.ID == topicID {
				return t.Label
			}
		}
	}
	return topicID
}

// Filters narrows the question pool for counting. Empty slices match
// everything.
type Filters struct {
	Topics       []string
	Chapters     []string
	Difficulties []string
	Types        []string
}

// CountAvailable returns how many questions in pool match the filters.
// Used by the custom quiz builder.
func CountAvailable(pool []Question, f Filters) int {
	count := 0
	for _, q := range pool {
		if len(f.Topics) > 0 && !contains(f.Topics, q.Topic) {
			continue
		}
		if len(f.Chapters) > 0 && !contains(f.Chapters, q.Category) {
			continue
		}
		if len(f.Difficulties) > 0 && !contains(f.Difficulties, q.Difficulty) {
			continue
		}
		if len(f.Types) > 0 && !contains(f.Types, q.Type) {
			continue
		}
		count++
	}
	return count
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
