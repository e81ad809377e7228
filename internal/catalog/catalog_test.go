package catalog

import "testing"

const registryJSON = `{
  "chapters": [
    {
      "id": "cardiovascular",
      "label": "Cardiovascular",
      "topics": [
        {"id": "heart-failure", "label": "Heart Failure", "file": "cardiovascular/heart-failure.json"},
        {"id": "mi", "label": "Myocardial Infarction", "file": "cardiovascular/mi.json"},
        {"id": "shock", "label": "Shock", "file": null}
      ]
    },
    {
      "id": "respiratory",
      "label": "Respiratory",
      "topics": [
        {"id": "copd", "label": "COPD", "file": "respiratory/copd.json"}
      ]
    },
    {
      "id": "endocrine",
      "label": "Endocrine",
      "topics": [
        {"id": "diabetes", "label": "Diabetes", "file": null}
      ]
    }
  ]
}`

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := ParseRegistry([]byte(registryJSON))
	if err != nil {
		t.Fatalf("ParseRegistry: %v", err)
	}
	return reg
}

func TestParseRegistry(t *testing.T) {
	reg := testRegistry(t)
	if len(reg.Chapters) != 3 {
		t.Fatalf("chapters = %d, want 3", len(reg.Chapters))
	}
	if reg.Chapters[0].Topics[2].Available() {
		t.Error("topic with null file reported available")
	}
	if !reg.Chapters[0].Topics[0].Available() {
		t.Error("topic with file reported unavailable")
	}
}

func TestParseRegistryRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{chapters:`},
		{"missing chapters", `{}`},
		{"topic missing file", `{"chapters":[{"id":"c","label":"C","topics":[{"id":"t","label":"T"}]}]}`},
		{"empty topic id", `{"chapters":[{"id":"c","label":"C","topics":[{"id":"","label":"T","file":null}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRegistry([]byte(tt.raw)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAvailableTopics(t *testing.T) {
	reg := testRegistry(t)
	ch := reg.FindChapter("cardiovascular")
	if ch == nil {
		t.Fatal("chapter not found")
	}
	avail := ch.AvailableTopics()
	if len(avail) != 2 {
		t.Errorf("available topics = %d, want 2", len(avail))
	}

	empty := reg.FindChapter("endocrine")
	if got := empty.AvailableTopics(); len(got) != 0 {
		t.Errorf("available topics in empty chapter = %d, want 0", len(got))
	}
}

func TestChapterForTopic(t *testing.T) {
	reg := testRegistry(t)
	ch := reg.ChapterForTopic("copd")
	if ch == nil || ch.ID != "respiratory" {
		t.Errorf("ChapterForTopic(copd) = %v, want respiratory", ch)
	}
	if reg.ChapterForTopic("unknown") != nil {
		t.Error("ChapterForTopic(unknown) should be nil")
	}
}

func TestTopicLabel(t *testing.T) {
	reg := testRegistry(t)
	if got := reg.TopicLabel("mi"); got != "Myocardial Infarction" {
		t.Errorf("TopicLabel(mi) = %q", got)
	}
	if got := reg.TopicLabel("missing"); got != "missing" {
		t.Errorf("TopicLabel falls back to id, got %q", got)
	}
}

func TestParseQuestions(t *testing.T) {
	raw := `[
	  {"id": "q1", "topic": "copd", "category": "respiratory", "difficulty": "easy", "type": "mc"},
	  {"id": "q2", "topic": "copd", "category": "respiratory", "difficulty": "hard", "type": "sata"}
	]`
	qs, err := ParseQuestions([]byte(raw))
	if err != nil {
		t.Fatalf("ParseQuestions: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("questions = %d, want 2", len(qs))
	}

	if _, err := ParseQuestions([]byte(`[{"topic":"copd"}]`)); err == nil {
		t.Error("expected error for question missing id")
	}
}

func TestCountAvailable(t *testing.T) {
	pool := []Question{
		{ID: "q1", Topic: "copd", Category: "respiratory", Difficulty: "easy", Type: "mc"},
		{ID: "q2", Topic: "copd", Category: "respiratory", Difficulty: "hard", Type: "mc"},
		{ID: "q3", Topic: "mi", Category: "cardiovascular", Difficulty: "easy", Type: "sata"},
	}

	tests := []struct {
		name string
		f    Filters
		want int
	}{
		{"no filters", Filters{}, 3},
		{"by topic", Filters{Topics: []string{"copd"}}, 2},
		{"by chapter", Filters{Chapters: []string{"cardiovascular"}}, 1},
		{"by difficulty", Filters{Difficulties: []string{"easy"}}, 2},
		{"by type and topic", Filters{Types: []string{"mc"}, Topics: []string{"copd"}}, 2},
		{"no match", Filters{Topics: []string{"stroke"}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountAvailable(pool, tt.f); got != tt.want {
				t.Errorf("CountAvailable = %d, want %d", got, tt.want)
			}
		})
	}
}
