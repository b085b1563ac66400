package llm

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"repostudio/app/database"
)

func TestBuildDraftPromptIncludesItemFields(t *testing.T) {
	item := database.SourceItem{
		Channel:         "programming",
		Title:           "Why our migration took a year",
		Body:            "Long story about a rewrite.",
		Popularity:      1200,
		DiscussionCount: 340,
	}

	prompt := buildDraftPrompt(item)

	for _, want := range []string{
		"programming",
		"Why our migration took a year",
		"Long story about a rewrite.",
		"1200 upvotes",
		"340 comments",
		`"hook"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}

func TestBuildDraftPromptTruncatesLongBody(t *testing.T) {
	item := database.SourceItem{
		Title: "Long one",
		Body:  strings.Repeat("x", draftBodyLimit+500),
	}

	prompt := buildDraftPrompt(item)

	if strings.Contains(prompt, strings.Repeat("x", draftBodyLimit+1)) {
		t.Error("Expected body to be truncated in prompt")
	}
	if !strings.Contains(prompt, strings.Repeat("x", draftBodyLimit)) {
		t.Error("Expected truncated body to be present in prompt")
	}
}

func TestBuildDraftPromptTruncatesOnRuneBoundary(t *testing.T) {
	// The leading ASCII byte shifts every 2-byte "д" off the even byte
	// offsets, so a naive cut at the limit would land mid-rune.
	item := database.SourceItem{
		Title: "Long one",
		Body:  "a" + strings.Repeat("д", draftBodyLimit),
	}

	prompt := buildDraftPrompt(item)

	if !utf8.ValidString(prompt) {
		t.Error("Expected prompt to remain valid UTF-8 after truncation")
	}
	if strings.Contains(prompt, string(utf8.RuneError)) {
		t.Error("Expected no replacement characters in truncated prompt")
	}
}

func TestBuildInsightPromptSerializesWindow(t *testing.T) {
	weekEnd := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	weekStart := weekEnd.AddDate(0, 0, -7)
	window := []database.MetricWithDraft{
		{
			Metric: database.EngagementMetric{
				Impressions: 5000,
				Likes:       120,
				ReachScore:  42.5,
				PostedAt:    weekStart.Add(24 * time.Hour),
			},
			Draft: database.Draft{Hook: "The one weird migration trick"},
		},
	}

	prompt, err := buildInsightPrompt(window, weekStart, weekEnd)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, want := range []string{
		"2025-06-01 to 2025-06-08",
		"The one weird migration trick",
		"5000",
		`"recommendations"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}
