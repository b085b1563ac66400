package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"repostudio/app/database"
)

const draftBodyLimit = 2000

func buildDraftPrompt(item database.SourceItem) string {
	body := item.Body
	if len(body) > draftBodyLimit {
		// Back up to a rune boundary so the cut never leaves invalid UTF-8.
		cut := draftBodyLimit
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}

	var b strings.Builder
	b.WriteString("You are a social media ghostwriter. Turn the following discussion into a post for X (formerly Twitter).\n\n")
	fmt.Fprintf(&b, "Source channel: %s\n", item.Channel)
	fmt.Fprintf(&b, "Title: %s\n", item.Title)
	if body != "" {
		fmt.Fprintf(&b, "Content: %s\n", body)
	}
	fmt.Fprintf(&b, "Popularity: %d upvotes, %d comments\n\n", item.Popularity, item.DiscussionCount)
	b.WriteString(`Write a post that captures the core insight in your own words. Do not mention the source.

Respond with JSON only, matching this shape:
{"hook": "an attention-grabbing first line", "body": "the full post text", "format": "single or thread"}

Use "thread" only when the content genuinely needs more than 280 characters.`)

	return b.String()
}

type insightPostSummary struct {
	Text        string    `json:"text"`
	PostedAt    time.Time `json:"posted_at"`
	Impressions int       `json:"impressions"`
	Likes       int       `json:"likes"`
	Reshares    int       `json:"reshares"`
	Replies     int       `json:"replies"`
	ReachScore  float64   `json:"reach_score"`
}

func buildInsightPrompt(window []database.MetricWithDraft, weekStart, weekEnd time.Time) (string, error) {
	posts := make([]insightPostSummary, 0, len(window))
	for _, m := range window {
		posts = append(posts, insightPostSummary{
			Text:        m.Draft.Hook,
			PostedAt:    m.Metric.PostedAt,
			Impressions: m.Metric.Impressions,
			Likes:       m.Metric.Likes,
			Reshares:    m.Metric.Reshares,
			Replies:     m.Metric.Replies,
			ReachScore:  m.Metric.ReachScore,
		})
	}

	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize metrics window: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a social media analyst. Review the posting performance for one week and surface what worked.\n\n")
	fmt.Fprintf(&b, "Week: %s to %s\n\n", weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02"))
	fmt.Fprintf(&b, "Posts with engagement data:\n%s\n\n", data)
	b.WriteString(`Respond with JSON only, matching this shape:
{"summary": "2-3 sentences on overall performance and patterns", "recommendations": ["3-5 specific, actionable suggestions"]}`)

	return b.String(), nil
}
