// Package llm wraps the single-shot generative calls: turning a source
// item into a post draft and a week of metrics into a textual insight.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"repostudio/app/database"
)

// Client holds the API client and model choice for both generation calls.
type Client struct {
	client *anthropic.Client
	model  string
}

func NewClient(apiKey, model string) *Client {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &Client{
		client: &client,
		model:  model,
	}
}

// DraftContent is the structured result of a draft generation call.
type DraftContent struct {
	Hook   string `json:"hook"`
	Body   string `json:"body"`
	Format string `json:"format"`
}

// GenerateDraft turns a harvested source item into a post draft.
func (c *Client) GenerateDraft(ctx context.Context, item database.SourceItem) (*DraftContent, error) {
	prompt := buildDraftPrompt(item)

	// Prefill the assistant turn so the reply continues as valid JSON.
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock("{")),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call generation API: %w", err)
	}

	raw, err := completionText(message, "{")
	if err != nil {
		return nil, err
	}

	var draft DraftContent
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse draft response: %w", err)
	}
	if draft.Format != "thread" {
		draft.Format = "single"
	}

	return &draft, nil
}

// InsightContent is the structured result of an insight generation call.
type InsightContent struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// GenerateInsight analyzes a window of engagement snapshots.
func (c *Client) GenerateInsight(ctx context.Context, window []database.MetricWithDraft,
	weekStart, weekEnd time.Time) (*InsightContent, error) {
	if len(window) == 0 {
		return nil, fmt.Errorf("not enough data to generate insights")
	}

	prompt, err := buildInsightPrompt(window, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock("{")),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call generation API: %w", err)
	}

	raw, err := completionText(message, "{")
	if err != nil {
		return nil, err
	}

	var insight InsightContent
	if err := json.Unmarshal([]byte(raw), &insight); err != nil {
		return nil, fmt.Errorf("failed to parse insight response: %w", err)
	}

	return &insight, nil
}

// completionText extracts the text completion and restores the prefill.
func completionText(message *anthropic.Message, prefill string) (string, error) {
	for _, block := range message.Content {
		if block.Type == "text" {
			return prefill + strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("generation response contained no text block")
}
