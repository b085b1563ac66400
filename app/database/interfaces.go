package database

import (
	"context"
	"time"
)

// SourceItemRecord carries the fields the source harvester writes. The
// repository decides which of them apply on create vs update.
type SourceItemRecord struct {
	ExternalID      string
	Channel         string
	Title           string
	Body            string
	URL             string
	Author          string
	Popularity      int
	DiscussionCount int
	SourceCreatedAt time.Time
	RepurposeScore  float64
}

// MetricSnapshot carries the fields the engagement harvester writes.
type MetricSnapshot struct {
	DraftID     string
	PostID      string
	Impressions int
	Engagements int
	Likes       int
	Reshares    int
	Replies     int
	ReachScore  float64
	PostedAt    time.Time
}

type SourceItemRepository interface {
	// UpsertItem creates the item on first sighting or refreshes its
	// counters and score. Returns true when a new row was created.
	UpsertItem(ctx context.Context, record SourceItemRecord) (bool, error)

	GetItem(ctx context.Context, id string) (*SourceItem, error)
	GetInboxItems(ctx context.Context, savedOnly bool, limit int) ([]SourceItem, error)
	MarkSaved(ctx context.Context, id string) error
	MarkProcessed(ctx context.Context, id string) error
}

type DraftRepository interface {
	// GetPostedDrafts returns drafts with status "posted" and a non-null
	// external post identifier, i.e. the engagement harvester's work list.
	GetPostedDrafts(ctx context.Context) ([]Draft, error)

	GetDraft(ctx context.Context, id string) (*Draft, error)
	GetDrafts(ctx context.Context, status string) ([]Draft, error)
	CreateDraft(ctx context.Context, sourceItemID *string, hook, body, format string) (*Draft, error)
	UpdateDraft(ctx context.Context, id string, fields DraftUpdate) (*Draft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// DraftUpdate lists the mutable draft fields; nil means leave unchanged.
type DraftUpdate struct {
	Hook     *string
	Body     *string
	Format   *string
	Status   *string
	PostID   *string
	PostedAt *time.Time
}

type MetricRepository interface {
	// UpsertMetric creates or refreshes the snapshot keyed by post ID.
	// Returns true when a new row was created.
	UpsertMetric(ctx context.Context, snapshot MetricSnapshot) (bool, error)

	GetMetricsSince(ctx context.Context, since time.Time) ([]MetricWithDraft, error)
	GetTrackedMetrics(ctx context.Context) ([]MetricWithDraft, error)
}

type InsightRepository interface {
	CreateInsight(ctx context.Context, insight Insight) (*Insight, error)
	GetInsights(ctx context.Context, limit int) ([]Insight, error)
}
