package database

import (
	"time"
)

// SourceItem is a harvested piece of source content. Title, body, url,
// author, and source_created_at are immutable after first sighting; only
// the counters and the recomputed score change on later harvests.
type SourceItem struct {
	ID              string
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
	Saved           bool
	Processed       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Draft is an editorial draft. A draft with status "posted" and a non-null
// post ID is a published item the engagement harvester tracks.
type Draft struct {
	ID           string
	SourceItemID *string
	Hook         string
	Body         string
	Format       string
	Status       string
	PostID       *string
	PostedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Draft statuses.
const (
	DraftStatusDraft  = "draft"
	DraftStatusQueued = "queued"
	DraftStatusPosted = "posted"
)

// EngagementMetric is the current engagement snapshot for one published
// post, at most one row per post ID.
type EngagementMetric struct {
	ID           string
	DraftID      string
	PostID       string
	Impressions  int
	Engagements  int
	Likes        int
	Reshares     int
	Replies      int
	ReachScore   float64
	PostedAt     time.Time
	LastSyncedAt time.Time
	CreatedAt    time.Time
}

// MetricWithDraft joins a metric snapshot with its draft for reporting.
type MetricWithDraft struct {
	Metric EngagementMetric
	Draft  Draft
}

// Insight is a stored weekly performance analysis.
type Insight struct {
	ID              string
	WeekStart       time.Time
	WeekEnd         time.Time
	Summary         string
	TopPerformers   []string
	Recommendations []string
	CreatedAt       time.Time
}
