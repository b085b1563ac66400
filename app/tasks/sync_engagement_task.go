package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"repostudio/app/database"
	"repostudio/app/scoring"
	"repostudio/app/x"
)

// MetricsFetcher is the slice of the engagement client the harvester needs.
type MetricsFetcher interface {
	CheckAuth() error
	GetPostMetrics(ctx context.Context, postID string) (x.PostMetrics, error)
}

// SyncEngagementTask walks every posted draft that carries an external post
// identifier, fetches its current public counters, and upserts the scored
// snapshot. Pacing between per-item fetches lives in the shared HTTP client.
type SyncEngagementTask struct {
	Task
	engagement MetricsFetcher
	drafts     database.DraftRepository
	metrics    database.MetricRepository
}

func NewSyncEngagementTask(engagement MetricsFetcher, drafts database.DraftRepository,
	metrics database.MetricRepository) *SyncEngagementTask {
	return &SyncEngagementTask{
		Task:       NewTask(TaskTypeSyncEngagement),
		engagement: engagement,
		drafts:     drafts,
		metrics:    metrics,
	}
}

func (t *SyncEngagementTask) Execute(ctx context.Context) error {
	t.Start()

	// An unset bearer token aborts before any item is processed.
	if err := t.engagement.CheckAuth(); err != nil {
		return err
	}

	posted, err := t.drafts.GetPostedDrafts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load posted drafts: %w", err)
	}

	slog.Info("Loaded posted drafts", "count", len(posted))

	for _, draft := range posted {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if draft.PostID == nil {
			continue
		}
		t.summary.Attempted++

		snapshot, err := t.engagement.GetPostMetrics(ctx, *draft.PostID)
		if err != nil {
			// Includes deleted posts: skip, never touch the local record.
			slog.Error("Metrics fetch failed, skipping", "post_id", *draft.PostID, "error", err)
			t.summary.Skipped++
			continue
		}

		if err := t.upsertSnapshot(ctx, draft, snapshot); err != nil {
			slog.Error("Failed to persist engagement metric",
				"post_id", *draft.PostID, "error", err)
			t.summary.Skipped++
		}
	}

	slog.Info("Task completed", "type", string(t.Type), "duration", t.GetDuration(),
		"attempted", t.summary.Attempted, "created", t.summary.Created,
		"updated", t.summary.Updated, "skipped", t.summary.Skipped)

	return nil
}

func (t *SyncEngagementTask) upsertSnapshot(ctx context.Context, draft database.Draft, m x.PostMetrics) error {
	engagements := m.Likes + m.Reshares + m.Replies

	postedAt := m.CreatedAt
	if draft.PostedAt != nil {
		postedAt = *draft.PostedAt
	}

	snapshot := database.MetricSnapshot{
		DraftID:     draft.ID,
		PostID:      *draft.PostID,
		Impressions: m.Impressions,
		Engagements: engagements,
		Likes:       m.Likes,
		Reshares:    m.Reshares,
		Replies:     m.Replies,
		PostedAt:    postedAt,
		ReachScore: scoring.ReachScore(scoring.EngagementSignals{
			Impressions: m.Impressions,
			Engagements: engagements,
			Likes:       m.Likes,
			Reshares:    m.Reshares,
			Replies:     m.Replies,
		}),
	}

	created, err := upsertWithRetry(ctx, func() (bool, error) {
		return t.metrics.UpsertMetric(ctx, snapshot)
	})
	if err != nil {
		return err
	}

	if created {
		t.summary.Created++
	} else {
		t.summary.Updated++
	}
	return nil
}
