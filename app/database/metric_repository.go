package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// MetricRepo handles database operations for engagement snapshots.
type MetricRepo struct {
	db *DB
}

var _ MetricRepository = (*MetricRepo)(nil)

func NewMetricRepo(db *DB) *MetricRepo {
	return &MetricRepo{db: db}
}

// UpsertMetric creates or refreshes the snapshot keyed on the post ID, so
// a post can never grow a second metric row. posted_at is written only on
// insert; every later run refreshes the counters, score, and sync time.
func (r *MetricRepo) UpsertMetric(ctx context.Context, snapshot MetricSnapshot) (bool, error) {
	var created bool
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO engagement_metrics (
			draft_id, post_id, impressions, engagements,
			likes, reshares, replies, reach_score, posted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (post_id) DO UPDATE SET
			impressions = EXCLUDED.impressions,
			engagements = EXCLUDED.engagements,
			likes = EXCLUDED.likes,
			reshares = EXCLUDED.reshares,
			replies = EXCLUDED.replies,
			reach_score = EXCLUDED.reach_score,
			last_synced_at = NOW()
		RETURNING (xmax = 0)
	`, snapshot.DraftID, snapshot.PostID, snapshot.Impressions, snapshot.Engagements,
		snapshot.Likes, snapshot.Reshares, snapshot.Replies, snapshot.ReachScore,
		snapshot.PostedAt).Scan(&created)

	if err != nil {
		return false, fmt.Errorf("failed to upsert engagement metric: %w", err)
	}

	return created, nil
}

const metricJoinQuery = `
	SELECT m.id, m.draft_id, m.post_id, m.impressions, m.engagements,
	       m.likes, m.reshares, m.replies, m.reach_score,
	       m.posted_at, m.last_synced_at, m.created_at,
	       d.id, d.source_item_id, d.hook, d.body, d.format, d.status,
	       d.post_id, d.posted_at, d.created_at, d.updated_at
	FROM engagement_metrics m
	JOIN drafts d ON d.id = m.draft_id`

// GetMetricsSince returns snapshots posted in the window, best first. This
// feeds the weekly insight generation.
func (r *MetricRepo) GetMetricsSince(ctx context.Context, since time.Time) ([]MetricWithDraft, error) {
	rows, err := r.db.QueryContext(ctx,
		metricJoinQuery+` WHERE m.posted_at >= $1 ORDER BY m.reach_score DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics window: %w", err)
	}
	defer rows.Close()

	return collectMetrics(rows)
}

// GetTrackedMetrics returns every snapshot with its draft, best first.
func (r *MetricRepo) GetTrackedMetrics(ctx context.Context) ([]MetricWithDraft, error) {
	rows, err := r.db.QueryContext(ctx,
		metricJoinQuery+` ORDER BY m.reach_score DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked metrics: %w", err)
	}
	defer rows.Close()

	return collectMetrics(rows)
}

func collectMetrics(rows *sql.Rows) ([]MetricWithDraft, error) {
	var result []MetricWithDraft
	for rows.Next() {
		var mw MetricWithDraft
		err := rows.Scan(
			&mw.Metric.ID, &mw.Metric.DraftID, &mw.Metric.PostID,
			&mw.Metric.Impressions, &mw.Metric.Engagements,
			&mw.Metric.Likes, &mw.Metric.Reshares, &mw.Metric.Replies,
			&mw.Metric.ReachScore, &mw.Metric.PostedAt,
			&mw.Metric.LastSyncedAt, &mw.Metric.CreatedAt,
			&mw.Draft.ID, &mw.Draft.SourceItemID, &mw.Draft.Hook, &mw.Draft.Body,
			&mw.Draft.Format, &mw.Draft.Status, &mw.Draft.PostID,
			&mw.Draft.PostedAt, &mw.Draft.CreatedAt, &mw.Draft.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metric row: %w", err)
		}
		result = append(result, mw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metric rows: %w", err)
	}

	return result, nil
}
