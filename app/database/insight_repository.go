package database

import (
	"context"
	"encoding/json"
	"fmt"
)

// InsightRepo handles database operations for stored weekly insights.
type InsightRepo struct {
	db *DB
}

var _ InsightRepository = (*InsightRepo)(nil)

func NewInsightRepo(db *DB) *InsightRepo {
	return &InsightRepo{db: db}
}

func (r *InsightRepo) CreateInsight(ctx context.Context, insight Insight) (*Insight, error) {
	topPerformers, err := json.Marshal(insight.TopPerformers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode top performers: %w", err)
	}
	recommendations, err := json.Marshal(insight.Recommendations)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recommendations: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO insights (week_start, week_end, summary, top_performers, recommendations)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, insight.WeekStart, insight.WeekEnd, insight.Summary, topPerformers, recommendations)

	if err := row.Scan(&insight.ID, &insight.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create insight: %w", err)
	}

	return &insight, nil
}

func (r *InsightRepo) GetInsights(ctx context.Context, limit int) ([]Insight, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, week_start, week_end, summary, top_performers, recommendations, created_at
		FROM insights
		ORDER BY week_start DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get insights: %w", err)
	}
	defer rows.Close()

	var insights []Insight
	for rows.Next() {
		var insight Insight
		var topPerformers, recommendations []byte
		err := rows.Scan(&insight.ID, &insight.WeekStart, &insight.WeekEnd,
			&insight.Summary, &topPerformers, &recommendations, &insight.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insight row: %w", err)
		}

		if err := json.Unmarshal(topPerformers, &insight.TopPerformers); err != nil {
			return nil, fmt.Errorf("failed to decode top performers: %w", err)
		}
		if err := json.Unmarshal(recommendations, &insight.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to decode recommendations: %w", err)
		}

		insights = append(insights, insight)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating insight rows: %w", err)
	}

	return insights, nil
}
