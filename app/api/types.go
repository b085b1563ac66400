package api

import (
	"context"
	"time"

	"repostudio/app/database"
	"repostudio/app/llm"
)

type GeneratorInterface interface {
	GenerateDraft(ctx context.Context, item database.SourceItem) (*llm.DraftContent, error)
	GenerateInsight(ctx context.Context, window []database.MetricWithDraft,
		weekStart, weekEnd time.Time) (*llm.InsightContent, error)
}

var _ GeneratorInterface = (*llm.Client)(nil)

type Handler struct {
	itemRepo    database.SourceItemRepository
	draftRepo   database.DraftRepository
	metricRepo  database.MetricRepository
	insightRepo database.InsightRepository
	generator   GeneratorInterface
}

type generateDraftRequest struct {
	SourceItemID string `json:"source_item_id" binding:"required"`
}

type updateDraftRequest struct {
	Hook     *string    `json:"hook"`
	Body     *string    `json:"body"`
	Format   *string    `json:"format"`
	Status   *string    `json:"status"`
	PostID   *string    `json:"post_id"`
	PostedAt *time.Time `json:"posted_at"`
}
