package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"repostudio/app/cfg"
	"repostudio/app/database"
)

const (
	defaultInboxLimit   = 100
	defaultInsightLimit = 20
	insightWindowDays   = 7
	topPerformerCount   = 3
)

func NewHandler(itemRepo database.SourceItemRepository, draftRepo database.DraftRepository,
	metricRepo database.MetricRepository, insightRepo database.InsightRepository,
	generator GeneratorInterface) *Handler {
	return &Handler{
		itemRepo:    itemRepo,
		draftRepo:   draftRepo,
		metricRepo:  metricRepo,
		insightRepo: insightRepo,
		generator:   generator,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":   cfg.Get().Version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	})
}

func (h *Handler) APIListItems(c *gin.Context) {
	savedOnly := c.Query("saved") == "true"

	limit := defaultInboxLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	items, err := h.itemRepo.GetInboxItems(c.Request.Context(), savedOnly, limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_inbox_items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

func (h *Handler) APISaveItem(c *gin.Context) {
	id := c.Param("id")

	item, err := h.itemRepo.GetItem(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_item", "item", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	if err := h.itemRepo.MarkSaved(c.Request.Context(), id); err != nil {
		slog.Error("Database error", "operation", "mark_saved", "item", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) APIListDrafts(c *gin.Context) {
	status := c.Query("status")

	drafts, err := h.draftRepo.GetDrafts(c.Request.Context(), status)
	if err != nil {
		slog.Error("Database error", "operation", "get_drafts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drafts": drafts,
		"total":  len(drafts),
	})
}

func (h *Handler) APIGetDraft(c *gin.Context) {
	id := c.Param("id")

	draft, err := h.draftRepo.GetDraft(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_draft", "draft", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if draft == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
		return
	}

	c.JSON(http.StatusOK, draft)
}

func (h *Handler) APIGenerateDraft(c *gin.Context) {
	var req generateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source_item_id"})
		return
	}

	item, err := h.itemRepo.GetItem(c.Request.Context(), req.SourceItemID)
	if err != nil {
		slog.Error("Database error", "operation", "get_item", "item", req.SourceItemID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	content, err := h.generator.GenerateDraft(c.Request.Context(), *item)
	if err != nil {
		slog.Error("Draft generation failed", "item", item.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Draft generation failed",
			"details": err.Error(),
		})
		return
	}

	draft, err := h.draftRepo.CreateDraft(c.Request.Context(), &item.ID,
		content.Hook, content.Body, content.Format)
	if err != nil {
		slog.Error("Database error", "operation", "create_draft", "item", item.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := h.itemRepo.MarkProcessed(c.Request.Context(), item.ID); err != nil {
		slog.Error("Database error", "operation", "mark_processed", "item", item.ID, "error", err)
	}

	c.JSON(http.StatusCreated, draft)
}

func (h *Handler) APIUpdateDraft(c *gin.Context) {
	id := c.Param("id")

	var req updateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	fields := database.DraftUpdate{
		Hook:     req.Hook,
		Body:     req.Body,
		Format:   req.Format,
		Status:   req.Status,
		PostID:   req.PostID,
		PostedAt: req.PostedAt,
	}

	// Marking a draft posted starts engagement tracking; stamp the time
	// unless the caller supplied one.
	if req.Status != nil && *req.Status == database.DraftStatusPosted && req.PostedAt == nil {
		now := time.Now().UTC()
		fields.PostedAt = &now
	}

	draft, err := h.draftRepo.UpdateDraft(c.Request.Context(), id, fields)
	if err != nil {
		slog.Error("Database error", "operation", "update_draft", "draft", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if draft == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
		return
	}

	c.JSON(http.StatusOK, draft)
}

func (h *Handler) APIDeleteDraft(c *gin.Context) {
	id := c.Param("id")

	if err := h.draftRepo.DeleteDraft(c.Request.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
			return
		}
		slog.Error("Database error", "operation", "delete_draft", "draft", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) APIListMetrics(c *gin.Context) {
	metrics, err := h.metricRepo.GetTrackedMetrics(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_tracked_metrics", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics": metrics,
		"total":   len(metrics),
	})
}

func (h *Handler) APIListInsights(c *gin.Context) {
	insights, err := h.insightRepo.GetInsights(c.Request.Context(), defaultInsightLimit)
	if err != nil {
		slog.Error("Database error", "operation", "get_insights", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"insights": insights,
		"total":    len(insights),
	})
}

func (h *Handler) APIGenerateInsight(c *gin.Context) {
	weekEnd := time.Now().UTC()
	weekStart := weekEnd.AddDate(0, 0, -insightWindowDays)

	window, err := h.metricRepo.GetMetricsSince(c.Request.Context(), weekStart)
	if err != nil {
		slog.Error("Database error", "operation", "get_metrics_since", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if len(window) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No engagement data in the last 7 days"})
		return
	}

	content, err := h.generator.GenerateInsight(c.Request.Context(), window, weekStart, weekEnd)
	if err != nil {
		slog.Error("Insight generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Insight generation failed",
			"details": err.Error(),
		})
		return
	}

	// The window comes back ordered by reach score, so the leaders are
	// the head of the slice.
	topPerformers := make([]string, 0, topPerformerCount)
	for _, m := range window {
		if len(topPerformers) == topPerformerCount {
			break
		}
		topPerformers = append(topPerformers, m.Draft.Hook)
	}

	insight, err := h.insightRepo.CreateInsight(c.Request.Context(), database.Insight{
		WeekStart:       weekStart,
		WeekEnd:         weekEnd,
		Summary:         content.Summary,
		TopPerformers:   topPerformers,
		Recommendations: content.Recommendations,
	})
	if err != nil {
		slog.Error("Database error", "operation", "create_insight", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, insight)
}
