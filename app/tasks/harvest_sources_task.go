package tasks

import (
	"context"
	"log/slog"
	"time"

	"repostudio/app/channels"
	"repostudio/app/database"
	"repostudio/app/reddit"
	"repostudio/app/scoring"
)

// SourceLister is the slice of the source client the harvester needs.
type SourceLister interface {
	Authenticate(ctx context.Context) error
	FetchHot(ctx context.Context, channel string, limit int) ([]reddit.Post, error)
}

// HarvestSourcesTask walks the configured channel list, fetches each
// channel's current hot page, and upserts scored items into the store.
// Channel order follows the configured list; pacing happens between
// channels inside the shared HTTP client.
type HarvestSourcesTask struct {
	Task
	channels []channels.Channel
	source   SourceLister
	items    database.SourceItemRepository
}

func NewHarvestSourcesTask(chs []channels.Channel, source SourceLister,
	items database.SourceItemRepository) *HarvestSourcesTask {
	return &HarvestSourcesTask{
		Task:     NewTask(TaskTypeHarvestSources),
		channels: chs,
		source:   source,
		items:    items,
	}
}

func (t *HarvestSourcesTask) Execute(ctx context.Context) error {
	t.Start()

	// A failed token acquisition aborts the run before any channel work.
	if err := t.source.Authenticate(ctx); err != nil {
		return err
	}

	for _, channel := range t.channels {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		posts, err := t.source.FetchHot(ctx, channel.Name, channel.PageSize)
		if err != nil {
			// One channel failing never takes down the run.
			slog.Error("Channel fetch failed, skipping", "channel", channel.Name, "error", err)
			t.summary.Skipped++
			continue
		}

		createdBefore := t.summary.Created
		updatedBefore := t.summary.Updated
		for _, post := range posts {
			t.summary.Attempted++
			if err := t.upsertPost(ctx, post); err != nil {
				slog.Error("Failed to persist source item",
					"channel", channel.Name, "external_id", post.ID, "error", err)
				t.summary.Skipped++
			}
		}

		slog.Info("Channel processed", "channel", channel.Name,
			"fetched", len(posts),
			"created", t.summary.Created-createdBefore,
			"updated", t.summary.Updated-updatedBefore)
	}

	slog.Info("Task completed", "type", string(t.Type), "duration", t.GetDuration(),
		"attempted", t.summary.Attempted, "created", t.summary.Created,
		"updated", t.summary.Updated, "skipped", t.summary.Skipped)

	return nil
}

func (t *HarvestSourcesTask) upsertPost(ctx context.Context, post reddit.Post) error {
	record := database.SourceItemRecord{
		ExternalID:      post.ID,
		Channel:         post.Channel,
		Title:           post.Title,
		Body:            post.Body,
		URL:             post.URL,
		Author:          post.Author,
		Popularity:      post.Popularity,
		DiscussionCount: post.DiscussionCount,
		SourceCreatedAt: post.CreatedAt,
		RepurposeScore: scoring.RepurposeScore(scoring.SourceSignals{
			Popularity:      post.Popularity,
			DiscussionCount: post.DiscussionCount,
			Title:           post.Title,
			Body:            post.Body,
		}),
	}

	created, err := upsertWithRetry(ctx, func() (bool, error) {
		return t.items.UpsertItem(ctx, record)
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

// upsertWithRetry retries a persistence write a small bounded number of
// times before surfacing it as a per-item failure.
func upsertWithRetry(ctx context.Context, write func() (bool, error)) (bool, error) {
	var created bool
	var err error
	for attempt := 0; attempt <= persistRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(persistRetryDelay):
			}
		}
		created, err = write()
		if err == nil {
			return created, nil
		}
	}
	return false, err
}
