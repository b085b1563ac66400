package tasks

import (
	"context"
	"fmt"
	"time"

	"repostudio/app/database"
	"repostudio/app/httpx"
	"repostudio/app/reddit"
	"repostudio/app/x"
)

// fakeSource serves canned listings per channel and records call order.
type fakeSource struct {
	authErr  error
	listings map[string][]reddit.Post
	fetchErr map[string]error
	calls    []string
	authed   bool
}

func (f *fakeSource) Authenticate(ctx context.Context) error {
	if f.authErr != nil {
		return f.authErr
	}
	f.authed = true
	return nil
}

func (f *fakeSource) FetchHot(ctx context.Context, channel string, limit int) ([]reddit.Post, error) {
	f.calls = append(f.calls, channel)
	if err := f.fetchErr[channel]; err != nil {
		return nil, err
	}
	posts := f.listings[channel]
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// fakeItemRepo is an in-memory SourceItemRepository.
type fakeItemRepo struct {
	items      map[string]database.SourceItemRecord
	upsertErrs map[string]int // external ID -> number of failures to inject
	upserts    int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{
		items:      make(map[string]database.SourceItemRecord),
		upsertErrs: make(map[string]int),
	}
}

func (f *fakeItemRepo) UpsertItem(ctx context.Context, record database.SourceItemRecord) (bool, error) {
	f.upserts++
	if f.upsertErrs[record.ExternalID] > 0 {
		f.upsertErrs[record.ExternalID]--
		return false, fmt.Errorf("store unavailable")
	}
	_, exists := f.items[record.ExternalID]
	if exists {
		// Counters and score only; descriptive fields stay as first seen.
		existing := f.items[record.ExternalID]
		existing.Popularity = record.Popularity
		existing.DiscussionCount = record.DiscussionCount
		existing.RepurposeScore = record.RepurposeScore
		f.items[record.ExternalID] = existing
		return false, nil
	}
	f.items[record.ExternalID] = record
	return true, nil
}

func (f *fakeItemRepo) GetItem(ctx context.Context, id string) (*database.SourceItem, error) {
	return nil, nil
}

func (f *fakeItemRepo) GetInboxItems(ctx context.Context, savedOnly bool, limit int) ([]database.SourceItem, error) {
	return nil, nil
}

func (f *fakeItemRepo) MarkSaved(ctx context.Context, id string) error { return nil }

func (f *fakeItemRepo) MarkProcessed(ctx context.Context, id string) error { return nil }

// fakeEngagement serves canned metrics per post ID.
type fakeEngagement struct {
	authErr error
	metrics map[string]x.PostMetrics
	errs    map[string]error
	calls   []string
}

func (f *fakeEngagement) CheckAuth() error {
	return f.authErr
}

func (f *fakeEngagement) GetPostMetrics(ctx context.Context, postID string) (x.PostMetrics, error) {
	f.calls = append(f.calls, postID)
	if err := f.errs[postID]; err != nil {
		return x.PostMetrics{}, err
	}
	m, ok := f.metrics[postID]
	if !ok {
		return x.PostMetrics{}, &httpx.NotFoundError{Endpoint: "/tweets/" + postID}
	}
	return m, nil
}

// fakeDraftRepo is an in-memory DraftRepository serving a fixed list.
type fakeDraftRepo struct {
	posted  []database.Draft
	loadErr error
}

func (f *fakeDraftRepo) GetPostedDrafts(ctx context.Context) ([]database.Draft, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.posted, nil
}

func (f *fakeDraftRepo) GetDraft(ctx context.Context, id string) (*database.Draft, error) {
	return nil, nil
}

func (f *fakeDraftRepo) GetDrafts(ctx context.Context, status string) ([]database.Draft, error) {
	return nil, nil
}

func (f *fakeDraftRepo) CreateDraft(ctx context.Context, sourceItemID *string, hook, body, format string) (*database.Draft, error) {
	return nil, nil
}

func (f *fakeDraftRepo) UpdateDraft(ctx context.Context, id string, fields database.DraftUpdate) (*database.Draft, error) {
	return nil, nil
}

func (f *fakeDraftRepo) DeleteDraft(ctx context.Context, id string) error { return nil }

// fakeMetricRepo is an in-memory MetricRepository keyed by post ID.
type fakeMetricRepo struct {
	snapshots  map[string]database.MetricSnapshot
	upsertErrs map[string]int
}

func newFakeMetricRepo() *fakeMetricRepo {
	return &fakeMetricRepo{
		snapshots:  make(map[string]database.MetricSnapshot),
		upsertErrs: make(map[string]int),
	}
}

func (f *fakeMetricRepo) UpsertMetric(ctx context.Context, snapshot database.MetricSnapshot) (bool, error) {
	if f.upsertErrs[snapshot.PostID] > 0 {
		f.upsertErrs[snapshot.PostID]--
		return false, fmt.Errorf("store unavailable")
	}
	_, exists := f.snapshots[snapshot.PostID]
	f.snapshots[snapshot.PostID] = snapshot
	return !exists, nil
}

func (f *fakeMetricRepo) GetMetricsSince(ctx context.Context, since time.Time) ([]database.MetricWithDraft, error) {
	return nil, nil
}

func (f *fakeMetricRepo) GetTrackedMetrics(ctx context.Context) ([]database.MetricWithDraft, error) {
	return nil, nil
}
