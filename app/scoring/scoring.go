// Package scoring computes the derived ranking scores for harvested source
// items and published-post engagement snapshots. All functions are pure:
// identical inputs always produce bit-identical results.
package scoring

import "unicode/utf8"

// Repurpose score weights. Caps are applied per component before summing,
// which keeps the total inside [0, 100].
const (
	popularityCap    = 100.0
	popularityWeight = 40.0
	discussionCap    = 50.0
	discussionWeight = 30.0

	bodyBonus     = 15.0
	minBodyLength = 100

	titleBonus     = 15.0
	titleFallback  = 10.0
	minTitleLength = 30
	maxTitleLength = 200
)

// Reach score weights.
const (
	reshareWeight      = 3.0
	likeWeight         = 1.0
	replyWeight        = 2.0
	viralityDivisor    = 10.0
	engagementRateMult = 0.4
	viralityMult       = 0.6
	maxReachScore      = 100.0
)

// SourceSignals carries the raw inputs for RepurposeScore.
type SourceSignals struct {
	Popularity      int
	DiscussionCount int
	Title           string
	Body            string
}

// RepurposeScore rates how worthwhile a source item is to repurpose into a
// post, on a 0-100 scale. An absent body simply contributes nothing.
func RepurposeScore(s SourceSignals) float64 {
	popularity := capRatio(s.Popularity, popularityCap) * popularityWeight
	discussion := capRatio(s.DiscussionCount, discussionCap) * discussionWeight

	// Length thresholds are in characters, not bytes.
	content := 0.0
	if utf8.RuneCountInString(s.Body) > minBodyLength {
		content = bodyBonus
	}

	titleLen := utf8.RuneCountInString(s.Title)
	title := titleFallback
	if titleLen > minTitleLength && titleLen < maxTitleLength {
		title = titleBonus
	}

	return popularity + discussion + content + title
}

// EngagementSignals carries the raw counters for ReachScore. Engagements is
// likes + reshares + replies, computed by the caller from the same snapshot.
type EngagementSignals struct {
	Impressions int
	Engagements int
	Likes       int
	Reshares    int
	Replies     int
}

// ReachScore rates how far a published post travelled, on a 0-100 scale.
// The virality term can push the raw value past 100, so the result is
// clamped; with zero impressions the engagement-rate term is zero.
func ReachScore(m EngagementSignals) float64 {
	engagementRate := 0.0
	if m.Impressions > 0 {
		engagementRate = float64(m.Engagements) / float64(m.Impressions) * 100
	}

	virality := (float64(m.Reshares)*reshareWeight +
		float64(m.Likes)*likeWeight +
		float64(m.Replies)*replyWeight) / viralityDivisor

	raw := engagementRate*engagementRateMult + virality*viralityMult
	if raw > maxReachScore {
		return maxReachScore
	}
	return raw
}

func capRatio(value int, limit float64) float64 {
	ratio := float64(value) / limit
	if ratio > 1 {
		return 1
	}
	return ratio
}
