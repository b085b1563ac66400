package scoring

import (
	"math"
	"strings"
	"testing"
)

func TestRepurposeScoreFloor(t *testing.T) {
	score := RepurposeScore(SourceSignals{})
	if score != 10 {
		t.Errorf("Expected floor score 10 for empty signals, got %v", score)
	}
}

func TestRepurposeScoreMax(t *testing.T) {
	score := RepurposeScore(SourceSignals{
		Popularity:      100,
		DiscussionCount: 50,
		Title:           strings.Repeat("t", 50),
		Body:            strings.Repeat("b", 150),
	})
	if score != 100 {
		t.Errorf("Expected max score 100, got %v", score)
	}
}

func TestRepurposeScoreCapsBeforeSumming(t *testing.T) {
	// Counters far past the caps must not push any component over its weight.
	score := RepurposeScore(SourceSignals{
		Popularity:      2840,
		DiscussionCount: 456,
		Title:           strings.Repeat("t", 91),
		Body:            strings.Repeat("b", 240),
	})
	if score != 100 {
		t.Errorf("Expected capped score 100, got %v", score)
	}
}

func TestRepurposeScoreComponents(t *testing.T) {
	tests := []struct {
		name     string
		signals  SourceSignals
		expected float64
	}{
		{
			name:     "half popularity, no discussion, short title",
			signals:  SourceSignals{Popularity: 50, Title: "short"},
			expected: 20 + 0 + 0 + 10,
		},
		{
			name:     "body exactly at threshold gets no bonus",
			signals:  SourceSignals{Body: strings.Repeat("b", 100)},
			expected: 10,
		},
		{
			name:     "body one past threshold gets bonus",
			signals:  SourceSignals{Body: strings.Repeat("b", 101)},
			expected: 25,
		},
		{
			name:     "title length 30 is not strictly between bounds",
			signals:  SourceSignals{Title: strings.Repeat("t", 30)},
			expected: 10,
		},
		{
			name:     "title length 31 earns the bonus",
			signals:  SourceSignals{Title: strings.Repeat("t", 31)},
			expected: 15,
		},
		{
			name:     "title length 200 falls back",
			signals:  SourceSignals{Title: strings.Repeat("t", 200)},
			expected: 10,
		},
		{
			name:     "discussion half cap",
			signals:  SourceSignals{DiscussionCount: 25, Title: "x"},
			expected: 15 + 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepurposeScore(tt.signals)
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRepurposeScoreCountsCharactersNotBytes(t *testing.T) {
	tests := []struct {
		name     string
		signals  SourceSignals
		expected float64
	}{
		{
			name:     "20-character Cyrillic title falls back",
			signals:  SourceSignals{Title: strings.Repeat("д", 20)},
			expected: 10,
		},
		{
			name:     "40-character Cyrillic title earns the bonus",
			signals:  SourceSignals{Title: strings.Repeat("д", 40)},
			expected: 15,
		},
		{
			name:     "150-character Cyrillic title stays inside the upper bound",
			signals:  SourceSignals{Title: strings.Repeat("д", 150)},
			expected: 15,
		},
		{
			name:     "60-character Cyrillic body gets no content bonus",
			signals:  SourceSignals{Body: strings.Repeat("д", 60)},
			expected: 10,
		},
		{
			name:     "120-character Cyrillic body earns the content bonus",
			signals:  SourceSignals{Body: strings.Repeat("д", 120)},
			expected: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepurposeScore(tt.signals)
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRepurposeScoreRange(t *testing.T) {
	for pop := 0; pop <= 200; pop += 40 {
		for disc := 0; disc <= 100; disc += 25 {
			score := RepurposeScore(SourceSignals{
				Popularity:      pop,
				DiscussionCount: disc,
				Title:           strings.Repeat("t", 60),
				Body:            strings.Repeat("b", 150),
			})
			if score < 0 || score > 100 {
				t.Errorf("Score out of range for pop=%d disc=%d: %v", pop, disc, score)
			}
		}
	}
}

func TestReachScoreZeroImpressions(t *testing.T) {
	// Divide-by-zero guard: only the virality term may contribute.
	score := ReachScore(EngagementSignals{
		Impressions: 0,
		Engagements: 999,
		Likes:       10,
		Reshares:    5,
		Replies:     5,
	})
	expected := (5.0*3 + 10.0*1 + 5.0*2) / 10 * 0.6
	if score != expected {
		t.Errorf("Expected %v with zero impressions, got %v", expected, score)
	}
}

func TestReachScoreClamp(t *testing.T) {
	score := ReachScore(EngagementSignals{
		Impressions: 10,
		Engagements: 10,
		Likes:       100000,
		Reshares:    100000,
		Replies:     100000,
	})
	if score != 100 {
		t.Errorf("Expected clamp at 100, got %v", score)
	}
}

func TestReachScoreDeterministic(t *testing.T) {
	signals := EngagementSignals{
		Impressions: 45230,
		Engagements: 3840,
		Likes:       2890,
		Reshares:    456,
		Replies:     234,
	}
	first := ReachScore(signals)
	for i := 0; i < 10; i++ {
		if got := ReachScore(signals); got != first {
			t.Fatalf("Expected bit-identical recompute, got %v then %v", first, got)
		}
	}
}

func TestReachScoreKnownValue(t *testing.T) {
	// engagement_rate = 100/1000*100 = 10; virality = (10*3+80+10*2)/10 = 13
	// raw = 10*0.4 + 13*0.6 = 11.8
	score := ReachScore(EngagementSignals{
		Impressions: 1000,
		Engagements: 100,
		Likes:       80,
		Reshares:    10,
		Replies:     10,
	})
	if math.Abs(score-11.8) > 1e-9 {
		t.Errorf("Expected 11.8, got %v", score)
	}
}
