// Package x implements the engagement-platform API client: public metrics
// for published posts, authenticated with a pre-provisioned bearer token.
package x

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"repostudio/app/httpx"
)

const DefaultBaseURL = "https://api.twitter.com/2"

// PostMetrics is the current public engagement snapshot for one post.
type PostMetrics struct {
	ID          string
	Impressions int
	Likes       int
	Reshares    int
	Replies     int
	CreatedAt   time.Time
}

// Client calls the engagement API through a paced HTTP client.
type Client struct {
	BaseURL string

	http   *httpx.Client
	bearer string
}

func NewClient(bearerToken string, paced *httpx.Client) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		http:    paced,
		bearer:  bearerToken,
	}
}

// CheckAuth verifies a bearer token is configured. An unset token is fatal
// for the run, before any item is processed.
func (c *Client) CheckAuth() error {
	if c.bearer == "" {
		return &httpx.AuthError{Reason: "missing engagement API bearer token in configuration"}
	}
	return nil
}

type postPayload struct {
	ID            string `json:"id"`
	CreatedAt     string `json:"created_at"`
	PublicMetrics struct {
		ImpressionCount int `json:"impression_count"`
		LikeCount       int `json:"like_count"`
		RetweetCount    int `json:"retweet_count"`
		ReplyCount      int `json:"reply_count"`
	} `json:"public_metrics"`
}

// GetPostMetrics fetches the current public counters for one post ID.
func (c *Client) GetPostMetrics(ctx context.Context, postID string) (PostMetrics, error) {
	if err := c.CheckAuth(); err != nil {
		return PostMetrics{}, err
	}

	url := fmt.Sprintf("%s/tweets/%s?tweet.fields=created_at,public_metrics", c.BaseURL, postID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PostMetrics{}, fmt.Errorf("failed to build metrics request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)

	var resp struct {
		Data postPayload `json:"data"`
	}
	if err := c.http.DoJSON(ctx, req, &resp); err != nil {
		return PostMetrics{}, err
	}
	if resp.Data.ID == "" {
		// The API reports missing posts inside a 200 body as well.
		return PostMetrics{}, &httpx.NotFoundError{Endpoint: url}
	}

	return normalize(resp.Data), nil
}

// GetUserID resolves a username to the platform's user identifier.
func (c *Client) GetUserID(ctx context.Context, username string) (string, error) {
	if err := c.CheckAuth(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/users/by/username/%s", c.BaseURL, username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build user lookup request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.http.DoJSON(ctx, req, &resp); err != nil {
		return "", err
	}
	if resp.Data.ID == "" {
		return "", &httpx.NotFoundError{Endpoint: url}
	}

	return resp.Data.ID, nil
}

// GetUserPosts lists a user's recent posts with their public metrics.
func (c *Client) GetUserPosts(ctx context.Context, userID string, maxResults int) ([]PostMetrics, error) {
	if err := c.CheckAuth(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/users/%s/tweets?max_results=%d&tweet.fields=created_at,public_metrics",
		c.BaseURL, userID, maxResults)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user posts request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)

	var resp struct {
		Data []postPayload `json:"data"`
	}
	if err := c.http.DoJSON(ctx, req, &resp); err != nil {
		return nil, err
	}

	posts := make([]PostMetrics, 0, len(resp.Data))
	for _, p := range resp.Data {
		posts = append(posts, normalize(p))
	}

	return posts, nil
}

func normalize(p postPayload) PostMetrics {
	m := PostMetrics{
		ID:          p.ID,
		Impressions: p.PublicMetrics.ImpressionCount,
		Likes:       p.PublicMetrics.LikeCount,
		Reshares:    p.PublicMetrics.RetweetCount,
		Replies:     p.PublicMetrics.ReplyCount,
	}
	if p.CreatedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
			m.CreatedAt = parsed.UTC()
		}
	}
	return m
}
