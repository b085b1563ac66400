// Package reddit implements the source-platform API client: OAuth
// client-credentials token acquisition and per-channel hot listings.
package reddit

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"repostudio/app/httpx"
)

const (
	DefaultBaseURL  = "https://oauth.reddit.com"
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"
)

// Credentials holds the application credentials for the token endpoint.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Post is a normalized source item as reported by a channel listing.
type Post struct {
	ID              string
	Channel         string
	Title           string
	Body            string
	URL             string
	Author          string
	Popularity      int
	DiscussionCount int
	CreatedAt       time.Time
}

// Client calls the source API through a paced HTTP client. A token is
// acquired once per run via Authenticate and never cached across runs.
type Client struct {
	BaseURL  string
	TokenURL string

	http  *httpx.Client
	creds Credentials
	token string
}

func NewClient(creds Credentials, paced *httpx.Client) *Client {
	return &Client{
		BaseURL:  DefaultBaseURL,
		TokenURL: DefaultTokenURL,
		http:     paced,
		creds:    creds,
	}
}

// Authenticate exchanges the client credentials for a bearer token. Any
// failure here is fatal for the run.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.creds.ClientID == "" || c.creds.ClientSecret == "" {
		return &httpx.AuthError{Reason: "missing source API credentials in configuration"}
	}

	body := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, body)
	if err != nil {
		return &httpx.AuthError{Reason: "failed to build token request", Err: err}
	}
	req.SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.http.DoJSON(ctx, req, &tokenResp); err != nil {
		return &httpx.AuthError{Reason: "token endpoint rejected credentials", Err: err}
	}
	if tokenResp.AccessToken == "" {
		return &httpx.AuthError{Reason: "token endpoint returned an empty token"}
	}

	c.token = tokenResp.AccessToken
	return nil
}

// listing mirrors the wire format of a channel listing response.
type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID          string  `json:"id"`
				Subreddit   string  `json:"subreddit"`
				Title       string  `json:"title"`
				Selftext    string  `json:"selftext"`
				URL         string  `json:"url"`
				Author      string  `json:"author"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchHot returns the current page of hot items for one channel. The whole
// page arrives as a single API response, so no pacing happens within it.
func (c *Client) FetchHot(ctx context.Context, channel string, limit int) ([]Post, error) {
	if c.token == "" {
		return nil, &httpx.AuthError{Reason: "FetchHot called before Authenticate"}
	}

	url := fmt.Sprintf("%s/r/%s/hot?limit=%d", c.BaseURL, channel, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build listing request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	var resp listing
	if err := c.http.DoJSON(ctx, req, &resp); err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(resp.Data.Children))
	for _, child := range resp.Data.Children {
		d := child.Data
		posts = append(posts, Post{
			ID:              d.ID,
			Channel:         d.Subreddit,
			Title:           d.Title,
			Body:            d.Selftext,
			URL:             d.URL,
			Author:          d.Author,
			Popularity:      d.Score,
			DiscussionCount: d.NumComments,
			CreatedAt:       time.Unix(int64(d.CreatedUTC), 0).UTC(),
		})
	}

	return posts, nil
}
