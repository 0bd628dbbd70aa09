package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrGithubBadStatus means GitHub answered with a non-200 status, which the
// routes surface as an unknown GitHub profile.
var ErrGithubBadStatus = errors.New("github responded with non-200 status")

// GithubClient proxies the repository-listing call to the GitHub API using
// configured client credentials.
type GithubClient struct {
	ClientID     string
	ClientSecret string
	Endpoint     string
	HTTPClient   *http.Client
}

func NewGithubClient(clientID, clientSecret string) *GithubClient {
	return &GithubClient{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     "https://api.github.com",
		HTTPClient: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

// Repos fetches up to 5 of the user's repositories sorted by creation date
// ascending and returns the response body verbatim.
func (c *GithubClient) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created:asc")
	if c.ClientID != "" {
		q.Set("client_id", c.ClientID)
	}
	if c.ClientSecret != "" {
		q.Set("client_secret", c.ClientSecret)
	}

	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.Endpoint, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrGithubBadStatus, resp.StatusCode)
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}
