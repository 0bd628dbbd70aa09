// Package client is a small API client mirroring the web client's profile
// actions: it calls the profile routes, keeps the last fetched profile and
// error in local state, and reports outcomes through alert/navigation hooks.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Error is the descriptor stored after a failed request.
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("request failed: %s (status %d)", e.Message, e.StatusCode)
}

// AlertFunc receives user-facing notifications ("success" or "danger").
type AlertFunc func(msg, kind string)

// NavigateFunc is called to move the UI to a new path.
type NavigateFunc func(path string)

type Config struct {
	BaseURL    string
	Token      string
	Alert      AlertFunc
	Navigate   NavigateFunc
	HTTPClient *http.Client
}

type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	alert    AlertFunc
	navigate NavigateFunc

	mu      sync.Mutex
	profile json.RawMessage
	lastErr *Error
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	alert := cfg.Alert
	if alert == nil {
		alert = func(string, string) {}
	}
	navigate := cfg.Navigate
	if navigate == nil {
		navigate = func(string) {}
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.Token,
		http:     httpClient,
		alert:    alert,
		navigate: navigate,
	}
}

// GetCurrentProfile fetches the authenticated user's profile and stores it.
// On failure the error descriptor is stored instead.
func (c *Client) GetCurrentProfile(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/profile/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-auth-token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.storeError(&Error{Message: err.Error()})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		reqErr := &Error{Message: http.StatusText(resp.StatusCode), StatusCode: resp.StatusCode}
		c.storeError(reqErr)
		return nil, reqErr
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	c.storeProfile(body)
	return body, nil
}

// CreateProfile submits the profile form. On success it stores the returned
// profile, emits a success alert, and navigates to the dashboard when this
// is a creation rather than an edit. On failure it emits one alert per
// server-side field error and stores the error descriptor.
func (c *Client) CreateProfile(ctx context.Context, fields map[string]string, edit bool) (json.RawMessage, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/profile", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-auth-token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.storeError(&Error{Message: err.Error()})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Errors []struct {
				Msg string `json:"msg"`
			} `json:"errors"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err == nil {
			for _, fieldErr := range failure.Errors {
				c.alert(fieldErr.Msg, "danger")
			}
		}
		reqErr := &Error{Message: http.StatusText(resp.StatusCode), StatusCode: resp.StatusCode}
		c.storeError(reqErr)
		return nil, reqErr
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	c.storeProfile(body)

	if edit {
		c.alert("Profile Updated", "success")
	} else {
		c.alert("Profile created", "success")
		c.navigate("/dashboard")
	}
	return body, nil
}

// Profile returns the last successfully fetched or submitted profile.
func (c *Client) Profile() json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// LastError returns the descriptor of the most recent failure, if any.
func (c *Client) LastError() *Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Client) storeProfile(body json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = body
	c.lastErr = nil
}

func (c *Client) storeError(reqErr *Error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = reqErr
}
