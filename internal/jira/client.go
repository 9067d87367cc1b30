// internal/jira/client.go
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/R4F405/discord-jira-bot/internal/config"
)

// Client wraps the Jira REST API v3 endpoints used by the bot.  A single
// Client is shared by every command invocation; the underlying
// http.Client pools connections.
type Client struct {
	BaseURL    string
	Email      string
	Token      string
	HTTPClient *http.Client
}

// NewClient constructs a Jira client from the supplied configuration.
func NewClient(cfg config.JiraConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		Email:      cfg.Email,
		Token:      cfg.APIToken,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// StatusError is returned when Jira answers with a non-2xx status.
type StatusError struct {
	StatusCode    int
	ErrorMessages []string
	Body          string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("jira status=%d body=%s", e.StatusCode, preview(e.Body, 600))
}

// FirstMessage returns the first entry of Jira's errorMessages array, or
// def when Jira sent none.
func (e *StatusError) FirstMessage(def string) string {
	for _, m := range e.ErrorMessages {
		if strings.TrimSpace(m) != "" {
			return m
		}
	}
	return def
}

// TransportError is returned when the request never produced an HTTP
// response (DNS, connection refused, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "jira transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from Jira.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// BrowseURL returns the web URL of an issue, or "" when no base URL is set.
func (c *Client) BrowseURL(key string) string {
	return BrowseURL(c.BaseURL, key)
}

// BrowseURL returns baseURL/browse/key, or "" when baseURL is empty.
func BrowseURL(baseURL, key string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return ""
	}
	return baseURL + "/browse/" + url.PathEscape(key)
}

// GetIssue fetches a single issue by key and returns the raw document.
// The key is upper-cased before the request.
func (c *Client) GetIssue(ctx context.Context, key string) (map[string]any, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		return nil, errors.New("empty issue key")
	}
	u := fmt.Sprintf("%s/rest/api/3/issue/%s", c.BaseURL, url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchJQL runs one page of a JQL search through POST
// /rest/api/3/search/jql.  JQL syntax is not validated by this method;
// Jira answers 400 with errorMessages for malformed queries.
func (c *Client) SearchJQL(ctx context.Context, jql string, maxResults int, fields []string) (SearchResult, error) {
	b, err := json.Marshal(SearchJQLReq{
		JQL:        jql,
		MaxResults: maxResults,
		Fields:     fields,
	})
	if err != nil {
		return SearchResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/rest/api/3/search/jql", bytes.NewReader(b))
	if err != nil {
		return SearchResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	var out SearchResult
	if err := c.doJSON(req, &out); err != nil {
		return SearchResult{}, err
	}
	return out, nil
}

func (c *Client) doJSON(req *http.Request, v any) error {
	if c.BaseURL == "" {
		return errors.New("missing Jira base URL")
	}
	if c.Email == "" || c.Token == "" {
		return errors.New("missing Jira credentials")
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.Email, c.Token)

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{StatusCode: resp.StatusCode, Body: string(rb)}
		var apiErr struct {
			ErrorMessages []string `json:"errorMessages"`
		}
		if json.Unmarshal(rb, &apiErr) == nil {
			se.ErrorMessages = apiErr.ErrorMessages
		}
		return se
	}
	if err := json.Unmarshal(rb, v); err != nil {
		return fmt.Errorf("parse jira response: %w", err)
	}
	return nil
}

// preview shortens response bodies quoted in errors.
func preview(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n] + "…"
	}
	return s
}
