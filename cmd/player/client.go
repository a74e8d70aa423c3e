package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Harsh00198/Auraluxe-Music/internal/catalog"
	"github.com/Harsh00198/Auraluxe-Music/internal/models"
)

// apiClient talks to the Auraluxe REST API on behalf of the terminal player.
type apiClient struct {
	base  string
	token string
	http  *http.Client
}

func newAPIClient(base, token string) *apiClient {
	return &apiClient{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) Login(ctx context.Context, email, password string) (string, models.User, error) {
	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &resp)
	return resp.Token, resp.User, err
}

func (c *apiClient) Me(ctx context.Context) (models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp)
	return resp.User, err
}

func (c *apiClient) Search(ctx context.Context, query string, limit int) ([]catalog.Track, error) {
	q := url.Values{"q": {query}, "limit": {fmt.Sprint(limit)}}
	var resp catalog.SearchResult
	err := c.do(ctx, http.MethodGet, "/music/search?"+q.Encode(), nil, &resp)
	return resp.Tracks, err
}

func (c *apiClient) Trending(ctx context.Context, limit int) ([]catalog.Track, error) {
	var resp struct {
		Tracks []catalog.Track `json:"tracks"`
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/music/trending?limit=%d", limit), nil, &resp)
	return resp.Tracks, err
}
