// Package catalog implements the read-side CatalogService capability over
// the indexer's HTTP API. The facades compose this client for
// read-modify-write updates; it never writes anything itself.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/waveform-audio/waveform-go/pkg/waveform"
)

const defaultRequestTimeout = 30 * time.Second

// Client talks to the catalog indexer over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New creates a catalog client for the indexer at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("catalog base URL is required")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetTrack fetches the current state of a track.
func (c *Client) GetTrack(ctx context.Context, trackID int64) (*waveform.Track, error) {
	var track waveform.Track
	path := fmt.Sprintf("/v1/tracks/%d", trackID)
	if err := c.get(ctx, path, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// GetPlaylist fetches the current state of a playlist or album.
func (c *Client) GetPlaylist(ctx context.Context, userID, playlistID int64) (*waveform.Playlist, error) {
	q := url.Values{}
	if userID > 0 {
		q.Set("user_id", strconv.FormatInt(userID, 10))
	}
	path := fmt.Sprintf("/v1/playlists/%d", playlistID)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var playlist waveform.Playlist
	if err := c.get(ctx, path, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// GetUnclaimedID reserves an unclaimed numeric entity id of the given kind.
func (c *Client) GetUnclaimedID(ctx context.Context, kind string) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.get(ctx, "/v1/ids/unclaimed?type="+url.QueryEscape(kind), &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return waveform.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("catalog returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}
