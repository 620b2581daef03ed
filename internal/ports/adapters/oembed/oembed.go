// Package oembed looks up video title and channel through YouTube's
// oEmbed endpoint. Strictly best-effort: any failure yields fixed
// placeholder strings, never an error.
package oembed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goldytalks/novig-scripter/internal/ports"
)

const (
	PlaceholderTitle   = "Unknown title"
	PlaceholderChannel = "Unknown creator"
)

type Adapter struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = "https://www.youtube.com"
	}
	return &Adapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Lookup returns the video's title and channel, or placeholders when
// the lookup fails for any reason.
func (a *Adapter) Lookup(ctx context.Context, videoID string) (string, string) {
	watchURL := "https://www.youtube.com/watch?v=" + videoID
	u := a.baseURL + "/oembed?url=" + url.QueryEscape(watchURL) + "&format=json"

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return PlaceholderTitle, PlaceholderChannel
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return PlaceholderTitle, PlaceholderChannel
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return PlaceholderTitle, PlaceholderChannel
	}

	var out struct {
		Title      string `json:"title"`
		AuthorName string `json:"author_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return PlaceholderTitle, PlaceholderChannel
	}

	title := strings.TrimSpace(out.Title)
	channel := strings.TrimSpace(out.AuthorName)
	if title == "" {
		title = PlaceholderTitle
	}
	if channel == "" {
		channel = PlaceholderChannel
	}
	return title, channel
}

var _ ports.MetadataSource = (*Adapter)(nil)
