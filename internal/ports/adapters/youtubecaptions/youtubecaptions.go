// Package youtubecaptions retrieves native captions for a YouTube
// video: it scrapes the caption track list from the watch page, fetches
// the preferred track document and parses it into plain text.
package youtubecaptions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/goldytalks/novig-scripter/internal/domain/captions"
	"github.com/goldytalks/novig-scripter/internal/ports"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

var captionTracksRE = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

type track struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for auto-generated tracks
}

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
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Transcript fetches and parses the best caption track for videoID.
// Returns ports.ErrNoCaptions when the video has no usable track and
// ports.ErrBlocked when YouTube gates the request.
func (a *Adapter) Transcript(ctx context.Context, videoID, lang string) (string, error) {
	page, err := a.get(ctx, a.baseURL+"/watch?v="+videoID)
	if err != nil {
		return "", err
	}
	if strings.Contains(page, "consent.youtube.com") || strings.Contains(page, `action="https://consent.google.com`) {
		return "", fmt.Errorf("watch page for %s: %w", videoID, ports.ErrBlocked)
	}

	tr, err := pickTrack(page, lang)
	if err != nil {
		return "", err
	}

	doc, err := a.get(ctx, tr.BaseURL)
	if err != nil {
		return "", fmt.Errorf("fetch caption track: %w", err)
	}

	text := captions.Parse(doc)
	if len(text) <= captions.MinUsableLen {
		return "", fmt.Errorf("track %s/%s: %w", videoID, tr.LanguageCode, ports.ErrNoCaptions)
	}
	return text, nil
}

// TrackDocument fetches a caption document directly by its track URL
// and parses it. Used by the client-assisted caption endpoint, where
// the browser already resolved the track URL.
func (a *Adapter) TrackDocument(ctx context.Context, trackURL string) (string, error) {
	doc, err := a.get(ctx, trackURL)
	if err != nil {
		return "", err
	}
	return captions.Parse(doc), nil
}

func pickTrack(page, lang string) (track, error) {
	m := captionTracksRE.FindStringSubmatch(page)
	if m == nil {
		return track{}, ports.ErrNoCaptions
	}

	var tracks []track
	if err := json.Unmarshal([]byte(m[1]), &tracks); err != nil {
		return track{}, fmt.Errorf("decode caption tracks: %w", err)
	}
	if len(tracks) == 0 {
		return track{}, ports.ErrNoCaptions
	}

	for i := range tracks {
		tracks[i].BaseURL = strings.ReplaceAll(tracks[i].BaseURL, "&amp;", "&")
	}

	// Manual track in the preferred language first, then any track in
	// the preferred language, then whatever is first.
	for _, t := range tracks {
		if t.LanguageCode == lang && t.Kind != "asr" {
			return t, nil
		}
	}
	for _, t := range tracks {
		if t.LanguageCode == lang {
			return t, nil
		}
	}
	return tracks[0], nil
}

func (a *Adapter) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("status %d from %s: %w", resp.StatusCode, url, ports.ErrBlocked)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var _ ports.CaptionSource = (*Adapter)(nil)
