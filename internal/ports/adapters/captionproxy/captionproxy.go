// Package captionproxy retrieves captions through third-party
// caption-proxy services. Instances are tried in their configured
// order, each with its own short timeout; the first usable result wins.
package captionproxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goldytalks/novig-scripter/internal/domain/captions"
	"github.com/goldytalks/novig-scripter/internal/ports"
)

const perInstanceTimeout = 8 * time.Second

type manifest struct {
	CaptionTracks []struct {
		LanguageCode string `json:"languageCode"`
		URL          string `json:"url"`
	} `json:"captionTracks"`
}

type Adapter struct {
	instances []string
	lang      string
	client    *http.Client
}

func New(instances []string, lang string) *Adapter {
	if lang == "" {
		lang = "en"
	}
	trimmed := make([]string, 0, len(instances))
	for _, in := range instances {
		if s := strings.TrimRight(strings.TrimSpace(in), "/"); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	return &Adapter{
		instances: trimmed,
		lang:      lang,
		client:    &http.Client{Timeout: perInstanceTimeout},
	}
}

func (a *Adapter) Name() string { return "caption-proxy" }

// Configured reports whether any proxy instance is configured.
func (a *Adapter) Configured() bool { return len(a.instances) > 0 }

// Transcript tries each instance in order and returns the first usable
// transcript. Per-instance failures are collected, not fatal.
func (a *Adapter) Transcript(ctx context.Context, videoID string) (string, error) {
	if len(a.instances) == 0 {
		return "", errors.New("no caption-proxy instances configured")
	}

	var errs []string
	for _, base := range a.instances {
		text, err := a.fromInstance(ctx, base, videoID)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", base, err))
			continue
		}
		return text, nil
	}
	return "", fmt.Errorf("all caption-proxy instances failed: %s", strings.Join(errs, "; "))
}

func (a *Adapter) fromInstance(ctx context.Context, base, videoID string) (string, error) {
	ictx, cancel := context.WithTimeout(ctx, perInstanceTimeout)
	defer cancel()

	mURL := base + "/api/v1/captions?videoId=" + url.QueryEscape(videoID)
	body, err := a.get(ictx, mURL)
	if err != nil {
		return "", err
	}

	var man manifest
	if err := json.Unmarshal(body, &man); err != nil {
		return "", fmt.Errorf("decode manifest: %w", err)
	}
	if len(man.CaptionTracks) == 0 {
		return "", ports.ErrNoCaptions
	}

	trackURL := man.CaptionTracks[0].URL
	for _, t := range man.CaptionTracks {
		if t.LanguageCode == a.lang {
			trackURL = t.URL
			break
		}
	}

	doc, err := a.get(ictx, trackURL)
	if err != nil {
		return "", fmt.Errorf("fetch track: %w", err)
	}

	text := captions.Parse(string(doc))
	if len(text) <= captions.MinUsableLen {
		return "", ports.ErrNoCaptions
	}
	return text, nil
}

func (a *Adapter) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d from %s", resp.StatusCode, u)
	}
	return io.ReadAll(resp.Body)
}

var _ ports.CaptionProxy = (*Adapter)(nil)
