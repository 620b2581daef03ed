// Package transcript acquires a transcript for a video URL through an
// ordered chain of sources, each gated by its own timeout. Sources run
// sequentially; the first usable result short-circuits the rest.
package transcript

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/goldytalks/novig-scripter/internal/domain/captions"
	"github.com/goldytalks/novig-scripter/internal/ports"
	"github.com/goldytalks/novig-scripter/internal/types"
)

// Source names as they appear in attempt records and logs.
const (
	SourceManual         = "manual"
	SourceNativeCaptions = "native-captions"
	SourceAITranscribe   = "ai-transcription"
	SourceCaptionProxy   = "caption-proxy"
)

// Default per-source timeouts. Native captions are cheap and fast; AI
// transcription is slow and billed, so it gets a wide window.
const (
	NativeTimeout     = 10 * time.Second
	TranscribeTimeout = 45 * time.Second
	ProxyTimeout      = 25 * time.Second
)

// Outcome tags one source attempt. A tagged value instead of an error
// keeps "source unavailable" an expected result, not an exception.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeEmpty   Outcome = "empty"
	OutcomeError   Outcome = "error"
	OutcomeTimeout Outcome = "timeout"
)

// Attempt records one source attempt for diagnostics. Threaded through
// the request rather than stored process-wide, so concurrent requests
// never race on it.
type Attempt struct {
	Source    string  `json:"source"`
	Outcome   Outcome `json:"outcome"`
	Detail    string  `json:"detail,omitempty"`
	Chars     int     `json:"chars"`
	ElapsedMs int64   `json:"elapsedMs"`
}

// Timeouts overrides the per-source timeouts. Zero values fall back to
// the defaults above.
type Timeouts struct {
	Native     time.Duration
	Transcribe time.Duration
	Proxy      time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Native <= 0 {
		t.Native = NativeTimeout
	}
	if t.Transcribe <= 0 {
		t.Transcribe = TranscribeTimeout
	}
	if t.Proxy <= 0 {
		t.Proxy = ProxyTimeout
	}
	return t
}

// Chain is the transcript source chain. Nil capabilities are skipped,
// keeping partially-configured deployments working.
type Chain struct {
	Captions    ports.CaptionSource
	Transcriber ports.Transcriber
	Proxy       ports.CaptionProxy
	Meta        ports.MetadataSource
	Lang        string
	Timeouts    Timeouts
	Logger      *slog.Logger
}

// Resolve produces a transcript for rawURL. A non-blank manual
// transcript wins unconditionally: no acquisition runs, only the
// lightweight metadata lookup. The attempt record is returned in every
// case, success included.
func (c *Chain) Resolve(ctx context.Context, rawURL, manual string) (types.TranscriptResult, []Attempt, error) {
	if text := strings.TrimSpace(manual); text != "" {
		return c.resolveManual(ctx, rawURL, text), nil, nil
	}

	platform, videoID, err := DetectPlatform(rawURL)
	if err != nil {
		return types.TranscriptResult{}, nil, err
	}
	if platform == types.PlatformInstagram {
		return types.TranscriptResult{}, nil, ErrManualRequired
	}

	meta := c.lookupMeta(ctx, videoID, platform)

	var attempts []Attempt
	for _, src := range c.sources(rawURL, videoID) {
		text, att := c.attempt(ctx, src)
		attempts = append(attempts, att)
		c.logAttempt(att)
		if att.Outcome == OutcomeOK {
			return types.TranscriptResult{Transcript: text, Meta: meta}, attempts, nil
		}
	}

	return types.TranscriptResult{}, attempts, &ExhaustedError{Attempts: attempts}
}

type source struct {
	name    string
	timeout time.Duration
	fetch   func(context.Context) (string, error)
}

func (c *Chain) sources(rawURL, videoID string) []source {
	to := c.Timeouts.withDefaults()
	var out []source
	if c.Captions != nil {
		out = append(out, source{
			name:    SourceNativeCaptions,
			timeout: to.Native,
			fetch: func(ctx context.Context) (string, error) {
				return c.Captions.Transcript(ctx, videoID, c.lang())
			},
		})
	}
	if c.Transcriber != nil {
		out = append(out, source{
			name:    SourceAITranscribe,
			timeout: to.Transcribe,
			fetch: func(ctx context.Context) (string, error) {
				return c.Transcriber.TranscribeURL(ctx, rawURL)
			},
		})
	}
	if c.Proxy != nil {
		out = append(out, source{
			name:    SourceCaptionProxy,
			timeout: to.Proxy,
			fetch: func(ctx context.Context) (string, error) {
				return c.Proxy.Transcript(ctx, videoID)
			},
		})
	}
	return out
}

// attempt races one source against its timeout. On timeout the
// in-flight fetch is abandoned: whatever it eventually returns is
// discarded, and control moves to the next source.
func (c *Chain) attempt(ctx context.Context, src source) (string, Attempt) {
	start := time.Now()
	att := Attempt{Source: src.name}

	sctx, cancel := context.WithTimeout(ctx, src.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := src.fetch(sctx)
		ch <- result{text: text, err: err}
	}()

	select {
	case r := <-ch:
		att.ElapsedMs = time.Since(start).Milliseconds()
		if r.err != nil {
			att.Outcome = OutcomeError
			att.Detail = r.err.Error()
			return "", att
		}
		text := strings.TrimSpace(r.text)
		att.Chars = len(text)
		if len(text) <= captions.MinUsableLen {
			att.Outcome = OutcomeEmpty
			att.Detail = "transcript too short"
			return "", att
		}
		att.Outcome = OutcomeOK
		return text, att
	case <-sctx.Done():
		att.ElapsedMs = time.Since(start).Milliseconds()
		if errors.Is(sctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			att.Outcome = OutcomeTimeout
			att.Detail = src.timeout.String()
		} else {
			att.Outcome = OutcomeError
			att.Detail = sctx.Err().Error()
		}
		return "", att
	}
}

func (c *Chain) resolveManual(ctx context.Context, rawURL, text string) types.TranscriptResult {
	meta := types.VideoMeta{
		Title:    "Pasted transcript",
		Channel:  "",
		Platform: types.PlatformManual,
	}
	// If a recognizable URL came along, still fetch display metadata.
	if platform, videoID, err := DetectPlatform(rawURL); err == nil && platform == types.PlatformYouTube {
		meta = c.lookupMeta(ctx, videoID, platform)
	}
	return types.TranscriptResult{Transcript: text, Meta: meta}
}

func (c *Chain) lookupMeta(ctx context.Context, videoID string, platform types.Platform) types.VideoMeta {
	meta := types.VideoMeta{VideoID: videoID, Platform: platform}
	if c.Meta != nil {
		meta.Title, meta.Channel = c.Meta.Lookup(ctx, videoID)
	}
	return meta
}

func (c *Chain) lang() string {
	if c.Lang == "" {
		return "en"
	}
	return c.Lang
}

func (c *Chain) logAttempt(att Attempt) {
	if c.Logger == nil {
		return
	}
	c.Logger.Info("transcript source attempt",
		"source", att.Source,
		"outcome", string(att.Outcome),
		"chars", att.Chars,
		"elapsed_ms", att.ElapsedMs,
		"detail", att.Detail,
	)
}
