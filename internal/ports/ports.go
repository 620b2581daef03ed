// Package ports defines the capability interfaces the core depends on.
// Adapters under ports/adapters implement them against real services.
package ports

import (
	"context"
	"errors"
)

// Sentinel errors adapters use to signal outcomes the chain and the
// HTTP boundary categorize distinctly.
var (
	// ErrNoCaptions means the video exists but has no usable caption
	// track (captions disabled or unavailable).
	ErrNoCaptions = errors.New("no captions available")

	// ErrBlocked means the video host refused automated access (consent
	// gate, sign-in wall, rate limiting).
	ErrBlocked = errors.New("access blocked by video host")
)

// CaptionSource retrieves native captions for a video and returns the
// plain transcript text.
type CaptionSource interface {
	Transcript(ctx context.Context, videoID, lang string) (string, error)
}

// Transcriber produces a transcript from a public video URL through an
// AI transcription capability. No audio extraction happens locally.
type Transcriber interface {
	TranscribeURL(ctx context.Context, videoURL string) (string, error)
}

// CaptionProxy retrieves captions through third-party caption-proxy
// services.
type CaptionProxy interface {
	Name() string
	Transcript(ctx context.Context, videoID string) (string, error)
}

// MetadataSource looks up display metadata for a video. Best-effort:
// implementations return placeholder strings instead of failing.
type MetadataSource interface {
	Lookup(ctx context.Context, videoID string) (title, channel string)
}

// CompletionRequest is one chat-completion invocation.
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// TokenUsage is the token accounting an adapter reports per call.
type TokenUsage struct {
	Prompt     int
	Completion int
	Total      int
}

// CompletionResult is the model output plus accounting.
type CompletionResult struct {
	Text  string
	Model string
	Usage TokenUsage
}

// ChatModel is the language-model capability. The core performs exactly
// one call per script generation.
type ChatModel interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}
