package transcript

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedURL means the URL matched no known video host.
	ErrUnsupportedURL = errors.New("unsupported URL: paste a YouTube link or a transcript")

	// ErrManualRequired means the platform has no caption support in
	// this design and the caller must paste a transcript. Deliberate
	// non-goal, not a gap.
	ErrManualRequired = errors.New("no automatic transcripts for this platform: paste the transcript instead")

	// ErrNoTranscript tags acquisition exhaustion: every source failed
	// or timed out. Always recoverable by supplying a manual transcript.
	ErrNoTranscript = errors.New("could not get a transcript for this video")
)

// ExhaustedError is returned when the whole chain fails. It carries the
// per-source attempt record for diagnostics and unwraps to
// ErrNoTranscript so callers can classify it.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	if e.captionsUnavailable() {
		return "captions are disabled or unavailable for this video: paste the transcript to continue"
	}
	return "could not get a transcript for this video: paste the transcript to continue"
}

func (e *ExhaustedError) Unwrap() error { return ErrNoTranscript }

// captionsUnavailable reports whether the failure looks like the video
// simply has no captions, as opposed to sources erroring out.
func (e *ExhaustedError) captionsUnavailable() bool {
	for _, a := range e.Attempts {
		if a.Source == SourceNativeCaptions && a.Outcome == OutcomeError &&
			strings.Contains(a.Detail, "no captions") {
			return true
		}
	}
	return false
}

// Diagnostic renders the attempt record as one line for logs and error
// payloads. Best-effort debugging output, not part of the contract.
func (e *ExhaustedError) Diagnostic() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s=%s(%s)", a.Source, a.Outcome, a.Detail))
	}
	return strings.Join(parts, " ")
}
