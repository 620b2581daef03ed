package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goldytalks/novig-scripter/internal/types"
)

const watchURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

type fakeCaptions struct {
	text  string
	err   error
	calls int
}

func (f *fakeCaptions) Transcript(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeTranscriber struct {
	text  string
	err   error
	delay time.Duration
	calls int
}

func (f *fakeTranscriber) TranscribeURL(ctx context.Context, _ string) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

type fakeProxy struct {
	text  string
	err   error
	calls int
}

func (f *fakeProxy) Name() string { return "fake-proxy" }

func (f *fakeProxy) Transcript(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeMeta struct {
	calls int
}

func (f *fakeMeta) Lookup(_ context.Context, _ string) (string, string) {
	f.calls++
	return "Title", "Channel"
}

func TestResolve_ManualOverrideSkipsAllSources(t *testing.T) {
	caps := &fakeCaptions{text: "should never be used"}
	tr := &fakeTranscriber{text: "should never be used"}
	meta := &fakeMeta{}
	c := &Chain{Captions: caps, Transcriber: tr, Meta: meta}

	res, attempts, err := c.Resolve(context.Background(), watchURL, "  my pasted transcript about tonight's picks  ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Transcript != "my pasted transcript about tonight's picks" {
		t.Fatalf("manual transcript not trimmed exactly: %q", res.Transcript)
	}
	if caps.calls != 0 || tr.calls != 0 {
		t.Fatalf("acquisition sources were invoked: captions=%d transcriber=%d", caps.calls, tr.calls)
	}
	if meta.calls != 1 {
		t.Fatalf("expected one metadata lookup, got %d", meta.calls)
	}
	if len(attempts) != 0 {
		t.Fatalf("expected no attempts for manual override, got %v", attempts)
	}
}

func TestResolve_ManualWithoutURL(t *testing.T) {
	c := &Chain{}
	res, _, err := c.Resolve(context.Background(), "", "a transcript pasted with no url at all")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Meta.Platform != types.PlatformManual {
		t.Fatalf("platform = %q, want manual", res.Meta.Platform)
	}
}

func TestResolve_FirstSourceWins(t *testing.T) {
	caps := &fakeCaptions{text: "native captions transcript with plenty of words"}
	tr := &fakeTranscriber{text: "ai transcript"}
	pr := &fakeProxy{text: "proxy transcript"}
	c := &Chain{Captions: caps, Transcriber: tr, Proxy: pr, Meta: &fakeMeta{}}

	res, attempts, err := c.Resolve(context.Background(), watchURL, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Transcript != "native captions transcript with plenty of words" {
		t.Fatalf("unexpected transcript: %q", res.Transcript)
	}
	if tr.calls != 0 || pr.calls != 0 {
		t.Fatalf("later sources should not start: transcriber=%d proxy=%d", tr.calls, pr.calls)
	}
	if len(attempts) != 1 || attempts[0].Outcome != OutcomeOK {
		t.Fatalf("unexpected attempts: %+v", attempts)
	}
	if res.Meta.VideoID != "dQw4w9WgXcQ" || res.Meta.Platform != types.PlatformYouTube {
		t.Fatalf("unexpected meta: %+v", res.Meta)
	}
}

func TestResolve_SecondSourceAfterFirstFails(t *testing.T) {
	caps := &fakeCaptions{err: errors.New("fetch failed")}
	tr := &fakeTranscriber{text: "the ai transcription result with enough length"}
	pr := &fakeProxy{text: "proxy transcript"}
	c := &Chain{Captions: caps, Transcriber: tr, Proxy: pr, Meta: &fakeMeta{}}

	res, attempts, err := c.Resolve(context.Background(), watchURL, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Transcript != "the ai transcription result with enough length" {
		t.Fatalf("unexpected transcript: %q", res.Transcript)
	}
	if pr.calls != 0 {
		t.Fatalf("third source should never be invoked, got %d calls", pr.calls)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if attempts[0].Outcome != OutcomeError || attempts[1].Outcome != OutcomeOK {
		t.Fatalf("unexpected outcomes: %+v", attempts)
	}
}

func TestResolve_TooShortResultTriesNext(t *testing.T) {
	caps := &fakeCaptions{text: "short"}
	tr := &fakeTranscriber{text: "a long enough transcript from the fallback source"}
	c := &Chain{Captions: caps, Transcriber: tr, Meta: &fakeMeta{}}

	res, attempts, err := c.Resolve(context.Background(), watchURL, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Transcript != "a long enough transcript from the fallback source" {
		t.Fatalf("unexpected transcript: %q", res.Transcript)
	}
	if attempts[0].Outcome != OutcomeEmpty {
		t.Fatalf("expected empty outcome for short result, got %+v", attempts[0])
	}
}

func TestResolve_AllSourcesExhausted(t *testing.T) {
	caps := &fakeCaptions{err: errors.New("video has no captions available")}
	tr := &fakeTranscriber{err: errors.New("model unavailable")}
	c := &Chain{Captions: caps, Transcriber: tr, Meta: &fakeMeta{}}

	_, attempts, err := c.Resolve(context.Background(), watchURL, "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("expected ErrNoTranscript, got %v", err)
	}
	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected ExhaustedError, got %T", err)
	}
	if len(ex.Attempts) != 2 || len(attempts) != 2 {
		t.Fatalf("attempt record incomplete: %+v", ex.Attempts)
	}
	if ex.Diagnostic() == "" {
		t.Fatal("expected a diagnostic line")
	}
	// "no captions" from the native source makes the message specific.
	if got := ex.Error(); got != "captions are disabled or unavailable for this video: paste the transcript to continue" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestResolve_SourceTimeoutMovesOn(t *testing.T) {
	tr := &fakeTranscriber{text: "never arrives", delay: 5 * time.Second}
	pr := &fakeProxy{text: "proxy transcript long enough to be usable"}
	c := &Chain{
		Transcriber: tr,
		Proxy:       pr,
		Meta:        &fakeMeta{},
		Timeouts:    Timeouts{Transcribe: 50 * time.Millisecond},
	}

	done := make(chan struct{})
	var attempts []Attempt
	var res types.TranscriptResult
	var err error
	go func() {
		defer close(done)
		res, attempts, err = c.Resolve(context.Background(), watchURL, "")
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("chain did not abandon the slow source")
	}

	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Transcript != "proxy transcript long enough to be usable" {
		t.Fatalf("unexpected transcript: %q", res.Transcript)
	}
	if attempts[0].Outcome != OutcomeTimeout {
		t.Fatalf("expected timeout outcome, got %+v", attempts[0])
	}
	if attempts[0].ElapsedMs < 40 || attempts[0].ElapsedMs > 2000 {
		t.Fatalf("elapsed = %dms, want roughly the 50ms timeout", attempts[0].ElapsedMs)
	}
}

func TestAttemptMarshalsElapsedInMilliseconds(t *testing.T) {
	b, err := json.Marshal(Attempt{Source: "ai-transcription", Outcome: OutcomeTimeout, ElapsedMs: 1500})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"elapsedMs":1500`) {
		t.Fatalf("attempt JSON = %s, want elapsedMs in milliseconds", b)
	}
}

func TestResolve_InstagramRequiresManual(t *testing.T) {
	c := &Chain{Captions: &fakeCaptions{text: "nope"}}
	_, _, err := c.Resolve(context.Background(), "https://www.instagram.com/reel/Cxyz123/", "")
	if !errors.Is(err, ErrManualRequired) {
		t.Fatalf("expected ErrManualRequired, got %v", err)
	}
}

func TestResolve_UnsupportedURL(t *testing.T) {
	c := &Chain{}
	_, _, err := c.Resolve(context.Background(), "https://example.com/video/1", "")
	if !errors.Is(err, ErrUnsupportedURL) {
		t.Fatalf("expected ErrUnsupportedURL, got %v", err)
	}
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		platform types.Platform
		id       string
		wantErr  bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", types.PlatformYouTube, "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", types.PlatformYouTube, "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ", types.PlatformYouTube, "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/shorts/Abc_123xyz9", types.PlatformYouTube, "Abc_123xyz9", false},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", types.PlatformYouTube, "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/live/dQw4w9WgXcQ", types.PlatformYouTube, "dQw4w9WgXcQ", false},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", types.PlatformYouTube, "dQw4w9WgXcQ", false},
		{"https://www.instagram.com/reel/Cxyz123/", types.PlatformInstagram, "Cxyz123", false},
		{"https://www.instagram.com/p/Cxyz123/", types.PlatformInstagram, "Cxyz123", false},
		{"https://www.instagram.com/somecreator/", types.PlatformInstagram, "somecreator", false},
		{"https://vimeo.com/12345", "", "", true},
		{"not a url", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			platform, id, err := DetectPlatform(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if platform != tt.platform || id != tt.id {
				t.Fatalf("got %s/%s, want %s/%s", platform, id, tt.platform, tt.id)
			}
		})
	}
}
