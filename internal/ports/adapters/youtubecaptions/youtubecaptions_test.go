package youtubecaptions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goldytalks/novig-scripter/internal/ports"
)

const captionDoc = `<transcript><text start="0">Lakers minus four is free money tonight folks</text></transcript>`

func TestTranscript_PrefersManualTrackInLanguage(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[`+
			`{"baseUrl":"%s/track/asr","languageCode":"en","kind":"asr"},`+
			`{"baseUrl":"%s/track/manual","languageCode":"en"}`+
			`]}}};`, srvURL, srvURL)
	})
	mux.HandleFunc("/track/manual", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, captionDoc)
	})
	mux.HandleFunc("/track/asr", func(w http.ResponseWriter, r *http.Request) {
		t.Error("asr track should not be fetched when a manual track exists")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	a := New(srv.URL)
	got, err := a.Transcript(context.Background(), "abc123", "en")
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if got != "Lakers minus four is free money tonight folks" {
		t.Fatalf("unexpected transcript: %q", got)
	}
}

func TestTranscript_NoCaptionTracks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>watch page without captions</html>")
	}))
	defer srv.Close()

	a := New(srv.URL)
	_, err := a.Transcript(context.Background(), "abc123", "en")
	if !errors.Is(err, ports.ErrNoCaptions) {
		t.Fatalf("expected ErrNoCaptions, got %v", err)
	}
}

func TestTranscript_ConsentGateIsBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><a href="https://consent.youtube.com/m?continue=x">Sign in</a></html>`)
	}))
	defer srv.Close()

	a := New(srv.URL)
	_, err := a.Transcript(context.Background(), "abc123", "en")
	if !errors.Is(err, ports.ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
}

func TestTranscript_TooShortIsNoCaptions(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `"captionTracks":[{"baseUrl":"%s/track","languageCode":"en"}]`, srvURL)
	})
	mux.HandleFunc("/track", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<transcript><text start="0">hi</text></transcript>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	a := New(srv.URL)
	_, err := a.Transcript(context.Background(), "abc123", "en")
	if !errors.Is(err, ports.ErrNoCaptions) {
		t.Fatalf("expected ErrNoCaptions for too-short captions, got %v", err)
	}
}

func TestTranscript_RateLimitIsBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := New(srv.URL)
	_, err := a.Transcript(context.Background(), "abc123", "en")
	if !errors.Is(err, ports.ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
}

func TestPickTrack_EscapedAmpersands(t *testing.T) {
	page := `"captionTracks":[{"baseUrl":"https://yt.example/api/timedtext?v=1&amp;lang=en","languageCode":"en"}]`
	tr, err := pickTrack(page, "en")
	if err != nil {
		t.Fatalf("pickTrack: %v", err)
	}
	if tr.BaseURL != "https://yt.example/api/timedtext?v=1&lang=en" {
		t.Fatalf("unescaped baseUrl: %q", tr.BaseURL)
	}
}
