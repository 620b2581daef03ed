package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goldytalks/novig-scripter/internal/usecase"
)

func validConfig() Config {
	return Config{
		OpenRouterAPIKey: "sk-or-test",
		URL:              "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "ok", mutate: func(*Config) {}},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.OpenRouterAPIKey = "" },
			wantErr: "API key",
		},
		{
			name: "no url and no manual transcript",
			mutate: func(c *Config) {
				c.URL = ""
				c.ManualTranscript = "   "
			},
			wantErr: "video url or a manual transcript",
		},
		{
			name:    "manual transcript alone is enough",
			mutate:  func(c *Config) { c.URL = ""; c.ManualTranscript = "pasted text" },
			wantErr: "",
		},
		{
			name:    "unknown style",
			mutate:  func(c *Config) { c.Style = "shouty" },
			wantErr: "style must be one of",
		},
		{
			name:    "unsupported duration",
			mutate:  func(c *Config) { c.TargetSeconds = 75 },
			wantErr: "duration must be one of",
		},
		{
			name:    "base url host not allowed",
			mutate:  func(c *Config) { c.OpenRouterBaseURL = "https://evil.example.com" },
			wantErr: "not in OPENROUTER_ALLOWED_HOSTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidate_NoAPIKeyIsSentinel(t *testing.T) {
	cfg := validConfig()
	cfg.OpenRouterAPIKey = ""
	if err := cfg.Validate(); !errors.Is(err, usecase.ErrNoAPIKey) {
		t.Fatalf("err = %v, want ErrNoAPIKey", err)
	}
}

func TestBuildUsecase_MissingKeyFailsBeforeAnyRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request to %s with no API key configured", r.URL.Path)
	}))
	defer srv.Close()

	cfg := Config{
		OpenRouterBaseURL: srv.URL,
		ManualTranscript:  "Lakers minus four is free money tonight folks, hammer it before the line moves",
	}
	uc, err := BuildUsecase(context.Background(), cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("build usecase: %v", err)
	}

	_, _, err = uc.Generate(context.Background(), usecase.GenerateInput{
		ManualTranscript: cfg.ManualTranscript,
	})
	if !errors.Is(err, usecase.ErrNoAPIKey) {
		t.Fatalf("err = %v, want ErrNoAPIKey", err)
	}
}

func TestBuildRunOutDir(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	got := buildRunOutDir("out", "dQw4w9WgXcQ", now)

	if !strings.HasPrefix(got, filepath.Join("out", "dqw4w9wgxcq-20260314-150926Z-")) {
		t.Errorf("dir = %q", got)
	}
	base := filepath.Base(got)
	parts := strings.Split(base, "-")
	if suffix := parts[len(parts)-1]; len(suffix) != 6 {
		t.Errorf("suffix = %q, want 6 hex chars", suffix)
	}
}

func TestBuildRunOutDir_Defaults(t *testing.T) {
	now := time.Now().UTC()
	got := buildRunOutDir("", "!!!", now)
	if !strings.HasPrefix(got, filepath.Join("out", "script-")) {
		t.Errorf("dir = %q, want defaults for empty root and unusable name", got)
	}
}

func TestNormalizePathSegment(t *testing.T) {
	tests := []struct{ in, want string }{
		{"NBA Picks Tonight!", "nba-picks-tonight"},
		{"  spaced  out  ", "spaced-out"},
		{"___", ""},
		{"MiXeD123", "mixed123"},
	}
	for _, tt := range tests {
		if got := normalizePathSegment(tt.in); got != tt.want {
			t.Errorf("normalizePathSegment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadPicksFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "picks.yaml")
	data := `hook: "Stop scrolling. Three picks print tonight."
picks:
  - game: "LAL @ BOS"
    market: spread
    selection: "LAL -4"
    odds: "-110"
    reasoning: "Boston on a back to back"
  - game: "NYK @ MIA"
    market: total
    selection: "over 212.5"
    odds: "-105"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	pf, err := LoadPicksFile(path)
	if err != nil {
		t.Fatalf("LoadPicksFile: %v", err)
	}
	if len(pf.Picks) != 2 {
		t.Fatalf("picks = %d, want 2", len(pf.Picks))
	}
	if pf.Picks[0].Selection != "LAL -4" || pf.Picks[0].Reasoning == "" {
		t.Errorf("first pick = %+v", pf.Picks[0])
	}
	if pf.Hook == "" {
		t.Error("hook not decoded")
	}
}

func TestLoadPicksFile_Empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "picks.yaml")
	if err := os.WriteFile(path, []byte("hook: x\npicks: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPicksFile(path); err == nil {
		t.Fatal("expected error for empty picks list")
	}
}
