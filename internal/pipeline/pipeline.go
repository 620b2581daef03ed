// Package pipeline wires adapters into the generation flows for the
// command-line entrypoints and writes run artifacts to disk.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/goldytalks/novig-scripter/internal/domain/script"
	"github.com/goldytalks/novig-scripter/internal/ports"
	"github.com/goldytalks/novig-scripter/internal/ports/adapters/captionproxy"
	"github.com/goldytalks/novig-scripter/internal/ports/adapters/gemini"
	"github.com/goldytalks/novig-scripter/internal/ports/adapters/oembed"
	"github.com/goldytalks/novig-scripter/internal/ports/adapters/openrouter"
	"github.com/goldytalks/novig-scripter/internal/ports/adapters/youtubecaptions"
	"github.com/goldytalks/novig-scripter/internal/transcript"
	"github.com/goldytalks/novig-scripter/internal/types"
	"github.com/goldytalks/novig-scripter/internal/usecase"
)

type Config struct {
	URL              string
	ManualTranscript string
	OutDir           string

	TargetSeconds   int
	Style           string
	CustomHook      string
	IncludeGraphics bool
	IncludeStats    bool
	FPS             int
	CaptionLang     string

	OpenRouterAPIKey       string
	OpenRouterModel        string
	OpenRouterBaseURL      string
	OpenRouterAllowedHosts []string

	GeminiAPIKey string
	GeminiModel  string

	ProxyInstances []string

	Logger *slog.Logger
}

func (c Config) Validate() error {
	if c.OpenRouterAPIKey == "" {
		return usecase.ErrNoAPIKey
	}
	if c.URL == "" && strings.TrimSpace(c.ManualTranscript) == "" {
		return errors.New("a video url or a manual transcript is required")
	}
	if c.Style != "" && !script.ValidStyle(c.Style) {
		return fmt.Errorf("style must be one of %s", strings.Join(script.Styles, ", "))
	}
	if c.TargetSeconds != 0 && !script.ValidDuration(c.TargetSeconds) {
		return fmt.Errorf("duration must be one of %v seconds", script.TargetDurations)
	}
	return openrouter.ValidateBaseURL(
		c.OpenRouterBaseURL,
		c.OpenRouterAllowedHosts,
	)
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Run resolves a transcript, generates a script and writes the run
// artifacts (script.json, script.txt) under a per-run output directory.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := cfg.logger()

	uc, err := buildUsecase(ctx, cfg, log)
	if err != nil {
		return err
	}

	res, attempts, err := uc.Generate(ctx, usecase.GenerateInput{
		URL:              cfg.URL,
		ManualTranscript: cfg.ManualTranscript,
		Settings: types.ScriptSettings{
			TargetSeconds:   cfg.TargetSeconds,
			Style:           cfg.Style,
			IncludeGraphics: cfg.IncludeGraphics,
			IncludeStats:    cfg.IncludeStats,
			CustomHook:      cfg.CustomHook,
		},
		FPS: cfg.FPS,
	})
	if err != nil {
		var ex *transcript.ExhaustedError
		if errors.As(err, &ex) {
			log.Error("all transcript sources failed", "diagnostic", ex.Diagnostic())
		}
		return err
	}
	for _, att := range attempts {
		log.Debug("source attempt", "source", att.Source, "outcome", string(att.Outcome))
	}

	runDir := buildRunOutDir(cfg.OutDir, runName(res.Meta), time.Now().UTC())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return err
	}

	if err := writeJSON(filepath.Join(runDir, "script.json"), res); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(runDir, "script.txt"), []byte(res.Sections.Full()+"\n"), 0o644); err != nil {
		return err
	}

	log.Info("script written",
		"dir", runDir,
		"totalWords", res.TotalWords,
		"totalSeconds", res.TotalSeconds,
		"cost", res.TotalCost)
	return nil
}

// PicksFile is the on-disk input for the picks flow. Field names map
// through yaml's default lowercasing.
type PicksFile struct {
	Hook  string
	Picks []types.Pick
}

// LoadPicksFile reads and decodes a picks YAML file.
func LoadPicksFile(path string) (PicksFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return PicksFile{}, err
	}
	var pf PicksFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return PicksFile{}, fmt.Errorf("parse picks file: %w", err)
	}
	if len(pf.Picks) == 0 {
		return PicksFile{}, errors.New("picks file contains no picks")
	}
	return pf, nil
}

// RunPicks generates a flat script from a picks YAML file and writes
// picks-script.json plus the plain text next to it.
func RunPicks(ctx context.Context, cfg Config, picksPath string) error {
	if cfg.OpenRouterAPIKey == "" {
		return usecase.ErrNoAPIKey
	}
	if err := openrouter.ValidateBaseURL(cfg.OpenRouterBaseURL, cfg.OpenRouterAllowedHosts); err != nil {
		return err
	}
	log := cfg.logger()

	pf, err := LoadPicksFile(picksPath)
	if err != nil {
		return err
	}

	llm := openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL)
	uc := usecase.New(usecase.Deps{LLM: llm, Logger: log})

	res, err := uc.GenerateFromPicks(ctx, usecase.PicksInput{
		Picks:    pf.Picks,
		HookLine: pf.Hook,
		Settings: types.ScriptSettings{
			TargetSeconds: cfg.TargetSeconds,
			Style:         cfg.Style,
		},
	})
	if err != nil {
		return err
	}

	runDir := buildRunOutDir(cfg.OutDir, "picks", time.Now().UTC())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(runDir, "picks-script.json"), res); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(runDir, "script.txt"), []byte(res.Script+"\n"), 0o644); err != nil {
		return err
	}

	log.Info("picks script written", "dir", runDir, "picks", len(res.Picks), "cost", res.TotalCost)
	return nil
}

// BuildUsecase assembles the adapter stack from config. Exported for
// the HTTP server, which holds one for the process lifetime.
func BuildUsecase(ctx context.Context, cfg Config, log *slog.Logger) (usecase.Usecase, error) {
	return buildUsecase(ctx, cfg, log)
}

func buildUsecase(ctx context.Context, cfg Config, log *slog.Logger) (usecase.Usecase, error) {
	captions := youtubecaptions.New("")
	meta := oembed.New("")

	var transcriber ports.Transcriber
	if cfg.GeminiAPIKey != "" {
		g, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return usecase.Usecase{}, fmt.Errorf("init transcriber: %w", err)
		}
		transcriber = g
	}

	var proxy ports.CaptionProxy
	if p := captionproxy.New(cfg.ProxyInstances, cfg.CaptionLang); p.Configured() {
		proxy = p
	}

	chain := &transcript.Chain{
		Captions:    captions,
		Transcriber: transcriber,
		Proxy:       proxy,
		Meta:        meta,
		Lang:        cfg.CaptionLang,
		Logger:      log,
	}

	// A nil model makes the usecase fail with ErrNoAPIKey before any
	// source in the chain is contacted.
	var llm ports.ChatModel
	if cfg.OpenRouterAPIKey != "" {
		llm = openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL)
	}
	return usecase.New(usecase.Deps{Chain: chain, LLM: llm, Logger: log}), nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, b, 0o644)
}

func runName(meta types.VideoMeta) string {
	if meta.VideoID != "" {
		return meta.VideoID
	}
	if meta.Title != "" {
		return meta.Title
	}
	return "script"
}

func buildRunOutDir(outRoot, name string, now time.Time) string {
	if outRoot == "" {
		outRoot = "out"
	}
	name = normalizePathSegment(name)
	if name == "" {
		name = "script"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", name, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.CaptionSource = (*youtubecaptions.Adapter)(nil)
var _ ports.Transcriber = (*gemini.Adapter)(nil)
var _ ports.CaptionProxy = (*captionproxy.Adapter)(nil)
var _ ports.MetadataSource = (*oembed.Adapter)(nil)
var _ ports.ChatModel = (*openrouter.Adapter)(nil)
