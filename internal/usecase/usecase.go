// Package usecase orchestrates the two generation flows: transcript to
// three-section script, and structured picks to a flat script. It owns
// the single model call per generation and all silent-degradation
// fallbacks around it.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goldytalks/novig-scripter/internal/domain/hooks"
	"github.com/goldytalks/novig-scripter/internal/domain/script"
	"github.com/goldytalks/novig-scripter/internal/domain/timeline"
	"github.com/goldytalks/novig-scripter/internal/ports"
	"github.com/goldytalks/novig-scripter/internal/transcript"
	"github.com/goldytalks/novig-scripter/internal/types"
)

var (
	// ErrNoAPIKey means no chat model is configured. Checked before any
	// transcript acquisition so misconfiguration fails without network
	// traffic.
	ErrNoAPIKey = errors.New("language model API key not configured")

	ErrInvalidStyle    = errors.New("unknown script style")
	ErrInvalidDuration = errors.New("unsupported target duration")
	ErrNoPicks         = errors.New("at least one pick is required")
)

const (
	completionMaxTokens   = 2048
	completionTemperature = 0.8
)

type Deps struct {
	Chain  *transcript.Chain
	LLM    ports.ChatModel
	Logger *slog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

// GenerateInput is one transcript-to-script request.
type GenerateInput struct {
	URL              string
	ManualTranscript string
	Settings         types.ScriptSettings
	FPS              int
}

// normalizeSettings fills defaults and validates the closed sets.
func normalizeSettings(s types.ScriptSettings) (types.ScriptSettings, error) {
	if s.Style == "" {
		s.Style = "hype"
	}
	if s.TargetSeconds == 0 {
		s.TargetSeconds = 60
	}
	if !script.ValidStyle(s.Style) {
		return s, fmt.Errorf("%w: %q", ErrInvalidStyle, s.Style)
	}
	if !script.ValidDuration(s.TargetSeconds) {
		return s, fmt.Errorf("%w: %d", ErrInvalidDuration, s.TargetSeconds)
	}
	return s, nil
}

// Generate resolves a transcript for the given URL (or takes the manual
// one), makes exactly one model call, and assembles the full script
// package including the editing timeline. The attempt record is
// returned even on failure so callers can surface diagnostics.
func (u Usecase) Generate(ctx context.Context, in GenerateInput) (types.GeneratedScript, []transcript.Attempt, error) {
	settings, err := normalizeSettings(in.Settings)
	if err != nil {
		return types.GeneratedScript{}, nil, err
	}
	if u.d.LLM == nil {
		return types.GeneratedScript{}, nil, ErrNoAPIKey
	}

	res, attempts, err := u.d.Chain.Resolve(ctx, in.URL, in.ManualTranscript)
	if err != nil {
		return types.GeneratedScript{}, attempts, err
	}

	targets := script.TargetsFor(settings.TargetSeconds)
	req := ports.CompletionRequest{
		System:      script.BuildPrompt(res.Meta, settings, targets),
		User:        script.TruncateTranscript(res.Transcript),
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
	}
	cr, err := u.d.LLM.Complete(ctx, req)
	if err != nil {
		return types.GeneratedScript{}, attempts, fmt.Errorf("script completion: %w", err)
	}

	sections, sidecar := script.ParseCompletion(cr.Text)
	out := assemble(res.Meta, sections, sidecar, in.FPS)
	out.Usage = []types.UsageInfo{usageInfo(cr)}
	out.TotalCost = out.Usage[0].EstimatedCost

	u.log("script generated",
		slog.String("videoId", res.Meta.VideoID),
		slog.Int("totalWords", out.TotalWords),
		slog.Int("totalSeconds", out.TotalSeconds),
		slog.String("model", cr.Model))
	return out, attempts, nil
}

// Regenerate rebuilds the derived parts of a script, stats, overlays
// and timeline, after the caller edited section text. Pure, no model
// call.
func (u Usecase) Regenerate(meta types.VideoMeta, sections types.ScriptSections, footage []string, fps int) types.GeneratedScript {
	return assemble(meta, sections, script.Sidecar{
		Footage:          footage,
		Notes:            []string{},
		HookAlternatives: []string{},
	}, fps)
}

// PicksInput is one picks-to-script request.
type PicksInput struct {
	Picks    []types.Pick
	HookLine string
	Settings types.ScriptSettings
}

// GenerateFromPicks writes a flat script directly from structured picks.
// The model's echo of which picks it covered is preferred; when its
// sidecar is unusable the input picks are echoed instead.
func (u Usecase) GenerateFromPicks(ctx context.Context, in PicksInput) (types.PicksScript, error) {
	settings, err := normalizeSettings(in.Settings)
	if err != nil {
		return types.PicksScript{}, err
	}
	if u.d.LLM == nil {
		return types.PicksScript{}, ErrNoAPIKey
	}
	if len(in.Picks) == 0 {
		return types.PicksScript{}, ErrNoPicks
	}

	hook := strings.TrimSpace(in.HookLine)
	if hook == "" {
		hook = hooksDefault(settings.Style)
	}

	targets := script.TargetsFor(settings.TargetSeconds)
	req := ports.CompletionRequest{
		System:      script.BuildPicksPrompt(in.Picks, hook, settings, targets),
		User:        "Write the script now.",
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
	}
	cr, err := u.d.LLM.Complete(ctx, req)
	if err != nil {
		return types.PicksScript{}, fmt.Errorf("picks completion: %w", err)
	}

	text, picks, ok := script.SplitPicksCompletion(cr.Text)
	if !ok {
		picks = in.Picks
	}

	usage := usageInfo(cr)
	u.log("picks script generated",
		slog.Int("picks", len(in.Picks)),
		slog.String("model", cr.Model))
	return types.PicksScript{
		Script:    text,
		Picks:     picks,
		Usage:     []types.UsageInfo{usage},
		TotalCost: usage.EstimatedCost,
	}, nil
}

// assemble derives everything downstream of the section texts. Kept in
// one place so Generate and Regenerate cannot diverge.
func assemble(meta types.VideoMeta, sections types.ScriptSections, sidecar script.Sidecar, fps int) types.GeneratedScript {
	hookWords := script.WordCount(sections.Hook)
	bodyWords := script.WordCount(sections.Body)
	ctaWords := script.WordCount(sections.CTA)
	total := hookWords + bodyWords + ctaWords

	return types.GeneratedScript{
		Meta:     meta,
		Sections: sections,
		HookStats: types.SectionStats{
			Words:   hookWords,
			Seconds: script.SecondsFor(hookWords),
		},
		BodyStats: types.SectionStats{
			Words:   bodyWords,
			Seconds: script.SecondsFor(bodyWords),
		},
		CTAStats: types.SectionStats{
			Words:   ctaWords,
			Seconds: script.SecondsFor(ctaWords),
		},
		TotalWords:       total,
		TotalSeconds:     script.SecondsFor(hookWords) + script.SecondsFor(bodyWords) + script.SecondsFor(ctaWords),
		Footage:          sidecar.Footage,
		Overlays:         script.SectionOverlays(sections),
		Notes:            sidecar.Notes,
		HookAlternatives: sidecar.HookAlternatives,
		Timeline:         timeline.Build(sections, sidecar.Footage, fps),
	}
}

func usageInfo(cr ports.CompletionResult) types.UsageInfo {
	return types.UsageInfo{
		Model:            cr.Model,
		PromptTokens:     cr.Usage.Prompt,
		CompletionTokens: cr.Usage.Completion,
		TotalTokens:      cr.Usage.Total,
		EstimatedCost:    script.EstimateCost(cr.Model, cr.Usage.Prompt, cr.Usage.Completion),
	}
}

// hooksDefault picks the first catalog hook matching the style when the
// caller supplied none.
func hooksDefault(style string) string {
	if ts := hooks.ByTone(style); len(ts) > 0 {
		return ts[0].Template
	}
	return hooks.All()[0].Template
}

func (u Usecase) log(msg string, args ...any) {
	if u.d.Logger != nil {
		u.d.Logger.Info(msg, args...)
	}
}
