package script

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/goldytalks/novig-scripter/internal/types"
)

const (
	// Separator divides the human-readable script from the machine-readable
	// production sidecar in the raw model completion.
	Separator = "===PRODUCTION==="

	// DefaultCTA substitutes for a completion that lacks a [CTA] section.
	DefaultCTA = "Stop leaving money on the table. Follow for more winning picks and tail responsibly."
)

var (
	hookRE = regexp.MustCompile(`(?s)\[HOOK\]\s*(.*?)\s*(?:\[BODY\]|\[CTA\]|$)`)
	bodyRE = regexp.MustCompile(`(?s)\[BODY\]\s*(.*?)\s*(?:\[CTA\]|$)`)
	ctaRE  = regexp.MustCompile(`(?s)\[CTA\]\s*(.*?)\s*$`)
)

// Sidecar is the production metadata the model appends after the
// separator as a single JSON object.
type Sidecar struct {
	Footage          []string `json:"footage"`
	Notes            []string `json:"productionNotes"`
	HookAlternatives []string `json:"hookAlternatives"`
}

// FallbackSidecar returns the fixed generic metadata used when the
// sidecar JSON cannot be parsed. Never an error condition.
func FallbackSidecar() Sidecar {
	return Sidecar{
		Footage: []string{"Game highlights relevant to picks mentioned"},
		Notes: []string{
			"Keep cuts fast, new angle or b-roll every 2-3 seconds",
			"Show each line and odds on screen while it is read",
		},
		HookAlternatives: []string{},
	}
}

// ParseCompletion splits one raw model completion into the three script
// sections plus the production sidecar. Missing markers degrade, they
// never fail: an absent [CTA] yields DefaultCTA, a malformed sidecar
// yields FallbackSidecar.
func ParseCompletion(raw string) (types.ScriptSections, Sidecar) {
	scriptPart := raw
	sidecarPart := ""
	if idx := strings.Index(raw, Separator); idx >= 0 {
		scriptPart = raw[:idx]
		sidecarPart = raw[idx+len(Separator):]
	}

	sections := parseSections(scriptPart)
	if strings.TrimSpace(sections.CTA) == "" {
		sections.CTA = DefaultCTA
	}
	return sections, ParseSidecar(sidecarPart)
}

func parseSections(s string) types.ScriptSections {
	var out types.ScriptSections
	if m := hookRE.FindStringSubmatch(s); m != nil {
		out.Hook = strings.TrimSpace(m[1])
	}
	if m := bodyRE.FindStringSubmatch(s); m != nil {
		out.Body = strings.TrimSpace(m[1])
	}
	if m := ctaRE.FindStringSubmatch(s); m != nil {
		out.CTA = strings.TrimSpace(m[1])
	}
	// No markers at all: treat the whole text as body so the caller still
	// gets a usable script.
	if out.Hook == "" && out.Body == "" && out.CTA == "" {
		out.Body = strings.TrimSpace(s)
	}
	return out
}

// ParseSidecar decodes the JSON production metadata, tolerating code
// fences and surrounding prose. Any parse failure falls back to the
// fixed generic set.
func ParseSidecar(raw string) Sidecar {
	clean, ok := extractJSONObject(raw)
	if !ok {
		return FallbackSidecar()
	}
	var sc Sidecar
	if err := json.Unmarshal([]byte(clean), &sc); err != nil {
		return FallbackSidecar()
	}
	if sc.Footage == nil {
		sc.Footage = FallbackSidecar().Footage
	}
	if sc.Notes == nil {
		sc.Notes = FallbackSidecar().Notes
	}
	if sc.HookAlternatives == nil {
		sc.HookAlternatives = []string{}
	}
	return sc
}

// SplitPicksCompletion separates the flat picks script from its sidecar
// and decodes the picks the model claims to have covered. A missing or
// malformed sidecar returns ok=false so the caller can echo its own
// input picks instead.
func SplitPicksCompletion(raw string) (scriptText string, picks []types.Pick, ok bool) {
	scriptText = strings.TrimSpace(raw)
	sidecarPart := ""
	if idx := strings.Index(raw, Separator); idx >= 0 {
		scriptText = strings.TrimSpace(raw[:idx])
		sidecarPart = raw[idx+len(Separator):]
	}

	clean, found := extractJSONObject(sidecarPart)
	if !found {
		return scriptText, nil, false
	}
	var sc struct {
		Picks []types.Pick `json:"picks"`
	}
	if err := json.Unmarshal([]byte(clean), &sc); err != nil || len(sc.Picks) == 0 {
		return scriptText, nil, false
	}
	return scriptText, sc.Picks, true
}

// extractJSONObject locates the first JSON object in model output,
// stripping markdown code fences first.
func extractJSONObject(s string) (string, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", false
	}

	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return t[start : end+1], true
	}
	return "", false
}
