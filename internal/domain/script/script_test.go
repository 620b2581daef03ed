package script

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/goldytalks/novig-scripter/internal/types"
)

func TestSecondsFor(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{2, 1},  // 2/2.8 = 0.71
		{7, 3},  // 7/2.8 = 2.5
		{5, 2},  // 5/2.8 = 1.79
		{84, 30},
	}
	for _, tt := range tests {
		if got := SecondsFor(tt.words); got != tt.want {
			t.Errorf("SecondsFor(%d) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestTargetsFor_SumsToTarget(t *testing.T) {
	for _, target := range TargetDurations {
		tg := TargetsFor(target)
		if tg.Hook+tg.Body+tg.CTA != TargetWords(target) {
			t.Errorf("targets for %ds do not sum: %+v", target, tg)
		}
		if tg.Hook != TargetWords(3) || tg.CTA != TargetWords(4) {
			t.Errorf("unexpected hook/cta budget for %ds: %+v", target, tg)
		}
	}
}

func TestParseCompletion_AllSections(t *testing.T) {
	raw := "[HOOK]\nStop scrolling.\n[BODY]\nLakers minus four is free money tonight.\n[CTA]\nBet now on the link.\n" +
		Separator + "\n" +
		`{"footage":["crowd shot"],"productionNotes":["tight cuts"],"hookAlternatives":["alt one","alt two"]}`

	sections, sc := ParseCompletion(raw)
	if sections.Hook != "Stop scrolling." {
		t.Fatalf("hook: %q", sections.Hook)
	}
	if sections.Body != "Lakers minus four is free money tonight." {
		t.Fatalf("body: %q", sections.Body)
	}
	if sections.CTA != "Bet now on the link." {
		t.Fatalf("cta: %q", sections.CTA)
	}
	if len(sc.Footage) != 1 || sc.Footage[0] != "crowd shot" {
		t.Fatalf("footage: %v", sc.Footage)
	}
	if len(sc.HookAlternatives) != 2 {
		t.Fatalf("hook alternatives: %v", sc.HookAlternatives)
	}
}

func TestParseCompletion_MissingCTAFallsBack(t *testing.T) {
	raw := "[HOOK]\nBig hook.\n[BODY]\nThe body.\n"
	sections, _ := ParseCompletion(raw)
	if sections.CTA != DefaultCTA {
		t.Fatalf("expected default cta, got %q", sections.CTA)
	}
	if !strings.HasPrefix(sections.CTA, "Stop leaving money on the table") {
		t.Fatalf("default cta lost its fixed prefix: %q", sections.CTA)
	}
}

func TestParseCompletion_NoMarkersBecomesBody(t *testing.T) {
	sections, _ := ParseCompletion("just a wall of text with no structure")
	if sections.Body != "just a wall of text with no structure" {
		t.Fatalf("body: %q", sections.Body)
	}
	if sections.Hook != "" {
		t.Fatalf("expected empty hook, got %q", sections.Hook)
	}
	if sections.CTA != DefaultCTA {
		t.Fatalf("expected default cta, got %q", sections.CTA)
	}
}

func TestParseSidecar_InvalidJSONFallsBack(t *testing.T) {
	sc := ParseSidecar("not valid json")
	if len(sc.Footage) != 1 || sc.Footage[0] != "Game highlights relevant to picks mentioned" {
		t.Fatalf("fallback footage: %v", sc.Footage)
	}
	if len(sc.Notes) == 0 {
		t.Fatalf("expected fallback notes")
	}
	if sc.HookAlternatives == nil || len(sc.HookAlternatives) != 0 {
		t.Fatalf("expected empty hook alternatives, got %v", sc.HookAlternatives)
	}
}

func TestParseSidecar_FencedJSON(t *testing.T) {
	sc := ParseSidecar("```json\n{\"footage\":[\"stadium\"],\"productionNotes\":[],\"hookAlternatives\":[]}\n```")
	if len(sc.Footage) != 1 || sc.Footage[0] != "stadium" {
		t.Fatalf("footage: %v", sc.Footage)
	}
}

func TestSplitPicksCompletion(t *testing.T) {
	raw := "Lock these in tonight.\n\n===PRODUCTION===\n" +
		`{"picks": [{"game":"LAL @ BOS","market":"spread","selection":"LAL -4","odds":"-110"}]}`
	text, picks, ok := SplitPicksCompletion(raw)
	if !ok {
		t.Fatal("expected sidecar to parse")
	}
	if text != "Lock these in tonight." {
		t.Fatalf("script text: %q", text)
	}
	if len(picks) != 1 || picks[0].Odds != "-110" {
		t.Fatalf("picks: %+v", picks)
	}
}

func TestSplitPicksCompletion_NoSidecar(t *testing.T) {
	text, picks, ok := SplitPicksCompletion("Just a script, no separator.")
	if ok {
		t.Fatal("expected ok=false without a sidecar")
	}
	if text != "Just a script, no separator." || picks != nil {
		t.Fatalf("got %q / %v", text, picks)
	}
}

func TestTruncateTranscript(t *testing.T) {
	short := "fits within the budget"
	if got := TruncateTranscript(short); got != short {
		t.Fatalf("short transcript should pass through, got %q", got)
	}

	long := strings.Repeat("a", MaxTranscriptChars+100)
	if got := TruncateTranscript(long); len(got) != MaxTranscriptChars {
		t.Fatalf("truncated length = %d, want %d", len(got), MaxTranscriptChars)
	}
}

func TestTruncateTranscript_RuneBoundary(t *testing.T) {
	// A two-byte rune straddling the byte budget must be dropped whole,
	// never split into invalid UTF-8.
	long := strings.Repeat("a", MaxTranscriptChars-1) + "é" + strings.Repeat("b", 50)
	got := TruncateTranscript(long)
	if !utf8.ValidString(got) {
		t.Fatal("truncated transcript is not valid UTF-8")
	}
	if len(got) != MaxTranscriptChars-1 {
		t.Fatalf("truncated length = %d, want %d", len(got), MaxTranscriptChars-1)
	}
	if strings.HasSuffix(got, "é") {
		t.Fatal("straddling rune should have been dropped")
	}
}

func TestExtractOverlays(t *testing.T) {
	text := "Lakers minus four [GFX: line movement chart] because LeBron is back [STAT: 31.2 PPG last 10] tonight"
	cues := ExtractOverlays(text, "body")
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Kind != "gfx" || cues[0].Text != "line movement chart" {
		t.Fatalf("first cue: %+v", cues[0])
	}
	if cues[1].Kind != "stat" || cues[1].Section != "body" {
		t.Fatalf("second cue: %+v", cues[1])
	}
}

func TestSectionOverlays_DocumentOrder(t *testing.T) {
	s := types.ScriptSections{
		Hook: "Watch this [GFX: flames]",
		Body: "Stats say so [STAT: 70% ATS]",
		CTA:  "Go bet [GFX: arrow down]",
	}
	cues := SectionOverlays(s)
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}
	want := []string{"hook", "body", "cta"}
	for i, sec := range want {
		if cues[i].Section != sec {
			t.Fatalf("cue %d section = %q, want %q", i, cues[i].Section, sec)
		}
	}
}

func TestBuildPrompt_CustomHookAndMarkers(t *testing.T) {
	meta := types.VideoMeta{Title: "Best Bets", Channel: "Novig", Platform: types.PlatformYouTube}
	settings := types.ScriptSettings{
		TargetSeconds:   45,
		Style:           "hype",
		IncludeGraphics: true,
		CustomHook:      "You are blowing your bankroll.",
	}
	p := BuildPrompt(meta, settings, TargetsFor(45))
	for _, want := range []string{"[HOOK]", "[BODY]", "[CTA]", Separator, "You are blowing your bankroll.", "[GFX:"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(p, "[STAT: the stat]") {
		t.Errorf("stat instruction present despite IncludeStats=false")
	}
}

func TestEstimateCost(t *testing.T) {
	got := EstimateCost("openai/gpt-4o-mini", 1_000_000, 1_000_000)
	if got != 0.75 {
		t.Fatalf("cost = %v, want 0.75", got)
	}
	if EstimateCost("z-ai/glm-4.5-air:free", 5000, 5000) != 0 {
		t.Fatalf("free model should cost nothing")
	}
	if EstimateCost("unknown/model", 1_000_000, 0) != 1.00 {
		t.Fatalf("unknown model should use default rate")
	}
}
