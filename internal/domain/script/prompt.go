package script

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goldytalks/novig-scripter/internal/types"
)

// MaxTranscriptChars bounds how much transcript is sent to the model;
// excess is trimmed from the end.
const MaxTranscriptChars = 12000

// Styles is the closed set of accepted script styles.
var Styles = []string{"hype", "analytical", "conversational"}

// TargetDurations is the closed set of accepted script lengths.
var TargetDurations = []int{30, 45, 60, 90}

var styleGuides = map[string]string{
	"hype": "High energy, punchy, confident. Short sentences. Talk like the " +
		"pick is obvious and the viewer is about to miss it. Sparingly use " +
		"one or two slang phrases, never more.",
	"analytical": "Measured and sharp. Lead with the numbers, matchup edges " +
		"and line movement. No hype words, let the stats carry the argument.",
	"conversational": "Relaxed, like telling a friend what you are betting " +
		"tonight and why. First person, contractions, no jargon dumps.",
}

// ValidStyle reports whether style is one of the accepted styles.
func ValidStyle(style string) bool {
	for _, s := range Styles {
		if s == style {
			return true
		}
	}
	return false
}

// ValidDuration reports whether seconds is one of the accepted lengths.
func ValidDuration(seconds int) bool {
	for _, d := range TargetDurations {
		if d == seconds {
			return true
		}
	}
	return false
}

// TruncateTranscript trims transcript text to the prompt character
// budget, cutting from the end. The cut backs up to a rune boundary so
// the result is always valid UTF-8.
func TruncateTranscript(s string) string {
	if len(s) <= MaxTranscriptChars {
		return s
	}
	cut := MaxTranscriptChars
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// BuildPrompt constructs the single instruction prompt for rewriting a
// transcript into a timed three-section script. The transcript itself
// travels as the user message; this is the system instruction.
func BuildPrompt(meta types.VideoMeta, settings types.ScriptSettings, targets WordTargets) string {
	var b strings.Builder

	b.WriteString("You rewrite sports-betting video transcripts into short-form scripts.\n\n")
	fmt.Fprintf(&b, "Source video: %q by %s.\n", meta.Title, meta.Channel)
	fmt.Fprintf(&b, "Target length: %d seconds at %.1f words per second.\n\n", settings.TargetSeconds, WordsPerSecond)

	b.WriteString("Tone: " + styleGuides[settings.Style] + "\n\n")

	b.WriteString("Output exactly three sections with these markers:\n")
	fmt.Fprintf(&b, "[HOOK] about %d words\n", targets.Hook)
	fmt.Fprintf(&b, "[BODY] about %d words\n", targets.Body)
	fmt.Fprintf(&b, "[CTA] about %d words\n\n", targets.CTA)

	if hook := strings.TrimSpace(settings.CustomHook); hook != "" {
		fmt.Fprintf(&b, "Use this hook verbatim instead of writing one: %q\n\n", hook)
	}

	b.WriteString("Rules:\n")
	b.WriteString("- Preserve every pick, odds value and number from the transcript exactly as stated. Never invent facts, stats or picks.\n")
	b.WriteString("- Cut filler, tangents and repeated phrases.\n")
	b.WriteString("- At most two promotional or sportsbook mentions in the whole script.\n")
	b.WriteString("- Respect the per-section word targets.\n")
	if settings.IncludeGraphics {
		b.WriteString("- Mark moments for on-screen graphics inline as [GFX: description].\n")
	}
	if settings.IncludeStats {
		b.WriteString("- Mark key stats for on-screen display inline as [STAT: the stat].\n")
	}

	b.WriteString("\nAfter the script, print a line containing exactly " + Separator + " followed by a single-line JSON object: ")
	b.WriteString(`{"footage": [background footage suggestions, one per section], "productionNotes": [editing notes], "hookAlternatives": [two alternative hook lines]}`)
	b.WriteString("\nNo markdown, no code fences, no text after the JSON.")

	return b.String()
}

// BuildPicksPrompt constructs the instruction prompt for the
// picks-to-script flow, which generates directly from structured picks
// plus a chosen hook line.
func BuildPicksPrompt(picks []types.Pick, hookLine string, settings types.ScriptSettings, targets WordTargets) string {
	var b strings.Builder

	b.WriteString("You write short-form sports-betting video scripts from a list of picks.\n\n")
	fmt.Fprintf(&b, "Target length: %d seconds at %.1f words per second.\n", settings.TargetSeconds, WordsPerSecond)
	b.WriteString("Tone: " + styleGuides[settings.Style] + "\n\n")

	fmt.Fprintf(&b, "Open with this hook line verbatim: %q\n\n", hookLine)

	b.WriteString("Picks:\n")
	for i, p := range picks {
		fmt.Fprintf(&b, "%d. %s | %s | %s @ %s", i+1, p.Game, p.Market, p.Selection, p.Odds)
		if p.Reasoning != "" {
			fmt.Fprintf(&b, " (%s)", p.Reasoning)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nRules:\n")
	b.WriteString("- State every selection and odds value exactly as given.\n")
	b.WriteString("- One flowing script, no section markers.\n")
	fmt.Fprintf(&b, "- Stay near %d words total.\n", TargetWords(settings.TargetSeconds))
	b.WriteString("- At most two promotional mentions.\n")

	b.WriteString("\nAfter the script, print a line containing exactly " + Separator + " followed by a single-line JSON object: ")
	b.WriteString(`{"picks": [the picks you covered, each as {"game","market","selection","odds"}]}`)

	return b.String()
}
