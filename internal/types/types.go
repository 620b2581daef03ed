package types

// Platform identifies where a video (or transcript) came from.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformManual    Platform = "manual"
)

// VideoMeta describes the source video. Produced once per request and
// immutable afterward.
type VideoMeta struct {
	VideoID  string   `json:"videoId"`
	Title    string   `json:"title"`
	Channel  string   `json:"channel"`
	Platform Platform `json:"platform"`
}

// TranscriptResult is the output of the transcript source chain.
type TranscriptResult struct {
	Transcript string    `json:"transcript"`
	Meta       VideoMeta `json:"meta"`
}

// ScriptSettings is the caller-supplied generation configuration.
type ScriptSettings struct {
	TargetSeconds   int    `json:"targetSeconds"`
	Style           string `json:"style"`
	IncludeGraphics bool   `json:"includeGraphics"`
	IncludeStats    bool   `json:"includeStats"`
	CustomHook      string `json:"customHook,omitempty"`
}

// ScriptSections holds the three independent script blocks.
type ScriptSections struct {
	Hook string `json:"hook"`
	Body string `json:"body"`
	CTA  string `json:"cta"`
}

// Full reconstructs the complete script: hook, blank line, body, blank
// line, cta. Empty sections are skipped without leaving extra blanks.
func (s ScriptSections) Full() string {
	out := s.Hook
	if s.Body != "" {
		if out != "" {
			out += "\n\n"
		}
		out += s.Body
	}
	if s.CTA != "" {
		if out != "" {
			out += "\n\n"
		}
		out += s.CTA
	}
	return out
}

// UsageInfo is the accounting record for one language-model invocation.
type UsageInfo struct {
	Model            string  `json:"model"`
	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	TotalTokens      int     `json:"totalTokens"`
	EstimatedCost    float64 `json:"estimatedCost"`
}

// OverlayCue is an inline visual marker extracted from script text.
type OverlayCue struct {
	Kind    string `json:"kind"` // "gfx" or "stat"
	Text    string `json:"text"`
	Section string `json:"section"`
}

// SectionStats carries derived word and duration counts for one section.
type SectionStats struct {
	Words   int `json:"words"`
	Seconds int `json:"seconds"`
}

// TimelineClip is one contiguous segment of the editing timeline.
type TimelineClip struct {
	ID             string       `json:"id"`
	Section        string       `json:"section"`
	Label          string       `json:"label"`
	StartSec       float64      `json:"startSec"`
	EndSec         float64      `json:"endSec"`
	DurationSec    float64      `json:"durationSec"`
	StartFrame     int          `json:"startFrame"`
	EndFrame       int          `json:"endFrame"`
	DurationFrames int          `json:"durationFrames"`
	Text           string       `json:"text"`
	WordCount      int          `json:"wordCount"`
	Footage        string       `json:"footage"`
	Overlays       []OverlayCue `json:"overlays"`
}

// EditingTimeline is the frame-accurate editing handoff, rebuilt from
// scratch whenever any section text changes.
type EditingTimeline struct {
	FPS              int            `json:"fps"`
	TotalDurationSec float64        `json:"totalDurationSec"`
	TotalFrames      int            `json:"totalFrames"`
	Clips            []TimelineClip `json:"clips"`
}

// GeneratedScript aggregates everything one generation call produces.
type GeneratedScript struct {
	Meta             VideoMeta       `json:"meta"`
	Sections         ScriptSections  `json:"sections"`
	HookStats        SectionStats    `json:"hookStats"`
	BodyStats        SectionStats    `json:"bodyStats"`
	CTAStats         SectionStats    `json:"ctaStats"`
	TotalWords       int             `json:"totalWords"`
	TotalSeconds     int             `json:"totalSeconds"`
	Footage          []string        `json:"footage"`
	Overlays         []OverlayCue    `json:"overlays"`
	Notes            []string        `json:"productionNotes"`
	HookAlternatives []string        `json:"hookAlternatives"`
	Timeline         EditingTimeline `json:"timeline"`
	Usage            []UsageInfo     `json:"usage"`
	TotalCost        float64         `json:"totalCost"`
}

// Pick is one betting pick for the picks-to-script flow.
type Pick struct {
	Game      string `json:"game"`
	Market    string `json:"market"`
	Selection string `json:"selection"`
	Odds      string `json:"odds"`
	Reasoning string `json:"reasoning,omitempty"`
}

// PicksScript is the output of the picks-to-script flow: a flat script
// plus the pick metadata the model worked from.
type PicksScript struct {
	Script    string      `json:"script"`
	Picks     []Pick      `json:"picks"`
	Usage     []UsageInfo `json:"usage"`
	TotalCost float64     `json:"totalCost"`
}
