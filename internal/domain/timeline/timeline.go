// Package timeline derives a frame-accurate editing timeline from the
// three script sections. Build is pure and deterministic: the caller
// re-runs it after every edit instead of patching clips in place.
package timeline

import (
	"fmt"
	"math"

	"github.com/goldytalks/novig-scripter/internal/domain/script"
	"github.com/goldytalks/novig-scripter/internal/types"
)

// DefaultFPS is the frame rate used when the caller does not specify one.
const DefaultFPS = 30

var sectionOrder = []struct {
	name  string
	label string
}{
	{"hook", "Hook"},
	{"body", "Body"},
	{"cta", "CTA"},
}

// Build derives an editing timeline from section texts, an ordered list
// of footage suggestions and a frame rate. Sections with empty text
// produce no clip. Frame bounds are rounded from the running cursor
// independently at each boundary, not accumulated from rounded deltas:
// downstream editors align to the original second boundaries, so
// per-clip frame counts may differ by one from round(duration*fps) and
// that is the intended behavior.
func Build(sections types.ScriptSections, footage []string, fps int) types.EditingTimeline {
	if fps <= 0 {
		fps = DefaultFPS
	}

	texts := map[string]string{
		"hook": sections.Hook,
		"body": sections.Body,
		"cta":  sections.CTA,
	}

	var clips []types.TimelineClip
	cursor := 0.0
	for _, sec := range sectionOrder {
		text := texts[sec.name]
		words := script.WordCount(text)
		if words == 0 {
			continue
		}
		dur := float64(script.SecondsFor(words))

		start := cursor
		end := cursor + dur
		startFrame := int(math.Round(start * float64(fps)))
		endFrame := int(math.Round(end * float64(fps)))

		clip := types.TimelineClip{
			ID:             fmt.Sprintf("clip-%03d", len(clips)+1),
			Section:        sec.name,
			Label:          sec.label,
			StartSec:       start,
			EndSec:         end,
			DurationSec:    dur,
			StartFrame:     startFrame,
			EndFrame:       endFrame,
			DurationFrames: endFrame - startFrame,
			Text:           text,
			WordCount:      words,
			Overlays:       script.ExtractOverlays(text, sec.name),
		}
		if i := len(clips); i < len(footage) {
			clip.Footage = footage[i]
		}
		clips = append(clips, clip)
		cursor = end
	}

	tl := types.EditingTimeline{
		FPS:              fps,
		TotalDurationSec: cursor,
		TotalFrames:      int(math.Round(cursor * float64(fps))),
		Clips:            clips,
	}
	return tl
}
