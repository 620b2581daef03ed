package script

import (
	"regexp"
	"strings"

	"github.com/goldytalks/novig-scripter/internal/types"
)

var overlayRE = regexp.MustCompile(`\[(GFX|STAT):\s*([^\]]+)\]`)

// ExtractOverlays scans text for inline [GFX: ...] and [STAT: ...]
// markers and returns the cues in document order, tagged with the
// section they came from.
func ExtractOverlays(text, section string) []types.OverlayCue {
	matches := overlayRE.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]types.OverlayCue, 0, len(matches))
	for _, m := range matches {
		out = append(out, types.OverlayCue{
			Kind:    strings.ToLower(m[1]),
			Text:    strings.TrimSpace(m[2]),
			Section: section,
		})
	}
	return out
}

// SectionOverlays extracts overlay cues for all three sections in
// script order.
func SectionOverlays(s types.ScriptSections) []types.OverlayCue {
	var out []types.OverlayCue
	out = append(out, ExtractOverlays(s.Hook, "hook")...)
	out = append(out, ExtractOverlays(s.Body, "body")...)
	out = append(out, ExtractOverlays(s.CTA, "cta")...)
	return out
}
