// Package captions turns raw caption markup into plain transcript text.
// It understands the two document shapes YouTube serves: the manual
// caption format (repeated <text> elements) and the ASR format
// (<p> paragraphs containing <s> word segments).
package captions

import (
	"regexp"
	"strings"
)

// MinUsableLen is the threshold below which a parsed transcript is
// treated as a failure rather than a valid short transcript.
const MinUsableLen = 10

var (
	textSegRE = regexp.MustCompile(`(?s)<text[^>]*>(.*?)</text>`)
	paraRE    = regexp.MustCompile(`(?s)<p[^>]*>(.*?)</p>`)
	wordSegRE = regexp.MustCompile(`(?s)<s[^>]*>(.*?)</s>`)
	tagRE     = regexp.MustCompile(`<[^>]+>`)
)

// decodeEntities resolves the fixed set of XML entities caption
// documents use. Deliberately lenient: unknown entities pass through.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&#39;", "'",
	"&quot;", `"`,
)

// Parse extracts a single plain-text transcript from raw caption markup.
// Manual captions win whenever present, even if ASR segments also exist
// in the same document. Returns "" when nothing recognizable is found;
// callers must treat "" as failure, not as an empty transcript.
func Parse(raw string) string {
	if out := parseManual(raw); len(out) > MinUsableLen {
		return out
	}
	return parseASR(raw)
}

func parseManual(raw string) string {
	matches := textSegRE.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return ""
	}
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		seg := decodeSegment(m[1])
		if seg == "" {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func parseASR(raw string) string {
	paras := paraRE.FindAllStringSubmatch(raw, -1)
	if len(paras) == 0 {
		return ""
	}
	var parts []string
	for _, p := range paras {
		for _, s := range wordSegRE.FindAllStringSubmatch(p[1], -1) {
			seg := decodeSegment(s[1])
			if seg == "" {
				continue
			}
			parts = append(parts, seg)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func decodeSegment(s string) string {
	s = tagRE.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
