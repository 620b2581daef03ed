package script

import (
	"math"
	"strings"
)

// WordsPerSecond is the fixed speaking rate used everywhere a word
// count becomes a duration. Script synthesis and the timeline builder
// must both read this constant so derived values never drift apart.
const WordsPerSecond = 2.8

const (
	// hookSeconds and ctaSeconds are the fixed time slots carved out of
	// the target duration; the body gets the remainder.
	hookSeconds = 3
	ctaSeconds  = 4
)

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// SecondsFor converts a word count to whole seconds at the speaking rate.
func SecondsFor(words int) int {
	return int(math.Round(float64(words) / WordsPerSecond))
}

// TargetWords converts a duration to the word budget it allows.
func TargetWords(seconds int) int {
	return int(math.Round(float64(seconds) * WordsPerSecond))
}

// WordTargets is the per-section word budget for one generation.
type WordTargets struct {
	Hook int
	Body int
	CTA  int
}

// TargetsFor splits a target duration into per-section word budgets.
func TargetsFor(targetSeconds int) WordTargets {
	hook := TargetWords(hookSeconds)
	cta := TargetWords(ctaSeconds)
	body := TargetWords(targetSeconds) - hook - cta
	if body < 0 {
		body = 0
	}
	return WordTargets{Hook: hook, Body: body, CTA: cta}
}
