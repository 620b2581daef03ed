// Package hooks is the static catalog of opening-line templates for the
// picks-to-script flow.
package hooks

// Template is one reusable hook line. The {n} placeholders, if present,
// are filled client-side before generation.
type Template struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Tone     string `json:"tone"`
	Template string `json:"template"`
}

var catalog = []Template{
	{ID: "stop-scroll", Name: "Stop the scroll", Tone: "hype", Template: "Stop scrolling. These {count} picks print tonight."},
	{ID: "free-money", Name: "Free money", Tone: "hype", Template: "{selection} is the closest thing to free money you will see all week."},
	{ID: "books-mistake", Name: "The books slipped", Tone: "hype", Template: "The books made a mistake with this line and we are taking it."},
	{ID: "line-moved", Name: "Line movement", Tone: "analytical", Template: "This line moved {points} points in two days. Here is why that matters."},
	{ID: "numbers-first", Name: "Numbers first", Tone: "analytical", Template: "Three numbers decide this game, and the market is ignoring two of them."},
	{ID: "model-edge", Name: "Model edge", Tone: "analytical", Template: "My model has {selection} {edge} points better than the spread."},
	{ID: "honest-take", Name: "Honest take", Tone: "conversational", Template: "Real talk, I only like {count} bets today and here they are."},
	{ID: "friend-text", Name: "Text a friend", Tone: "conversational", Template: "If I texted one bet to a friend tonight, it would be this one."},
	{ID: "fade-public", Name: "Fade the public", Tone: "conversational", Template: "Everyone is on the other side of this, and that is exactly why I am not."},
}

// All returns the full catalog.
func All() []Template {
	out := make([]Template, len(catalog))
	copy(out, catalog)
	return out
}

// ByTone filters the catalog by tone. An empty tone returns everything.
func ByTone(tone string) []Template {
	if tone == "" {
		return All()
	}
	var out []Template
	for _, t := range catalog {
		if t.Tone == tone {
			out = append(out, t)
		}
	}
	return out
}
