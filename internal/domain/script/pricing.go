package script

// modelRate is USD per one million tokens, prompt and completion priced
// separately.
type modelRate struct {
	Prompt     float64
	Completion float64
}

// rates is the fixed per-model price table used for cost estimates.
// Unknown models fall back to defaultRate rather than pricing at zero.
var rates = map[string]modelRate{
	"openai/gpt-4o":               {Prompt: 2.50, Completion: 10.00},
	"openai/gpt-4o-mini":          {Prompt: 0.15, Completion: 0.60},
	"anthropic/claude-3.5-sonnet": {Prompt: 3.00, Completion: 15.00},
	"meta-llama/llama-3.1-70b":    {Prompt: 0.40, Completion: 0.40},
	"z-ai/glm-4.5-air:free":       {Prompt: 0, Completion: 0},
}

var defaultRate = modelRate{Prompt: 1.00, Completion: 3.00}

// EstimateCost computes the USD cost of one model invocation from its
// token counts.
func EstimateCost(model string, promptTokens, completionTokens int) float64 {
	r, ok := rates[model]
	if !ok {
		r = defaultRate
	}
	const million = 1_000_000
	return float64(promptTokens)*r.Prompt/million + float64(completionTokens)*r.Completion/million
}
