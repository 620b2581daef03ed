package api

import (
	"github.com/goldytalks/novig-scripter/internal/domain/hooks"
	"github.com/goldytalks/novig-scripter/internal/transcript"
	"github.com/goldytalks/novig-scripter/internal/types"
)

// GenerateRequest is the body of POST /api/scripts.
type GenerateRequest struct {
	URL              string               `json:"url"`
	ManualTranscript string               `json:"manualTranscript,omitempty"`
	Settings         types.ScriptSettings `json:"settings"`
	FPS              int                  `json:"fps,omitempty"`
}

// PicksRequest is the body of POST /api/scripts/picks.
type PicksRequest struct {
	Picks    []types.Pick         `json:"picks"`
	Hook     string               `json:"hook,omitempty"`
	Settings types.ScriptSettings `json:"settings"`
}

// CaptionsRequest is the body of POST /api/captions. CaptionURL, when
// present, points at a caption track the client already discovered;
// otherwise the server runs its own track lookup for VideoID.
type CaptionsRequest struct {
	VideoID    string `json:"videoId"`
	CaptionURL string `json:"captionUrl,omitempty"`
	Lang       string `json:"lang,omitempty"`
}

// CaptionsResponse is the success body of POST /api/captions.
type CaptionsResponse struct {
	Transcript string `json:"transcript"`
}

// HooksResponse is the body of GET /api/hooks.
type HooksResponse struct {
	Hooks []hooks.Template `json:"hooks"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

// ErrorResponse is the uniform error body. Attempts carries the
// transcript source diagnostics when acquisition was exhausted.
type ErrorResponse struct {
	Error    string               `json:"error"`
	Code     string               `json:"code"`
	Attempts []transcript.Attempt `json:"attempts,omitempty"`
}
