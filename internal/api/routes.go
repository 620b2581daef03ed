package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goldytalks/novig-scripter/internal/config"
	"github.com/goldytalks/novig-scripter/internal/domain/captions"
	"github.com/goldytalks/novig-scripter/internal/domain/hooks"
	"github.com/goldytalks/novig-scripter/internal/ports"
	"github.com/goldytalks/novig-scripter/internal/transcript"
	"github.com/goldytalks/novig-scripter/internal/types"
	"github.com/goldytalks/novig-scripter/internal/usecase"
)

// Generator is the slice of the usecase the handlers need.
type Generator interface {
	Generate(ctx context.Context, in usecase.GenerateInput) (types.GeneratedScript, []transcript.Attempt, error)
	GenerateFromPicks(ctx context.Context, in usecase.PicksInput) (types.PicksScript, error)
}

// CaptionFetcher serves the client-assisted caption endpoint.
type CaptionFetcher interface {
	Transcript(ctx context.Context, videoID, lang string) (string, error)
	TrackDocument(ctx context.Context, trackURL string) (string, error)
}

func NewRouter(cfg ServerConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Route("/api", func(r chi.Router) {
		r.Post("/scripts", generateHandler(cfg))
		r.Post("/scripts/picks", picksHandler(cfg))
		r.Post("/captions", captionsHandler(cfg))
		r.Get("/hooks", hooksHandler())
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: config.Version,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func generateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_REQUEST")
			return
		}
		if req.URL == "" && strings.TrimSpace(req.ManualTranscript) == "" {
			WriteError(w, http.StatusBadRequest, "url or manualTranscript is required", "INVALID_REQUEST")
			return
		}

		res, attempts, err := cfg.Generator.Generate(r.Context(), usecase.GenerateInput{
			URL:              req.URL,
			ManualTranscript: req.ManualTranscript,
			Settings:         req.Settings,
			FPS:              req.FPS,
		})
		if err != nil {
			writeGenerateError(w, err, attempts)
			return
		}
		WriteJSON(w, http.StatusOK, res)
	}
}

func picksHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PicksRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_REQUEST")
			return
		}

		res, err := cfg.Generator.GenerateFromPicks(r.Context(), usecase.PicksInput{
			Picks:    req.Picks,
			HookLine: req.Hook,
			Settings: req.Settings,
		})
		if err != nil {
			writeGenerateError(w, err, nil)
			return
		}
		WriteJSON(w, http.StatusOK, res)
	}
}

func hooksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tone := r.URL.Query().Get("tone")
		WriteJSON(w, http.StatusOK, HooksResponse{Hooks: hooks.ByTone(tone)})
	}
}

// captionsHandler implements the client-assisted caption fetch. Error
// codes here are the categorized caption-fetch set rather than the
// generation codes.
func captionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CaptionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid JSON body", "caption_fetch_failed")
			return
		}
		if req.VideoID == "" {
			WriteError(w, http.StatusBadRequest, "missing videoId", "missing_videoId")
			return
		}

		if req.CaptionURL != "" {
			doc, err := cfg.Captions.TrackDocument(r.Context(), req.CaptionURL)
			if err != nil {
				writeCaptionsError(w, err)
				return
			}
			text := captions.Parse(doc)
			if text == "" {
				WriteError(w, http.StatusUnprocessableEntity, "caption document contained no text", "empty_captions")
				return
			}
			if len(strings.TrimSpace(text)) <= captions.MinUsableLen {
				WriteError(w, http.StatusUnprocessableEntity, "transcript too short to use", "transcript_too_short")
				return
			}
			WriteJSON(w, http.StatusOK, CaptionsResponse{Transcript: text})
			return
		}

		text, err := cfg.Captions.Transcript(r.Context(), req.VideoID, req.Lang)
		if err != nil {
			writeCaptionsError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, CaptionsResponse{Transcript: text})
	}
}

func writeCaptionsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrNoCaptions):
		WriteError(w, http.StatusNotFound, "captions are disabled or unavailable for this video", "no_captions")
	case errors.Is(err, ports.ErrBlocked):
		WriteError(w, http.StatusForbidden, "the video host blocked automated access", "blocked")
	default:
		WriteError(w, http.StatusBadGateway, "caption fetch failed: "+err.Error(), "caption_fetch_failed")
	}
}

func writeGenerateError(w http.ResponseWriter, err error, attempts []transcript.Attempt) {
	switch {
	case errors.Is(err, usecase.ErrInvalidStyle),
		errors.Is(err, usecase.ErrInvalidDuration),
		errors.Is(err, usecase.ErrNoPicks):
		WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_REQUEST")
	case errors.Is(err, transcript.ErrUnsupportedURL):
		WriteError(w, http.StatusBadRequest, err.Error(), "UNSUPPORTED_URL")
	case errors.Is(err, ports.ErrBlocked):
		WriteError(w, http.StatusForbidden, err.Error(), "BLOCKED")
	case errors.Is(err, transcript.ErrNoTranscript), errors.Is(err, transcript.ErrManualRequired):
		WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:    err.Error(),
			Code:     "NO_TRANSCRIPT",
			Attempts: attempts,
		})
	case errors.Is(err, usecase.ErrNoAPIKey):
		WriteError(w, http.StatusServiceUnavailable, err.Error(), "NOT_CONFIGURED")
	default:
		WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
	}
}
