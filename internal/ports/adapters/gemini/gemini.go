// Package gemini implements the AI transcription capability with
// Google Gemini. The model receives only the public video URL; no
// audio is extracted locally.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/goldytalks/novig-scripter/internal/ports"
)

const transcribePrompt = "Transcribe the spoken audio of this video verbatim. " +
	"Output only the transcript text: no timestamps, no speaker labels, no commentary."

type Adapter struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Adapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Adapter{client: client, model: model}, nil
}

// TranscribeURL asks the model for a verbatim transcript of the video
// at videoURL. Free text out; the caller validates usability.
func (a *Adapter) TranscribeURL(ctx context.Context, videoURL string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromURI(videoURL, "video/*"),
		genai.NewPartFromText(transcribePrompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return "", fmt.Errorf("gemini transcription: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: no candidates returned")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

var _ ports.Transcriber = (*Adapter)(nil)
