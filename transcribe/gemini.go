package transcribe

import (
	"context"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"ytbrief/youtube"
)

// Gemini transcribes audio by sending it inline to a Vertex AI
// multimodal model. The model returns plain text, so the result is
// windowed into fixed segments.
type Gemini struct {
	project         string
	location        string
	credentialsFile string
	model           string
}

// NewGemini creates the Gemini audio backend. An empty project leaves
// the backend unconfigured and Transcribe fails fast.
func NewGemini(project, location, credentialsFile, model string) *Gemini {
	if location == "" {
		location = "us-central1"
	}
	if model == "" {
		model = "gemini-2.0-flash-001"
	}
	return &Gemini{
		project:         project,
		location:        location,
		credentialsFile: credentialsFile,
		model:           model,
	}
}

func (g *Gemini) Name() string { return "gemini-audio" }

// Transcribe sends the audio file inline with a transcription prompt
// and windows the returned text into 20-word, 10-second segments.
func (g *Gemini) Transcribe(ctx context.Context, videoID, audioPath, language string) (*youtube.Transcript, error) {
	if g.project == "" {
		return nil, ErrNotConfigured
	}

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	var opts []option.ClientOption
	if g.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(g.credentialsFile))
	}

	client, err := genai.NewClient(ctx, g.project, g.location, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vertex client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)

	prompt := fmt.Sprintf(
		"Transcribe this audio verbatim in its original spoken language (expected: %s). Return only the transcription text with no commentary.",
		language,
	)

	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: "audio/mp3", Data: audio},
		genai.Text(prompt),
	)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, ErrNoSpeech
	}

	return segmentWords(videoID, language, text, 20, 10*time.Second), nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			out += string(t)
		}
	}
	return out
}
