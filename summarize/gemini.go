package summarize

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

// Gemini is the primary summarization tier, backed by a Vertex AI
// generative model.
type Gemini struct {
	project         string
	location        string
	credentialsFile string
	model           string
}

// NewGemini creates the Gemini tier. An empty project leaves the tier
// unconfigured and Summarize fails fast to the next tier.
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

func (g *Gemini) Name() string { return BackendGemini }

func (g *Gemini) Summarize(ctx context.Context, in Input, opts Options) (*Result, error) {
	if g.project == "" {
		return nil, fmt.Errorf("gemini: no project configured")
	}

	var clientOpts []option.ClientOption
	if g.credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(g.credentialsFile))
	}

	client, err := genai.NewClient(ctx, g.project, g.location, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create vertex client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(in, opts)))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	var text string
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text += string(t)
			}
		}
	}

	result, err := parseModelResponse(text, opts)
	if err != nil {
		return nil, err
	}
	result.Backend = BackendGemini
	return result, nil
}
