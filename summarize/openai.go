package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"ytbrief/httpclient"
)

const chatCompletionsURL = "https://api.openai.com/v1/chat/completions"

// OpenAI is the secondary summarization tier, calling the chat
// completions endpoint directly.
type OpenAI struct {
	http   *httpclient.Client
	apiKey string
	model  string
}

// NewOpenAI creates the OpenAI tier.
func NewOpenAI(client *httpclient.Client, apiKey, model string) *OpenAI {
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return &OpenAI{http: client, apiKey: apiKey, model: model}
}

func (o *OpenAI) Name() string { return BackendOpenAI }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) Summarize(ctx context.Context, in Input, opts Options) (*Result, error) {
	if o.apiKey == "" {
		return nil, fmt.Errorf("openai: no api key configured")
	}

	reqBody, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You summarize video transcripts and always answer with a single JSON object."},
			{Role: "user", Content: buildPrompt(in, opts)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, err
	}

	headers := map[string]string{
		"Authorization": "Bearer " + o.apiKey,
		"Content-Type":  "application/json",
	}

	httpResp, err := o.http.Do(ctx, "POST", chatCompletionsURL, bytes.NewReader(reqBody), headers)
	if err != nil {
		return nil, fmt.Errorf("chat completions: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(httpResp.Body, &resp); err != nil {
		return nil, fmt.Errorf("parse chat response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrBadResponse
	}

	result, err := parseModelResponse(resp.Choices[0].Message.Content, opts)
	if err != nil {
		return nil, err
	}
	result.Backend = BackendOpenAI
	return result, nil
}
