package transcribe

import (
	"context"
	"errors"

	"ytbrief/youtube"
)

// AssemblyAI is the last speech backend in the chain. The upload and
// polling flow is not implemented yet; the backend reports a real
// failure so the chain records why it contributed nothing.
//
// TODO: implement the upload + poll flow against api.assemblyai.com/v2
// once an account with transcription quota is provisioned.
type AssemblyAI struct {
	apiKey string
}

// NewAssemblyAI creates the AssemblyAI backend.
func NewAssemblyAI(apiKey string) *AssemblyAI {
	return &AssemblyAI{apiKey: apiKey}
}

func (a *AssemblyAI) Name() string { return "assemblyai" }

func (a *AssemblyAI) Transcribe(ctx context.Context, videoID, audioPath, language string) (*youtube.Transcript, error) {
	if a.apiKey == "" {
		return nil, ErrNotConfigured
	}
	return nil, errors.New("assemblyai transcription not implemented")
}
