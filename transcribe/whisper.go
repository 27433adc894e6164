package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ytbrief/httpclient"
	"ytbrief/internal/retry"
	"ytbrief/youtube"
)

const whisperURL = "https://api.openai.com/v1/audio/transcriptions"

// Whisper is the primary speech backend, calling the OpenAI audio
// transcription endpoint. Transient failures retry with exponential
// backoff; an oversized file or missing key fails immediately.
type Whisper struct {
	http      *httpclient.Client
	apiKey    string
	maxSizeMB int
	retryCfg  retry.Config
}

// NewWhisper creates the Whisper backend. maxSizeMB caps the audio
// upload; retries is the retry count after the first attempt.
func NewWhisper(client *httpclient.Client, apiKey string, maxSizeMB, retries int) *Whisper {
	cfg := retry.DefaultConfig()
	if retries >= 0 {
		cfg.MaxRetries = retries
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 25
	}
	return &Whisper{http: client, apiKey: apiKey, maxSizeMB: maxSizeMB, retryCfg: cfg}
}

func (w *Whisper) Name() string { return "whisper" }

type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
}

// Transcribe uploads the audio file and converts the verbose response
// into timed segments. When the response carries text but no segment
// timings, the text is windowed instead.
func (w *Whisper) Transcribe(ctx context.Context, videoID, audioPath, language string) (*youtube.Transcript, error) {
	if w.apiKey == "" {
		return nil, ErrNotConfigured
	}

	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("stat audio: %w", err)
	}
	if info.Size() > int64(w.maxSizeMB)*1024*1024 {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d MB limit", ErrAudioTooLarge, info.Size(), w.maxSizeMB)
	}

	classifier := func(err error) bool {
		// Client errors other than 429 will not heal on retry.
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr.StatusCode == 429 || httpErr.StatusCode >= 500
		}
		return retry.IsRetryable(err)
	}

	var resp whisperResponse
	err = retry.Do(ctx, w.retryCfg, classifier, func(ctx context.Context) error {
		r, err := w.request(ctx, audioPath, language)
		if err != nil {
			return err
		}
		resp = *r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Segments) > 0 {
		tr := &youtube.Transcript{VideoID: videoID, Language: language}
		for _, s := range resp.Segments {
			start := time.Duration(s.Start * float64(time.Second))
			end := time.Duration(s.End * float64(time.Second))
			tr.Segments = append(tr.Segments, youtube.TranscriptSegment{
				Start:    start,
				Duration: end - start,
				Text:     strings.TrimSpace(s.Text),
			})
		}
		tr.Segments = youtube.NormalizeSegments(tr.Segments)
		return tr, nil
	}

	if resp.Text == "" {
		return nil, ErrNoSpeech
	}
	return segmentWords(videoID, language, resp.Text, 20, 10*time.Second), nil
}

func (w *Whisper) request(ctx context.Context, audioPath, language string) (*whisperResponse, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, err
	}
	mw.WriteField("model", "whisper-1")
	mw.WriteField("response_format", "verbose_json")
	if language != "" {
		mw.WriteField("language", baseLanguage(language))
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	headers := map[string]string{
		"Authorization": "Bearer " + w.apiKey,
		"Content-Type":  mw.FormDataContentType(),
	}

	httpResp, err := w.http.Do(ctx, "POST", whisperURL, &buf, headers)
	if err != nil {
		return nil, err
	}

	var resp whisperResponse
	if err := json.Unmarshal(httpResp.Body, &resp); err != nil {
		return nil, fmt.Errorf("parse whisper response: %w", err)
	}
	return &resp, nil
}

// baseLanguage reduces a BCP 47 tag to the bare language Whisper
// expects ("pt-BR" becomes "pt").
func baseLanguage(lang string) string {
	if i := strings.IndexByte(lang, '-'); i >= 0 {
		return lang[:i]
	}
	return lang
}
