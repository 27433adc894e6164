// Package transcribe converts extracted audio into transcripts.
//
// Backends are tried in a fixed order and the first one returning a
// non-empty transcript wins. Only the primary backend retries; the
// others get a single attempt each because their failures are almost
// always permanent (missing credentials, unsupported audio).
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ytbrief/youtube"
)

// Sentinel errors for transcription.
var (
	// ErrAudioTooLarge indicates the audio file exceeds the upload limit.
	ErrAudioTooLarge = errors.New("audio file too large")

	// ErrNoSpeech indicates the backend ran but recognized no words.
	ErrNoSpeech = errors.New("no speech recognized")

	// ErrNotConfigured indicates the backend is missing credentials.
	ErrNotConfigured = errors.New("backend not configured")
)

// Backend is a single speech-to-text provider.
type Backend interface {
	// Name identifies the backend in logs and errors.
	Name() string
	// Transcribe converts the audio file into a timed transcript.
	Transcribe(ctx context.Context, videoID, audioPath, language string) (*youtube.Transcript, error)
}

// Chain runs backends in order until one produces a transcript.
type Chain struct {
	backends []Backend
	log      *logrus.Logger
}

// NewChain creates a transcription chain over the given backends.
func NewChain(log *logrus.Logger, backends ...Backend) *Chain {
	return &Chain{backends: backends, log: log}
}

// Transcribe tries each backend in order. The returned error joins
// every backend failure when none succeeds.
func (c *Chain) Transcribe(ctx context.Context, videoID, audioPath, language string) (*youtube.Transcript, error) {
	if len(c.backends) == 0 {
		return nil, errors.New("no transcription backends configured")
	}

	var failures []error
	for _, b := range c.backends {
		start := time.Now()
		tr, err := b.Transcribe(ctx, videoID, audioPath, language)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.WithFields(logrus.Fields{
				"video_id": videoID,
				"backend":  b.Name(),
			}).WithError(err).Warn("transcription backend failed")
			failures = append(failures, fmt.Errorf("%s: %w", b.Name(), err))
			continue
		}
		if tr == nil || len(tr.Segments) == 0 {
			failures = append(failures, fmt.Errorf("%s: %w", b.Name(), ErrNoSpeech))
			continue
		}

		c.log.WithFields(logrus.Fields{
			"video_id": videoID,
			"backend":  b.Name(),
			"segments": len(tr.Segments),
			"elapsed":  time.Since(start).Round(time.Millisecond),
		}).Info("audio transcribed")
		tr.Source = "audio"
		return tr, nil
	}

	return nil, errors.Join(failures...)
}

// segmentWords splits recognized text into fixed windows of wordsPer
// words and window duration each, so even untimed backends produce
// timestamped transcripts.
func segmentWords(videoID, language, text string, wordsPer int, window time.Duration) *youtube.Transcript {
	words := strings.Fields(text)
	tr := &youtube.Transcript{VideoID: videoID, Language: language}

	for i := 0; i < len(words); i += wordsPer {
		end := i + wordsPer
		if end > len(words) {
			end = len(words)
		}
		idx := i / wordsPer
		tr.Segments = append(tr.Segments, youtube.TranscriptSegment{
			Start:    time.Duration(idx) * window,
			Duration: window,
			Text:     strings.Join(words[i:end], " "),
			Index:    idx,
		})
	}

	return tr
}
