package ytbrief

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"ytbrief/config"
	"ytbrief/httpclient"
	"ytbrief/storage"
	"ytbrief/summarize"
	"ytbrief/transcribe"
	"ytbrief/youtube"
)

// Sources the service pulls from. Declared as interfaces so tests can
// substitute fakes for the network-facing pieces.
type (
	metadataSource interface {
		Fetch(ctx context.Context, videoID string) (*youtube.VideoMetadata, error)
	}
	captionSource interface {
		Fetch(ctx context.Context, videoID string) (*youtube.Transcript, error)
	}
	audioSource interface {
		Available(ctx context.Context) bool
		Extract(ctx context.Context, videoID string) (string, error)
		Cleanup(videoID string) error
	}
	speechSource interface {
		Transcribe(ctx context.Context, videoID, audioPath, language string) (*youtube.Transcript, error)
	}
	fallbackSource interface {
		FromPage(ctx context.Context, videoID string) (*youtube.Transcript, error)
		FromOEmbed(ctx context.Context, videoID string) (*youtube.Transcript, error)
	}
	summarySource interface {
		Summarize(ctx context.Context, in summarize.Input, opts summarize.Options) (*summarize.Result, error)
	}
)

// Service orchestrates transcript acquisition, summarization and
// persistence.
type Service struct {
	cfg *config.Config
	log *logrus.Logger

	store      storage.Store
	metadata   metadataSource
	captions   captionSource
	audio      audioSource
	speech     speechSource
	fallback   fallbackSource
	summarizer summarySource
}

// New wires a Service from configuration: HTTP client, store, the
// caption/metadata/audio sources and the transcription and
// summarization chains.
func New(cfg *config.Config, log *logrus.Logger) (*Service, error) {
	store, err := storage.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.HTTPTimeout
	client := httpclient.New(httpCfg)

	speech := transcribe.NewChain(log,
		transcribe.NewWhisper(client, cfg.OpenAIAPIKey, cfg.MaxAudioSizeMB, cfg.TranscribeRetries),
		transcribe.NewGemini(cfg.GCPProject, cfg.GCPLocation, cfg.GCPCredentialsFile, cfg.GeminiModel),
		transcribe.NewAssemblyAI(cfg.AssemblyAIAPIKey),
	)

	summarizer := summarize.NewDefault(log,
		summarize.NewGemini(cfg.GCPProject, cfg.GCPLocation, cfg.GCPCredentialsFile, cfg.GeminiModel),
		summarize.NewOpenAI(client, cfg.OpenAIAPIKey, cfg.OpenAIModel),
	)

	return &Service{
		cfg:        cfg,
		log:        log,
		store:      store,
		metadata:   youtube.NewMetadataFetcher(client, cfg.YouTubeAPIKey, log),
		captions:   youtube.NewCaptionFetcher(client, cfg.YouTubeAPIKey, cfg.CaptionLanguages, log),
		audio:      youtube.NewAudioExtractor(cfg.YtdlpPath, cfg.FfmpegLocation, cfg.TempDir, cfg.YtdlpTimeout, log),
		speech:     speech,
		fallback:   youtube.NewFallbackTranscriber(client),
		summarizer: summarizer,
	}, nil
}

// Store exposes the persistence layer for the HTTP handlers.
func (s *Service) Store() storage.Store {
	return s.store
}

// Close releases the service's resources.
func (s *Service) Close() error {
	return s.store.Close()
}

// SummarizeRequest is a request to summarize one video. Zero-valued
// fields take configured defaults.
type SummarizeRequest struct {
	VideoURL    string
	SummaryType string
	Language    string
	MaxLength   int
}

// applyDefaults fills omitted request fields from configuration.
func (s *Service) applyDefaults(req *SummarizeRequest) {
	if req.SummaryType == "" {
		req.SummaryType = s.cfg.DefaultSummaryType
	}
	if req.Language == "" {
		req.Language = s.cfg.DefaultLanguage
	}
	if req.MaxLength <= 0 {
		req.MaxLength = s.cfg.DefaultMaxLength
	}
}

// Summarize runs the full pipeline: resolve the video, acquire a
// transcript, summarize it and persist the result with backend
// attribution.
func (s *Service) Summarize(ctx context.Context, req SummarizeRequest) (*storage.SummaryRecord, error) {
	s.applyDefaults(&req)

	videoID, err := youtube.ExtractVideoID(req.VideoURL)
	if err != nil {
		return nil, err
	}

	log := s.log.WithField("video_id", videoID)
	start := time.Now()

	meta, err := s.metadata.Fetch(ctx, videoID)
	if err != nil {
		return nil, err
	}

	transcript, err := s.AcquireTranscript(ctx, videoID, req.Language)
	if err != nil {
		return nil, err
	}

	result, err := s.summarizer.Summarize(ctx,
		summarize.Input{Metadata: meta, Transcript: transcript},
		summarize.Options{
			SummaryType: req.SummaryType,
			Language:    req.Language,
			MaxLength:   req.MaxLength,
		},
	)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.SaveSummary(ctx, &storage.SummaryRecord{
		VideoID:          videoID,
		VideoURL:         youtube.WatchURL(videoID),
		Title:            meta.Title,
		ChannelTitle:     meta.ChannelTitle,
		SummaryType:      req.SummaryType,
		Language:         req.Language,
		Summary:          result.Summary,
		KeyPoints:        result.KeyPoints,
		Topics:           result.Topics,
		Sentiment:        result.Sentiment,
		DurationSeconds:  result.DurationSeconds,
		Backend:          result.Backend,
		TranscriptSource: transcript.Source,
		TranscriptLength: len(transcript.Text()),
		IsRealData:       meta.IsRealData,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.IncrementUsage(ctx, result.Backend); err != nil {
		log.WithError(err).Warn("usage attribution failed")
	}

	log.WithFields(logrus.Fields{
		"backend":    result.Backend,
		"transcript": transcript.Source,
		"elapsed":    time.Since(start).Round(time.Millisecond),
	}).Info("video summarized")

	return rec, nil
}

// AcquireTranscript returns a transcript for the video, trying caption
// tracks, audio transcription and page text in order. It never returns
// an empty transcript: the placeholder closes the chain.
func (s *Service) AcquireTranscript(ctx context.Context, videoID, language string) (*youtube.Transcript, error) {
	log := s.log.WithField("video_id", videoID)

	if tr, err := s.captions.Fetch(ctx, videoID); err == nil && len(tr.Segments) > 0 {
		return tr, nil
	} else if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WithError(err).Debug("caption acquisition failed")
	}

	if s.audio.Available(ctx) {
		tr, err := s.transcribeAudio(ctx, videoID, language)
		if err == nil && len(tr.Segments) > 0 {
			return tr, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			log.WithError(err).Debug("audio transcription failed")
		}
	} else {
		log.Debug("yt-dlp unavailable, skipping audio transcription")
	}

	if tr, err := s.fallback.FromPage(ctx, videoID); err == nil && len(tr.Segments) > 0 {
		return tr, nil
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if tr, err := s.fallback.FromOEmbed(ctx, videoID); err == nil && len(tr.Segments) > 0 {
		return tr, nil
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	log.Warn("every transcript source failed, using placeholder")
	return youtube.Placeholder(videoID), nil
}

// transcribeAudio extracts the audio track and runs the speech chain.
// The temp file is removed after a successful transcription; on
// failure it stays behind so a retried request reuses it as a cache.
func (s *Service) transcribeAudio(ctx context.Context, videoID, language string) (*youtube.Transcript, error) {
	audioPath, err := s.audio.Extract(ctx, videoID)
	if err != nil {
		return nil, err
	}

	tr, err := s.speech.Transcribe(ctx, videoID, audioPath, language)
	if err != nil {
		return nil, err
	}

	if err := s.audio.Cleanup(videoID); err != nil {
		s.log.WithField("video_id", videoID).WithError(err).Warn("audio cleanup failed")
	}
	return tr, nil
}
