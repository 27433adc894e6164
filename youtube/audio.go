package youtube

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// AudioExtractor downloads a video's audio track as MP3 using the
// yt-dlp executable.
type AudioExtractor struct {
	ytdlpPath      string
	ffmpegLocation string
	tempDir        string
	timeout        time.Duration
	log            *logrus.Logger
}

// NewAudioExtractor creates an audio extractor. ytdlpPath defaults to
// "yt-dlp" on PATH; ffmpegLocation is optional.
func NewAudioExtractor(ytdlpPath, ffmpegLocation, tempDir string, timeout time.Duration, log *logrus.Logger) *AudioExtractor {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &AudioExtractor{
		ytdlpPath:      ytdlpPath,
		ffmpegLocation: ffmpegLocation,
		tempDir:        tempDir,
		timeout:        timeout,
		log:            log,
	}
}

// Available reports whether the yt-dlp executable can be run.
func (e *AudioExtractor) Available(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, e.ytdlpPath, "--version")
	return cmd.Run() == nil
}

// AudioPath returns the deterministic output path for a video's audio.
func (e *AudioExtractor) AudioPath(videoID string) string {
	return filepath.Join(e.tempDir, videoID+"_audio.mp3")
}

// Extract downloads the audio track and returns the path of the MP3
// file. Extraction is idempotent: an existing file for the same video
// is reused without invoking yt-dlp again.
func (e *AudioExtractor) Extract(ctx context.Context, videoID string) (string, error) {
	outPath := e.AudioPath(videoID)

	if info, err := os.Stat(outPath); err == nil && info.Size() > 0 {
		e.log.WithField("video_id", videoID).Debug("reusing cached audio file")
		return outPath, nil
	}

	if err := os.MkdirAll(e.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	if !e.Available(ctx) {
		return "", ErrYtdlpNotInstalled
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := []string{
		WatchURL(videoID),
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "0",
		"--output", outPath,
		"--no-playlist",
		"--quiet",
	}
	if e.ffmpegLocation != "" {
		args = append(args, "--ffmpeg-location", e.ffmpegLocation)
	}

	cmd := exec.CommandContext(ctx, e.ytdlpPath, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: timed out after %s", ErrAudioExtraction, e.timeout)
		}
		return "", fmt.Errorf("%w: %v: %s", ErrAudioExtraction, err, firstLine(stderr.String()))
	}

	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		return "", fmt.Errorf("%w: yt-dlp produced no output file", ErrAudioExtraction)
	}

	e.log.WithFields(logrus.Fields{
		"video_id": videoID,
		"size":     info.Size(),
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Info("audio extracted")

	return outPath, nil
}

// Cleanup removes the extracted audio file for a video, ignoring
// missing files.
func (e *AudioExtractor) Cleanup(videoID string) error {
	err := os.Remove(e.AudioPath(videoID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
