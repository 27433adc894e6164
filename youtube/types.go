// Package youtube acquires video metadata and transcripts.
//
// Metadata and caption lookups each run a chain of strategies in fixed
// order, from the official Data API down to page scraping. A strategy
// failure is not an error; it just hands control to the next strategy.
package youtube

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for transcript and metadata acquisition.
var (
	// ErrInvalidURL indicates the input is not a recognizable YouTube URL
	// or video ID.
	ErrInvalidURL = errors.New("invalid youtube url")

	// ErrNoCaptions indicates no caption track could be fetched from any
	// caption strategy.
	ErrNoCaptions = errors.New("no captions available")

	// ErrYtdlpNotInstalled indicates the yt-dlp executable was not found.
	ErrYtdlpNotInstalled = errors.New("yt-dlp is not installed")

	// ErrAudioExtraction indicates yt-dlp ran but produced no audio file.
	ErrAudioExtraction = errors.New("audio extraction failed")

	// ErrVideoUnavailable indicates the video does not exist or is private.
	ErrVideoUnavailable = errors.New("video unavailable")
)

// TranscriptError wraps a failure of one acquisition strategy with
// enough context to log which strategy and video were involved.
type TranscriptError struct {
	VideoID  string
	Strategy string
	Err      error
}

func (e *TranscriptError) Error() string {
	return fmt.Sprintf("transcript %s via %s: %v", e.VideoID, e.Strategy, e.Err)
}

func (e *TranscriptError) Unwrap() error {
	return e.Err
}

// TranscriptSegment is a single timed piece of transcript text.
type TranscriptSegment struct {
	// Start is the offset from the beginning of the video.
	Start time.Duration `json:"start"`
	// Duration is how long the segment is displayed or spoken.
	Duration time.Duration `json:"duration"`
	// Text is the segment content with markup stripped.
	Text string `json:"text"`
	// Index is the zero-based position after sorting by Start.
	Index int `json:"index"`
}

// Transcript is an ordered list of segments plus its provenance.
type Transcript struct {
	VideoID  string              `json:"video_id"`
	Language string              `json:"language"`
	// Source names the strategy that produced the segments, for example
	// "captions-api", "captions-page", "timedtext", "audio", "scrape",
	// "oembed" or "placeholder".
	Source   string              `json:"source"`
	Segments []TranscriptSegment `json:"segments"`
}

// Text joins all segment texts with single spaces.
func (t *Transcript) Text() string {
	if t == nil || len(t.Segments) == 0 {
		return ""
	}
	total := 0
	for _, s := range t.Segments {
		total += len(s.Text) + 1
	}
	buf := make([]byte, 0, total)
	for i, s := range t.Segments {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

// VideoMetadata describes a video. IsRealData is false only when every
// lookup strategy failed and the fields were synthesized.
type VideoMetadata struct {
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelTitle string    `json:"channel_title"`
	PublishedAt  time.Time `json:"published_at"`
	Duration     string    `json:"duration"`
	ViewCount    uint64    `json:"view_count"`
	LikeCount    uint64    `json:"like_count"`
	CommentCount uint64    `json:"comment_count"`
	Tags         []string  `json:"tags,omitempty"`
	CategoryID   string    `json:"category_id,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	IsRealData   bool      `json:"is_real_data"`
}
