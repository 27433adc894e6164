package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"ytbrief/httpclient"
)

// FallbackTranscriber produces degraded single-segment transcripts when
// no caption or speech source yields anything. These transcripts carry
// whatever descriptive text the watch page or oEmbed endpoint exposes.
type FallbackTranscriber struct {
	http *httpclient.Client
}

// NewFallbackTranscriber creates a fallback transcriber.
func NewFallbackTranscriber(client *httpclient.Client) *FallbackTranscriber {
	return &FallbackTranscriber{http: client}
}

// FromPage scrapes the watch page title and description into a single
// transcript segment. Pages too small to be a real watch page are
// rejected so an error page never becomes transcript text.
func (f *FallbackTranscriber) FromPage(ctx context.Context, videoID string) (*Transcript, error) {
	resp, err := f.http.Get(ctx, WatchURL(videoID))
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}
	body := string(resp.Body)
	if len(body) < 1000 {
		return nil, ErrVideoUnavailable
	}

	var parts []string
	if m := titlePattern.FindStringSubmatch(body); m != nil {
		title := strings.TrimSuffix(html.UnescapeString(m[1]), " - YouTube")
		if title = strings.TrimSpace(title); title != "" {
			parts = append(parts, title)
		}
	}
	if m := descriptionPattern.FindStringSubmatch(body); m != nil {
		if desc := strings.TrimSpace(unescapeJSONString(m[1])); desc != "" {
			parts = append(parts, desc)
		}
	}
	if len(parts) == 0 {
		return nil, ErrVideoUnavailable
	}

	return singleSegmentTranscript(videoID, "scrape", strings.Join(parts, ". ")), nil
}

// FromOEmbed turns the oEmbed title into a single transcript segment.
func (f *FallbackTranscriber) FromOEmbed(ctx context.Context, videoID string) (*Transcript, error) {
	q := url.Values{}
	q.Set("url", WatchURL(videoID))
	q.Set("format", "json")

	resp, err := f.http.Get(ctx, oembedURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("oembed: %w", err)
	}

	var oe oembedResponse
	if err := json.Unmarshal(resp.Body, &oe); err != nil {
		return nil, fmt.Errorf("parse oembed: %w", err)
	}
	if oe.Title == "" {
		return nil, ErrVideoUnavailable
	}

	text := oe.Title
	if oe.AuthorName != "" {
		text = fmt.Sprintf("%s. Canal: %s", oe.Title, oe.AuthorName)
	}
	return singleSegmentTranscript(videoID, "oembed", text), nil
}

// Placeholder returns the fixed last-resort transcript, one segment
// per exhausted source. It always succeeds so the acquisition chain
// can never end empty-handed.
func Placeholder(videoID string) *Transcript {
	texts := []string{
		fmt.Sprintf("Transcript unavailable for video %s.", videoID),
		"No published caption track could be fetched.",
		"Audio transcription was not possible.",
		"The video page offered no usable text.",
	}

	tr := &Transcript{VideoID: videoID, Source: "placeholder"}
	for i, text := range texts {
		tr.Segments = append(tr.Segments, TranscriptSegment{
			Start:    time.Duration(i) * untimedWindow,
			Duration: untimedWindow,
			Text:     text,
			Index:    i,
		})
	}
	return tr
}

func singleSegmentTranscript(videoID, source, text string) *Transcript {
	return &Transcript{
		VideoID: videoID,
		Source:  source,
		Segments: []TranscriptSegment{
			{Start: 0, Duration: untimedWindow, Text: text, Index: 0},
		},
	}
}
