package youtube

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestFallbackTranscriber_FromPage(t *testing.T) {
	page := `<html><head><title>Fallback Title - YouTube</title></head>` +
		strings.Repeat("<p>pad</p>", 200) +
		`"shortDescription":"some description text"</html>`

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return textResponse(200, page), nil
	})

	f := NewFallbackTranscriber(testClient(rt))

	tr, err := f.FromPage(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("FromPage() returned error: %v", err)
	}
	if tr.Source != "scrape" {
		t.Errorf("Source = %q, want scrape", tr.Source)
	}
	if len(tr.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(tr.Segments))
	}
	if !strings.Contains(tr.Segments[0].Text, "Fallback Title") ||
		!strings.Contains(tr.Segments[0].Text, "some description text") {
		t.Errorf("segment text = %q, missing title or description", tr.Segments[0].Text)
	}
}

func TestFallbackTranscriber_FromPage_TinyBody(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return textResponse(200, "<html>err</html>"), nil
	})

	f := NewFallbackTranscriber(testClient(rt))

	_, err := f.FromPage(context.Background(), "dQw4w9WgXcQ")
	if !errors.Is(err, ErrVideoUnavailable) {
		t.Errorf("FromPage() error = %v, want ErrVideoUnavailable", err)
	}
}

func TestFallbackTranscriber_FromOEmbed(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return textResponse(200, `{"title":"OEmbed Title","author_name":"Channel X"}`), nil
	})

	f := NewFallbackTranscriber(testClient(rt))

	tr, err := f.FromOEmbed(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("FromOEmbed() returned error: %v", err)
	}
	if tr.Source != "oembed" {
		t.Errorf("Source = %q, want oembed", tr.Source)
	}
	if !strings.Contains(tr.Segments[0].Text, "OEmbed Title") {
		t.Errorf("segment text = %q", tr.Segments[0].Text)
	}
}

func TestPlaceholder(t *testing.T) {
	tr := Placeholder("dQw4w9WgXcQ")
	if tr.Source != "placeholder" {
		t.Errorf("Source = %q, want placeholder", tr.Source)
	}
	if len(tr.Segments) < 2 {
		t.Fatalf("got %d segments, want several", len(tr.Segments))
	}
	for i, seg := range tr.Segments {
		if seg.Text == "" {
			t.Errorf("segment %d is empty", i)
		}
	}
	if !strings.Contains(tr.Segments[0].Text, "dQw4w9WgXcQ") {
		t.Error("placeholder text does not name the video")
	}
}
