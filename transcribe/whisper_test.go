package transcribe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytbrief/httpclient"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func writeAudioFile(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test_audio.mp3")
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWhisper_AudioTooLarge(t *testing.T) {
	path := writeAudioFile(t, 2*1024*1024)

	w := NewWhisper(nil, "key", 1, 0)

	_, err := w.Transcribe(context.Background(), "dQw4w9WgXcQ", path, "pt")
	if !errors.Is(err, ErrAudioTooLarge) {
		t.Errorf("Transcribe() error = %v, want ErrAudioTooLarge", err)
	}
}

func TestWhisper_VerboseSegments(t *testing.T) {
	path := writeAudioFile(t, 1024)

	var gotAuth string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		gotAuth = req.Header.Get("Authorization")
		return jsonResponse(200, `{"text":"ola mundo","segments":[{"start":0,"end":2.5,"text":" ola "},{"start":2.5,"end":5,"text":"mundo"}]}`), nil
	})

	w := NewWhisper(httpclient.New(&httpclient.Config{Transport: rt}), "secret", 25, 0)

	tr, err := w.Transcribe(context.Background(), "dQw4w9WgXcQ", path, "pt-BR")
	if err != nil {
		t.Fatalf("Transcribe() returned error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", gotAuth)
	}
	if len(tr.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(tr.Segments))
	}
	if tr.Segments[0].Text != "ola" {
		t.Errorf("segment 0 text = %q, want whitespace trimmed", tr.Segments[0].Text)
	}
}

func TestWhisper_RetriesServerError(t *testing.T) {
	path := writeAudioFile(t, 1024)

	calls := 0
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return jsonResponse(500, `{"error":"overloaded"}`), nil
		}
		return jsonResponse(200, `{"text":"recovered text here"}`), nil
	})

	w := NewWhisper(httpclient.New(&httpclient.Config{Transport: rt}), "secret", 25, 2)
	w.retryCfg.InitialBackoff = 0
	w.retryCfg.MaxBackoff = 0

	tr, err := w.Transcribe(context.Background(), "dQw4w9WgXcQ", path, "pt")
	if err != nil {
		t.Fatalf("Transcribe() returned error: %v", err)
	}
	if calls != 2 {
		t.Errorf("made %d requests, want 2", calls)
	}
	if len(tr.Segments) == 0 {
		t.Fatal("got no segments from windowed text")
	}
}

func TestWhisper_DoesNotRetryBadRequest(t *testing.T) {
	path := writeAudioFile(t, 1024)

	calls := 0
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(400, `{"error":"bad audio"}`), nil
	})

	w := NewWhisper(httpclient.New(&httpclient.Config{Transport: rt}), "secret", 25, 2)
	w.retryCfg.InitialBackoff = 0

	_, err := w.Transcribe(context.Background(), "dQw4w9WgXcQ", path, "pt")
	if err == nil {
		t.Fatal("Transcribe() returned nil error")
	}
	if calls != 1 {
		t.Errorf("made %d requests, want 1 for a 400 response", calls)
	}
}
