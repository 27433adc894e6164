package youtube

import (
	"errors"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"standard watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"watch url extra params", "https://www.youtube.com/watch?t=30&v=dQw4w9WgXcQ&list=PL1", "dQw4w9WgXcQ", false},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"short url with query", "https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ", false},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"shorts url", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"live url", "https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"no scheme", "youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"mobile url", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"bare video id", "dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"empty input", "", "", true},
		{"not a youtube url", "https://vimeo.com/12345678901", "", true},
		{"id too short", "dQw4w9WgXc", "", true},
		{"id too long not in url", "dQw4w9WgXcQQ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("ExtractVideoID(%q) error = %v, want ErrInvalidURL", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidVideoID(t *testing.T) {
	if !IsValidVideoID("dQw4w9WgXcQ") {
		t.Error("IsValidVideoID rejected a valid ID")
	}
	if IsValidVideoID("short") {
		t.Error("IsValidVideoID accepted a short string")
	}
	if IsValidVideoID("has spaces!!") {
		t.Error("IsValidVideoID accepted invalid characters")
	}
}

func TestIsValidURL(t *testing.T) {
	if !IsValidURL("https://youtu.be/dQw4w9WgXcQ") {
		t.Error("IsValidURL rejected a valid short url")
	}
	if IsValidURL("https://example.com/video") {
		t.Error("IsValidURL accepted a non-YouTube url")
	}
}

func TestWatchURL(t *testing.T) {
	got := WatchURL("dQw4w9WgXcQ")
	want := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	if got != want {
		t.Errorf("WatchURL() = %q, want %q", got, want)
	}
}
