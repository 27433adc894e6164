package youtube

import "regexp"

// videoIDPattern matches a bare 11-character video ID.
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// urlPatterns are tried in order against the raw input. The first
// capture group of the first match wins.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?.*?v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/live/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{11})`),
}

// ExtractVideoID extracts the 11-character video ID from a YouTube URL.
// A bare video ID is accepted as-is. Returns ErrInvalidURL when nothing
// matches.
func ExtractVideoID(input string) (string, error) {
	if input == "" {
		return "", ErrInvalidURL
	}

	if videoIDPattern.MatchString(input) {
		return input, nil
	}

	for _, p := range urlPatterns {
		if m := p.FindStringSubmatch(input); m != nil {
			return m[1], nil
		}
	}

	return "", ErrInvalidURL
}

// IsValidVideoID reports whether s is a well-formed 11-character video ID.
func IsValidVideoID(s string) bool {
	return videoIDPattern.MatchString(s)
}

// IsValidURL reports whether a video ID can be extracted from input.
func IsValidURL(input string) bool {
	_, err := ExtractVideoID(input)
	return err == nil
}

// WatchURL returns the canonical watch page URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
