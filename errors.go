package ytbrief

import (
	"ytbrief/storage"
	"ytbrief/youtube"
)

// Common errors re-exported for callers that only import the root
// package.
var (
	// ErrInvalidURL indicates the input is not a YouTube URL or video ID.
	ErrInvalidURL = youtube.ErrInvalidURL

	// ErrNotFound indicates a stored summary does not exist.
	ErrNotFound = storage.ErrNotFound
)
