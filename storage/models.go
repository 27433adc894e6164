package storage

import "time"

// SummaryRecord is a stored summary together with the video context it
// was generated from.
type SummaryRecord struct {
	ID               string    `json:"id"`
	VideoID          string    `json:"video_id"`
	VideoURL         string    `json:"video_url"`
	Title            string    `json:"title"`
	ChannelTitle     string    `json:"channel_title"`
	SummaryType      string    `json:"summary_type"`
	Language         string    `json:"language"`
	Summary          string    `json:"summary"`
	KeyPoints        []string  `json:"key_points"`
	Topics           []string  `json:"topics"`
	Sentiment        string    `json:"sentiment"`
	DurationSeconds  float64   `json:"duration_seconds"`
	Backend          string    `json:"backend"`
	TranscriptSource string    `json:"transcript_source"`
	TranscriptLength int       `json:"transcript_length"`
	IsRealData       bool      `json:"is_real_data"`
	IsFavorite       bool      `json:"is_favorite"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// dedupeKey identifies the video/type/language combination a record
// occupies; saving the same combination twice updates in place.
func (r *SummaryRecord) dedupeKey() string {
	return r.VideoID + "|" + r.SummaryType + "|" + r.Language
}

// Settings are user preferences persisted across sessions.
type Settings struct {
	DefaultSummaryType string `json:"default_summary_type"`
	DefaultLanguage    string `json:"default_language"`
	DefaultMaxLength   int    `json:"default_max_length"`
	Theme              string `json:"theme"`
}

// DefaultSettings returns settings used before any were saved.
func DefaultSettings() *Settings {
	return &Settings{
		DefaultSummaryType: "super-detailed",
		DefaultLanguage:    "pt-BR",
		DefaultMaxLength:   5000,
		Theme:              "dark",
	}
}

// UsageCounters attribute produced summaries to the backend that built
// them.
type UsageCounters struct {
	Gemini      int       `json:"gemini"`
	OpenAI      int       `json:"openai"`
	Local       int       `json:"local"`
	LastUpdated time.Time `json:"last_updated"`
}

// Total returns the number of summaries across all backends.
func (u *UsageCounters) Total() int {
	return u.Gemini + u.OpenAI + u.Local
}
