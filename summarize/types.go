// Package summarize turns transcripts into structured summaries.
//
// Three tiers run in order: a Vertex AI Gemini model, an OpenAI chat
// model, and a local heuristic that cannot fail. Every result records
// which tier produced it so usage can be attributed.
package summarize

import "ytbrief/youtube"

// Backend names used for attribution.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
	BackendLocal  = "local"
)

// Summary type names accepted in requests.
const (
	TypeBrief         = "brief"
	TypeDetailed      = "detailed"
	TypeKeyPoints     = "key-points"
	TypeSuperDetailed = "super-detailed"
)

// Sentiment values.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Options controls summary generation.
type Options struct {
	// SummaryType is one of the Type constants.
	SummaryType string
	// Language is the output language, as a BCP 47 tag.
	Language string
	// MaxLength caps the summary text length in characters.
	MaxLength int
}

// Input is everything a tier needs to build a summary.
type Input struct {
	Metadata   *youtube.VideoMetadata
	Transcript *youtube.Transcript
}

// Result is a structured summary.
type Result struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
	Topics    []string `json:"topics"`
	// Sentiment is one of the Sentiment constants.
	Sentiment string `json:"sentiment"`
	// DurationSeconds estimates how long the summarized content runs.
	DurationSeconds float64 `json:"duration"`
	// Backend names the tier that produced this result.
	Backend string `json:"backend"`
}

// ValidType reports whether t is a known summary type.
func ValidType(t string) bool {
	switch t {
	case TypeBrief, TypeDetailed, TypeKeyPoints, TypeSuperDetailed:
		return true
	}
	return false
}
