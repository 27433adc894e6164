package summarize

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrBadResponse indicates the model did not return usable JSON.
var ErrBadResponse = errors.New("unparseable model response")

type llmPayload struct {
	Summary   string          `json:"summary"`
	KeyPoints json.RawMessage `json:"keyPoints"`
	Topics    json.RawMessage `json:"topics"`
	Sentiment string          `json:"sentiment"`
}

// parseModelResponse extracts the JSON object from a model reply and
// coerces it into a well-formed Result. Models wrap JSON in code
// fences or prose often enough that the parser hunts for the outermost
// braces instead of trusting the whole reply.
func parseModelResponse(raw string, opts Options) (*Result, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return nil, ErrBadResponse
	}

	var payload llmPayload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil, ErrBadResponse
	}
	if strings.TrimSpace(payload.Summary) == "" || strings.TrimSpace(payload.Sentiment) == "" {
		return nil, ErrBadResponse
	}
	keyPoints, ok := coerceList(payload.KeyPoints)
	if !ok {
		return nil, ErrBadResponse
	}
	topics, ok := coerceList(payload.Topics)
	if !ok {
		return nil, ErrBadResponse
	}

	result := &Result{
		Summary:   truncateAtBoundary(strings.TrimSpace(payload.Summary), opts.MaxLength),
		KeyPoints: cleanList(keyPoints),
		Topics:    cleanList(topics),
		Sentiment: normalizeSentiment(payload.Sentiment),
	}

	words := len(strings.Fields(result.Summary))
	result.DurationSeconds = float64(words) * 0.3

	return result, nil
}

// coerceList reads a field that models return either as a list of
// strings or as a single bare string. A missing field is a failure so
// an incomplete reply falls through to the next tier instead of
// surfacing a half-filled result.
func coerceList(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, true
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, true
	}
	return nil, false
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func normalizeSentiment(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case SentimentPositive, "positivo":
		return SentimentPositive
	case SentimentNegative, "negativo":
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// truncateAtBoundary cuts text to max characters, preferring the last
// sentence boundary past 70% of the limit so the cut does not land
// mid-sentence. Counted in runes, not bytes, so accented text is never
// cut inside a multibyte sequence.
func truncateAtBoundary(text string, max int) string {
	runes := []rune(text)
	if max <= 3 || len(runes) <= max {
		return text
	}

	cut := runes[:max]
	threshold := int(float64(max) * 0.7)

	best := -1
	for i := 0; i < len(cut)-1; i++ {
		if isSentenceEnd(cut[i]) && cut[i+1] == ' ' {
			best = i
		}
	}
	if isSentenceEnd(cut[len(cut)-1]) {
		best = len(cut) - 1
	}

	if best >= threshold {
		return strings.TrimSpace(string(cut[:best+1]))
	}
	return strings.TrimSpace(string(cut[:max-3])) + "..."
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
