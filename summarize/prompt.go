package summarize

import (
	"fmt"
	"strings"
)

// buildPrompt renders the instruction sent to both LLM tiers. The
// model must answer with a single JSON object so the response parser
// stays backend-agnostic.
func buildPrompt(in Input, opts Options) string {
	var b strings.Builder

	switch opts.SummaryType {
	case TypeBrief:
		b.WriteString("Write a brief summary in 2-3 sentences capturing only the core message.\n")
	case TypeKeyPoints:
		b.WriteString("Focus on extracting the key points; keep the summary itself short.\n")
	case TypeDetailed:
		b.WriteString("Write a detailed summary covering the main arguments and their context.\n")
	default:
		b.WriteString("Write a thorough, richly detailed summary covering arguments, examples and conclusions.\n")
	}

	fmt.Fprintf(&b, "Respond in %s.\n", opts.Language)
	fmt.Fprintf(&b, "The summary must not exceed %d characters.\n", opts.MaxLength)
	b.WriteString(`Answer with a single JSON object and nothing else, using exactly these keys:
{"summary": string, "keyPoints": [string], "topics": [string], "sentiment": "positive"|"negative"|"neutral"}
`)

	if meta := in.Metadata; meta != nil {
		b.WriteString("\nVideo information:\n")
		fmt.Fprintf(&b, "Title: %s\n", meta.Title)
		if meta.ChannelTitle != "" {
			fmt.Fprintf(&b, "Channel: %s\n", meta.ChannelTitle)
		}
		if meta.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", truncate(meta.Description, 500))
		}
	}

	b.WriteString("\nTranscript:\n")
	b.WriteString(in.Transcript.Text())

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
