// Package ytbrief summarizes YouTube videos.
//
// The service resolves a video URL to metadata and a transcript, then
// feeds both through a tiered summarizer and persists the result.
// Transcript acquisition is a fallback chain: published captions,
// audio transcription, page text, and finally a fixed placeholder, so
// a request never fails for lack of source text.
//
// Construct a Service with New, then call Summarize:
//
//	cfg, err := config.Load()
//	svc, err := ytbrief.New(cfg, logger)
//	rec, err := svc.Summarize(ctx, ytbrief.SummarizeRequest{
//		VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
//	})
//
// The server package exposes the same operations over HTTP.
package ytbrief
