package summarize

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// Tier is a single summarization backend.
type Tier interface {
	Name() string
	Summarize(ctx context.Context, in Input, opts Options) (*Result, error)
}

// Summarizer runs tiers in order and returns the first success. The
// local heuristic tier sits last and cannot fail, so Summarize only
// errors on context cancellation.
type Summarizer struct {
	tiers []Tier
	log   *logrus.Logger
}

// New creates a summarizer over the given tiers, tried in order.
func New(log *logrus.Logger, tiers ...Tier) *Summarizer {
	return &Summarizer{tiers: tiers, log: log}
}

// NewDefault wires the standard three-tier chain: Gemini, OpenAI, then
// the local heuristic.
func NewDefault(log *logrus.Logger, gemini *Gemini, openai *OpenAI) *Summarizer {
	return New(log, gemini, openai, NewHeuristic())
}

// Summarize produces a structured summary, attributed to the tier that
// built it.
func (s *Summarizer) Summarize(ctx context.Context, in Input, opts Options) (*Result, error) {
	for _, tier := range s.tiers {
		start := time.Now()
		result, err := tier.Summarize(ctx, in, opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.WithField("tier", tier.Name()).WithError(err).Warn("summarization tier failed")
			continue
		}

		s.log.WithFields(logrus.Fields{
			"tier":    tier.Name(),
			"type":    opts.SummaryType,
			"elapsed": time.Since(start).Round(time.Millisecond),
		}).Info("summary generated")
		return result, nil
	}

	// Unreachable with the heuristic tier wired last; kept for chains
	// assembled without it.
	return nil, errors.New("all summarization tiers failed")
}
