package summarize

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytbrief/httpclient"
	"ytbrief/youtube"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeTier struct {
	name   string
	result *Result
	err    error
	calls  int
}

func (f *fakeTier) Name() string { return f.name }

func (f *fakeTier) Summarize(ctx context.Context, in Input, opts Options) (*Result, error) {
	f.calls++
	return f.result, f.err
}

func testInput() Input {
	return Input{
		Metadata: &youtube.VideoMetadata{VideoID: "dQw4w9WgXcQ", Title: "Test"},
		Transcript: &youtube.Transcript{
			VideoID: "dQw4w9WgXcQ",
			Segments: []youtube.TranscriptSegment{
				{Text: "Primeira frase do vídeo sobre investimento e dinheiro."},
				{Text: "Segunda frase explicando os detalhes principais do tema."},
				{Text: "Terceira frase com a conclusão geral do conteúdo."},
			},
		},
	}
}

func TestSummarizer_FirstTierWins(t *testing.T) {
	first := &fakeTier{name: "a", result: &Result{Summary: "from a", Backend: "a"}}
	second := &fakeTier{name: "b", result: &Result{Summary: "from b", Backend: "b"}}

	s := New(quietLogger(), first, second)

	res, err := s.Summarize(context.Background(), testInput(), Options{MaxLength: 1000})
	require.NoError(t, err)
	assert.Equal(t, "from a", res.Summary)
	assert.Zero(t, second.calls)
}

func TestSummarizer_FallsBackToHeuristic(t *testing.T) {
	gemini := &fakeTier{name: BackendGemini, err: errors.New("quota exhausted")}
	openai := &fakeTier{name: BackendOpenAI, err: errors.New("rate limited")}

	s := New(quietLogger(), gemini, openai, NewHeuristic())

	res, err := s.Summarize(context.Background(), testInput(), Options{
		SummaryType: TypeBrief,
		Language:    "pt-BR",
		MaxLength:   1000,
	})
	require.NoError(t, err)

	assert.Equal(t, BackendLocal, res.Backend)
	assert.NotEmpty(t, res.Summary)
	assert.NotEmpty(t, res.KeyPoints)
	assert.NotEmpty(t, res.Topics)
	assert.Contains(t, []string{SentimentPositive, SentimentNegative, SentimentNeutral}, res.Sentiment)
	assert.Equal(t, 1, gemini.calls)
	assert.Equal(t, 1, openai.calls)
}

func TestSummarizer_AllTiersFail(t *testing.T) {
	s := New(quietLogger(), &fakeTier{name: "a", err: errors.New("down")})

	_, err := s.Summarize(context.Background(), testInput(), Options{MaxLength: 1000})
	assert.Error(t, err)
}

func TestSummarizer_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(quietLogger(),
		&fakeTier{name: "a", err: errors.New("interrupted")},
		&fakeTier{name: "b", result: &Result{Summary: "never"}},
	)

	_, err := s.Summarize(ctx, testInput(), Options{MaxLength: 1000})
	assert.ErrorIs(t, err, context.Canceled)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestOpenAI_Summarize(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		body := `{"choices":[{"message":{"role":"assistant","content":"{\"summary\":\"Resumo do vídeo em uma frase.\",\"keyPoints\":[\"ponto um\",\"ponto dois\"],\"topics\":[\"Finanças\"],\"sentiment\":\"positive\"}"}}]}`
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		}, nil
	})

	o := NewOpenAI(httpclient.New(&httpclient.Config{Transport: rt}), "key", "")

	res, err := o.Summarize(context.Background(), testInput(), Options{Language: "pt-BR", MaxLength: 1000})
	require.NoError(t, err)

	assert.Equal(t, BackendOpenAI, res.Backend)
	assert.Equal(t, "Resumo do vídeo em uma frase.", res.Summary)
	assert.Len(t, res.KeyPoints, 2)
	assert.Equal(t, SentimentPositive, res.Sentiment)
	assert.Greater(t, res.DurationSeconds, 0.0)
}

func TestOpenAI_NoKey(t *testing.T) {
	o := NewOpenAI(nil, "", "")
	_, err := o.Summarize(context.Background(), testInput(), Options{MaxLength: 1000})
	assert.Error(t, err)
}

func TestGemini_NoProject(t *testing.T) {
	g := NewGemini("", "", "", "")
	_, err := g.Summarize(context.Background(), testInput(), Options{MaxLength: 1000})
	assert.Error(t, err)
}
