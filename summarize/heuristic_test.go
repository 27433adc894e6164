package summarize

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"ytbrief/youtube"
)

func transcriptFrom(texts ...string) *youtube.Transcript {
	tr := &youtube.Transcript{VideoID: "dQw4w9WgXcQ"}
	for i, t := range texts {
		tr.Segments = append(tr.Segments, youtube.TranscriptSegment{
			Start:    time.Duration(i) * 10 * time.Second,
			Duration: 10 * time.Second,
			Text:     t,
			Index:    i,
		})
	}
	return tr
}

func TestHeuristic_BasicSummary(t *testing.T) {
	tr := transcriptFrom(
		"Neste vídeo falamos sobre investimento e como começar do zero.",
		"O primeiro passo é organizar suas finanças e entender seu dinheiro.",
		"Depois disso é hora de estudar as opções de renda disponíveis.",
		"Por fim discutimos os riscos e como evitá-los no longo prazo.",
	)

	h := NewHeuristic()
	res, err := h.Summarize(context.Background(), Input{Transcript: tr}, Options{
		SummaryType: TypeDetailed,
		Language:    "pt-BR",
		MaxLength:   5000,
	})
	if err != nil {
		t.Fatalf("Summarize() returned error: %v", err)
	}

	if res.Backend != BackendLocal {
		t.Errorf("Backend = %q, want local", res.Backend)
	}
	if res.Summary == "" {
		t.Error("Summary is empty")
	}
	if len(res.KeyPoints) == 0 {
		t.Error("KeyPoints is empty")
	}
	if res.DurationSeconds != 12 {
		t.Errorf("DurationSeconds = %v, want 12 (4 segments * 3s)", res.DurationSeconds)
	}
}

func TestHeuristic_Topics(t *testing.T) {
	tr := transcriptFrom("Hoje vamos falar de investimento, dinheiro e tecnologia no seu negócio.")

	h := NewHeuristic()
	res, _ := h.Summarize(context.Background(), Input{Transcript: tr}, Options{MaxLength: 5000})

	want := map[string]bool{"Investimentos": true, "Finanças": true, "Tecnologia": true, "Negócios": true}
	for _, topic := range res.Topics {
		if !want[topic] {
			t.Errorf("unexpected topic %q", topic)
		}
	}
	if len(res.Topics) != len(want) {
		t.Errorf("got %d topics %v, want %d", len(res.Topics), res.Topics, len(want))
	}
}

func TestHeuristic_TopicFallback(t *testing.T) {
	tr := transcriptFrom("completely unrelated transcript discussing wonderful architecture concepts repeatedly")

	h := NewHeuristic()
	res, _ := h.Summarize(context.Background(), Input{Transcript: tr}, Options{MaxLength: 5000})

	if len(res.Topics) == 0 {
		t.Fatal("fallback produced no topics")
	}
	if len(res.Topics) > fallbackTopics {
		t.Errorf("got %d fallback topics, want at most %d", len(res.Topics), fallbackTopics)
	}
	for _, topic := range res.Topics {
		if len(topic) <= 4 {
			t.Errorf("fallback topic %q too short", topic)
		}
	}
}

func TestDetectSentiment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"positive", "um resultado excelente e ótimo com muito lucro e crescimento", SentimentPositive},
		{"negative", "foi um fracasso terrível, um problema atrás do outro e muito risco", SentimentNegative},
		{"neutral", "hoje o céu está com algumas nuvens sobre a cidade", SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectSentiment(tt.text); got != tt.want {
				t.Errorf("detectSentiment() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitUnits_Timestamps(t *testing.T) {
	text := "(00:00) introdução ao assunto principal (02:15) desenvolvimento da primeira ideia central (05:30) conclusão e próximos passos do projeto"

	units := splitUnits(text)

	if len(units) != 3 {
		t.Fatalf("got %d units %v, want 3", len(units), units)
	}
	if !strings.HasPrefix(units[0], "00:00 - ") || !strings.Contains(units[0], "introdução") {
		t.Errorf("unit 0 = %q, want timestamp prefix kept", units[0])
	}
	if !strings.HasPrefix(units[2], "05:30 - ") {
		t.Errorf("unit 2 = %q, want timestamp prefix kept", units[2])
	}
}

func TestSplitUnits_SingleTimestampFallsBack(t *testing.T) {
	text := "O vídeo começa em 00:00 com a introdução completa. Depois segue para o desenvolvimento do tema principal."

	units := splitUnits(text)

	if len(units) != 2 {
		t.Fatalf("got %d units %v, want 2 from sentence split", len(units), units)
	}
	for _, u := range units {
		if strings.HasPrefix(u, "00:00 - ") {
			t.Errorf("unit %q treated a lone timestamp as chaptering", u)
		}
	}
}

func TestSplitUnits_Sentences(t *testing.T) {
	text := "Primeira frase do texto completo. Segunda frase igualmente longa aqui! Terceira frase para fechar o texto?"

	units := splitUnits(text)

	if len(units) != 3 {
		t.Fatalf("got %d units %v, want 3", len(units), units)
	}
}

func TestStripNoise(t *testing.T) {
	text := "Conteúdo real do vídeo em texto. Canal: Canal Qualquer, Visualizações: 1234, 💰 Mais conteúdo real depois do ruído."

	got := stripNoise(text)

	if strings.Contains(got, "Canal Qualquer") || strings.Contains(got, "1234") || strings.Contains(got, "💰") {
		t.Errorf("stripNoise() kept noise fragments: %q", got)
	}
	if !strings.Contains(got, "Conteúdo real") || !strings.Contains(got, "Mais conteúdo real") {
		t.Errorf("stripNoise() dropped content: %q", got)
	}
}

func TestHeuristic_StripsMetadataNoise(t *testing.T) {
	// Shape of the oEmbed fallback transcript: title plus channel as
	// one space-joined segment.
	tr := transcriptFrom("Como investir melhor o seu dinheiro. Canal: Fulano de Tal")

	h := NewHeuristic()
	res, err := h.Summarize(context.Background(), Input{Transcript: tr}, Options{
		SummaryType: TypeBrief,
		MaxLength:   5000,
	})
	if err != nil {
		t.Fatalf("Summarize() returned error: %v", err)
	}

	if strings.Contains(res.Summary, "Canal:") || strings.Contains(res.Summary, "Fulano") {
		t.Errorf("Summary kept metadata noise: %q", res.Summary)
	}
	for _, p := range res.KeyPoints {
		if strings.Contains(p, "Canal:") || strings.Contains(p, "Fulano") {
			t.Errorf("key point kept metadata noise: %q", p)
		}
	}
	if !strings.Contains(res.Summary, "Como investir") {
		t.Errorf("Summary lost real content: %q", res.Summary)
	}
}

func TestExtractKeyPoints_CapsAndDedupes(t *testing.T) {
	long := strings.Repeat("palavra ", 40)
	units := []string{long, long + "extra", "um ponto distinto sobre outro tema diferente"}

	points := extractKeyPoints(units, 3)

	for _, p := range points {
		if len(p) > maxPointLength {
			t.Errorf("point longer than %d chars: %d", maxPointLength, len(p))
		}
	}
	if len(points) != 2 {
		t.Errorf("got %d points %v, want 2 after near-duplicate removal", len(points), points)
	}
}

func TestTruncateAtBoundary(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
	}{
		{"shorter than limit", "short text.", 100},
		{"cut at sentence", "First sentence here. Second sentence is cut away entirely.", 30},
		{"cut with ellipsis", strings.Repeat("a", 100), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateAtBoundary(tt.text, tt.max)
			if len(got) > tt.max {
				t.Errorf("result length %d exceeds max %d", len(got), tt.max)
			}
		})
	}

	got := truncateAtBoundary("First sentence goes on a while here. Tail", 40)
	if !strings.HasSuffix(got, ".") {
		t.Errorf("expected cut at sentence boundary, got %q", got)
	}
}

func TestTruncateAtBoundary_RuneSafe(t *testing.T) {
	text := strings.Repeat("ação intensa ", 20)

	got := truncateAtBoundary(text, 50)

	if !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) > 50 {
		t.Errorf("got %d runes, want at most 50", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}

func TestExtractKeyPoints_RuneSafeCap(t *testing.T) {
	long := strings.Repeat("atenção redobrada ", 20)

	points := extractKeyPoints([]string{long}, 1)

	if len(points) != 1 {
		t.Fatalf("got %d points, want 1", len(points))
	}
	if !utf8.ValidString(points[0]) {
		t.Errorf("cap produced invalid UTF-8: %q", points[0])
	}
	if utf8.RuneCountInString(points[0]) > maxPointLength {
		t.Errorf("point is %d runes, want at most %d", utf8.RuneCountInString(points[0]), maxPointLength)
	}
}

func TestHeuristic_EmptyTranscript(t *testing.T) {
	h := NewHeuristic()
	res, err := h.Summarize(context.Background(), Input{Transcript: &youtube.Transcript{}}, Options{MaxLength: 1000})
	if err != nil {
		t.Fatalf("Summarize() returned error: %v", err)
	}
	if res.Summary == "" {
		t.Error("Summary is empty for empty transcript, want placeholder text")
	}
}
