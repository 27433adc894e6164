package summarize

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

// Heuristic is the last summarization tier. It never fails: whatever
// text the transcript carries is reduced with plain text statistics,
// tuned for the Portuguese-language content this service mostly sees.
type Heuristic struct{}

// NewHeuristic creates the local tier.
func NewHeuristic() *Heuristic { return &Heuristic{} }

func (h *Heuristic) Name() string { return BackendLocal }

// noisePatterns match metadata fragments that leak into scraped
// transcripts. Transcript text arrives as one space-joined string, so
// the fragments are cut out in place rather than line by line. Each
// fragment runs to the next comma or the end of the text.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`Canal: [^,]+`),
	regexp.MustCompile(`Visualizações: [^,]+`),
	regexp.MustCompile(`Curtidas: [^,]+`),
	regexp.MustCompile(`Comentários: [^,]+`),
	regexp.MustCompile(`Duração real: [^,]+`),
	regexp.MustCompile(`Resolução: [^,]+`),
	regexp.MustCompile(`Tags principais: [^,]+`),
	regexp.MustCompile(`Categoria: [^,]+`),
	regexp.MustCompile(`Publicado em: [^,]+`),
	regexp.MustCompile(`💰|📈|🔗|📊|💡|📋`),
}

var positiveWords = []string{
	"bom", "boa", "ótimo", "ótima", "excelente", "incrível", "maravilhoso",
	"sucesso", "ganhar", "lucro", "crescimento", "melhor", "positivo",
	"vantagem", "oportunidade", "feliz", "great", "good", "excellent",
}

var negativeWords = []string{
	"ruim", "péssimo", "terrível", "horrível", "fracasso", "perder",
	"prejuízo", "queda", "pior", "negativo", "problema", "crise",
	"risco", "perigo", "bad", "terrible", "worst",
}

// topicVocabulary maps transcript keywords to display topics.
var topicVocabulary = map[string]string{
	"investimento": "Investimentos",
	"investir":     "Investimentos",
	"dinheiro":     "Finanças",
	"financeiro":   "Finanças",
	"renda":        "Renda",
	"negócio":      "Negócios",
	"empresa":      "Negócios",
	"empreender":   "Empreendedorismo",
	"marketing":    "Marketing",
	"vendas":       "Vendas",
	"tecnologia":   "Tecnologia",
	"programação":  "Programação",
	"educação":     "Educação",
	"estudo":       "Educação",
	"saúde":        "Saúde",
	"treino":       "Fitness",
	"música":       "Música",
	"jogo":         "Games",
	"política":     "Política",
	"economia":     "Economia",
	"crypto":       "Criptomoedas",
	"bitcoin":      "Criptomoedas",
}

const (
	maxPointLength  = 150
	maxTopics       = 6
	fallbackTopics  = 5
	dupPrefixLength = 60
	dupLengthDelta  = 30
)

// timestampPattern detects HH:MM markers inside transcript text.
var timestampPattern = regexp.MustCompile(`\(?\d{2}:\d{2}\)?`)

var sentenceSplitPattern = regexp.MustCompile(`[.!?]+\s+`)

func (h *Heuristic) Summarize(ctx context.Context, in Input, opts Options) (*Result, error) {
	text := stripNoise(in.Transcript.Text())
	units := splitUnits(text)

	if len(units) == 0 {
		units = []string{"Conteúdo indisponível para este vídeo."}
	}

	summaryCount, pointCount := countsFor(opts.SummaryType)

	summary := strings.Join(takeUnits(units, summaryCount), ". ")
	if !strings.HasSuffix(summary, ".") {
		summary += "."
	}

	segments := 0
	if in.Transcript != nil {
		segments = len(in.Transcript.Segments)
	}

	return &Result{
		Summary:         truncateAtBoundary(summary, opts.MaxLength),
		KeyPoints:       extractKeyPoints(units, pointCount),
		Topics:          extractTopics(text),
		Sentiment:       detectSentiment(text),
		DurationSeconds: float64(segments) * 3,
		Backend:         BackendLocal,
	}, nil
}

// countsFor returns how many units feed the summary and how many key
// points to extract for a summary type.
func countsFor(summaryType string) (summary, points int) {
	switch summaryType {
	case TypeBrief:
		return 3, 2
	case TypeDetailed:
		return 4, 3
	case TypeKeyPoints:
		return 3, 3
	default:
		return 3, 3
	}
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// stripNoise removes metadata fragments before any text statistics run.
func stripNoise(text string) string {
	for _, p := range noisePatterns {
		text = p.ReplaceAllString(text, "")
	}
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(strings.ReplaceAll(text, "--", "-"))
}

// splitUnits breaks transcript text into summary units. Text carrying
// two or more HH:MM markers splits on them so each unit follows the
// video's own chaptering, keeping the marker as a prefix; anything
// else splits on sentence boundaries. A lone timestamp is not enough
// evidence of chaptering.
func splitUnits(text string) []string {
	if marks := timestampPattern.FindAllStringIndex(text, -1); len(marks) >= 2 {
		return splitOnTimestamps(text, marks)
	}

	parts := sentenceSplitPattern.Split(text, -1)
	units := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.Trim(p, ".!?-– "))
		if len(p) > 10 {
			units = append(units, p)
		}
	}
	return units
}

// splitOnTimestamps recombines each HH:MM marker with the chunk that
// follows it, so timestamp-derived units keep their time reference.
func splitOnTimestamps(text string, marks [][]int) []string {
	units := make([]string, 0, len(marks)+1)

	if lead := strings.TrimSpace(text[:marks[0][0]]); len(lead) > 10 {
		units = append(units, lead)
	}
	for i, m := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		chunk := strings.TrimSpace(text[m[1]:end])
		if len(chunk) > 10 {
			label := strings.Trim(text[m[0]:m[1]], "()")
			units = append(units, label+" - "+chunk)
		}
	}
	return units
}

func takeUnits(units []string, n int) []string {
	if n > len(units) {
		n = len(units)
	}
	return units[:n]
}

// extractKeyPoints picks points spread across the whole transcript,
// capping each at maxPointLength and dropping near-duplicates.
func extractKeyPoints(units []string, n int) []string {
	if len(units) == 0 || n <= 0 {
		return []string{}
	}

	step := len(units) / n
	if step < 1 {
		step = 1
	}

	points := make([]string, 0, n)
	for i := 0; i < len(units) && len(points) < n; i += step {
		point := units[i]
		if runes := []rune(point); len(runes) > maxPointLength {
			point = string(runes[:maxPointLength-3]) + "..."
		}
		if !isNearDuplicate(points, point) {
			points = append(points, point)
		}
	}
	return points
}

// isNearDuplicate treats two points as equal when their prefixes match
// and their lengths are close, which catches caption stutter.
func isNearDuplicate(existing []string, candidate string) bool {
	for _, p := range existing {
		n := dupPrefixLength
		if n > len(p) {
			n = len(p)
		}
		if n > len(candidate) {
			n = len(candidate)
		}
		if p[:n] == candidate[:n] && abs(len(p)-len(candidate)) < dupLengthDelta {
			return true
		}
	}
	return false
}

// extractTopics matches the topic vocabulary against the text, falling
// back to the most distinct long words when nothing matches.
func extractTopics(text string) []string {
	lower := strings.ToLower(text)

	seen := map[string]bool{}
	topics := []string{}
	for keyword, topic := range topicVocabulary {
		if strings.Contains(lower, keyword) && !seen[topic] {
			seen[topic] = true
			topics = append(topics, topic)
			if len(topics) == maxTopics {
				return sortStrings(topics)
			}
		}
	}
	if len(topics) > 0 {
		return sortStrings(topics)
	}

	// Nothing in the vocabulary: surface distinct longer words instead.
	words := strings.Fields(lower)
	distinct := map[string]bool{}
	for _, w := range words {
		w = strings.Trim(w, ".,!?:;\"'()")
		if len(w) > 4 && !distinct[w] {
			distinct[w] = true
			topics = append(topics, w)
			if len(topics) == fallbackTopics {
				break
			}
		}
	}
	return topics
}

// detectSentiment counts positive and negative word hits.
func detectSentiment(text string) string {
	lower := strings.ToLower(text)

	pos, neg := 0, 0
	for _, w := range positiveWords {
		pos += strings.Count(lower, w)
	}
	for _, w := range negativeWords {
		neg += strings.Count(lower, w)
	}

	switch {
	case pos > neg:
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sortStrings(s []string) []string {
	sort.Strings(s)
	return s
}
