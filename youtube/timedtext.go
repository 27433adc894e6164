package youtube

import (
	"encoding/xml"
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// defaultSegmentDuration is assumed for timedtext entries that carry a
// start offset but no duration attribute.
const defaultSegmentDuration = 3 * time.Second

// untimedWindow is the fixed window assigned to caption entries that
// carry no timing at all, so downstream consumers always see timestamps.
const untimedWindow = 10 * time.Second

type timedtextXML struct {
	XMLName xml.Name       `xml:"transcript"`
	Texts   []timedtextRow `xml:"text"`
}

type timedtextRow struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Body  string `xml:",innerxml"`
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// ParseTimedtext parses YouTube timedtext XML into transcript segments.
// Malformed documents yield an empty slice rather than an error so the
// caller can fall through to the next caption strategy.
func ParseTimedtext(data []byte) []TranscriptSegment {
	var doc timedtextXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil
	}

	segments := make([]TranscriptSegment, 0, len(doc.Texts))
	for _, row := range doc.Texts {
		text := cleanCaptionText(row.Body)
		if text == "" {
			continue
		}

		start, startOK := parseSeconds(row.Start)
		dur, durOK := parseSeconds(row.Dur)
		if !durOK {
			dur = defaultSegmentDuration
		}
		if !startOK {
			// No timing at all: place it on a fixed grid.
			start = time.Duration(len(segments)) * untimedWindow
			dur = untimedWindow
		}

		segments = append(segments, TranscriptSegment{
			Start:    start,
			Duration: dur,
			Text:     text,
		})
	}

	return NormalizeSegments(segments)
}

// cleanCaptionText strips markup and entity-encodes caption text down
// to plain words.
func cleanCaptionText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.Join(strings.Fields(s), " ")
}

func parseSeconds(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return time.Duration(f * float64(time.Second)), true
}

// NormalizeSegments sorts segments by start offset, drops adjacent
// entries with identical text, and renumbers indices.
func NormalizeSegments(segments []TranscriptSegment) []TranscriptSegment {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})

	out := segments[:0]
	for _, s := range segments {
		if n := len(out); n > 0 && out[n-1].Text == s.Text {
			continue
		}
		s.Index = len(out)
		out = append(out, s)
	}
	return out
}
