package youtube

import (
	"testing"
	"time"
)

func TestParseTimedtext(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.5" dur="2.1">Hello &amp; welcome</text>
  <text start="2.6" dur="3.0">to the <b>show</b></text>
  <text start="5.6" dur="1.5"></text>
  <text start="7.1" dur="2.0">second part</text>
</transcript>`)

	segments := ParseTimedtext(data)

	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}
	if segments[0].Text != "Hello & welcome" {
		t.Errorf("segment 0 text = %q", segments[0].Text)
	}
	if segments[0].Start != 500*time.Millisecond {
		t.Errorf("segment 0 start = %v, want 500ms", segments[0].Start)
	}
	if segments[1].Text != "to the show" {
		t.Errorf("segment 1 text = %q, want markup stripped", segments[1].Text)
	}
	if segments[2].Index != 2 {
		t.Errorf("segment 2 index = %d, want 2", segments[2].Index)
	}
}

func TestParseTimedtext_MissingDuration(t *testing.T) {
	data := []byte(`<transcript><text start="1.0">no duration</text></transcript>`)

	segments := ParseTimedtext(data)

	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if segments[0].Duration != defaultSegmentDuration {
		t.Errorf("duration = %v, want default %v", segments[0].Duration, defaultSegmentDuration)
	}
}

func TestParseTimedtext_Untimed(t *testing.T) {
	data := []byte(`<transcript><text>first</text><text>second</text></transcript>`)

	segments := ParseTimedtext(data)

	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Start != 0 || segments[1].Start != untimedWindow {
		t.Errorf("starts = %v, %v, want fixed %v grid", segments[0].Start, segments[1].Start, untimedWindow)
	}
	if segments[1].Duration != untimedWindow {
		t.Errorf("duration = %v, want %v", segments[1].Duration, untimedWindow)
	}
}

func TestParseTimedtext_Malformed(t *testing.T) {
	segments := ParseTimedtext([]byte("this is not xml <<<"))
	if len(segments) != 0 {
		t.Errorf("got %d segments from malformed input, want 0", len(segments))
	}
}

func TestNormalizeSegments(t *testing.T) {
	in := []TranscriptSegment{
		{Start: 5 * time.Second, Text: "b"},
		{Start: 1 * time.Second, Text: "a"},
		{Start: 3 * time.Second, Text: "a"},
		{Start: 7 * time.Second, Text: "c"},
	}

	out := NormalizeSegments(in)

	if len(out) != 3 {
		t.Fatalf("got %d segments, want 3 after adjacent dedupe", len(out))
	}
	wantTexts := []string{"a", "b", "c"}
	for i, want := range wantTexts {
		if out[i].Text != want {
			t.Errorf("segment %d text = %q, want %q", i, out[i].Text, want)
		}
		if out[i].Index != i {
			t.Errorf("segment %d index = %d, want %d", i, out[i].Index, i)
		}
	}
}
