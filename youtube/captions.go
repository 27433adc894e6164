package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"ytbrief/httpclient"
)

const timedtextURL = "https://www.youtube.com/api/timedtext"

// captionTracksPattern pulls the embedded caption track list out of the
// watch page player response.
var captionTracksPattern = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

// CaptionFetcher retrieves caption tracks for a video. Strategies run
// in order: Data API track discovery, watch page track list, then
// direct timedtext lookup. The first strategy producing a non-empty
// transcript wins.
type CaptionFetcher struct {
	http   *httpclient.Client
	apiKey string
	langs  []string
	log    *logrus.Logger
}

// NewCaptionFetcher creates a caption fetcher. An empty apiKey disables
// the Data API strategy. langs is the language preference order.
func NewCaptionFetcher(client *httpclient.Client, apiKey string, langs []string, log *logrus.Logger) *CaptionFetcher {
	if len(langs) == 0 {
		langs = []string{"pt", "pt-BR", "en", "en-US"}
	}
	return &CaptionFetcher{http: client, apiKey: apiKey, langs: langs, log: log}
}

// Fetch returns the first non-empty caption transcript for the video.
// When every strategy fails, the error wraps ErrNoCaptions together
// with each strategy's failure.
func (f *CaptionFetcher) Fetch(ctx context.Context, videoID string) (*Transcript, error) {
	type strategy struct {
		name string
		run  func(context.Context, string) (*Transcript, error)
	}

	strategies := []strategy{}
	if f.apiKey != "" {
		strategies = append(strategies, strategy{"captions-api", f.fetchViaAPI})
	}
	strategies = append(strategies,
		strategy{"captions-page", f.fetchViaPage},
		strategy{"timedtext", f.fetchViaTimedtext},
	)

	var failures []error
	for _, s := range strategies {
		tr, err := s.run(ctx, videoID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.log.WithFields(logrus.Fields{
				"video_id": videoID,
				"strategy": s.name,
			}).WithError(err).Debug("caption strategy failed")
			failures = append(failures, &TranscriptError{VideoID: videoID, Strategy: s.name, Err: err})
			continue
		}
		if tr != nil && len(tr.Segments) > 0 {
			tr.Source = s.name
			return tr, nil
		}
		failures = append(failures, &TranscriptError{VideoID: videoID, Strategy: s.name, Err: ErrNoCaptions})
	}

	return nil, errors.Join(append([]error{ErrNoCaptions}, failures...)...)
}

// fetchViaAPI discovers caption tracks through the Data API and then
// fetches the chosen track's text from the timedtext endpoint. The API
// confirms which languages exist; it does not serve the text itself.
func (f *CaptionFetcher) fetchViaAPI(ctx context.Context, videoID string) (*Transcript, error) {
	svc, err := youtubeapi.NewService(ctx, option.WithAPIKey(f.apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	resp, err := svc.Captions.List([]string{"snippet"}, videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list caption tracks: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrNoCaptions
	}

	available := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet != nil {
			available = append(available, item.Snippet.Language)
		}
	}

	lang := pickLanguage(f.langs, available)
	if lang == "" {
		lang = available[0]
	}

	return f.fetchTimedtextLang(ctx, videoID, lang)
}

type pageCaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// fetchViaPage scrapes the caption track list embedded in the watch
// page player response and fetches the best matching track.
func (f *CaptionFetcher) fetchViaPage(ctx context.Context, videoID string) (*Transcript, error) {
	resp, err := f.http.Get(ctx, WatchURL(videoID))
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}

	m := captionTracksPattern.FindSubmatch(resp.Body)
	if m == nil {
		return nil, ErrNoCaptions
	}

	var tracks []pageCaptionTrack
	if err := json.Unmarshal(m[1], &tracks); err != nil {
		return nil, fmt.Errorf("parse caption tracks: %w", err)
	}
	if len(tracks) == 0 {
		return nil, ErrNoCaptions
	}

	track := pickTrack(f.langs, tracks)

	trackResp, err := f.http.Get(ctx, track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch caption track: %w", err)
	}

	segments := ParseTimedtext(trackResp.Body)
	return &Transcript{VideoID: videoID, Language: track.LanguageCode, Segments: segments}, nil
}

// fetchViaTimedtext queries the public timedtext endpoint directly for
// each preferred language.
func (f *CaptionFetcher) fetchViaTimedtext(ctx context.Context, videoID string) (*Transcript, error) {
	// A trailing blank language asks the endpoint for its default track.
	langs := append(append([]string{}, f.langs...), "")

	var lastErr error
	for _, lang := range langs {
		tr, err := f.fetchTimedtextLang(ctx, videoID, lang)
		if err != nil {
			lastErr = err
			continue
		}
		if len(tr.Segments) > 0 {
			return tr, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoCaptions
}

func (f *CaptionFetcher) fetchTimedtextLang(ctx context.Context, videoID, lang string) (*Transcript, error) {
	q := url.Values{}
	q.Set("lang", lang)
	q.Set("v", videoID)

	resp, err := f.http.Get(ctx, timedtextURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext %s: %w", lang, err)
	}

	segments := ParseTimedtext(resp.Body)
	return &Transcript{VideoID: videoID, Language: lang, Segments: segments}, nil
}

// pickLanguage returns the first preferred language present in
// available, matching case-insensitively and on the base language
// ("pt" matches "pt-BR").
func pickLanguage(prefs, available []string) string {
	for _, pref := range prefs {
		for _, a := range available {
			if langMatches(pref, a) {
				return a
			}
		}
	}
	return ""
}

func pickTrack(prefs []string, tracks []pageCaptionTrack) pageCaptionTrack {
	for _, pref := range prefs {
		for _, tr := range tracks {
			if langMatches(pref, tr.LanguageCode) {
				return tr
			}
		}
	}
	return tracks[0]
}

func langMatches(pref, lang string) bool {
	pref = strings.ToLower(pref)
	lang = strings.ToLower(lang)
	if pref == lang {
		return true
	}
	return strings.SplitN(pref, "-", 2)[0] == strings.SplitN(lang, "-", 2)[0]
}
