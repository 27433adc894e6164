package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"html"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"ytbrief/httpclient"
)

const oembedURL = "https://www.youtube.com/oembed"

// MetadataFetcher resolves video metadata through a chain of lookups:
// Data API, oEmbed, watch page scrape. It never fails: when everything
// else is exhausted it synthesizes deterministic metadata flagged with
// IsRealData=false.
type MetadataFetcher struct {
	http   *httpclient.Client
	apiKey string
	log    *logrus.Logger
}

// NewMetadataFetcher creates a metadata fetcher. An empty apiKey
// disables the Data API strategy.
func NewMetadataFetcher(client *httpclient.Client, apiKey string, log *logrus.Logger) *MetadataFetcher {
	return &MetadataFetcher{http: client, apiKey: apiKey, log: log}
}

// Fetch returns metadata for the video. The only error it returns is
// context cancellation; every other failure degrades to synthetic data.
func (f *MetadataFetcher) Fetch(ctx context.Context, videoID string) (*VideoMetadata, error) {
	type strategy struct {
		name string
		run  func(context.Context, string) (*VideoMetadata, error)
	}

	strategies := []strategy{}
	if f.apiKey != "" {
		strategies = append(strategies, strategy{"data-api", f.fetchViaAPI})
	}
	strategies = append(strategies,
		strategy{"oembed", f.fetchViaOEmbed},
		strategy{"scrape", f.fetchViaScrape},
	)

	for _, s := range strategies {
		meta, err := s.run(ctx, videoID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.log.WithFields(logrus.Fields{
				"video_id": videoID,
				"strategy": s.name,
			}).WithError(err).Debug("metadata strategy failed")
			continue
		}
		if meta != nil && meta.Title != "" {
			meta.IsRealData = true
			return meta, nil
		}
	}

	return syntheticMetadata(videoID), nil
}

func (f *MetadataFetcher) fetchViaAPI(ctx context.Context, videoID string) (*VideoMetadata, error) {
	svc, err := youtubeapi.NewService(ctx, option.WithAPIKey(f.apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	resp, err := svc.Videos.
		List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("videos.list: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrVideoUnavailable
	}

	item := resp.Items[0]
	meta := &VideoMetadata{VideoID: videoID}

	if sn := item.Snippet; sn != nil {
		meta.Title = sn.Title
		meta.Description = sn.Description
		meta.ChannelTitle = sn.ChannelTitle
		meta.Tags = sn.Tags
		meta.CategoryID = sn.CategoryId
		if t, err := time.Parse(time.RFC3339, sn.PublishedAt); err == nil {
			meta.PublishedAt = t
		}
		if sn.Thumbnails != nil && sn.Thumbnails.High != nil {
			meta.ThumbnailURL = sn.Thumbnails.High.Url
		}
	}
	if cd := item.ContentDetails; cd != nil {
		meta.Duration = cd.Duration
	}
	if st := item.Statistics; st != nil {
		meta.ViewCount = st.ViewCount
		meta.LikeCount = st.LikeCount
		meta.CommentCount = st.CommentCount
	}

	return meta, nil
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (f *MetadataFetcher) fetchViaOEmbed(ctx context.Context, videoID string) (*VideoMetadata, error) {
	q := url.Values{}
	q.Set("url", WatchURL(videoID))
	q.Set("format", "json")

	resp, err := f.http.Get(ctx, oembedURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("oembed: %w", err)
	}

	var oe oembedResponse
	if err := json.Unmarshal(resp.Body, &oe); err != nil {
		return nil, fmt.Errorf("parse oembed: %w", err)
	}

	return &VideoMetadata{
		VideoID:      videoID,
		Title:        oe.Title,
		ChannelTitle: oe.AuthorName,
		ThumbnailURL: oe.ThumbnailURL,
	}, nil
}

var (
	titlePattern       = regexp.MustCompile(`<title>(.*?)</title>`)
	descriptionPattern = regexp.MustCompile(`"shortDescription":"((?:[^"\\]|\\.)*)"`)
	channelPattern     = regexp.MustCompile(`"ownerChannelName":"((?:[^"\\]|\\.)*)"`)
	viewCountPattern   = regexp.MustCompile(`"viewCount":"(\d+)"`)
)

func (f *MetadataFetcher) fetchViaScrape(ctx context.Context, videoID string) (*VideoMetadata, error) {
	resp, err := f.http.Get(ctx, WatchURL(videoID))
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}
	body := string(resp.Body)
	if len(body) < 1000 {
		return nil, ErrVideoUnavailable
	}

	meta := &VideoMetadata{VideoID: videoID}

	if m := titlePattern.FindStringSubmatch(body); m != nil {
		title := html.UnescapeString(m[1])
		title = strings.TrimSuffix(title, " - YouTube")
		meta.Title = strings.TrimSpace(title)
	}
	if m := descriptionPattern.FindStringSubmatch(body); m != nil {
		meta.Description = unescapeJSONString(m[1])
	}
	if m := channelPattern.FindStringSubmatch(body); m != nil {
		meta.ChannelTitle = unescapeJSONString(m[1])
	}
	if m := viewCountPattern.FindStringSubmatch(body); m != nil {
		fmt.Sscanf(m[1], "%d", &meta.ViewCount)
	}

	if meta.Title == "" {
		return nil, ErrVideoUnavailable
	}
	return meta, nil
}

// unescapeJSONString decodes a JSON string literal body captured by regex.
func unescapeJSONString(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}

// syntheticMetadata builds deterministic placeholder metadata from the
// video ID so repeated requests for the same video agree.
func syntheticMetadata(videoID string) *VideoMetadata {
	h := fnv.New64a()
	h.Write([]byte(videoID))
	seed := h.Sum64()

	minutes := 3 + seed%25
	seconds := seed % 60

	return &VideoMetadata{
		VideoID:      videoID,
		Title:        fmt.Sprintf("Video %s", videoID),
		Description:  "Metadata could not be retrieved for this video.",
		ChannelTitle: fmt.Sprintf("Channel %d", seed%10000),
		Duration:     fmt.Sprintf("PT%dM%dS", minutes, seconds),
		ViewCount:    seed % 1_000_000,
		LikeCount:    seed % 50_000,
		CommentCount: seed % 5_000,
		IsRealData:   false,
	}
}
