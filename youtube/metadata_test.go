package youtube

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"testing"
)

func TestMetadataFetcher_OEmbed(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.Path, "/oembed") {
			return textResponse(200, `{"title":"Test Video","author_name":"Test Channel","thumbnail_url":"https://i.ytimg.com/vi/x/hq.jpg"}`), nil
		}
		return textResponse(404, ""), nil
	})

	f := NewMetadataFetcher(testClient(rt), "", quietLogger())

	meta, err := f.Fetch(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Fetch() returned error: %v", err)
	}
	if !meta.IsRealData {
		t.Error("IsRealData = false, want true for oembed data")
	}
	if meta.Title != "Test Video" {
		t.Errorf("Title = %q, want Test Video", meta.Title)
	}
	if meta.ChannelTitle != "Test Channel" {
		t.Errorf("ChannelTitle = %q, want Test Channel", meta.ChannelTitle)
	}
}

func TestMetadataFetcher_ScrapeFallback(t *testing.T) {
	page := `<html><head><title>Scraped Title - YouTube</title></head>` +
		strings.Repeat("<p>pad</p>", 200) +
		`"shortDescription":"line one\nline two","ownerChannelName":"Scraped Channel","viewCount":"12345"</html>`

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.Path, "/watch") {
			return textResponse(200, page), nil
		}
		return textResponse(500, "boom"), nil
	})

	f := NewMetadataFetcher(testClient(rt), "", quietLogger())

	meta, err := f.Fetch(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Fetch() returned error: %v", err)
	}
	if meta.Title != "Scraped Title" {
		t.Errorf("Title = %q, want Scraped Title", meta.Title)
	}
	if meta.Description != "line one\nline two" {
		t.Errorf("Description = %q", meta.Description)
	}
	if meta.ChannelTitle != "Scraped Channel" {
		t.Errorf("ChannelTitle = %q", meta.ChannelTitle)
	}
	if meta.ViewCount != 12345 {
		t.Errorf("ViewCount = %d, want 12345", meta.ViewCount)
	}
}

func TestMetadataFetcher_Synthetic(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return textResponse(404, "not found"), nil
	})

	f := NewMetadataFetcher(testClient(rt), "", quietLogger())

	meta, err := f.Fetch(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Fetch() returned error: %v", err)
	}
	if meta.IsRealData {
		t.Error("IsRealData = true, want false for synthetic data")
	}
	if meta.Title == "" || meta.Duration == "" {
		t.Error("synthetic metadata has empty fields")
	}

	again, _ := f.Fetch(context.Background(), "dQw4w9WgXcQ")
	if !reflect.DeepEqual(again, meta) {
		t.Error("synthetic metadata is not deterministic")
	}
}

func TestSyntheticMetadata_VariesByVideo(t *testing.T) {
	a := syntheticMetadata("aaaaaaaaaaa")
	b := syntheticMetadata("bbbbbbbbbbb")
	if a.ChannelTitle == b.ChannelTitle && a.ViewCount == b.ViewCount {
		t.Error("synthetic metadata identical for different videos")
	}
}
