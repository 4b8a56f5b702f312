package main

import (
	"karaoke-lyrics-go/services/lrc"
	"karaoke-lyrics-go/store"
)

type contextKey string

const (
	cacheOnlyModeKey contextKey = "cacheOnlyMode"
	rateLimitTypeKey contextKey = "rateLimitType"
)

// LyricsResponse is the payload for GET /api/lyrics
type LyricsResponse struct {
	Available bool   `json:"available"`
	Lyrics    string `json:"lyrics,omitempty"`
	Artist    string `json:"artist,omitempty"`
	Track     string `json:"track,omitempty"`
	Source    string `json:"source"`
}

// ManualLyricsRequest is the body for POST /api/lyrics/manual
type ManualLyricsRequest struct {
	VideoID string `json:"video_id"`
	Artist  string `json:"artist"`
	Track   string `json:"track"`
	Lyrics  string `json:"lyrics"`
}

// UploadRequest is the body for POST /api/lyrics/upload
type UploadRequest struct {
	VideoID    string `json:"video_id"`
	LRCContent string `json:"lrc_content"`
}

// UploadResponse carries the parsed captions back to the client
type UploadResponse struct {
	Available bool          `json:"available"`
	Source    string        `json:"source"`
	Captions  []lrc.Caption `json:"captions"`
	Count     int           `json:"count"`
}

// StoreDump represents the full lyrics cache contents
type StoreDump map[string]store.CacheEntry

// StorePerformance contains cache hit/miss statistics
type StorePerformance struct {
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	OverrideHits int64   `json:"override_hits"`
	HitRate      float64 `json:"hit_rate_percent"`
}

// StoreDumpResponse is the response format for the /cache endpoint
type StoreDumpResponse struct {
	NumberOfKeys int              `json:"number_of_keys"`
	OverrideKeys int              `json:"override_keys"`
	SizeInKB     int              `json:"size_kb"`
	SizeInMB     float64          `json:"size_mb"`
	Performance  StorePerformance `json:"performance"`
	Cache        StoreDump        `json:"cache"`
}
