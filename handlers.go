package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/services/lrc"
	"karaoke-lyrics-go/services/providers"
	"karaoke-lyrics-go/services/songinfo"
	"karaoke-lyrics-go/services/video"
	"karaoke-lyrics-go/stats"
	"karaoke-lyrics-go/store"

	log "github.com/sirupsen/logrus"
)

// Resolver is the resolution pipeline as seen by the HTTP layer
type Resolver interface {
	Resolve(ctx context.Context, videoID, videoTitle string, hints *songinfo.SongInfo) (*providers.Result, bool)
	BreakerStates() map[string]string
}

var (
	lyricsStore    *store.Store
	lyricsResolver Resolver
	videoExtractor video.Extractor
)

func getLyrics(w http.ResponseWriter, r *http.Request) {
	videoID := r.URL.Query().Get("id")
	if videoID == "" {
		Respond(w, r).Error(http.StatusUnprocessableEntity, map[string]interface{}{
			"error": "Video id not provided",
		})
		return
	}

	title := r.URL.Query().Get("title")
	artist := r.URL.Query().Get("artist")
	track := r.URL.Query().Get("track")

	cacheOnlyMode, _ := r.Context().Value(cacheOnlyModeKey).(bool)

	// Cached-only tier serves directly from the store, never the network
	if cacheOnlyMode {
		if entry, ok := lyricsStore.GetCacheEntry(videoID); ok {
			stats.Get().RecordCacheHit()
			log.Infof("%s Found cached lyrics for %s", logcolors.LogCacheLyrics, videoID)
			Respond(w, r).SetCacheStatus("HIT").SetSource(entry.Source).JSON(LyricsResponse{
				Available: true,
				Lyrics:    entry.LyricsText,
				Artist:    entry.Artist,
				Track:     entry.Track,
				Source:    entry.Source + " (cached)",
			})
			return
		}

		stats.Get().RecordCacheMiss()
		stats.Get().RecordRateLimit("exceeded")
		log.Warnf("%s Cache-only mode but no cache found for %s", logcolors.LogCacheLyrics, videoID)
		w.Header().Set("Retry-After", "60")
		Respond(w, r).SetCacheStatus("MISS").Error(http.StatusTooManyRequests, map[string]interface{}{
			"error":   "Rate limit exceeded. This request requires cached data, but no cache is available for this video.",
			"message": "Please try again later or reduce your request rate.",
		})
		return
	}

	// No title supplied, ask the video collaborator for metadata
	var hints *songinfo.SongInfo
	if title == "" {
		info, err := videoExtractor.TitleInfo(r.Context(), videoID)
		if err != nil {
			log.Errorf("%s Failed to fetch video metadata for %s: %v", logcolors.LogVideo, videoID, err)
			Respond(w, r).SetCacheStatus("MISS").JSON(LyricsResponse{
				Available: false,
				Source:    "error",
			})
			return
		}
		title = info.Title
		if info.Artist != "" || info.Track != "" {
			hints = &songinfo.SongInfo{Artist: info.Artist, Track: info.Track}
		}
	}
	if artist != "" || track != "" {
		hints = &songinfo.SongInfo{Artist: artist, Track: track}
	}

	ctx, cancel := context.WithTimeout(r.Context(),
		time.Duration(conf.Configuration.PipelineTimeoutSeconds)*time.Second)
	defer cancel()

	result, cached := lyricsResolver.Resolve(ctx, videoID, title, hints)

	if cached {
		stats.Get().RecordCacheHit()
		Respond(w, r).SetCacheStatus("HIT").SetSource(result.Source).JSON(LyricsResponse{
			Available: true,
			Lyrics:    result.Lyrics,
			Artist:    result.Artist,
			Track:     result.Track,
			Source:    result.Source + " (cached)",
		})
		return
	}

	stats.Get().RecordCacheMiss()

	if result == nil || result.Source == providers.SourceNone || result.Lyrics == "" {
		log.Warnf("%s No lyrics found for %s (%s)", logcolors.LogLyrics, videoID, title)
		Respond(w, r).SetCacheStatus("MISS").JSON(LyricsResponse{
			Available: false,
			Source:    providers.SourceNone,
		})
		return
	}

	if result.Source == providers.SourceManual {
		stats.Get().RecordOverrideHit()
	} else {
		stats.Get().RecordProviderHit(result.Source)
	}
	Respond(w, r).SetCacheStatus("MISS").SetSource(result.Source).JSON(LyricsResponse{
		Available: true,
		Lyrics:    result.Lyrics,
		Artist:    result.Artist,
		Track:     result.Track,
		Source:    result.Source,
	})
}

func saveManualLyrics(w http.ResponseWriter, r *http.Request) {
	var req ManualLyricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, map[string]interface{}{
			"error": "Invalid JSON body",
		})
		return
	}

	lyricsText := lrc.ToPlainText(req.Lyrics)
	if lyricsText == "" {
		Respond(w, r).Error(http.StatusBadRequest, map[string]interface{}{
			"error": "No lyrics provided",
		})
		return
	}

	searchKey := store.NormalizeKey(req.Artist, req.Track)
	if searchKey == "" && req.VideoID == "" {
		Respond(w, r).Error(http.StatusBadRequest, map[string]interface{}{
			"error": "Artist, track, or video id required",
		})
		return
	}

	// Without song metadata there is nothing to key an override on, but a
	// supplied video id still gets a cache entry below
	if searchKey != "" {
		override := store.ManualOverride{
			SearchKey:  searchKey,
			Artist:     strings.TrimSpace(req.Artist),
			Track:      strings.TrimSpace(req.Track),
			LyricsText: lyricsText,
		}
		if err := lyricsStore.UpsertOverride(override); err != nil {
			log.Errorf("%s Failed to save override for %q: %v", logcolors.LogManual, searchKey, err)
			Respond(w, r).Error(http.StatusInternalServerError, map[string]interface{}{
				"error": "Failed to save lyrics",
			})
			return
		}
	}

	// When a video id is supplied the lyrics also seed the cache
	if req.VideoID != "" {
		entry := store.CacheEntry{
			VideoID:    req.VideoID,
			VideoTitle: searchKey,
			Artist:     strings.TrimSpace(req.Artist),
			Track:      strings.TrimSpace(req.Track),
			Source:     providers.SourceManual,
			LyricsText: lyricsText,
		}
		if err := lyricsStore.UpsertCacheEntry(entry); err != nil {
			log.Errorf("%s Failed to cache override for %s: %v", logcolors.LogManual, req.VideoID, err)
		}
	}

	log.Infof("%s Saved manual lyrics for %q", logcolors.LogManual, searchKey)
	Respond(w, r).SetSource(providers.SourceManual).JSON(map[string]interface{}{
		"success": true,
	})
}

func uploadLyrics(w http.ResponseWriter, r *http.Request) {
	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, map[string]interface{}{
			"error": "Invalid JSON body",
		})
		return
	}

	if req.VideoID == "" || strings.TrimSpace(req.LRCContent) == "" {
		Respond(w, r).Error(http.StatusBadRequest, map[string]interface{}{
			"error": "video_id and lrc_content are required",
		})
		return
	}

	captions := lrc.Parse(req.LRCContent)
	if len(captions) == 0 {
		Respond(w, r).Error(http.StatusBadRequest, map[string]interface{}{
			"error": "No timed lines found in LRC content",
		})
		return
	}

	log.Infof("%s Parsed %d captions for %s", logcolors.LogUpload, len(captions), req.VideoID)
	Respond(w, r).SetSource(providers.SourceUpload).JSON(UploadResponse{
		Available: true,
		Source:    providers.SourceUpload,
		Captions:  captions,
		Count:     len(captions),
	})
}
