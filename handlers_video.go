package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"karaoke-lyrics-go/logcolors"

	log "github.com/sirupsen/logrus"
)

const proxyUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// streamClient has no overall timeout, media bodies can stream for minutes
var streamClient = &http.Client{}

func searchVideos(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		Respond(w, r).Error(http.StatusBadRequest, map[string]interface{}{
			"error": "Missing search query",
		})
		return
	}

	log.Infof("%s Searching for: %s", logcolors.LogSearch, query)
	videos, err := videoExtractor.Search(r.Context(), query, conf.Configuration.VideoSearchLimit)
	if err != nil {
		log.Errorf("%s Search failed: %v", logcolors.LogSearch, err)
		Respond(w, r).Error(http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	Respond(w, r).JSON(videos)
}

func getVideoInfo(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		Respond(w, r).Error(http.StatusBadRequest, map[string]interface{}{
			"error": "Missing URL parameter",
		})
		return
	}

	info, err := videoExtractor.VideoInfo(r.Context(), url)
	if err != nil {
		log.Errorf("%s Video info failed for %s: %v", logcolors.LogVideo, url, err)
		Respond(w, r).Error(http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	Respond(w, r).JSON(info)
}

func getStreamURL(w http.ResponseWriter, r *http.Request) {
	videoID := r.URL.Query().Get("id")
	if videoID == "" {
		Respond(w, r).Error(http.StatusBadRequest, map[string]interface{}{
			"error": "Missing video ID",
		})
		return
	}

	// Return a local URL that the proxy endpoint will handle
	Respond(w, r).JSON(map[string]interface{}{
		"url": fmt.Sprintf("/proxy_stream?v=%s", videoID),
	})
}

func proxyStream(w http.ResponseWriter, r *http.Request) {
	videoID := r.URL.Query().Get("v")
	if videoID == "" {
		http.Error(w, "Missing video id", http.StatusBadRequest)
		return
	}

	log.Infof("%s Streaming: %s", logcolors.LogProxy, videoID)

	resolveCtx, cancel := context.WithTimeout(r.Context(),
		time.Duration(conf.Configuration.StreamRequestTimeout)*time.Second)
	defer cancel()

	upstreamURL, err := videoExtractor.StreamURL(resolveCtx, videoID)
	if err != nil {
		log.Errorf("%s Failed to resolve stream for %s: %v", logcolors.LogProxy, videoID, err)
		http.Error(w, "No compatible format found", http.StatusNotFound)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstreamURL, nil)
	if err != nil {
		http.Error(w, "Failed to build upstream request", http.StatusInternalServerError)
		return
	}
	req.Header.Set("User-Agent", proxyUserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Origin", "https://www.youtube.com")
	req.Header.Set("Referer", "https://www.youtube.com/")
	if rangeHeader := r.Header.Get("Range"); rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	resp, err := streamClient.Do(req)
	if err != nil {
		log.Errorf("%s Upstream request failed for %s: %v", logcolors.LogProxy, videoID, err)
		http.Error(w, "Upstream request failed", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Cache-Control", "no-cache")
	if contentRange := resp.Header.Get("Content-Range"); contentRange != "" {
		w.Header().Set("Content-Range", contentRange)
	}
	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		w.Header().Set("Content-Length", contentLength)
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Debugf("%s Stream copy ended for %s: %v", logcolors.LogProxy, videoID, err)
	}
}
