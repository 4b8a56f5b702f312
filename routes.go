package main

import (
	"net/http"

	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes for the API
func setupRoutes(router *mux.Router) {
	// Lyrics core
	router.HandleFunc("/api/lyrics", getLyrics).Methods(http.MethodGet)
	router.HandleFunc("/api/lyrics/manual", saveManualLyrics).Methods(http.MethodPost)
	router.HandleFunc("/api/lyrics/upload", uploadLyrics).Methods(http.MethodPost)

	// Video collaborators
	router.HandleFunc("/api/search", searchVideos).Methods(http.MethodGet)
	router.HandleFunc("/api/video_info", getVideoInfo).Methods(http.MethodGet)
	router.HandleFunc("/api/stream_url", getStreamURL).Methods(http.MethodGet)
	router.HandleFunc("/proxy_stream", proxyStream).Methods(http.MethodGet)

	// Store management endpoints
	router.HandleFunc("/cache", getStoreDump)
	router.HandleFunc("/cache/backup", backupStore)
	router.HandleFunc("/cache/backups", listBackups)
	router.HandleFunc("/cache/restore", restoreStore)
	router.HandleFunc("/cache/clear", clearStore)

	// Health and stats endpoints
	router.HandleFunc("/health", getHealthStatus)
	router.HandleFunc("/stats", getStats)

	// Help endpoint
	router.HandleFunc("/", helpHandler)
}

func helpHandler(w http.ResponseWriter, r *http.Request) {
	Respond(w, r).JSON(map[string]interface{}{
		"help": "Karaoke lyrics backend. Use /api/lyrics?id=<videoId> to resolve lyrics, /api/search?q= to find videos, /api/stream_url?id= for playback.",
	})
}
