package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"karaoke-lyrics-go/config"
	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/middleware"
	"karaoke-lyrics-go/services/providers"
	"karaoke-lyrics-go/services/resolver"
	"karaoke-lyrics-go/services/video"
	"karaoke-lyrics-go/stats"
	"karaoke-lyrics-go/store"

	// Providers self-register on import
	_ "karaoke-lyrics-go/services/providers/genius"
	_ "karaoke-lyrics-go/services/providers/kugou"
	_ "karaoke-lyrics-go/services/providers/lrclib"
	_ "karaoke-lyrics-go/services/providers/lyricsovh"
	_ "karaoke-lyrics-go/services/providers/netease"
	_ "karaoke-lyrics-go/services/providers/qqmusic"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var conf = config.Get()

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func main() {
	c := conf.Configuration

	lyricsDB, err := store.Open(c.StorePath, c.StoreBackupPath, conf.FeatureFlags.StoreCompression)
	if err != nil {
		log.Fatalf("%s Failed to open lyrics store: %v", logcolors.LogStoreInit, err)
	}
	lyricsStore = lyricsDB

	statsStore, err := stats.NewStore(c.StatsDBPath)
	if err != nil {
		log.Warnf("%s Stats persistence disabled: %v", logcolors.LogStats, err)
	} else {
		if err := statsStore.Load(); err != nil {
			log.Warnf("%s Failed to load persisted stats: %v", logcolors.LogStats, err)
		}
		statsStore.StartAutoSave(time.Duration(c.StatsSaveIntervalSecs) * time.Second)
	}

	extractor := video.NewYtDlp(c.YtDlpPath, time.Duration(c.YtDlpTimeoutSeconds)*time.Second)
	if err := extractor.CheckBinary(); err != nil {
		log.Warnf("%s yt-dlp not found at %q, video endpoints will fail: %v", logcolors.LogVideo, c.YtDlpPath, err)
	}
	videoExtractor = extractor

	lyricsResolver = resolver.New(lyricsDB, providers.GetRegistry(), resolver.Config{
		ProviderTimeout:  time.Duration(c.ProviderTimeoutSeconds) * time.Second,
		BreakerThreshold: c.CircuitBreakerThreshold,
		BreakerCooldown:  time.Duration(c.CircuitBreakerCooldownSecs) * time.Second,
	})

	router := mux.NewRouter()
	setupRoutes(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-API-Key", "Range"},
		AllowCredentials: false,
	})

	limiter := middleware.NewIPRateLimiter(
		rate.Limit(c.RateLimitPerSecond), c.RateLimitBurstLimit,
		rate.Limit(c.CachedRateLimitPerSecond), c.CachedRateLimitBurstLimit,
	)

	apiKeyGate := middleware.APIKeyMiddleware(c.APIKey, c.APIKeyRequired, []string{
		"/",
		"/health",
		"/proxy_stream*",
	})

	handler := statsMiddleware(router)
	handler = apiKeyGate(handler)
	handler = limitMiddleware(handler, limiter)
	handler = corsHandler.Handler(handler)
	handler = middleware.LoggingMiddleware(handler)

	server := &http.Server{
		Addr:              ":" + c.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		log.Infof("%s Shutting down", logcolors.LogServer)
		if statsStore != nil {
			if err := statsStore.Close(); err != nil {
				log.Warnf("%s Failed to close stats store: %v", logcolors.LogStats, err)
			}
		}
		if err := lyricsDB.Close(); err != nil {
			log.Warnf("%s Failed to close lyrics store: %v", logcolors.LogStore, err)
		}
		os.Exit(0)
	}()

	log.Infof("%s Server listening on port %s", logcolors.LogServer, c.Port)
	log.Fatal(server.ListenAndServe())
}
