package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

var conf = mustLoad()

type Config struct {
	Configuration struct {
		Port                      string `envconfig:"PORT" default:"8080"`
		RateLimitPerSecond        int    `envconfig:"RATE_LIMIT_PER_SECOND" default:"2"`
		RateLimitBurstLimit       int    `envconfig:"RATE_LIMIT_BURST_LIMIT" default:"5"`
		CachedRateLimitPerSecond  int    `envconfig:"CACHED_RATE_LIMIT_PER_SECOND" default:"10"`
		CachedRateLimitBurstLimit int    `envconfig:"CACHED_RATE_LIMIT_BURST_LIMIT" default:"20"`
		AdminAccessToken          string `envconfig:"ADMIN_ACCESS_TOKEN" default:""`
		APIKey                    string `envconfig:"API_KEY" default:""`
		APIKeyRequired            bool   `envconfig:"API_KEY_REQUIRED" default:"false"`

		// Store configuration
		StorePath       string `envconfig:"STORE_PATH" default:"data/karaoke_lyrics.db"`
		StoreBackupPath string `envconfig:"STORE_BACKUP_PATH" default:"data/backups"`

		// Resolution pipeline configuration
		ProviderTimeoutSeconds     int `envconfig:"PROVIDER_TIMEOUT_SECONDS" default:"10"`      // Per provider call
		PipelineTimeoutSeconds     int `envconfig:"PIPELINE_TIMEOUT_SECONDS" default:"45"`      // Whole resolve pass, all tiers
		CircuitBreakerThreshold    int `envconfig:"CIRCUIT_BREAKER_THRESHOLD" default:"5"`      // Consecutive failures before circuit opens
		CircuitBreakerCooldownSecs int `envconfig:"CIRCUIT_BREAKER_COOLDOWN_SECS" default:"300"` // Seconds to wait before retrying a tripped provider

		// Video extraction (yt-dlp collaborator)
		YtDlpPath            string `envconfig:"YTDLP_PATH" default:"yt-dlp"`
		YtDlpTimeoutSeconds  int    `envconfig:"YTDLP_TIMEOUT_SECONDS" default:"30"`
		VideoSearchLimit     int    `envconfig:"VIDEO_SEARCH_LIMIT" default:"20"`
		StreamRequestTimeout int    `envconfig:"STREAM_REQUEST_TIMEOUT_SECONDS" default:"30"`

		// Stats persistence
		StatsDBPath           string `envconfig:"STATS_DB_PATH" default:"data/karaoke_stats.db"`
		StatsSaveIntervalSecs int    `envconfig:"STATS_SAVE_INTERVAL_SECS" default:"300"`
	}

	FeatureFlags struct {
		StoreCompression bool `envconfig:"FF_STORE_COMPRESSION" default:"true"`
	}
}

// load loads the configuration from the environment.
func load() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Warnf("Error loading env config: %v", err)
	}

	cfg := Config{}
	err = envconfig.Process("", &cfg)
	return cfg, err
}

func mustLoad() Config {
	c, err := load()
	if err != nil {
		log.WithError(err).Warnf("Unable to load configuration")
	}

	return c
}

func Get() Config {
	return conf
}
