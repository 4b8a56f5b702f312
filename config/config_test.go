package config

import (
	"os"
	"testing"
)

func TestConfigDefaultValues(t *testing.T) {
	// Clear any existing env vars that might interfere
	envVars := []string{
		"PORT",
		"RATE_LIMIT_PER_SECOND",
		"RATE_LIMIT_BURST_LIMIT",
		"CACHED_RATE_LIMIT_PER_SECOND",
		"CACHED_RATE_LIMIT_BURST_LIMIT",
		"STORE_PATH",
		"PROVIDER_TIMEOUT_SECONDS",
		"PIPELINE_TIMEOUT_SECONDS",
		"CIRCUIT_BREAKER_THRESHOLD",
		"CIRCUIT_BREAKER_COOLDOWN_SECS",
		"YTDLP_PATH",
		"VIDEO_SEARCH_LIMIT",
		"FF_STORE_COMPRESSION",
	}

	// Store original values
	originalValues := make(map[string]string)
	for _, key := range envVars {
		originalValues[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	defer func() {
		// Restore original values
		for key, value := range originalValues {
			if value != "" {
				os.Setenv(key, value)
			}
		}
	}()

	cfg, err := load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{
			name:     "Port default",
			got:      cfg.Configuration.Port,
			expected: "8080",
		},
		{
			name:     "RateLimitPerSecond default",
			got:      cfg.Configuration.RateLimitPerSecond,
			expected: 2,
		},
		{
			name:     "RateLimitBurstLimit default",
			got:      cfg.Configuration.RateLimitBurstLimit,
			expected: 5,
		},
		{
			name:     "CachedRateLimitPerSecond default",
			got:      cfg.Configuration.CachedRateLimitPerSecond,
			expected: 10,
		},
		{
			name:     "CachedRateLimitBurstLimit default",
			got:      cfg.Configuration.CachedRateLimitBurstLimit,
			expected: 20,
		},
		{
			name:     "ProviderTimeoutSeconds default",
			got:      cfg.Configuration.ProviderTimeoutSeconds,
			expected: 10,
		},
		{
			name:     "PipelineTimeoutSeconds default",
			got:      cfg.Configuration.PipelineTimeoutSeconds,
			expected: 45,
		},
		{
			name:     "CircuitBreakerThreshold default",
			got:      cfg.Configuration.CircuitBreakerThreshold,
			expected: 5,
		},
		{
			name:     "CircuitBreakerCooldownSecs default",
			got:      cfg.Configuration.CircuitBreakerCooldownSecs,
			expected: 300,
		},
		{
			name:     "YtDlpPath default",
			got:      cfg.Configuration.YtDlpPath,
			expected: "yt-dlp",
		},
		{
			name:     "VideoSearchLimit default",
			got:      cfg.Configuration.VideoSearchLimit,
			expected: 20,
		},
		{
			name:     "StoreCompression default",
			got:      cfg.FeatureFlags.StoreCompression,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestConfigEnvironmentOverrides(t *testing.T) {
	os.Setenv("RATE_LIMIT_PER_SECOND", "5")
	os.Setenv("RATE_LIMIT_BURST_LIMIT", "15")
	os.Setenv("PROVIDER_TIMEOUT_SECONDS", "3")
	os.Setenv("STORE_PATH", "/tmp/custom.db")
	os.Setenv("ADMIN_ACCESS_TOKEN", "test_token_123")
	os.Setenv("YTDLP_PATH", "/usr/local/bin/yt-dlp")
	os.Setenv("FF_STORE_COMPRESSION", "false")

	defer func() {
		os.Unsetenv("RATE_LIMIT_PER_SECOND")
		os.Unsetenv("RATE_LIMIT_BURST_LIMIT")
		os.Unsetenv("PROVIDER_TIMEOUT_SECONDS")
		os.Unsetenv("STORE_PATH")
		os.Unsetenv("ADMIN_ACCESS_TOKEN")
		os.Unsetenv("YTDLP_PATH")
		os.Unsetenv("FF_STORE_COMPRESSION")
	}()

	cfg, err := load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{
			name:     "RateLimitPerSecond override",
			got:      cfg.Configuration.RateLimitPerSecond,
			expected: 5,
		},
		{
			name:     "RateLimitBurstLimit override",
			got:      cfg.Configuration.RateLimitBurstLimit,
			expected: 15,
		},
		{
			name:     "ProviderTimeoutSeconds override",
			got:      cfg.Configuration.ProviderTimeoutSeconds,
			expected: 3,
		},
		{
			name:     "StorePath override",
			got:      cfg.Configuration.StorePath,
			expected: "/tmp/custom.db",
		},
		{
			name:     "AdminAccessToken override",
			got:      cfg.Configuration.AdminAccessToken,
			expected: "test_token_123",
		},
		{
			name:     "YtDlpPath override",
			got:      cfg.Configuration.YtDlpPath,
			expected: "/usr/local/bin/yt-dlp",
		},
		{
			name:     "StoreCompression override",
			got:      cfg.FeatureFlags.StoreCompression,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestGet(t *testing.T) {
	cfg := Get()

	// Should return a valid config struct
	if cfg.Configuration.RateLimitPerSecond == 0 && cfg.Configuration.RateLimitBurstLimit == 0 {
		t.Error("Expected Get() to return initialized config, got zero values")
	}
}

func TestMustLoad(t *testing.T) {
	// mustLoad should not panic with valid config
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("mustLoad() panicked: %v", r)
		}
	}()

	cfg := mustLoad()

	if cfg.Configuration.RateLimitPerSecond <= 0 {
		t.Error("Expected mustLoad to return valid config with positive RateLimitPerSecond")
	}
}

func TestFeatureFlagStoreCompression(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{
			name:     "Store compression enabled (true)",
			envValue: "true",
			expected: true,
		},
		{
			name:     "Store compression disabled (false)",
			envValue: "false",
			expected: false,
		},
		{
			name:     "Store compression enabled (1)",
			envValue: "1",
			expected: true,
		},
		{
			name:     "Store compression disabled (0)",
			envValue: "0",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("FF_STORE_COMPRESSION", tt.envValue)
			defer os.Unsetenv("FF_STORE_COMPRESSION")

			cfg, err := load()
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}

			if cfg.FeatureFlags.StoreCompression != tt.expected {
				t.Errorf("Expected StoreCompression %v, got %v", tt.expected, cfg.FeatureFlags.StoreCompression)
			}
		})
	}
}

func TestConfigStringFields(t *testing.T) {
	// String fields handle empty values correctly
	os.Setenv("ADMIN_ACCESS_TOKEN", "")
	os.Setenv("API_KEY", "")
	defer func() {
		os.Unsetenv("ADMIN_ACCESS_TOKEN")
		os.Unsetenv("API_KEY")
	}()

	cfg, err := load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Configuration.AdminAccessToken != "" {
		t.Errorf("Expected empty AdminAccessToken, got %q", cfg.Configuration.AdminAccessToken)
	}
	if cfg.Configuration.APIKey != "" {
		t.Errorf("Expected empty APIKey, got %q", cfg.Configuration.APIKey)
	}
}
