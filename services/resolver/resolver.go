// Package resolver orchestrates lyrics resolution: persistent cache, manual
// overrides, then a provider chain ordered by script. Titles containing CJK
// ideographs try the regional providers first since western databases rarely
// carry that repertoire.
package resolver

import (
	"context"
	"strings"
	"time"

	"karaoke-lyrics-go/circuitbreaker"
	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/services/providers"
	"karaoke-lyrics-go/services/songinfo"
	"karaoke-lyrics-go/store"

	log "github.com/sirupsen/logrus"
)

// Store is the persistence surface the resolver needs
type Store interface {
	GetCacheEntry(videoID string) (*store.CacheEntry, bool)
	UpsertCacheEntry(entry store.CacheEntry) error
	GetOverride(searchKey string) (*store.ManualOverride, bool)
}

// Provider tiers. The tier matching the title's script runs first, the other
// runs as catch-all. Order within a tier is fixed.
var (
	generalTier  = []string{providers.SourceLRCLib, providers.SourceGenius, providers.SourceLyricsOVH}
	regionalTier = []string{providers.SourceNetease, providers.SourceQQMusic, providers.SourceKugou}
)

// Config holds resolver tuning
type Config struct {
	ProviderTimeout  time.Duration // per-provider call timeout
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Resolver resolves lyrics for a video through cache, overrides, and the
// provider chain
type Resolver struct {
	store           Store
	registry        *providers.Registry
	breakers        map[string]*circuitbreaker.CircuitBreaker
	providerTimeout time.Duration
}

// New creates a resolver with one circuit breaker per registered provider
func New(s Store, registry *providers.Registry, cfg Config) *Resolver {
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 10 * time.Second
	}

	breakers := make(map[string]*circuitbreaker.CircuitBreaker)
	for _, name := range append(append([]string{}, generalTier...), regionalTier...) {
		breakers[name] = circuitbreaker.New(circuitbreaker.Config{
			Name:      name,
			Threshold: cfg.BreakerThreshold,
			Cooldown:  cfg.BreakerCooldown,
		})
	}

	return &Resolver{
		store:           s,
		registry:        registry,
		breakers:        breakers,
		providerTimeout: cfg.ProviderTimeout,
	}
}

// Resolve finds lyrics for a video. The boolean reports whether the result
// came from the persistent cache. A full-chain miss returns a result with
// Source "none" and is never cached.
func (r *Resolver) Resolve(ctx context.Context, videoID, videoTitle string, hints *songinfo.SongInfo) (*providers.Result, bool) {
	if entry, ok := r.store.GetCacheEntry(videoID); ok {
		log.Infof("%s Cache hit for video %s (source: %s)", logcolors.LogCacheLyrics, videoID, entry.Source)
		return &providers.Result{
			Lyrics: entry.LyricsText,
			Source: entry.Source,
			Artist: entry.Artist,
			Track:  entry.Track,
		}, true
	}

	info := songinfo.Parse(videoTitle)
	if hints != nil {
		if hints.Artist != "" {
			info.Artist = hints.Artist
		}
		if hints.Track != "" {
			info.Track = hints.Track
		}
	}

	log.Infof("%s Resolving video %s: artist=%q track=%q", logcolors.LogResolve, videoID, info.Artist, info.Track)

	searchKey := store.NormalizeKey(info.Artist, info.Track)
	if searchKey == "" {
		searchKey = strings.ToLower(strings.TrimSpace(videoTitle))
	}
	if override, ok := r.store.GetOverride(searchKey); ok {
		log.Infof("%s Override hit for %q", logcolors.LogOverride, searchKey)
		result := &providers.Result{
			Lyrics: override.LyricsText,
			Source: providers.SourceManual,
			Artist: override.Artist,
			Track:  override.Track,
		}
		r.cacheResult(videoID, videoTitle, info, result)
		return result, false
	}

	// Tier order follows the raw title's script and stays fixed for both
	// passes, even when the parsed query itself carries no CJK.
	regionalFirst := songinfo.ContainsCJK(videoTitle)

	result := r.fetchChain(ctx, info.Artist, info.Track, regionalFirst)

	// Artist guesses from title parsing are frequently wrong for channel
	// names and collaborations, so on a full miss retry on the track alone.
	if result == nil && info.Artist != "" {
		log.Infof("%s Full-chain miss, retrying without artist: %q", logcolors.LogFallback, info.Track)
		result = r.fetchChain(ctx, "", info.Track, regionalFirst)
	}

	if result == nil {
		log.Infof("%s No lyrics found for video %s", logcolors.LogFallback, videoID)
		return &providers.Result{Source: providers.SourceNone}, false
	}

	r.cacheResult(videoID, videoTitle, info, result)
	return result, false
}

// fetchChain runs the provider tiers sequentially and returns the first
// usable result, or nil when every provider missed
func (r *Resolver) fetchChain(ctx context.Context, artist, track string, regionalFirst bool) *providers.Result {
	if track == "" {
		return nil
	}

	tiers := [][]string{generalTier, regionalTier}
	if regionalFirst {
		tiers = [][]string{regionalTier, generalTier}
	}

	for _, tier := range tiers {
		for _, name := range tier {
			if ctx.Err() != nil {
				log.Warnf("%s Resolution deadline reached at provider %s", logcolors.LogWarning, name)
				return nil
			}

			result := r.tryProvider(ctx, name, artist, track)
			if result != nil {
				return result
			}
		}
	}

	return nil
}

// tryProvider calls one provider under its circuit breaker and timeout
func (r *Resolver) tryProvider(ctx context.Context, name, artist, track string) *providers.Result {
	breaker := r.breakers[name]
	if breaker != nil && !breaker.Allow() {
		log.Debugf("%s Skipping %s (retry in %v)", logcolors.CircuitBreakerPrefix(name), name, breaker.TimeUntilRetry())
		return nil
	}

	provider, err := r.registry.Get(name)
	if err != nil {
		log.Warnf("%s Provider %s not registered", logcolors.LogWarning, name)
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, r.providerTimeout)
	defer cancel()

	result, err := provider.Fetch(callCtx, artist, track)
	if err != nil {
		if breaker != nil {
			breaker.RecordFailure()
		}
		log.Warnf("%s Provider %s failed: %v", logcolors.LogWarning, name, err)
		return nil
	}

	if breaker != nil {
		breaker.RecordSuccess()
	}

	// A clean miss is a healthy response, just not a hit
	if result == nil || !providers.EnoughLines(result.Lyrics) {
		return nil
	}

	return result
}

// cacheResult writes a successful resolution through to the store. A write
// failure is logged but never blocks serving the result.
func (r *Resolver) cacheResult(videoID, videoTitle string, info songinfo.SongInfo, result *providers.Result) {
	artist, track := result.Artist, result.Track
	if artist == "" {
		artist = info.Artist
	}
	if track == "" {
		track = info.Track
	}

	err := r.store.UpsertCacheEntry(store.CacheEntry{
		VideoID:    videoID,
		VideoTitle: videoTitle,
		Artist:     artist,
		Track:      track,
		Source:     result.Source,
		LyricsText: result.Lyrics,
	})
	if err != nil {
		log.Errorf("%s Failed to cache lyrics for video %s: %v", logcolors.LogStore, videoID, err)
	}
}

// BreakerStates reports each provider breaker's state for the stats endpoint
func (r *Resolver) BreakerStates() map[string]string {
	states := make(map[string]string, len(r.breakers))
	for name, breaker := range r.breakers {
		states[name] = breaker.State().String()
	}
	return states
}
