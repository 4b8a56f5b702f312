// Package lrclib fetches lyrics from LRCLIB, a free lyrics database with a
// plain JSON search API. Synced lyrics are preferred and flattened to text.
package lrclib

import (
	"context"
	"strings"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/services/lrc"
	"karaoke-lyrics-go/services/providers"

	log "github.com/sirupsen/logrus"
)

// ProviderName is the identifier for the LRCLIB provider
const ProviderName = providers.SourceLRCLib

// LRCLibProvider implements the providers.Provider interface for LRCLIB
type LRCLibProvider struct{}

// NewProvider creates a new LRCLIB provider instance
func NewProvider() *LRCLibProvider {
	return &LRCLibProvider{}
}

// Name returns the provider identifier
func (p *LRCLibProvider) Name() string {
	return ProviderName
}

// Fetch fetches lyrics from the LRCLIB search API
func (p *LRCLibProvider) Fetch(ctx context.Context, artist, track string) (*providers.Result, error) {
	if track == "" {
		return nil, providers.NewProviderError(ProviderName, "track name cannot be empty", nil)
	}

	log.Infof("%s [LRCLIB] Searching: %s - %s", logcolors.LogSearch, artist, track)

	results, err := Search(ctx, artist, track)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "search failed", err)
	}

	for _, r := range results {
		if r.Instrumental {
			continue
		}

		text := LyricsText(r)
		if !providers.EnoughLines(text) {
			continue
		}

		log.Infof("%s [LRCLIB] Found lyrics: %s - %s", logcolors.LogSuccess, r.ArtistName, r.TrackName)

		return &providers.Result{
			Lyrics: text,
			Source: ProviderName,
			Artist: strings.TrimSpace(r.ArtistName),
			Track:  strings.TrimSpace(r.TrackName),
		}, nil
	}

	return nil, nil
}

// LyricsText extracts usable plain lyrics from a search result, preferring
// the synced variant
func LyricsText(r SearchResult) string {
	if r.SyncedLyrics != "" {
		return lrc.ToPlainText(r.SyncedLyrics)
	}
	return strings.TrimSpace(r.PlainLyrics)
}

// init registers the LRCLIB provider with the global registry
func init() {
	providers.Register(NewProvider())
}
