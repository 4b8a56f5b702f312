// Package genius fetches lyrics by scraping Genius song pages. The unofficial
// multi-search API locates the page; the lyrics are extracted from its HTML.
package genius

import (
	"context"
	"strings"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/services/providers"

	log "github.com/sirupsen/logrus"
)

// ProviderName is the identifier for the Genius provider
const ProviderName = providers.SourceGenius

// GeniusProvider implements the providers.Provider interface for Genius
type GeniusProvider struct{}

// NewProvider creates a new Genius provider instance
func NewProvider() *GeniusProvider {
	return &GeniusProvider{}
}

// Name returns the provider identifier
func (p *GeniusProvider) Name() string {
	return ProviderName
}

// Fetch searches Genius and scrapes the best matching song page
func (p *GeniusProvider) Fetch(ctx context.Context, artist, track string) (*providers.Result, error) {
	if track == "" {
		return nil, providers.NewProviderError(ProviderName, "track name cannot be empty", nil)
	}

	query := track
	if artist != "" {
		query = artist + " " + track
	}

	log.Infof("%s [Genius] Searching: %s", logcolors.LogSearch, query)

	song, err := Search(ctx, query)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "search failed", err)
	}
	if song == nil {
		return nil, nil
	}

	page, err := FetchPage(ctx, song.URL)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to fetch lyrics page", err)
	}

	text := ExtractLyrics(page)
	if !providers.EnoughLines(text) {
		log.Debugf("%s [Genius] Page had no usable lyrics: %s", logcolors.LogFallback, song.URL)
		return nil, nil
	}

	log.Infof("%s [Genius] Found lyrics: %s - %s", logcolors.LogSuccess, song.PrimaryArtist.Name, song.Title)

	return &providers.Result{
		Lyrics: text,
		Source: ProviderName,
		Artist: strings.TrimSpace(song.PrimaryArtist.Name),
		Track:  strings.TrimSpace(song.Title),
	}, nil
}

// init registers the Genius provider with the global registry
func init() {
	providers.Register(NewProvider())
}
