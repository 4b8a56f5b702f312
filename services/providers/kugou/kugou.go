// Package kugou fetches lyrics from Kugou Music. The flow is three requests:
// song search for a file hash, lyrics search for a candidate ID and access
// key, then a download that returns base64-encoded LRC.
package kugou

import (
	"context"
	"strings"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/services/lrc"
	"karaoke-lyrics-go/services/providers"

	log "github.com/sirupsen/logrus"
)

// ProviderName is the identifier for the Kugou provider
const ProviderName = providers.SourceKugou

// maxSongHits caps how many song search hits are tried for lyrics
const maxSongHits = 5

// KugouProvider implements the providers.Provider interface for Kugou lyrics
type KugouProvider struct{}

// NewProvider creates a new Kugou provider instance
func NewProvider() *KugouProvider {
	return &KugouProvider{}
}

// Name returns the provider identifier
func (p *KugouProvider) Name() string {
	return ProviderName
}

// Fetch fetches lyrics from Kugou API
func (p *KugouProvider) Fetch(ctx context.Context, artist, track string) (*providers.Result, error) {
	if track == "" {
		return nil, providers.NewProviderError(ProviderName, "track name cannot be empty", nil)
	}

	keyword := track
	if artist != "" {
		keyword = artist + " " + track
	}

	log.Infof("%s [Kugou] Searching: %s", logcolors.LogSearch, keyword)

	songs, err := SearchSongs(ctx, keyword, 10)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "song search failed", err)
	}
	if len(songs) == 0 {
		return nil, nil
	}

	if len(songs) > maxSongHits {
		songs = songs[:maxSongHits]
	}

	for _, song := range songs {
		candidates, err := SearchLyrics(ctx, keyword, song.Duration*1000, song.Hash)
		if err != nil || len(candidates) == 0 {
			continue
		}

		best := candidates[0]
		content, err := DownloadLyrics(ctx, best.ID, best.AccessKey)
		if err != nil {
			log.Debugf("%s [Kugou] Download failed for %s: %v", logcolors.LogWarning, best.ID, err)
			continue
		}

		text := lrc.ToPlainText(content)
		if !providers.EnoughLines(text) {
			continue
		}

		log.Infof("%s [Kugou] Found lyrics: %s - %s (%d bytes)",
			logcolors.LogSuccess, song.SingerName, song.SongName, len(text))

		return &providers.Result{
			Lyrics: text,
			Source: ProviderName,
			Artist: strings.TrimSpace(song.SingerName),
			Track:  strings.TrimSpace(song.SongName),
		}, nil
	}

	log.Debugf("%s [Kugou] No usable lyrics for: %s", logcolors.LogFallback, keyword)
	return nil, nil
}

// init registers the Kugou provider with the global registry
func init() {
	providers.Register(NewProvider())
}
