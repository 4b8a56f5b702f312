// Package netease fetches lyrics from NetEase Cloud Music, the strongest
// source for Chinese repertoire. Search hits are tried in order until one
// yields a usable LRC lyric.
package netease

import (
	"context"
	"strings"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/services/lrc"
	"karaoke-lyrics-go/services/providers"

	log "github.com/sirupsen/logrus"
)

// ProviderName is the identifier for the NetEase provider
const ProviderName = providers.SourceNetease

// maxSongHits caps how many search hits are tried for lyrics
const maxSongHits = 5

// NeteaseProvider implements the providers.Provider interface for NetEase
type NeteaseProvider struct{}

// NewProvider creates a new NetEase provider instance
func NewProvider() *NeteaseProvider {
	return &NeteaseProvider{}
}

// Name returns the provider identifier
func (p *NeteaseProvider) Name() string {
	return ProviderName
}

// Fetch fetches lyrics from the NetEase Cloud Music API
func (p *NeteaseProvider) Fetch(ctx context.Context, artist, track string) (*providers.Result, error) {
	if track == "" {
		return nil, providers.NewProviderError(ProviderName, "track name cannot be empty", nil)
	}

	keyword := track
	if artist != "" {
		keyword = artist + " " + track
	}

	log.Infof("%s [NetEase] Searching: %s", logcolors.LogSearch, keyword)

	songs, err := SearchSongs(ctx, keyword, 15)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "song search failed", err)
	}

	if len(songs) > maxSongHits {
		songs = songs[:maxSongHits]
	}

	for _, song := range songs {
		raw, err := FetchLyric(ctx, song.ID)
		if err != nil {
			log.Debugf("%s [NetEase] Lyric fetch failed for %d: %v", logcolors.LogWarning, song.ID, err)
			continue
		}

		text := lrc.ToPlainText(raw)
		if !providers.EnoughLines(text) {
			continue
		}

		artistName := ""
		if len(song.Artists) > 0 {
			artistName = song.Artists[0].Name
		}

		log.Infof("%s [NetEase] Found lyrics: %s - %s", logcolors.LogSuccess, artistName, song.Name)

		return &providers.Result{
			Lyrics: text,
			Source: ProviderName,
			Artist: strings.TrimSpace(artistName),
			Track:  strings.TrimSpace(song.Name),
		}, nil
	}

	return nil, nil
}

// init registers the NetEase provider with the global registry
func init() {
	providers.Register(NewProvider())
}
