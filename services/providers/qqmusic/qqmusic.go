// Package qqmusic fetches lyrics from QQ Music. The desktop search service
// finds song mids; the lyric endpoint returns LRC, sometimes wrapped in a
// JSONP callback.
package qqmusic

import (
	"context"
	"strings"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/services/lrc"
	"karaoke-lyrics-go/services/providers"

	log "github.com/sirupsen/logrus"
)

// ProviderName is the identifier for the QQ Music provider
const ProviderName = providers.SourceQQMusic

// maxSongHits caps how many search hits are tried for lyrics
const maxSongHits = 5

// QQMusicProvider implements the providers.Provider interface for QQ Music
type QQMusicProvider struct{}

// NewProvider creates a new QQ Music provider instance
func NewProvider() *QQMusicProvider {
	return &QQMusicProvider{}
}

// Name returns the provider identifier
func (p *QQMusicProvider) Name() string {
	return ProviderName
}

// Fetch fetches lyrics from the QQ Music API
func (p *QQMusicProvider) Fetch(ctx context.Context, artist, track string) (*providers.Result, error) {
	if track == "" {
		return nil, providers.NewProviderError(ProviderName, "track name cannot be empty", nil)
	}

	keyword := track
	if artist != "" {
		keyword = artist + " " + track
	}

	log.Infof("%s [QQMusic] Searching: %s", logcolors.LogSearch, keyword)

	songs, err := SearchSongs(ctx, keyword, 10)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "song search failed", err)
	}

	if len(songs) > maxSongHits {
		songs = songs[:maxSongHits]
	}

	for _, song := range songs {
		if song.Mid == "" {
			continue
		}

		raw, err := FetchLyric(ctx, song.Mid)
		if err != nil {
			log.Debugf("%s [QQMusic] Lyric fetch failed for %s: %v", logcolors.LogWarning, song.Mid, err)
			continue
		}

		text := lrc.ToPlainText(raw)
		if !providers.EnoughLines(text) {
			continue
		}

		artistName := ""
		if len(song.Singer) > 0 {
			artistName = song.Singer[0].Name
		}

		log.Infof("%s [QQMusic] Found lyrics: %s - %s", logcolors.LogSuccess, artistName, song.Name)

		return &providers.Result{
			Lyrics: text,
			Source: ProviderName,
			Artist: strings.TrimSpace(artistName),
			Track:  strings.TrimSpace(song.Name),
		}, nil
	}

	return nil, nil
}

// init registers the QQ Music provider with the global registry
func init() {
	providers.Register(NewProvider())
}
