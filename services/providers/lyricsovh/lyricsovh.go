// Package lyricsovh fetches lyrics from the lyrics.ovh REST API. The API is
// keyed strictly by artist and track, so both must be known.
package lyricsovh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/services/providers"

	log "github.com/sirupsen/logrus"
)

// ProviderName is the identifier for the lyrics.ovh provider
const ProviderName = providers.SourceLyricsOVH

const (
	baseURL        = "https://api.lyrics.ovh/v1"
	defaultTimeout = 10 * time.Second
)

var httpClient = &http.Client{
	Timeout: defaultTimeout,
}

// lyricsResponse is the API response body
type lyricsResponse struct {
	Lyrics string `json:"lyrics"`
	Error  string `json:"error"`
}

// OVHProvider implements the providers.Provider interface for lyrics.ovh
type OVHProvider struct{}

// NewProvider creates a new lyrics.ovh provider instance
func NewProvider() *OVHProvider {
	return &OVHProvider{}
}

// Name returns the provider identifier
func (p *OVHProvider) Name() string {
	return ProviderName
}

// Fetch fetches lyrics from lyrics.ovh. Returns a clean miss when the artist
// is unknown, since the API cannot search by track alone.
func (p *OVHProvider) Fetch(ctx context.Context, artist, track string) (*providers.Result, error) {
	if artist == "" || track == "" {
		return nil, nil
	}

	requestURL := fmt.Sprintf("%s/%s/%s", baseURL, url.PathEscape(artist), url.PathEscape(track))

	log.Infof("%s [lyrics.ovh] Fetching: %s - %s", logcolors.LogSearch, artist, track)

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to create request", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, providers.NewProviderError(ProviderName, fmt.Sprintf("API returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to read response", err)
	}

	var lyricsResp lyricsResponse
	if err := json.Unmarshal(body, &lyricsResp); err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to parse response", err)
	}

	text := strings.TrimSpace(lyricsResp.Lyrics)
	if !providers.EnoughLines(text) {
		return nil, nil
	}

	log.Infof("%s [lyrics.ovh] Found lyrics: %s - %s", logcolors.LogSuccess, artist, track)

	return &providers.Result{
		Lyrics: text,
		Source: ProviderName,
		Artist: artist,
		Track:  track,
	}, nil
}

// init registers the lyrics.ovh provider with the global registry
func init() {
	providers.Register(NewProvider())
}
