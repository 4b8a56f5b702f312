package lrclib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	searchURL = "https://lrclib.net/api/search"

	defaultTimeout = 10 * time.Second
	userAgent      = "karaoke-lyrics-go (https://lrclib.net/docs)"
)

var httpClient = &http.Client{
	Timeout: defaultTimeout,
}

// Search queries the LRCLIB search API by track and artist name
func Search(ctx context.Context, artist, track string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("track_name", track)
	if artist != "" {
		params.Set("artist_name", artist)
	}

	requestURL := searchURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var results []SearchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return results, nil
}
