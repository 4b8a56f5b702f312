package kugou

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"karaoke-lyrics-go/logcolors"

	log "github.com/sirupsen/logrus"
)

const (
	// API endpoints
	songSearchURL     = "http://msearchcdn.kugou.com/api/v3/search/song"
	lyricsSearchURL   = "https://krcs.kugou.com/search"
	lyricsDownloadURL = "https://krcs.kugou.com/download"

	// Request defaults
	defaultTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var httpClient = &http.Client{
	Timeout: defaultTimeout,
}

// SearchSongs searches for songs on Kugou to obtain file hashes, which the
// lyrics search endpoint requires
func SearchSongs(ctx context.Context, keyword string, pageSize int) ([]SongInfo, error) {
	if pageSize <= 0 {
		pageSize = 10
	}

	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("pagesize", strconv.Itoa(pageSize))
	params.Set("page", "1")
	params.Set("plat", "0")
	params.Set("version", "9108")

	requestURL := songSearchURL + "?" + params.Encode()

	log.Debugf("%s [Kugou] Searching songs: %s", logcolors.LogSearch, keyword)

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

	var searchResp SongSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if searchResp.Status != 1 {
		return nil, fmt.Errorf("API error: status %d, errcode %d", searchResp.Status, searchResp.ErrCode)
	}

	return searchResp.Data.Info, nil
}

// SearchLyrics searches for lyrics candidates matching a song hash
func SearchLyrics(ctx context.Context, keyword string, durationMs int, hash string) ([]LyricsCandidate, error) {
	params := url.Values{}
	params.Set("ver", "1")
	params.Set("man", "yes")
	params.Set("client", "mobi")
	params.Set("keyword", keyword)
	if durationMs > 0 {
		params.Set("duration", strconv.Itoa(durationMs))
	}
	if hash != "" {
		params.Set("hash", hash)
	}

	requestURL := lyricsSearchURL + "?" + params.Encode()

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

	var searchResp LyricsSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if searchResp.Status != 200 {
		return nil, fmt.Errorf("API error: %s (code: %d)", searchResp.ErrMsg, searchResp.ErrCode)
	}

	return searchResp.Candidates, nil
}

// DownloadLyrics downloads LRC content by candidate ID and access key
func DownloadLyrics(ctx context.Context, id, accessKey string) (string, error) {
	params := url.Values{}
	params.Set("ver", "1")
	params.Set("client", "pc")
	params.Set("id", id)
	params.Set("accesskey", accessKey)
	params.Set("fmt", "lrc")

	requestURL := lyricsDownloadURL + "?" + params.Encode()

	log.Debugf("%s [Kugou] Downloading lyrics ID: %s", logcolors.LogLyrics, id)

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var downloadResp DownloadResponse
	if err := json.Unmarshal(body, &downloadResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if downloadResp.Status != 200 {
		return "", fmt.Errorf("API error: %s (code: %d)", downloadResp.Info, downloadResp.ErrorCode)
	}

	if downloadResp.Content == "" {
		return "", fmt.Errorf("lyrics content is empty")
	}

	return DecodeBase64Content(downloadResp.Content)
}

// DecodeBase64Content decodes base64-encoded LRC content
func DecodeBase64Content(encoded string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}

	// Remove BOM if present
	content := string(decoded)
	content = strings.TrimPrefix(content, "\ufeff")

	return content, nil
}
