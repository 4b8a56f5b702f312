package netease

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	searchURL = "https://music.163.com/api/search/get/web"
	lyricURL  = "https://music.163.com/api/song/lyric"

	defaultTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	refererURL     = "https://music.163.com/"
)

var httpClient = &http.Client{
	Timeout: defaultTimeout,
}

// SearchSongs searches NetEase Cloud Music by keyword
func SearchSongs(ctx context.Context, keyword string, limit int) ([]Song, error) {
	if limit <= 0 {
		limit = 15
	}

	form := url.Values{}
	form.Set("s", keyword)
	form.Set("type", "1")
	form.Set("limit", fmt.Sprintf("%d", limit))
	form.Set("offset", "0")

	req, err := http.NewRequestWithContext(ctx, "POST", searchURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", refererURL)

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

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if searchResp.Code != 200 {
		return nil, fmt.Errorf("API error: code %d", searchResp.Code)
	}

	return searchResp.Result.Songs, nil
}

// FetchLyric fetches the LRC lyric for a song ID
func FetchLyric(ctx context.Context, songID int64) (string, error) {
	requestURL := fmt.Sprintf("%s?id=%d&lv=1&kv=1&tv=-1", lyricURL, songID)

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", refererURL)

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

	var lyricResp LyricResponse
	if err := json.Unmarshal(body, &lyricResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if lyricResp.Code != 200 {
		return "", fmt.Errorf("API error: code %d", lyricResp.Code)
	}

	return lyricResp.Lrc.Lyric, nil
}
