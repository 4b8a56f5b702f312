package qqmusic

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"
	"unicode/utf8"
)

const (
	searchURL = "https://u.y.qq.com/cgi-bin/musicu.fcg"
	lyricURL  = "https://c.y.qq.com/lyric/fcgi-bin/fcg_query_lyric_new.fcg"

	defaultTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	refererURL     = "https://y.qq.com/"
)

var httpClient = &http.Client{
	Timeout: defaultTimeout,
}

// The lyric endpoint may wrap its JSON in a JSONP callback
var jsonBodyRegex = regexp.MustCompile(`(?s)\{.*\}`)

// SearchSongs searches QQ Music via the desktop search service
func SearchSongs(ctx context.Context, keyword string, limit int) ([]Song, error) {
	if limit <= 0 {
		limit = 10
	}

	payload := searchPayload{
		Req1: searchRequest{
			Method: "DoSearchForQQMusicDesktop",
			Module: "music.search.SearchCgiService",
			Param: searchParam{
				NumPerPage: limit,
				PageNum:    1,
				Query:      keyword,
				SearchType: 0,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
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

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(respBody, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if searchResp.Req1.Code != 0 {
		return nil, fmt.Errorf("API error: code %d", searchResp.Req1.Code)
	}

	return searchResp.Req1.Data.Body.Song.List, nil
}

// FetchLyric fetches the LRC lyric for a song mid
func FetchLyric(ctx context.Context, songMid string) (string, error) {
	params := url.Values{}
	params.Set("songmid", songMid)
	params.Set("g_tk", "5381")
	params.Set("format", "json")
	params.Set("nobase64", "1")

	requestURL := lyricURL + "?" + params.Encode()

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

	jsonBody := jsonBodyRegex.Find(body)
	if jsonBody == nil {
		return "", fmt.Errorf("no JSON body in response")
	}

	var lyricResp LyricResponse
	if err := json.Unmarshal(jsonBody, &lyricResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if lyricResp.Retcode != 0 {
		return "", fmt.Errorf("API error: retcode %d", lyricResp.Retcode)
	}

	return DecodeLyric(lyricResp.Lyric), nil
}

// DecodeLyric normalizes the lyric field, which arrives HTML-escaped with
// nobase64=1 but base64-encoded on some endpoint variants
func DecodeLyric(raw string) string {
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil && utf8.Valid(decoded) {
		return string(decoded)
	}
	return html.UnescapeString(raw)
}
