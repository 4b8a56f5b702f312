// Package video wraps the yt-dlp binary for YouTube search, metadata, and
// stream URL extraction. All calls shell out under a context deadline.
package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"karaoke-lyrics-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// streamFormat prefers the progressive MP4 formats that browsers can play
// directly without DASH or HLS segments
const streamFormat = "18/22/best[ext=mp4][vcodec^=avc1][acodec^=mp4a]/best"

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Video is a search hit or resolved video
type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	URL       string `json:"url"`
}

// TitleInfo is the metadata used for lyrics resolution
type TitleInfo struct {
	Title  string
	Artist string
	Track  string
}

// Extractor is the video metadata surface the HTTP layer depends on
type Extractor interface {
	// Search runs a keyword search and returns up to limit results
	Search(ctx context.Context, query string, limit int) ([]Video, error)

	// VideoInfo resolves a direct video URL to its metadata
	VideoInfo(ctx context.Context, url string) (*Video, error)

	// TitleInfo fetches the title and any tagged artist/track for a video ID
	TitleInfo(ctx context.Context, videoID string) (*TitleInfo, error)

	// StreamURL returns a direct media URL for a video ID
	StreamURL(ctx context.Context, videoID string) (string, error)
}

// YtDlp runs the yt-dlp binary
type YtDlp struct {
	path    string
	timeout time.Duration
}

// NewYtDlp creates an extractor for the given binary path
func NewYtDlp(path string, timeout time.Duration) *YtDlp {
	if path == "" {
		path = "yt-dlp"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &YtDlp{path: path, timeout: timeout}
}

// CheckBinary verifies the yt-dlp binary is resolvable
func (y *YtDlp) CheckBinary() error {
	if _, err := exec.LookPath(y.path); err == nil {
		return nil
	}
	if info, err := os.Stat(y.path); err == nil && !info.IsDir() {
		return nil
	}
	return fmt.Errorf("yt-dlp binary not found: %s", y.path)
}

// ytEntry mirrors the yt-dlp JSON fields this service reads
type ytEntry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Thumbnail  string `json:"thumbnail"`
	Thumbnails []struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
	Artist  string `json:"artist"`
	Creator string `json:"creator"`
	Track   string `json:"track"`
}

type ytSearchResult struct {
	Entries []ytEntry `json:"entries"`
}

func (e ytEntry) thumbnail() string {
	if e.Thumbnail != "" {
		return e.Thumbnail
	}
	if len(e.Thumbnails) > 0 {
		return e.Thumbnails[len(e.Thumbnails)-1].URL
	}
	return ""
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// run executes yt-dlp and returns the last JSON line of its output, skipping
// warning lines the binary mixes into stdout
func (y *YtDlp) run(ctx context.Context, args ...string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, y.path, args...)
	out, err := cmd.Output()
	if err != nil {
		if runCtx.Err() != nil {
			return nil, fmt.Errorf("yt-dlp timed out: %w", runCtx.Err())
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("yt-dlp failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("yt-dlp failed: %w", err)
	}

	var jsonLine string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "{") || strings.HasPrefix(line, "[") {
			jsonLine = line
		}
	}
	if jsonLine == "" {
		return nil, fmt.Errorf("no JSON in yt-dlp output")
	}

	return []byte(jsonLine), nil
}

// Search runs a flat ytsearch query
func (y *YtDlp) Search(ctx context.Context, query string, limit int) ([]Video, error) {
	if limit <= 0 {
		limit = 20
	}

	log.Infof("%s Searching YouTube: %s", logcolors.LogVideo, query)

	out, err := y.run(ctx, "-J", "--flat-playlist", "--no-warnings",
		fmt.Sprintf("ytsearch%d:%s", limit, query))
	if err != nil {
		return nil, err
	}

	var result ytSearchResult
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("failed to parse search output: %w", err)
	}

	videos := make([]Video, 0, len(result.Entries))
	for _, entry := range result.Entries {
		if entry.ID == "" {
			continue
		}
		videos = append(videos, Video{
			ID:        entry.ID,
			Title:     entry.Title,
			Thumbnail: entry.thumbnail(),
			URL:       watchURL(entry.ID),
		})
	}

	return videos, nil
}

// VideoInfo resolves a direct URL to video metadata
func (y *YtDlp) VideoInfo(ctx context.Context, url string) (*Video, error) {
	out, err := y.run(ctx, "-j", "--no-playlist", "--no-warnings", url)
	if err != nil {
		return nil, err
	}

	var entry ytEntry
	if err := json.Unmarshal(out, &entry); err != nil {
		return nil, fmt.Errorf("failed to parse video info: %w", err)
	}
	if entry.ID == "" {
		return nil, fmt.Errorf("no video info for URL: %s", url)
	}

	return &Video{
		ID:        entry.ID,
		Title:     entry.Title,
		Thumbnail: entry.thumbnail(),
		URL:       url,
	}, nil
}

// TitleInfo fetches the title and any tagged song metadata for a video ID
func (y *YtDlp) TitleInfo(ctx context.Context, videoID string) (*TitleInfo, error) {
	out, err := y.run(ctx, "-j", "--no-playlist", "--no-warnings", watchURL(videoID))
	if err != nil {
		return nil, err
	}

	var entry ytEntry
	if err := json.Unmarshal(out, &entry); err != nil {
		return nil, fmt.Errorf("failed to parse video info: %w", err)
	}

	artist := entry.Artist
	if artist == "" {
		artist = entry.Creator
	}

	return &TitleInfo{
		Title:  entry.Title,
		Artist: artist,
		Track:  entry.Track,
	}, nil
}

// StreamURL extracts a direct media URL for a video ID
func (y *YtDlp) StreamURL(ctx context.Context, videoID string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, y.path,
		"-g", "-f", streamFormat,
		"--no-playlist", "--no-warnings",
		"--user-agent", browserUserAgent,
		watchURL(videoID))
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("yt-dlp failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("yt-dlp failed: %w", err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "http") {
			return line, nil
		}
	}

	return "", fmt.Errorf("no stream URL in yt-dlp output")
}
