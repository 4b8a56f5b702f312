package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"karaoke-lyrics-go/services/providers"
	"karaoke-lyrics-go/services/songinfo"
	"karaoke-lyrics-go/services/video"
	"karaoke-lyrics-go/stats"
	"karaoke-lyrics-go/store"
)

// fakeResolver is a stand-in resolution pipeline for handler tests
type fakeResolver struct {
	result     *providers.Result
	cached     bool
	gotVideoID string
	gotTitle   string
	gotHints   *songinfo.SongInfo
}

func (f *fakeResolver) Resolve(ctx context.Context, videoID, videoTitle string, hints *songinfo.SongInfo) (*providers.Result, bool) {
	f.gotVideoID = videoID
	f.gotTitle = videoTitle
	f.gotHints = hints
	return f.result, f.cached
}

func (f *fakeResolver) BreakerStates() map[string]string {
	return map[string]string{"lrclib": "CLOSED"}
}

// fakeExtractor is a stand-in video collaborator for handler tests
type fakeExtractor struct {
	videos    []video.Video
	info      *video.Video
	titleInfo *video.TitleInfo
	streamURL string
	err       error
}

func (f *fakeExtractor) Search(ctx context.Context, query string, limit int) ([]video.Video, error) {
	return f.videos, f.err
}

func (f *fakeExtractor) VideoInfo(ctx context.Context, url string) (*video.Video, error) {
	return f.info, f.err
}

func (f *fakeExtractor) TitleInfo(ctx context.Context, videoID string) (*video.TitleInfo, error) {
	return f.titleInfo, f.err
}

func (f *fakeExtractor) StreamURL(ctx context.Context, videoID string) (string, error) {
	return f.streamURL, f.err
}

// setupTestEnvironment creates a temporary store and fake collaborators
func setupTestEnvironment(t *testing.T) (*fakeResolver, *fakeExtractor, func()) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test_store.db")
	backupPath := filepath.Join(tmpDir, "backups")

	var err error
	lyricsStore, err = store.Open(dbPath, backupPath, false)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}

	res := &fakeResolver{}
	ext := &fakeExtractor{}
	lyricsResolver = res
	videoExtractor = ext

	return res, ext, func() {
		lyricsStore.Close()
	}
}

func decodeLyricsResponse(t *testing.T, w *httptest.ResponseRecorder) LyricsResponse {
	t.Helper()
	var resp LyricsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func TestGetLyrics_MissingID(t *testing.T) {
	_, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/lyrics", nil)

	getLyrics(w, r)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestGetLyrics_CachedResult(t *testing.T) {
	res, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	res.result = &providers.Result{
		Lyrics: "Hello world\nLine two",
		Source: providers.SourceLRCLib,
		Artist: "Adele",
		Track:  "Hello",
	}
	res.cached = true

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/lyrics?id=abc123&title=Adele+-+Hello", nil)

	getLyrics(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decodeLyricsResponse(t, w)
	if !resp.Available {
		t.Error("expected available = true")
	}
	if resp.Source != "lrclib (cached)" {
		t.Errorf("source = %q, want %q", resp.Source, "lrclib (cached)")
	}
	if got := w.Header().Get("X-Cache-Status"); got != "HIT" {
		t.Errorf("X-Cache-Status = %q, want HIT", got)
	}
	if res.gotVideoID != "abc123" {
		t.Errorf("resolver got videoID %q, want abc123", res.gotVideoID)
	}
}

func TestGetLyrics_ProviderResult(t *testing.T) {
	res, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	res.result = &providers.Result{
		Lyrics: "Some lyrics\nMore lyrics",
		Source: providers.SourceGenius,
		Artist: "Queen",
		Track:  "Bohemian Rhapsody",
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/lyrics?id=vid1&title=Queen+-+Bohemian+Rhapsody", nil)

	getLyrics(w, r)

	resp := decodeLyricsResponse(t, w)
	if !resp.Available {
		t.Error("expected available = true")
	}
	if resp.Source != providers.SourceGenius {
		t.Errorf("source = %q, want %q", resp.Source, providers.SourceGenius)
	}
	if got := w.Header().Get("X-Cache-Status"); got != "MISS" {
		t.Errorf("X-Cache-Status = %q, want MISS", got)
	}
}

func TestGetLyrics_OverrideHitRecordedInStats(t *testing.T) {
	res, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	res.result = &providers.Result{
		Lyrics: "Manual line one\nManual line two\nManual line three",
		Source: providers.SourceManual,
		Artist: "Adele",
		Track:  "Hello",
	}

	before := stats.Get().OverrideHits.Load()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/lyrics?id=vid1&title=Adele+-+Hello", nil)

	getLyrics(w, r)

	resp := decodeLyricsResponse(t, w)
	if resp.Source != providers.SourceManual {
		t.Fatalf("source = %q, want %q", resp.Source, providers.SourceManual)
	}
	if got := stats.Get().OverrideHits.Load(); got != before+1 {
		t.Errorf("OverrideHits = %d, want %d", got, before+1)
	}
}

func TestGetLyrics_FullMiss(t *testing.T) {
	res, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	res.result = &providers.Result{Source: providers.SourceNone}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/lyrics?id=vid1&title=Obscure+Song", nil)

	getLyrics(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (miss is data, not an error)", w.Code)
	}
	resp := decodeLyricsResponse(t, w)
	if resp.Available {
		t.Error("expected available = false")
	}
	if resp.Source != providers.SourceNone {
		t.Errorf("source = %q, want %q", resp.Source, providers.SourceNone)
	}
}

func TestGetLyrics_TitleFromExtractor(t *testing.T) {
	res, ext, cleanup := setupTestEnvironment(t)
	defer cleanup()

	ext.titleInfo = &video.TitleInfo{
		Title:  "Adele - Hello (Official Video)",
		Artist: "Adele",
		Track:  "Hello",
	}
	res.result = &providers.Result{Source: providers.SourceNone}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/lyrics?id=vid1", nil)

	getLyrics(w, r)

	if res.gotTitle != "Adele - Hello (Official Video)" {
		t.Errorf("resolver got title %q, want extractor title", res.gotTitle)
	}
	if res.gotHints == nil || res.gotHints.Artist != "Adele" {
		t.Errorf("resolver hints = %+v, want artist Adele", res.gotHints)
	}
}

func TestGetLyrics_ExtractorFailure(t *testing.T) {
	_, ext, cleanup := setupTestEnvironment(t)
	defer cleanup()

	ext.err = errors.New("yt-dlp exited with status 1")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/lyrics?id=vid1", nil)

	getLyrics(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decodeLyricsResponse(t, w)
	if resp.Available {
		t.Error("expected available = false")
	}
	if resp.Source != "error" {
		t.Errorf("source = %q, want error", resp.Source)
	}
}

func TestGetLyrics_QueryHintsOverrideExtractor(t *testing.T) {
	res, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	res.result = &providers.Result{Source: providers.SourceNone}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/lyrics?id=vid1&title=Some+Title&artist=Queen&track=Under+Pressure", nil)

	getLyrics(w, r)

	if res.gotHints == nil || res.gotHints.Artist != "Queen" || res.gotHints.Track != "Under Pressure" {
		t.Errorf("resolver hints = %+v, want Queen / Under Pressure", res.gotHints)
	}
}

func TestGetLyrics_CacheOnlyModeHit(t *testing.T) {
	res, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	entry := store.CacheEntry{
		VideoID:    "vid1",
		VideoTitle: "Adele - Hello",
		Artist:     "Adele",
		Track:      "Hello",
		Source:     providers.SourceLRCLib,
		LyricsText: "Hello from the other side",
	}
	if err := lyricsStore.UpsertCacheEntry(entry); err != nil {
		t.Fatalf("failed to seed cache: %v", err)
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/lyrics?id=vid1", nil)
	r = r.WithContext(context.WithValue(r.Context(), cacheOnlyModeKey, true))

	getLyrics(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decodeLyricsResponse(t, w)
	if !resp.Available {
		t.Error("expected available = true")
	}
	if resp.Source != "lrclib (cached)" {
		t.Errorf("source = %q, want lrclib (cached)", resp.Source)
	}
	// The resolver must never be consulted in cache-only mode
	if res.gotVideoID != "" {
		t.Error("resolver should not be called in cache-only mode")
	}
}

func TestGetLyrics_CacheOnlyModeMiss(t *testing.T) {
	res, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/lyrics?id=unknown", nil)
	r = r.WithContext(context.WithValue(r.Context(), cacheOnlyModeKey, true))

	getLyrics(w, r)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
	if res.gotVideoID != "" {
		t.Error("resolver should not be called in cache-only mode")
	}
}

func TestSaveManualLyrics(t *testing.T) {
	_, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	body := `{"video_id":"vid1","artist":"Adele","track":"Hello","lyrics":"Hello from the other side\nI must have called a thousand times"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/lyrics/manual", strings.NewReader(body))

	saveManualLyrics(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	override, ok := lyricsStore.GetOverride(store.NormalizeKey("Adele", "Hello"))
	if !ok {
		t.Fatal("override was not saved")
	}
	if override.Artist != "Adele" {
		t.Errorf("override artist = %q, want Adele", override.Artist)
	}

	// video_id present, so the cache is seeded too
	entry, ok := lyricsStore.GetCacheEntry("vid1")
	if !ok {
		t.Fatal("cache entry was not seeded")
	}
	if entry.Source != providers.SourceManual {
		t.Errorf("cache source = %q, want manual", entry.Source)
	}
}

func TestSaveManualLyrics_StripsTimestamps(t *testing.T) {
	_, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	body := `{"artist":"Adele","track":"Hello","lyrics":"[00:12.34]Hello from the other side\n[00:15.00]I must have called"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/lyrics/manual", strings.NewReader(body))

	saveManualLyrics(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	override, ok := lyricsStore.GetOverride(store.NormalizeKey("Adele", "Hello"))
	if !ok {
		t.Fatal("override was not saved")
	}
	if strings.Contains(override.LyricsText, "[00:") {
		t.Errorf("stored lyrics still contain timestamps: %q", override.LyricsText)
	}
}

func TestSaveManualLyrics_NoLyrics(t *testing.T) {
	_, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	body := `{"artist":"Adele","track":"Hello","lyrics":"   "}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/lyrics/manual", strings.NewReader(body))

	saveManualLyrics(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSaveManualLyrics_NoArtistOrTrack(t *testing.T) {
	_, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	body := `{"lyrics":"Some lyrics here"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/lyrics/manual", strings.NewReader(body))

	saveManualLyrics(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSaveManualLyrics_VideoIDOnly(t *testing.T) {
	_, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	body := `{"video_id":"vid9","lyrics":"Line one\nLine two\nLine three"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/lyrics/manual", strings.NewReader(body))

	saveManualLyrics(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	// No artist or track means no override row, only a cache entry
	entry, ok := lyricsStore.GetCacheEntry("vid9")
	if !ok {
		t.Fatal("expected a cache entry for vid9")
	}
	if entry.Source != providers.SourceManual {
		t.Errorf("source = %q, want %q", entry.Source, providers.SourceManual)
	}
	if entry.LyricsText != "Line one\nLine two\nLine three" {
		t.Errorf("unexpected lyrics text: %q", entry.LyricsText)
	}
}

func TestUploadLyrics(t *testing.T) {
	_, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	body := `{"video_id":"vid1","lrc_content":"[00:12.34]Hello world\n[00:15.00]Second line"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/lyrics/upload", strings.NewReader(body))

	uploadLyrics(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	var resp UploadResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Available {
		t.Error("expected available = true")
	}
	if resp.Source != providers.SourceUpload {
		t.Errorf("source = %q, want upload", resp.Source)
	}
	if resp.Count != 2 || len(resp.Captions) != 2 {
		t.Errorf("count = %d, captions = %d, want 2", resp.Count, len(resp.Captions))
	}
	if resp.Captions[0].Text != "Hello world" {
		t.Errorf("first caption = %q, want Hello world", resp.Captions[0].Text)
	}
}

func TestUploadLyrics_NoTimedLines(t *testing.T) {
	_, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	body := `{"video_id":"vid1","lrc_content":"Just plain text\nNo timestamps here"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/lyrics/upload", strings.NewReader(body))

	uploadLyrics(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUploadLyrics_MissingFields(t *testing.T) {
	_, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	body := `{"video_id":"","lrc_content":""}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/lyrics/upload", strings.NewReader(body))

	uploadLyrics(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
