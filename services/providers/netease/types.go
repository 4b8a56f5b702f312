package netease

// SearchResponse represents the response from the NetEase song search API
type SearchResponse struct {
	Code   int `json:"code"`
	Result struct {
		SongCount int    `json:"songCount"`
		Songs     []Song `json:"songs"`
	} `json:"result"`
}

// Song is a song hit from the search results
type Song struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Duration int `json:"duration"` // Duration in milliseconds
}

// LyricResponse represents the response from the NetEase lyric API
type LyricResponse struct {
	Code int `json:"code"`
	Lrc  struct {
		Lyric string `json:"lyric"`
	} `json:"lrc"`
	Tlyric struct {
		Lyric string `json:"lyric"`
	} `json:"tlyric"`
}
