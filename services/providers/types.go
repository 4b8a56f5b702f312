package providers

import "karaoke-lyrics-go/services/lrc"

// Source identifiers recorded on resolved lyrics. They name where the text
// came from, not how it was fetched.
const (
	SourceLRCLib    = "lrclib"
	SourceGenius    = "genius"
	SourceLyricsOVH = "lyrics_ovh"
	SourceNetease   = "netease"
	SourceQQMusic   = "qqmusic"
	SourceKugou     = "kugou"
	SourceManual    = "manual"
	SourceUpload    = "upload"
	SourceNone      = "none"
)

// MinLyricsLines is the minimum number of non-empty lines a provider result
// must have to be accepted. Anything at or below this is treated as a
// placeholder or error page rather than real lyrics.
const MinLyricsLines = 3

// Result is the standardized result from any lyrics provider.
type Result struct {
	// Lyrics is the plain lyrics text, newline-separated
	Lyrics string `json:"lyrics"`

	// Source is the provider identifier that produced the lyrics
	Source string `json:"source"`

	// Artist and Track are the provider's matched metadata when available;
	// they may echo back the query terms
	Artist string `json:"artist,omitempty"`
	Track  string `json:"track,omitempty"`
}

// EnoughLines reports whether text passes the minimum-line acceptance guard.
func EnoughLines(text string) bool {
	return lrc.CountLines(text) > MinLyricsLines
}

// ProviderError represents an error from a provider with additional context
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Provider + ": " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError
func NewProviderError(provider, message string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Message:  message,
		Err:      err,
	}
}
