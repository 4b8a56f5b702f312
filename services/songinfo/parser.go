package songinfo

import (
	"regexp"
	"strings"
)

// SongInfo is the artist/track pair extracted from a video title.
// Track is never empty after parsing; Artist may be.
type SongInfo struct {
	Artist string
	Track  string
}

var (
	// Decorative noise commonly found in music video titles, applied in order.
	// Bracketed promo groups first, then any leftover bracket group, then
	// trailing suffix patterns.
	noisePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s*[(\[【「].*?(?:官方|official|mv|music video|lyric|歌詞|完整版|高音質|hd|4k|1080p|live|現場|演唱會).*?[)\]】」]`),
		regexp.MustCompile(`\s*[(\[【「].*?[)\]】」]`),
		regexp.MustCompile(`(?i)\s*[-–—]\s*(?:official|mv|music video|lyric|歌詞).*$`),
		regexp.MustCompile(`\s*\|.*$`),
		regexp.MustCompile(`\s*/.*$`),
		regexp.MustCompile(`\s*官方.*$`),
		regexp.MustCompile(`(?i)\s*MV$`),
		regexp.MustCompile(`(?i)\s*Official\s*(?:Music\s*)?(?:Video)?$`),
	}

	// "周杰倫《晴天》" or "周杰倫「晴天」" - CJK quote brackets delimit the track
	cjkQuoteRegex = regexp.MustCompile(`^(.+?)\s*[《「](.+?)[》」]\s*$`)

	// "Adele - Hello" with hyphen, en dash or em dash
	dashSplitRegex = regexp.MustCompile(`^(.+?)\s*[-–—]\s*(.+)$`)
)

// Parse extracts artist and track from a raw video title. The CJK quote
// pattern wins over the dash pattern: a dash may legitimately appear inside
// either field, the quote brackets cannot. When neither pattern matches, the
// whole cleaned title becomes the track.
func Parse(videoTitle string) SongInfo {
	clean := CleanTitle(videoTitle)

	if m := cjkQuoteRegex.FindStringSubmatch(clean); m != nil {
		return SongInfo{
			Artist: strings.TrimSpace(m[1]),
			Track:  strings.TrimSpace(m[2]),
		}
	}

	if m := dashSplitRegex.FindStringSubmatch(clean); m != nil {
		return SongInfo{
			Artist: strings.TrimSpace(m[1]),
			Track:  strings.TrimSpace(m[2]),
		}
	}

	return SongInfo{Track: clean}
}

// CleanTitle strips decorative noise from a video title without splitting it.
func CleanTitle(videoTitle string) string {
	clean := videoTitle
	for _, pattern := range noisePatterns {
		clean = pattern.ReplaceAllString(clean, "")
	}
	return strings.TrimSpace(clean)
}

// ContainsCJK reports whether text contains any CJK Unified Ideograph
// (U+4E00 to U+9FFF). Used to route the resolver to the regional tier first.
func ContainsCJK(text string) bool {
	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}
