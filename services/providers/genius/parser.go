package genius

import (
	"encoding/json"
	"html"
	"regexp"
	"strings"
)

var (
	// Current page markup: lyrics live in divs whose class contains
	// Lyrics__Container
	containerRegex = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*Lyrics__Container[^"]*"[^>]*>(.*?)</div>`)

	// Older pages embed the lyrics HTML as a JSON string in a script tag
	embeddedJSONRegex = regexp.MustCompile(`"lyrics":\s*\{"body":\s*\{"html":\s*("(?:[^"\\]|\\.)*")`)

	brTagRegex  = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTagRegex = regexp.MustCompile(`<[^>]+>`)
)

// ExtractLyrics pulls plain lyrics text out of a Genius page. It tries the
// current container markup first and falls back to the embedded JSON blob
// found on older page versions. Returns "" when neither form is present.
func ExtractLyrics(page string) string {
	matches := containerRegex.FindAllStringSubmatch(page, -1)
	if len(matches) > 0 {
		parts := make([]string, 0, len(matches))
		for _, m := range matches {
			if text := cleanHTML(m[1]); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n\n")
	}

	if m := embeddedJSONRegex.FindStringSubmatch(page); m != nil {
		var rawHTML string
		if err := json.Unmarshal([]byte(m[1]), &rawHTML); err == nil {
			return cleanHTML(rawHTML)
		}
	}

	return ""
}

// cleanHTML converts a lyrics HTML fragment to plain text: line breaks become
// newlines, all other tags are dropped, entities are unescaped
func cleanHTML(fragment string) string {
	text := brTagRegex.ReplaceAllString(fragment, "\n")
	text = anyTagRegex.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	return strings.TrimSpace(text)
}
