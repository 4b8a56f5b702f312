// Package lrc implements the LRC line-timestamp lyrics format: parsing timed
// captions, serializing them back, and degrading timed text to plain text for
// storage and scroll-view display.
package lrc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// TailPaddingSeconds is the duration assigned to the final caption,
	// which has no successor to end it.
	TailPaddingSeconds = 5.0

	// EstimatedLineSeconds is the per-line duration used when no real
	// timing is available and captions are evenly spaced.
	EstimatedLineSeconds = 3.5
)

// Caption is a single timed lyrics line. Sequences are always ascending by
// Start; End equals the next caption's Start except for the last entry.
type Caption struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

var (
	// Timed line: [mm:ss.xx]text with a 2- or 3-digit fraction
	timedLineRegex = regexp.MustCompile(`^\[(\d{1,2}):(\d{2})[.:,](\d{1,3})\]\s*(.+)$`)

	// Any timestamp prefix, for stripping when flattening to plain text
	timestampRegex = regexp.MustCompile(`\[\d{1,2}:\d{2}[.:,]?\d{0,3}\]`)

	// Bare bracketed metadata tag like [ti:Title] or [ar:Artist]
	metadataLineRegex = regexp.MustCompile(`^\[.*\]$`)
)

// Parse converts LRC content into an ordered caption sequence. Lines without
// a timestamp (metadata headers and stray text) are ignored, as are lines
// whose text after the timestamp is empty. End times come from the next
// caption's start; the last caption gets a fixed tail padding.
func Parse(raw string) []Caption {
	var captions []Caption

	for _, line := range strings.Split(raw, "\n") {
		m := timedLineRegex.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		millis, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			millis *= 10 // centiseconds to milliseconds
		}

		text := strings.TrimSpace(m[4])
		if text == "" {
			continue
		}

		captions = append(captions, Caption{
			Start: float64(minutes)*60 + float64(seconds) + float64(millis)/1000.0,
			Text:  text,
		})
	}

	for i := range captions {
		if i < len(captions)-1 {
			captions[i].End = captions[i+1].Start
		} else {
			captions[i].End = captions[i].Start + TailPaddingSeconds
		}
	}

	return captions
}

// ToPlainText strips timestamps from LRC content and returns the bare lyric
// lines newline-joined, in original order. Bare metadata tags and lines that
// are empty once stripped are dropped.
func ToPlainText(raw string) string {
	var lines []string

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		text := strings.TrimSpace(timestampRegex.ReplaceAllString(line, ""))
		if text == "" || metadataLineRegex.MatchString(trimmed) {
			continue
		}
		lines = append(lines, text)
	}

	return strings.Join(lines, "\n")
}

// Serialize renders captions back to LRC, one [mm:ss.xx] line per caption.
func Serialize(captions []Caption) string {
	var b strings.Builder
	for i, c := range captions {
		if i > 0 {
			b.WriteByte('\n')
		}
		totalCentis := int(c.Start*100 + 0.5)
		minutes := totalCentis / 6000
		seconds := (totalCentis / 100) % 60
		centis := totalCentis % 100
		fmt.Fprintf(&b, "[%02d:%02d.%02d]%s", minutes, seconds, centis, c.Text)
	}
	return b.String()
}

// Estimate builds an evenly spaced caption sequence from plain text when no
// real timing exists. Empty lines are skipped; each caption lasts the fixed
// estimated line duration.
func Estimate(plain string) []Caption {
	var captions []Caption

	i := 0
	for _, line := range strings.Split(plain, "\n") {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		captions = append(captions, Caption{
			Start: float64(i) * EstimatedLineSeconds,
			End:   float64(i+1) * EstimatedLineSeconds,
			Text:  text,
		})
		i++
	}

	return captions
}

// HasTimestamps reports whether raw contains at least one timed LRC line.
func HasTimestamps(raw string) bool {
	for _, line := range strings.Split(raw, "\n") {
		if timedLineRegex.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

// CountLines returns the number of non-empty lines in plain text. Providers
// use this for the minimum-line acceptance guard.
func CountLines(plain string) int {
	count := 0
	for _, line := range strings.Split(plain, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
