package shared

import (
	"regexp"
	"strings"
)

const (
	// UnknownArtist is used when a delimiter is present but nothing follows it.
	UnknownArtist = "Unknown Artist"
	// ChannelArtist is the channel's own brand, used when the title names no artist.
	ChannelArtist = "DadRock Tabs"

	untitled = "Untitled"
)

var (
	// Markers match as plain substrings, so "Bassline" is cut at "Bass".
	titleSuffix = regexp.MustCompile(`(?i)\s*(Guitar|Bass|TAB|TABS|Lesson|Tutorial|\+|\(|\)|\[|\]|HD|Official).*`)
	byDelimiter = regexp.MustCompile(`(?i)\s+by\s+`)
)

// ParseVideoTitle splits a raw video title into song and artist.
//
// Supported shapes, after suffix markers like "Guitar TAB" or "(Official)" are dropped:
//   - "Song - Artist" (first " - " wins, case-sensitive)
//   - "Song by Artist" (first "by", case-insensitive)
//   - "Song" alone, credited to [ChannelArtist]
//
// Both return values are always non-empty.
func ParseVideoTitle(raw string) (song, artist string) {
	clean := strings.TrimSpace(titleSuffix.ReplaceAllString(raw, ""))

	switch {
	case strings.Contains(clean, " - "):
		before, after, _ := strings.Cut(clean, " - ")
		song, artist = before, after
	case byDelimiter.MatchString(clean):
		parts := byDelimiter.Split(clean, 2)
		song, artist = parts[0], parts[1]
	default:
		return orUntitled(clean, raw), ChannelArtist
	}

	song = orUntitled(strings.TrimSpace(song), raw)
	// clean is trimmed, so this fallback only guards delimiters added later.
	if artist = strings.TrimSpace(artist); artist == "" {
		artist = UnknownArtist
	}
	return song, artist
}

func orUntitled(song, raw string) string {
	if song != "" {
		return song
	}
	if raw = strings.TrimSpace(raw); raw != "" {
		return raw
	}
	return untitled
}
