package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/dadrock/internal/shared"
)

// Video is a catalogued guitar tab video. Its YouTube URL is unique across the catalog.
type Video struct {
	id         string
	sequence   int
	song       string
	artist     string
	youtubeURL string
	thumbnail  string
	createdAt  time.Time
}

// NewVideo creates an unsaved [Video] stamped with the current time.
func NewVideo(song, artist, youtubeURL, thumbnail string) *Video {
	return &Video{
		song:       song,
		artist:     artist,
		youtubeURL: youtubeURL,
		thumbnail:  thumbnail,
		createdAt:  time.Now().UTC(),
	}
}

func (v *Video) ID() string { return v.id }
func (v *Video) Sequence() int { return v.sequence }
func (v *Video) Song() string { return v.song }
func (v *Video) Artist() string { return v.artist }
func (v *Video) YouTubeURL() string { return v.youtubeURL }
func (v *Video) Thumbnail() string { return v.thumbnail }
func (v *Video) CreatedAt() time.Time { return v.createdAt }
func (v *Video) SetID(id string) { v.id = id }
func (v *Video) SetSequence(seq int) { v.sequence = seq }
func (v *Video) SetCreatedAt(t time.Time) { v.createdAt = t }

// Validate checks required fields.
func (v *Video) Validate() error {
	switch {
	case v.id == "":
		return fmt.Errorf("%w: video id is required", shared.ErrInvalidInput)
	case strings.TrimSpace(v.song) == "":
		return fmt.Errorf("%w: song is required", shared.ErrInvalidInput)
	case strings.TrimSpace(v.artist) == "":
		return fmt.Errorf("%w: artist is required", shared.ErrInvalidInput)
	case v.youtubeURL == "":
		return fmt.Errorf("%w: youtube url is required", shared.ErrInvalidInput)
	}
	return nil
}

// VideoJSON is the wire representation of a [Video].
type VideoJSON struct {
	ID         string `json:"id"`
	Song       string `json:"song"`
	Artist     string `json:"artist"`
	YouTubeURL string `json:"youtube_url"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// JSON converts the video to its wire representation with an RFC 3339 timestamp.
func (v *Video) JSON() VideoJSON {
	return VideoJSON{
		ID:         v.id,
		Song:       v.song,
		Artist:     v.artist,
		YouTubeURL: v.youtubeURL,
		Thumbnail:  v.thumbnail,
		CreatedAt:  v.createdAt.UTC().Format(time.RFC3339),
	}
}

// VideoUpdate is a partial edit of a [Video]. Nil fields are left unchanged.
type VideoUpdate struct {
	Song       *string `json:"song"`
	Artist     *string `json:"artist"`
	YouTubeURL *string `json:"youtube_url"`
	Thumbnail  *string `json:"thumbnail"`
}

// Empty reports whether the update sets no field.
func (u VideoUpdate) Empty() bool {
	return u.Song == nil && u.Artist == nil && u.YouTubeURL == nil && u.Thumbnail == nil
}

// Apply copies the set fields onto v.
//
// A new URL given without a thumbnail replaces the thumbnail with the one derived from the URL.
func (u VideoUpdate) Apply(v *Video) {
	if u.Song != nil {
		v.song = *u.Song
	}
	if u.Artist != nil {
		v.artist = *u.Artist
	}
	if u.YouTubeURL != nil {
		v.youtubeURL = *u.YouTubeURL
		if u.Thumbnail == nil {
			v.thumbnail = shared.ThumbnailURL(v.youtubeURL)
		}
	}
	if u.Thumbnail != nil {
		v.thumbnail = *u.Thumbnail
	}
}
