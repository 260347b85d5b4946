package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/dadrock/internal/models"
)

var _ list.Item = videoItem{}

// videoItem wraps [models.Video] to implement [list.Item].
type videoItem struct {
	video *models.Video
}

func (i videoItem) FilterValue() string { return i.video.Song() + " " + i.video.Artist() }
func (i videoItem) Title() string       { return i.video.Song() }
func (i videoItem) Description() string { return i.video.Artist() + " • " + i.video.YouTubeURL() }

func videoItems(videos []*models.Video) []list.Item {
	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = videoItem{video: v}
	}
	return items
}
