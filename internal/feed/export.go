package feed

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gorilla/feeds"
	"github.com/samber/lo"

	"github.com/CHollingworth/magnus-downloader/internal/model"
)

// Export renders an RSS document describing downloaded episodes.
//
// The document mirrors the source channel's title and artwork but points
// every item at the local file name instead of the remote enclosure, so
// a podcast player can replay the downloads directory in listening
// order. Episodes should be passed already sequenced.
func Export(channel *Channel, episodes []*model.Episode) (string, error) {
	if channel == nil {
		channel = &Channel{}
	}

	title := channel.Title
	if title == "" {
		title = "Downloaded episodes"
	}

	f := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: channel.Link},
		Description: fmt.Sprintf("Local mirror of %s", title),
	}
	if channel.ImageURL != "" {
		f.Image = &feeds.Image{
			Url:   channel.ImageURL,
			Title: title,
			Link:  channel.Link,
		}
	}

	f.Items = lo.Map(episodes, func(ep *model.Episode, _ int) *feeds.Item {
		name := filepath.Base(ep.Path)
		return &feeds.Item{
			Title:       ep.Title,
			Link:        &feeds.Link{Href: name},
			Id:          name,
			Description: fmt.Sprintf("%s episode %d", ep.Series, ep.Number),
			Created:     ep.Published,
			Enclosure: &feeds.Enclosure{
				Url:    name,
				Length: strconv.FormatInt(ep.Length, 10),
				Type:   "audio/mpeg",
			},
		}
	})

	return f.ToRss()
}
