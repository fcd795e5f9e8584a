package audio

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bogem/id3v2"

	"github.com/CHollingworth/magnus-downloader/internal/model"
)

// Tagger writes track metadata to a downloaded episode file.
//
// Two implementations exist: NativeTagger edits ID3 frames in process,
// CommandTagger shells out to the id3v2 command-line tool.
type Tagger interface {
	// Tag updates the file at episode.Path with the episode's track
	// number and title. Implementations that support it also embed the
	// given cover art; artwork may be nil to skip it.
	Tag(ctx context.Context, episode *model.Episode, artwork []byte) error
}

// TagEditAction selects what happens to one ID3 frame during tagging:
// write the feed value, blank the frame, or leave it alone.
type TagEditAction int

const (
	// TagEmpty blanks the frame.
	TagEmpty TagEditAction = iota

	// TagModify writes the value taken from the feed.
	TagModify

	// TagDoNotModify leaves whatever the file already carries.
	TagDoNotModify
)

// TagConfig maps each supported ID3 frame to its TagEditAction, so a
// caller can, say, write track numbers while preserving years that some
// other tool set earlier.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:  true,
//	    TrackNumber: TagModify,      // Track number from the episode number
//	    TrackTitle:  TagModify,      // Title from the feed item
//	    Album:       TagModify,      // Album from the series name
//	    Year:        TagDoNotModify, // Keep whatever year is already set
//	}
type TagConfig struct {
	// ModifyTags is the master switch. When false no text frame is
	// touched, though artwork may still be embedded.
	ModifyTags bool

	// TrackNumber controls the TRCK (Track number) frame.
	TrackNumber TagEditAction

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// Year controls the TYER (Year) frame.
	Year TagEditAction

	// Date controls the TDRC (Recording time) frame (ID3v2.4).
	Date TagEditAction
}

// DefaultTagConfig returns the default tag configuration.
//
// Track number and title come from the parsed episode, the album field
// from the series name, and the year from the item's publication date.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		TrackNumber: TagModify,
		TrackTitle:  TagModify,
		Album:       TagModify,
		Year:        TagModify,
		Date:        TagDoNotModify,
	}
}

// NativeTagger writes ID3 tags using the id3v2 library, without any
// external tool.
//
// NativeTagger can modify:
//   - Track Number, Title, Album, Year
//   - Cover Art (attached picture)
//
// Example:
//
//	tagger := NewNativeTagger(DefaultTagConfig())
//
//	// After downloading the episode
//	err := tagger.Tag(ctx, episode, artworkBytes)
//	if err != nil {
//	    log.Printf("Failed to tag %s: %v", episode.Path, err)
//	}
type NativeTagger struct {
	config *TagConfig
}

// NewNativeTagger creates a NativeTagger. A nil config falls back to
// DefaultTagConfig.
func NewNativeTagger(config *TagConfig) *NativeTagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &NativeTagger{config: config}
}

// Tag opens the downloaded file, applies the configured frame edits plus
// any cover art, and saves the tag back in place. Only opening and saving
// can fail; the frame edits themselves never error.
func (t *NativeTagger) Tag(_ context.Context, episode *model.Episode, artwork []byte) error {
	tag, err := id3v2.Open(episode.Path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open %s: %w", episode.Path, err)
	}
	defer tag.Close()

	if t.config.ModifyTags {
		t.updateStringTags(tag, episode)
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	return tag.Save()
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *NativeTagger) updateStringTags(tag *id3v2.Tag, episode *model.Episode) {
	// Track Number (TRCK)
	switch t.config.TrackNumber {
	case TagEmpty:
		tag.DeleteFrames("TRCK")
	case TagModify:
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, strconv.Itoa(episode.Number))
	}

	// Track Title (TIT2)
	switch t.config.TrackTitle {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(episode.Title)
	}

	// Album (TALB)
	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(episode.Series)
	}

	// Year (TYER) - ID3v2.3
	switch t.config.Year {
	case TagEmpty:
		tag.DeleteFrames("TYER")
	case TagModify:
		if !episode.Published.IsZero() {
			tag.AddTextFrame("TYER", id3v2.EncodingUTF8, episode.Published.Format("2006"))
		}
	}

	// Date (TDRC) - ID3v2.4
	switch t.config.Date {
	case TagEmpty:
		tag.DeleteFrames("TDRC")
	case TagModify:
		if !episode.Published.IsZero() {
			tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, episode.Published.Format("2006-01-02"))
		}
	}
}

// updateArtwork replaces any attached pictures with the channel artwork
// as the APIC front cover.
func (t *NativeTagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Front cover",
		Picture:     artwork,
	})
}

var _ Tagger = (*NativeTagger)(nil)
