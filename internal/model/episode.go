package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Episode represents one downloadable entry extracted from a podcast feed.
//
// Episode carries everything the pipeline needs to fetch and tag a file:
//   - Title and Number for ID3 tagging and file naming
//   - EnclosureURL for downloading the audio content
//   - Series for album tagging and playlist grouping
//   - Computed local file path
//
// The file path is computed when creating an episode via NewEpisode, using
// placeholders like {title}, {number} and {series}.
//
// Example:
//
//	cfg := &NamingConfig{
//	    DownloadsPath:  "Downloads",
//	    FileNameFormat: "{title}.mp3",
//	}
//	ep := NewEpisode("MAG", "MAG 7", mp3URL, 7, pubDate, 0, cfg)
//	// ep.Path = "Downloads/MAG 7.mp3"
type Episode struct {
	// Title is the feed item title, verbatim.
	Title string

	// Series is the name of the series the episode was matched under.
	Series string

	// EnclosureURL is the URL of the downloadable media enclosure.
	EnclosureURL string

	// Number is the episode number parsed from the title.
	// Episodes that leave the parser always have Number >= 0.
	Number int

	// Published is the item publication date, zero when the feed
	// carries none.
	Published time.Time

	// Length is the enclosure size in bytes as advertised by the feed,
	// or 0 when the attribute is absent or unparseable.
	Length int64

	// Path is the computed local file path where the episode will be
	// saved. Includes the downloads directory and filename with extension.
	Path string
}

// NewEpisode creates a new Episode with its computed file path.
//
// The path is derived from the naming configuration; invalid filename
// characters in the expanded name are replaced via SanitizeFileName.
func NewEpisode(series, title, enclosureURL string, number int, published time.Time, length int64, cfg *NamingConfig) *Episode {
	e := &Episode{
		Title:        title,
		Series:       series,
		EnclosureURL: enclosureURL,
		Number:       number,
		Published:    published,
		Length:       length,
	}

	e.Path = e.parseFilePath(cfg)

	return e
}

// NamingConfig holds file naming settings for downloaded episodes.
//
// FileNameFormat supports placeholders that are replaced with actual values:
//   - {title} - Episode title as it appears in the feed
//   - {number} - Episode number (3 digits, zero-padded)
//   - {series} - Series name
//
// Example:
//
//	cfg := &NamingConfig{
//	    DownloadsPath:  "Downloads",
//	    FileNameFormat: "{number} {title}.mp3",
//	}
//	// Results in filenames like "007 MAG 7.mp3"
type NamingConfig struct {
	// DownloadsPath is the directory downloaded episodes are written to.
	DownloadsPath string

	// FileNameFormat is the template for episode filenames.
	// Must include the file extension (typically ".mp3").
	FileNameFormat string
}

// parseFilePath computes the full file path for this episode.
func (e *Episode) parseFilePath(cfg *NamingConfig) string {
	fileName := e.parseFileName(cfg)
	filePath := filepath.Join(cfg.DownloadsPath, fileName)

	// Limit total path length for Windows compatibility (MAX_PATH = 260)
	if len(filePath) >= 260 {
		ext := filepath.Ext(fileName)
		stem := strings.TrimSuffix(fileName, ext)
		allowed := 259 - len(filePath) + len(stem)
		if allowed > 0 && allowed < len(stem) {
			filePath = filepath.Join(cfg.DownloadsPath, stem[:allowed]+ext)
		}
	}

	return filePath
}

// parseFileName computes the filename from the config template.
func (e *Episode) parseFileName(cfg *NamingConfig) string {
	fileName := cfg.FileNameFormat
	fileName = strings.ReplaceAll(fileName, "{series}", e.Series)
	fileName = strings.ReplaceAll(fileName, "{title}", e.Title)
	fileName = strings.ReplaceAll(fileName, "{number}", fmt.Sprintf("%03d", e.Number))
	return SanitizeFileName(fileName)
}

var (
	invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	repeatedSpace    = regexp.MustCompile(`\s+`)
)

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
//
// Feed titles are used directly as filename components, so every name that
// reaches the filesystem goes through this function first.
//
// Example:
//
//	SanitizeFileName("MAG 7: The Piper") // Returns "MAG 7_ The Piper"
func SanitizeFileName(name string) string {
	name = invalidFileChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpace.ReplaceAllString(name, " ")
	name = strings.TrimRight(name, " ")
	return name
}
