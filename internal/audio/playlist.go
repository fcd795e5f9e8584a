package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/CHollingworth/magnus-downloader/internal/model"
)

// PlaylistFormat selects which playlist file format to write. M3U is
// the safe default; the XML formats exist for players that want them.
type PlaylistFormat int

const (
	// FormatM3U writes .m3u files, the plain-text format nearly every
	// player reads. Optionally extended with EXTINF title lines.
	FormatM3U PlaylistFormat = iota

	// FormatPLS writes .pls files, the INI-style Winamp/SHOUTcast
	// format carrying file, title and length per entry.
	FormatPLS

	// FormatWPL writes .wpl files, the SMIL XML format Windows Media
	// Player uses.
	FormatWPL

	// FormatZPL writes .zpl files, the Zune/Groove Music variant of
	// WPL with per-entry metadata attributes.
	FormatZPL
)

// ParsePlaylistFormat resolves a format name from configuration.
//
// Accepted names are "m3u", "pls", "wpl" and "zpl", case-insensitive.
func ParsePlaylistFormat(name string) (PlaylistFormat, error) {
	switch strings.ToLower(name) {
	case "m3u":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	case "wpl":
		return FormatWPL, nil
	case "zpl":
		return FormatZPL, nil
	default:
		return FormatM3U, fmt.Errorf("unknown playlist format %q", name)
	}
}

// Ext returns the file extension for the format, including the dot.
func (f PlaylistFormat) Ext() string {
	switch f {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	case FormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// PlaylistCreator generates playlist files in various formats.
//
// PlaylistCreator takes a series' downloaded episodes and generates a
// playlist listing them in order. The output is a string that can be
// written to a file next to the episodes.
//
// Example:
//
//	// Create M3U playlist with extended info
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist("MAG", episodes)
//	fsutil.WriteFile("Downloads/MAG.m3u", []byte(content))
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,MAG 7
//	// MAG 7.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with titles
}

// NewPlaylistCreator creates a PlaylistCreator for the given format.
// The extended flag adds #EXTINF lines to M3U output and is ignored by
// the other formats.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist generates playlist content for one series.
//
// Returns the playlist as a string, ready to be written to a file.
// Episode paths in the playlist are relative (just the filename),
// assuming the playlist file sits in the downloads directory with the
// episodes. Episodes should be passed already sequenced.
//
// Episode durations are not known until playback, so formats that carry
// a length use the conventional -1 for "unknown".
func (p *PlaylistCreator) CreatePlaylist(series string, episodes []*model.Episode) string {
	switch p.format {
	case FormatM3U:
		return p.createM3U(episodes)
	case FormatPLS:
		return p.createPLS(episodes)
	case FormatWPL:
		return p.createWPL(series, episodes)
	case FormatZPL:
		return p.createZPL(series, episodes)
	default:
		return p.createM3U(episodes)
	}
}

// createM3U generates an M3U playlist.
//
// Standard M3U format:
//
//	filename1.mp3
//	filename2.mp3
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:-1,Episode Title
//	filename1.mp3
func (p *PlaylistCreator) createM3U(episodes []*model.Episode) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, episode := range episodes {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s\n", episode.Title))
		}
		sb.WriteString(filepath.Base(episode.Path) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
// PLS format is an INI-style text file:
//
//	[playlist]
//	File1=filename1.mp3
//	Title1=Episode Title
//	Length1=-1
//	NumberOfEntries=2
//	Version=2
func (p *PlaylistCreator) createPLS(episodes []*model.Episode) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, episode := range episodes {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, filepath.Base(episode.Path)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, episode.Title))
		sb.WriteString(fmt.Sprintf("Length%d=-1\n", idx))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(episodes)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// createWPL generates a Windows Media Player playlist.
//
// WPL is an XML-based SMIL format used by Windows Media Player.
func (p *PlaylistCreator) createWPL(series string, episodes []*model.Episode) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(series)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, episode := range episodes {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\"/>\n", escapeXML(filepath.Base(episode.Path))))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// createZPL generates a Zune/Groove Music playlist.
//
// ZPL is similar to WPL but includes additional metadata attributes
// like the album (series) and track titles.
func (p *PlaylistCreator) createZPL(series string, episodes []*model.Episode) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(series)))
	sb.WriteString("    <meta name=\"Generator\" content=\"MagnusDownloader\"/>\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(episodes)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, episode := range episodes {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\" albumTitle=\"%s\" trackTitle=\"%s\"/>\n",
			escapeXML(filepath.Base(episode.Path)),
			escapeXML(series),
			escapeXML(episode.Title)))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// escapeXML escapes the five XML special characters so episode titles
// cannot break the WPL/ZPL markup.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
