package audio

import (
	"strings"
	"testing"
	"time"

	"github.com/CHollingworth/magnus-downloader/internal/model"
)

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    PlaylistFormat
		wantErr bool
	}{
		{"m3u", FormatM3U, false},
		{"M3U", FormatM3U, false},
		{"pls", FormatPLS, false},
		{"wpl", FormatWPL, false},
		{"zpl", FormatZPL, false},
		{"xspf", FormatM3U, true},
		{"", FormatM3U, true},
	}

	for _, tt := range tests {
		got, err := ParsePlaylistFormat(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePlaylistFormat(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePlaylistFormat(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPlaylistFormat_Ext(t *testing.T) {
	tests := []struct {
		format PlaylistFormat
		want   string
	}{
		{FormatM3U, ".m3u"},
		{FormatPLS, ".pls"},
		{FormatWPL, ".wpl"},
		{FormatZPL, ".zpl"},
	}

	for _, tt := range tests {
		if got := tt.format.Ext(); got != tt.want {
			t.Errorf("Ext() = %q, want %q", got, tt.want)
		}
	}
}

func TestPlaylistCreator_M3U(t *testing.T) {
	episodes := createTestEpisodes()
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.CreatePlaylist("MAG", episodes)

	// Check basic format
	if !strings.Contains(content, "MAG 7.mp3") {
		t.Error("M3U should contain episode filename")
	}
	if strings.Contains(content, "#EXTINF") {
		t.Error("Plain M3U should not contain #EXTINF")
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	episodes := createTestEpisodes()
	creator := NewPlaylistCreator(FormatM3U, true)

	content := creator.CreatePlaylist("MAG", episodes)

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:-1,MAG 7") {
		t.Error("Extended M3U should contain #EXTINF line with episode title")
	}

	// Episodes keep their given order.
	if strings.Index(content, "MAG 7.mp3") > strings.Index(content, "MAG 12.mp3") {
		t.Error("M3U should list episodes in the given order")
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	episodes := createTestEpisodes()
	creator := NewPlaylistCreator(FormatPLS, false)

	content := creator.CreatePlaylist("MAG", episodes)

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File1=MAG 7.mp3") {
		t.Error("PLS should contain File1=")
	}
	if !strings.Contains(content, "Length1=-1") {
		t.Error("PLS should mark lengths as unknown")
	}
	if !strings.Contains(content, "NumberOfEntries=2") {
		t.Error("PLS should contain NumberOfEntries")
	}
}

func TestPlaylistCreator_WPL(t *testing.T) {
	episodes := createTestEpisodes()
	creator := NewPlaylistCreator(FormatWPL, false)

	content := creator.CreatePlaylist("MAG", episodes)

	if !strings.Contains(content, "<?wpl") {
		t.Error("WPL should contain XML declaration")
	}
	if !strings.Contains(content, "<smil>") {
		t.Error("WPL should contain smil element")
	}
	if !strings.Contains(content, "<media src=") {
		t.Error("WPL should contain media elements")
	}
	if !strings.Contains(content, "<title>MAG</title>") {
		t.Error("WPL should use the series name as title")
	}
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	episodes := createTestEpisodes()
	creator := NewPlaylistCreator(FormatZPL, false)

	content := creator.CreatePlaylist("MAG", episodes)

	if !strings.Contains(content, "<?zpl") {
		t.Error("ZPL should contain XML declaration")
	}
	if !strings.Contains(content, "albumTitle=\"MAG\"") {
		t.Error("ZPL should contain albumTitle attribute")
	}
	if !strings.Contains(content, "trackTitle=\"MAG 7\"") {
		t.Error("ZPL should contain trackTitle attribute")
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	naming := &model.NamingConfig{
		DownloadsPath:  "Downloads",
		FileNameFormat: "{title}.mp3",
	}
	episodes := []*model.Episode{
		model.NewEpisode("Q&A", `Q&A 1 "Live"`, "https://example.com/1.mp3", 1, time.Time{}, 0, naming),
	}

	creator := NewPlaylistCreator(FormatWPL, false)
	content := creator.CreatePlaylist("Q&A", episodes)

	if !strings.Contains(content, "Q&amp;A") {
		t.Error("WPL should escape & as &amp;")
	}
	if strings.Contains(content, "<title>Q&A</title>") {
		t.Error("WPL should not emit unescaped ampersands")
	}
}

func createTestEpisodes() []*model.Episode {
	naming := &model.NamingConfig{
		DownloadsPath:  "Downloads",
		FileNameFormat: "{title}.mp3",
	}
	published := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)

	return []*model.Episode{
		model.NewEpisode("MAG", "MAG 7", "https://cdn.example.com/7.mp3", 7, published, 1000, naming),
		model.NewEpisode("MAG", "MAG 12", "https://cdn.example.com/12.mp3", 12, published, 2000, naming),
	}
}
