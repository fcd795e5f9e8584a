package audio

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/bogem/id3v2"

	"github.com/CHollingworth/magnus-downloader/internal/model"
)

func createTestFile(t *testing.T, name string) (*model.Episode, string) {
	t.Helper()

	dir := t.TempDir()
	naming := &model.NamingConfig{
		DownloadsPath:  dir,
		FileNameFormat: "{title}.mp3",
	}
	published := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	episode := model.NewEpisode("MAG", name, "https://cdn.example.com/7.mp3", 7, published, 1000, naming)

	if err := os.WriteFile(episode.Path, []byte("fake mp3 payload"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return episode, episode.Path
}

func TestNativeTagger_Tag(t *testing.T) {
	episode, path := createTestFile(t, "MAG 7")

	tagger := NewNativeTagger(nil)
	if err := tagger.Tag(context.Background(), episode, nil); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer tag.Close()

	if got := tag.Title(); got != "MAG 7" {
		t.Errorf("Title() = %q, want %q", got, "MAG 7")
	}
	if got := tag.Album(); got != "MAG" {
		t.Errorf("Album() = %q, want %q", got, "MAG")
	}
	if got := tag.GetTextFrame("TRCK").Text; got != "7" {
		t.Errorf("TRCK = %q, want %q", got, "7")
	}
	if got := tag.GetTextFrame("TYER").Text; got != "2023" {
		t.Errorf("TYER = %q, want %q", got, "2023")
	}
}

func TestNativeTagger_TagArtwork(t *testing.T) {
	episode, path := createTestFile(t, "MAG 7")
	artwork := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

	tagger := NewNativeTagger(nil)
	if err := tagger.Tag(context.Background(), episode, artwork); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer tag.Close()

	frames := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(frames) != 1 {
		t.Fatalf("attached pictures = %d, want 1", len(frames))
	}
	pic, ok := frames[0].(id3v2.PictureFrame)
	if !ok {
		t.Fatalf("frame type = %T, want id3v2.PictureFrame", frames[0])
	}
	if pic.MimeType != "image/jpeg" {
		t.Errorf("MimeType = %q, want %q", pic.MimeType, "image/jpeg")
	}
	if len(pic.Picture) != len(artwork) {
		t.Errorf("Picture length = %d, want %d", len(pic.Picture), len(artwork))
	}
}

func TestNativeTagger_TagEmptyActions(t *testing.T) {
	episode, path := createTestFile(t, "MAG 7")

	// Write tags first, then clear them.
	if err := NewNativeTagger(nil).Tag(context.Background(), episode, nil); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}

	clearing := &TagConfig{
		ModifyTags:  true,
		TrackNumber: TagEmpty,
		TrackTitle:  TagEmpty,
		Album:       TagDoNotModify,
		Year:        TagEmpty,
		Date:        TagDoNotModify,
	}
	if err := NewNativeTagger(clearing).Tag(context.Background(), episode, nil); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer tag.Close()

	if got := tag.Title(); got != "" {
		t.Errorf("Title() = %q, want empty", got)
	}
	if got := tag.GetTextFrame("TRCK").Text; got != "" {
		t.Errorf("TRCK = %q, want empty", got)
	}
	// Album was left alone.
	if got := tag.Album(); got != "MAG" {
		t.Errorf("Album() = %q, want %q", got, "MAG")
	}
}

func TestNativeTagger_TagMissingFile(t *testing.T) {
	naming := &model.NamingConfig{
		DownloadsPath:  t.TempDir(),
		FileNameFormat: "{title}.mp3",
	}
	episode := model.NewEpisode("MAG", "MAG 404", "https://cdn.example.com/404.mp3", 404, time.Time{}, 0, naming)

	tagger := NewNativeTagger(nil)
	if err := tagger.Tag(context.Background(), episode, nil); err == nil {
		t.Error("Tag() expected error for missing file")
	}
}
