package config

import (
	"strings"
	"testing"
	"time"

	"github.com/CHollingworth/magnus-downloader/internal/fsutil"
	"github.com/CHollingworth/magnus-downloader/internal/model"
)

func useMemFs(t *testing.T) {
	t.Helper()
	fsutil.SetMemMapFs()
	t.Cleanup(fsutil.SetOsFs)
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings.DownloadsPath != "Downloads" {
		t.Errorf("DownloadsPath = %q, want %q", settings.DownloadsPath, "Downloads")
	}
	if settings.FileNameFormat != "{title}.mp3" {
		t.Errorf("FileNameFormat = %q, want %q", settings.FileNameFormat, "{title}.mp3")
	}
	if len(settings.Series) != 2 {
		t.Fatalf("len(Series) = %d, want 2", len(settings.Series))
	}
	if settings.Series[0].Name != "MAG" || settings.Series[0].Pattern != `MAG (\d+)` {
		t.Errorf("Series[0] = %+v, want MAG", settings.Series[0])
	}
	if settings.Tagger != "id3v2" {
		t.Errorf("Tagger = %q, want %q", settings.Tagger, "id3v2")
	}
	if !settings.ModifyTags {
		t.Error("ModifyTags should default to true")
	}
	if settings.SkipExisting {
		t.Error("SkipExisting should default to false")
	}

	if err := settings.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v, want nil", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	useMemFs(t)

	settings, err := Load("missing/settings.json")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.DownloadsPath != "Downloads" {
		t.Errorf("missing file should yield defaults, got DownloadsPath %q", settings.DownloadsPath)
	}
}

func TestLoadPartialFile(t *testing.T) {
	useMemFs(t)

	path := "conf/settings.json"
	partial := `{"downloads_path": "Archive", "skip_existing": true}`
	if err := fsutil.API().WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.DownloadsPath != "Archive" {
		t.Errorf("DownloadsPath = %q, want %q", settings.DownloadsPath, "Archive")
	}
	if !settings.SkipExisting {
		t.Error("SkipExisting should be true")
	}
	// Unset fields keep their defaults.
	if settings.FileNameFormat != "{title}.mp3" {
		t.Errorf("FileNameFormat = %q, want default", settings.FileNameFormat)
	}
	if len(settings.Series) != 2 {
		t.Errorf("len(Series) = %d, want default 2", len(settings.Series))
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	useMemFs(t)

	path := "conf/settings.json"
	if err := fsutil.API().WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for invalid JSON")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	useMemFs(t)

	settings := DefaultSettings()
	settings.FeedURL = "https://www.patreon.com/rss/themagnusarchives?auth=secret"
	settings.DownloadsPath = "Archive"
	settings.SkipExisting = true
	settings.Tagger = "native"
	settings.Series = []model.Series{
		{Name: "MAG", Pattern: `MAG (\d+)`, Group: 1},
	}

	path := "conf/nested/settings.json"
	if err := settings.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.FeedURL != settings.FeedURL {
		t.Errorf("FeedURL = %q, want %q", loaded.FeedURL, settings.FeedURL)
	}
	if loaded.DownloadsPath != "Archive" {
		t.Errorf("DownloadsPath = %q, want %q", loaded.DownloadsPath, "Archive")
	}
	if !loaded.SkipExisting {
		t.Error("SkipExisting should survive the round trip")
	}
	if loaded.Tagger != "native" {
		t.Errorf("Tagger = %q, want %q", loaded.Tagger, "native")
	}
	if len(loaded.Series) != 1 || loaded.Series[0].Name != "MAG" {
		t.Errorf("Series = %+v, want single MAG entry", loaded.Series)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"native tagger", func(s *Settings) { s.Tagger = "native" }, false},
		{"empty downloads path", func(s *Settings) { s.DownloadsPath = "  " }, true},
		{"empty file name format", func(s *Settings) { s.FileNameFormat = "" }, true},
		{"no series", func(s *Settings) { s.Series = nil }, true},
		{"invalid pattern", func(s *Settings) {
			s.Series = []model.Series{{Name: "MAG", Pattern: `MAG ([`}}
		}, true},
		{"group out of range", func(s *Settings) {
			s.Series = []model.Series{{Name: "MAG", Pattern: `MAG (\d+)`, Group: 3}}
		}, true},
		{"unknown tagger", func(s *Settings) { s.Tagger = "eyed3" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.mutate(settings)

			err := settings.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMatchersNamesOffendingSeries(t *testing.T) {
	settings := DefaultSettings()
	settings.Series = append(settings.Series, model.Series{Name: "Broken", Pattern: `([`})

	_, err := settings.Matchers()
	if err == nil {
		t.Fatal("Matchers() expected error for invalid pattern")
	}
	if !strings.Contains(err.Error(), "Broken") {
		t.Errorf("Matchers() error %q should name the offending series", err)
	}
}

func TestTimeout(t *testing.T) {
	settings := DefaultSettings()
	if got := settings.Timeout(); got != 0 {
		t.Errorf("Timeout() = %v, want 0", got)
	}

	settings.RequestTimeoutSeconds = 30
	if got := settings.Timeout(); got != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", got)
	}
}
