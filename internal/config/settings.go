package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CHollingworth/magnus-downloader/internal/fsutil"
	"github.com/CHollingworth/magnus-downloader/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Feed settings
	FeedURL string         `json:"feed_url"`
	Series  []model.Series `json:"series"`

	// Download settings
	DownloadsPath             string  `json:"downloads_path"`
	FileNameFormat            string  `json:"file_name_format"`
	SkipExisting              bool    `json:"skip_existing"`
	AllowedFileSizeDifference float64 `json:"allowed_file_size_difference"`
	MeasureSizes              bool    `json:"measure_sizes"`
	RequestTimeoutSeconds     int     `json:"request_timeout_seconds"`

	// Tag settings
	Tagger     string `json:"tagger"` // id3v2, native
	ID3v2Path  string `json:"id3v2_path"`
	ModifyTags bool   `json:"modify_tags"`

	// Cover art settings
	EmbedCoverArt        bool `json:"embed_cover_art"`
	SaveCoverArtInFolder bool `json:"save_cover_art_in_folder"`
	CoverArtMaxSize      int  `json:"cover_art_max_size"`
	ConvertCoverArtToJPG bool `json:"convert_cover_art_to_jpg"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist"`
	PlaylistFormat string `json:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `json:"m3u_extended"`

	// Feed export
	ExportFeed bool `json:"export_feed"`

	// Debug log settings
	LogsWrite bool   `json:"logs_write"`
	LogsLevel string `json:"logs_level"`
	LogsJSON  bool   `json:"logs_json"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Series: []model.Series{
			{Name: "MAG", Pattern: `MAG (\d+)`},
			{Name: "The Magnus Protocol", Pattern: `The Magnus Protocol (\d+)`},
		},

		DownloadsPath:             "Downloads",
		FileNameFormat:            "{title}.mp3",
		SkipExisting:              false,
		AllowedFileSizeDifference: 0.05,
		MeasureSizes:              false,
		RequestTimeoutSeconds:     0,

		Tagger:     "id3v2",
		ID3v2Path:  "id3v2",
		ModifyTags: true,

		EmbedCoverArt:        false,
		SaveCoverArtInFolder: false,
		CoverArtMaxSize:      1000,
		ConvertCoverArtToJPG: true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		ExportFeed: false,

		LogsWrite: false,
		LogsLevel: "info",
		LogsJSON:  false,
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error: defaults are returned so the tool
// works without any configuration. Fields absent from the file keep
// their default values.
func Load(path string) (*Settings, error) {
	data, err := fsutil.API().ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file, creating parent directories as
// needed.
func (s *Settings) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fsutil.EnsureDir(dir); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return fsutil.WriteFile(path, data)
}

// Validate checks the settings for problems that would only surface
// mid-run, so they fail before any network call instead.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.DownloadsPath) == "" {
		return errors.New("downloads_path must not be empty")
	}
	if strings.TrimSpace(s.FileNameFormat) == "" {
		return errors.New("file_name_format must not be empty")
	}
	if len(s.Series) == 0 {
		return errors.New("at least one series must be configured")
	}
	if _, err := s.Matchers(); err != nil {
		return err
	}

	switch s.Tagger {
	case "id3v2", "native":
	default:
		return fmt.Errorf("unknown tagger %q (expected \"id3v2\" or \"native\")", s.Tagger)
	}

	return nil
}

// Matchers compiles the configured series patterns.
//
// Returns an error naming the offending series when a pattern does not
// compile or its capture group is out of range.
func (s *Settings) Matchers() ([]*model.SeriesMatcher, error) {
	matchers := make([]*model.SeriesMatcher, 0, len(s.Series))
	for _, series := range s.Series {
		m, err := series.Matcher()
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

// ToNamingConfig converts settings to the model's NamingConfig.
func (s *Settings) ToNamingConfig() *model.NamingConfig {
	return &model.NamingConfig{
		DownloadsPath:  s.DownloadsPath,
		FileNameFormat: s.FileNameFormat,
	}
}

// Timeout returns the configured HTTP request timeout.
//
// Zero means no timeout.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}
