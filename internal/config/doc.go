// Package config provides configuration management for magnus-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Series pattern validation and compilation
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ./Downloads
//	// Series: "MAG" and "The Magnus Protocol"
//	// External id3v2 tagging enabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/settings.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.DownloadsPath = "/mnt/podcasts"
//	err := settings.Save("/path/to/settings.json")
//
// # Configuration Options
//
// Settings includes options for:
//   - The feed URL and the series patterns applied to item titles
//   - Download path and file naming
//   - Skipping files that already exist on disk
//   - Tag backend selection (external id3v2 tool or in-process)
//   - Cover art handling
//   - Playlist generation and local feed export
//   - Optional debug logging
package config
