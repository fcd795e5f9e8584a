// Package audio provides audio file manipulation services including
// ID3 tag writing and playlist generation.
//
// # ID3 Tagging
//
// Two Tagger implementations write track metadata to downloaded MP3s.
// NativeTagger edits ID3 frames in process:
//
//	tagger := audio.NewNativeTagger(audio.DefaultTagConfig())
//	err := tagger.Tag(ctx, episode, artworkBytes)
//
// CommandTagger invokes the id3v2 command-line tool, passing episode
// data as separate argv elements (never through a shell):
//
//	tagger := audio.NewCommandTagger("id3v2", audio.DefaultTagConfig())
//	err := tagger.Tag(ctx, episode, nil)
//
// Both taggers support:
//   - Track Number (from the parsed episode number)
//   - Track Title
//   - Album (series name), Year
//
// Only NativeTagger can embed cover art.
//
// # Playlist Generation
//
// Generate per-series playlists in various formats:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist("MAG", episodes)
//	fsutil.WriteFile("Downloads/MAG.m3u", []byte(content))
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
