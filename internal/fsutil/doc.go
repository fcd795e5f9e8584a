// Package fsutil provides filesystem access and image processing utilities.
//
// All file operations go through a swappable afero backend, so tests can
// run against an in-memory filesystem:
//
//	fsutil.SetMemMapFs()
//	defer fsutil.SetOsFs()
//
// # File Operations
//
//	// Ensure the downloads directory exists
//	err := fsutil.EnsureDir("Downloads")
//
//	// Write data to a file
//	err := fsutil.WriteFile("Downloads/MAG.m3u", []byte(content))
//
//	// Open a destination file for a streamed download
//	f, err := fsutil.Create("Downloads/MAG 7.mp3")
//
// Create and write failures are wrapped with ErrFileIO, letting callers
// separate disk trouble from network trouble with errors.Is.
//
// # Artwork Processing
//
// The ArtworkService prepares channel artwork for tag embedding:
//
//	svc := fsutil.NewArtworkService()
//
//	// Bound the longer side to 1000 pixels
//	scaled, _ := svc.Fit(ctx, artworkData, 1000)
//
//	// Re-encode as JPEG
//	jpg, _ := svc.ToJPEG(ctx, pngData)
package fsutil
