// Package download provides the download orchestration logic for
// fetching podcast episodes from a feed.
//
// # Manager
//
// The Manager coordinates the entire download process:
//
//  1. Fetch the feed document once
//  2. Parse it into per-series episode sets, sorted by episode number
//  3. Download the channel artwork (optional)
//  4. Download each episode's enclosure, one at a time
//  5. Tag MP3 files with the track number and title
//  6. Generate playlists and a local feed export (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	err := manager.Initialize(ctx, "https://www.patreon.com/rss/show?auth=...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = manager.StartDownloads(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Ordering
//
// Downloads are strictly sequential: series run in their configured
// order and episodes within a series in ascending episode number. A
// failed episode is reported and skipped; the run carries on with the
// next one.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Byte and file counters for progress bars are available through
// GetProgress; expected byte totals come from the feed's enclosure
// length attributes, or from HEAD requests when measuring is enabled.
package download
