// Package http provides the HTTP client used for feed and episode retrieval.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Streamed file downloads with progress tracking
//   - File size retrieval via HEAD requests
//   - Optional request timeouts (disabled by default)
//
// # Basic Usage
//
//	client := http.NewClient(0)
//
//	// Fetch the feed document
//	xml, err := client.GetString(ctx, feedURL)
//
//	// Download an enclosure with progress callback
//	client.DownloadFile(ctx, mp3URL, "Downloads/MAG 7.mp3", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Errors
//
// Every network-layer failure is wrapped with ErrTransport, so callers can
// classify it:
//
//	if errors.Is(err, http.ErrTransport) { ... }
//
// A failed destination file creation during DownloadFile is wrapped with
// fsutil.ErrFileIO instead.
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
