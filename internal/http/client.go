package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/CHollingworth/magnus-downloader/internal/fsutil"
)

// ErrTransport marks any network-layer failure: DNS, connection, TLS,
// or a non-2xx response. Callers match it with errors.Is; whether it is
// fatal depends on the call site (the initial feed fetch is, per-episode
// downloads are not).
var ErrTransport = errors.New("transport failure")

// Client wraps HTTP operations for feed and episode retrieval.
//
// Client provides:
//   - A configured User-Agent header
//   - Optional request timeout (zero means none)
//   - Streamed file downloads with progress tracking
//   - File size retrieval via HEAD requests
//
// Example usage:
//
//	client := NewClient(0)
//
//	// Fetch the feed document
//	xml, err := client.GetString(ctx, feedURL)
//
//	// Download an enclosure with progress
//	err = client.DownloadFile(ctx, mp3URL, "Downloads/MAG 7.mp3", func(written, total int64) {
//	    percent := float64(written) / float64(total) * 100
//	    fmt.Printf("%.1f%%\n", percent)
//	})
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// A timeout of zero disables the client-side deadline entirely; requests
// then block until they complete, fail, or their context is cancelled.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "MagnusDownloader",
	}
}

// ProgressWriter counts the bytes flowing through an io.Writer and
// reports the running total after every write, which is what drives the
// byte counters during an episode download.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer receives the actual data.
	Writer io.Writer

	// Total is the expected byte count, usually taken from the
	// Content-Length header. It is passed through to OnUpdate and may
	// be -1 when the server did not declare a length.
	Total int64

	// Written accumulates the bytes written so far.
	Written int64

	// OnUpdate, when non-nil, is called after each write with
	// (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// The request includes the configured User-Agent header. Any failure,
// including a non-2xx status, is wrapped with ErrTransport.
//
// Example:
//
//	data, err := client.Get(ctx, "https://example.com/cover.jpg")
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrTransport, url, err)
	}
	return body, nil
}

// GetString performs a GET request and returns the response body as a string.
//
// This is a convenience wrapper around Get for fetching text content
// like the feed XML.
//
// Example:
//
//	xml, err := client.GetString(ctx, feedURL)
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetFileSize asks the server for an enclosure's size with a HEAD
// request, without transferring the body. The size-measuring pre-scan
// and the skip-existing comparison both rely on it.
//
// Returns an error if the request fails or the server doesn't send a
// Content-Length header.
func (c *Client) GetFileSize(ctx context.Context, url string) (int64, error) {
	resp, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}

	return resp.ContentLength, nil
}

// DownloadFile streams the content at url into a file at destPath,
// creating or truncating it, so an episode never has to fit in memory.
// A non-nil onProgress is invoked after every chunk with
// (bytesWritten, totalBytes).
//
// A failed file creation is wrapped with fsutil.ErrFileIO; network
// failures, including mid-stream disconnects, are wrapped with
// ErrTransport.
//
// Example:
//
//	err := client.DownloadFile(ctx, mp3URL, "Downloads/MAG 7.mp3", func(written, total int64) {
//	    if total > 0 {
//	        fmt.Printf("%.1f%%\r", float64(written)/float64(total)*100)
//	    }
//	})
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	file, err := fsutil.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return fmt.Errorf("%w: downloading %s: %v", ErrTransport, url, err)
	}
	return nil
}

// do issues a request and verifies the response status is in the 2xx range.
func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrTransport, resp.StatusCode, resp.Status)
	}

	return resp, nil
}
