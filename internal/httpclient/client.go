// Package httpclient wraps the plain HTTP needs of the downloader:
// bounded-timeout GETs for cover art, and a progress-tracking writer
// used while saving media streams to disk.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "youtube-grabber"

// Client performs HTTP requests with a bounded timeout.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client whose requests time out after the given
// duration.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request and returns the response body.
//
// Returns an error if the request fails or the response status is not
// 200 OK. Intended for small payloads like thumbnail images; media
// streams go through the transfer driver instead.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// ProgressWriter wraps a writer and reports cumulative progress after
// every write.
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
//	io.Copy(pw, stream)
type ProgressWriter struct {
	// Writer is the underlying writer.
	Writer io.Writer

	// Total is the expected total bytes, 0 if unknown.
	Total int64

	// Written is the number of bytes written so far.
	Written int64

	// OnUpdate is called after each write with (written, total).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}
