package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultMaxDownloadBytes caps fetched image payloads. Generated images are
// single frames; anything past this is a misbehaving remote.
const DefaultMaxDownloadBytes = 32 << 20

const defaultDownloadTimeout = 45 * time.Second

// Downloader fetches image bytes from ephemeral URLs over HTTP.
type Downloader struct {
	httpClient *http.Client
	maxBytes   int64
}

// NewDownloader builds a Downloader. A nil client gets a default with a
// fixed timeout; a non-positive cap gets DefaultMaxDownloadBytes.
func NewDownloader(client *http.Client, maxBytes int64) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: defaultDownloadTimeout}
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDownloadBytes
	}
	return &Downloader{httpClient: client, maxBytes: maxBytes}
}

// Download performs a single GET and returns the body bytes and the
// response content type. Transport failures, non-2xx statuses and oversized
// payloads each fail with a descriptive error; nothing is written to disk.
func (d *Downloader) Download(ctx context.Context, rawURL string) ([]byte, string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, "", fmt.Errorf("download: invalid image url %q", rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("download: build request: %w", err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download: fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("download: unexpected status %d fetching image", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("download: read image: %w", err)
	}
	if int64(len(data)) > d.maxBytes {
		return nil, "", fmt.Errorf("download: image exceeds %d byte limit", d.maxBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
