package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// maxAudioBytes caps a single download; sound clips are short.
	maxAudioBytes = 25 << 20
)

// DownloadError reports a failed audio download. Status is zero when the
// request never reached the server.
type DownloadError struct {
	URL    string
	Status int
	Err    error
}

func (e *DownloadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("download of %s failed with status code %d", e.URL, e.Status)
	}
	return fmt.Sprintf("download of %s failed: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Downloader retrieves raw audio bytes over HTTP. Requests are rate limited
// so a burst of play commands cannot hammer the remote host.
type Downloader struct {
	client  *http.Client
	limiter *rate.Limiter
}

func New() *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

// Download fetches the audio at sourceURL and returns its bytes.
// All failures are reported as *DownloadError.
func (d *Downloader) Download(ctx context.Context, sourceURL string) ([]byte, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, &DownloadError{URL: sourceURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, &DownloadError{URL: sourceURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &DownloadError{URL: sourceURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DownloadError{URL: sourceURL, Status: resp.StatusCode}
	}

	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/html") {
		return nil, &DownloadError{URL: sourceURL, Err: fmt.Errorf("unexpected content type %q", ct)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes+1))
	if err != nil {
		return nil, &DownloadError{URL: sourceURL, Err: err}
	}
	if len(data) > maxAudioBytes {
		return nil, &DownloadError{URL: sourceURL, Err: fmt.Errorf("audio exceeds %d bytes", maxAudioBytes)}
	}

	return data, nil
}
