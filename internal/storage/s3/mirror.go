package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxCoverBytes = 10 << 20

// CoverMirror copies remote cover images into the bucket so reads stop
// depending on a third-party CDN.
type CoverMirror struct {
	client *Client
	http   *http.Client
}

func NewCoverMirror(c *Client) *CoverMirror {
	return &CoverMirror{
		client: c,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Mirror downloads srcURL and stores it under key. Anything that is not an
// image, or larger than maxCoverBytes, is rejected before upload.
func (m *CoverMirror) Mirror(ctx context.Context, key, srcURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return fmt.Errorf("mirror: build request: %w", err)
	}
	resp, err := m.http.Do(req)
	if err != nil {
		return fmt.Errorf("mirror: fetch %s: %w", srcURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mirror: fetch %s: status %d", srcURL, resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("mirror: %s is not an image (%s)", srcURL, ct)
	}

	// Buffer the whole image so the upload carries an exact length.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverBytes+1))
	if err != nil {
		return fmt.Errorf("mirror: read body: %w", err)
	}
	if len(body) > maxCoverBytes {
		return fmt.Errorf("mirror: %s exceeds %d bytes", srcURL, maxCoverBytes)
	}

	return m.client.Put(ctx, key, bytes.NewReader(body), ct, int64(len(body)))
}

// PresignGet exposes the underlying bucket's download URLs.
func (m *CoverMirror) PresignGet(ctx context.Context, key string) (string, error) {
	return m.client.PresignGet(ctx, key)
}
