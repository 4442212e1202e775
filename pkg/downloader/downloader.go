// Package downloader fetches remote source files into memory.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const LocalPrefix = "file://"

// HTTPFetcher downloads a whole file into a byte buffer via an
// authenticated GET. file:// URLs are read from the local filesystem,
// which is how the one-shot CLI path feeds the pipeline.
type HTTPFetcher struct {
	// Timeout bounds the whole fetch. Zero means no client timeout.
	Timeout time.Duration
}

// Fetch retrieves url into memory. A non-empty credential is sent as a
// bearer token. Any non-2xx response is an error.
func (d *HTTPFetcher) Fetch(ctx context.Context, url, credential string) ([]byte, error) {
	if strings.HasPrefix(url, LocalPrefix) {
		return os.ReadFile(strings.TrimPrefix(url, LocalPrefix))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if credential != "" {
		req.Header.Add("Authorization", "Bearer "+credential)
	}

	client := &http.Client{Timeout: d.Timeout}
	response, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d fetching file", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("bytes", len(body)).Msg("source file downloaded")
	return body, nil
}
