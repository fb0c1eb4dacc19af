// ABOUTME: HTTP fetcher for the raw source document
// ABOUTME: One GET with a timeout; anything but a 200 with a body is fatal
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harper/askdoc/internal/models"
)

// ErrUnreachable wraps every fetch failure so the pipeline can classify it.
var ErrUnreachable = errors.New("source unreachable")

// HTTPFetcher retrieves a source document over HTTP.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with the given total request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads the document at uri.
func (f *HTTPFetcher) Fetch(ctx context.Context, uri string) (models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Document{}, fmt.Errorf("%w: unexpected status %d from %s", ErrUnreachable, resp.StatusCode, uri)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: reading body: %v", ErrUnreachable, err)
	}
	if len(body) == 0 {
		return models.Document{}, fmt.Errorf("%w: empty document at %s", ErrUnreachable, uri)
	}

	return models.Document{URI: uri, Text: string(body)}, nil
}
