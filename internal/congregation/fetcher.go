package congregation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-gabbai/internal/config"
)

// Fetcher downloads an address book.
// The Importer depends on this contract so tests can serve vCards from memory.
type Fetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher reads vCards from a CardDAV or WebDAV export URL over net/http.
// Client is exported so callers can swap the transport or the timeout.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher with the default network timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: config.HTTPTimeout}}
}

// Fetch opens the address book at targetURL with optional basic auth.
//
// Only http and https URLs are accepted. The URL is logged without its query
// string, since export links often carry an access token there. The returned
// body is capped at config.MaxHTTPResponseSize; the caller must close it.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	// 1. Validate the URL and restrict the scheme.
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	// Query strings may carry tokens; keep them out of the logs.
	log := slog.With(
		config.LogKeyComponent, config.CompFetcher,
		config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path,
	)

	// 2. Build the request. The context cancels the download on shutdown.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	// 3. Download. Any status other than 200 is an error and frees the body.
	log.Debug("Downloading address book")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error during fetch: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn("Address book server returned an error", config.LogKeyStatus, resp.StatusCode)
		return nil, fmt.Errorf("server returned unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	log.Info("Address book downloading", config.LogKeySizeBytes, resp.ContentLength)

	// 4. Hand back a bounded reader that still closes the connection.
	return capped{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

// capped reads through a limit but closes the underlying body, so the
// connection is released even when the limit stops the read early.
type capped struct {
	io.Reader
	io.Closer
}
