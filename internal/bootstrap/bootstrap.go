// Package bootstrap installs the extension manager before any extension
// can load.
//
// This is the one step that is not best-effort: without the manager no
// extension can register, so a failed fetch aborts startup. The fetch
// happens at most once per process, only when the local path is missing,
// and the install is atomic so a torn download never shadows the real
// manager.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

// Bootstrap errors.
var (
	// ErrFetchFailed is returned when the manager cannot be retrieved.
	ErrFetchFailed = errors.New("bootstrap: manager fetch failed")

	// ErrEmptyURL is returned when no release URL is configured.
	ErrEmptyURL = errors.New("bootstrap: manager URL is empty")
)

// maxManagerSize caps the download to catch a misconfigured URL serving
// something that is clearly not the manager.
const maxManagerSize = 8 << 20

// Installer ensures the extension manager is present locally.
type Installer struct {
	log    zerolog.Logger
	client *http.Client
}

// Option configures an Installer.
type Option func(*Installer)

// WithHTTPClient overrides the HTTP client used for the fetch.
func WithHTTPClient(c *http.Client) Option {
	return func(i *Installer) {
		i.client = c
	}
}

// NewInstaller creates an installer.
func NewInstaller(log zerolog.Logger, opts ...Option) *Installer {
	i := &Installer{
		log:    log.With().Str("component", "bootstrap").Logger(),
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Ensure makes the manager available at path, fetching it from url when
// absent. It reports whether a fetch was performed.
func (i *Installer) Ensure(ctx context.Context, path, url string) (fetched bool, err error) {
	if _, err := os.Stat(path); err == nil {
		i.log.Debug().Str("path", path).Msg("extension manager present, skipping fetch")
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking manager path %s: %w", path, err)
	}

	if url == "" {
		return false, ErrEmptyURL
	}

	i.log.Info().Str("url", url).Str("path", path).Msg("fetching extension manager")

	data, err := i.fetch(ctx, url)
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating manager directory: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("installing manager: %w", err)
	}

	i.log.Info().Int("bytes", len(data)).Msg("extension manager installed")
	return true, nil
}

// fetch retrieves the manager from the pinned release URL.
func (i *Installer) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrFetchFailed, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManagerSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrFetchFailed, err)
	}
	if len(data) > maxManagerSize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrFetchFailed, maxManagerSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrFetchFailed)
	}

	return data, nil
}
