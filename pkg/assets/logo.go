// Package assets fetches the report branding image. The fetch is
// best-effort: a report never fails because the logo host is down.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	cacheKey     = "report-logo"
	cacheTTL     = 1 * time.Hour
	fetchTimeout = 5 * time.Second
	maxLogoBytes = 2 << 20
)

// Logo is a fetched branding image ready for embedding.
type Logo struct {
	Data []byte
	// Format is the image type as the PDF writer expects it: "PNG" or "JPG".
	Format string
}

// Fetcher retrieves and caches the remote logo asset.
type Fetcher interface {
	Fetch(ctx context.Context) (*Logo, error)
}

type httpFetcher struct {
	url    string
	client *http.Client
	cache  *gocache.Cache
}

func NewHTTPFetcher(url string) Fetcher {
	return &httpFetcher{
		url:    url,
		client: &http.Client{Timeout: fetchTimeout},
		cache:  gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func (f *httpFetcher) Fetch(ctx context.Context) (*Logo, error) {
	if f.url == "" {
		return nil, fmt.Errorf("no logo URL configured")
	}

	if cached, ok := f.cache.Get(cacheKey); ok {
		return cached.(*Logo), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build logo request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("logo fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read logo body: %w", err)
	}

	format, err := imageFormat(resp.Header.Get("Content-Type"), data)
	if err != nil {
		return nil, err
	}

	logo := &Logo{Data: data, Format: format}
	f.cache.Set(cacheKey, logo, gocache.DefaultExpiration)
	return logo, nil
}

func imageFormat(contentType string, data []byte) (string, error) {
	switch {
	case strings.Contains(contentType, "png"):
		return "PNG", nil
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return "JPG", nil
	}
	// Sniff when the content type is missing or generic.
	if len(data) >= 8 && string(data[1:4]) == "PNG" {
		return "PNG", nil
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return "JPG", nil
	}
	return "", fmt.Errorf("unsupported logo content type %q", contentType)
}
