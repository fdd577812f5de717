package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

func TestFetchCachesLogo(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngHeader)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL)

	logo, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PNG", logo.Format)
	assert.Equal(t, pngHeader, logo.Data)

	_, err = f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestFetchSniffsFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	}))
	defer srv.Close()

	logo, err := NewHTTPFetcher(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "JPG", logo.Format)
}

func TestFetchRejectsNonImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>not a logo</html>"))
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(srv.URL).Fetch(context.Background())
	assert.Error(t, err)
}

func TestFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(srv.URL).Fetch(context.Background())
	assert.Error(t, err)
}

func TestFetchNoURLConfigured(t *testing.T) {
	_, err := NewHTTPFetcher("").Fetch(context.Background())
	assert.Error(t, err)
}
