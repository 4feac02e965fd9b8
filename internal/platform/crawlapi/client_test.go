package crawlapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCrawl(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/crawl", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req CrawlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://a.com", req.URL)

		_ = json.NewEncoder(w).Encode(CrawlResult{
			Success: true,
			URL:     req.URL,
			Links: LinkCollection{
				Internal: []Link{{Href: "https://a.com/x", Text: "X"}},
				External: []Link{{Href: "https://b.com/y", Text: "Y"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	res, err := c.Crawl(context.Background(), CrawlRequest{URL: "https://a.com"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Links.Internal, 1)
	require.Len(t, res.Links.External, 1)
	assert.Equal(t, "https://a.com/x", res.Links.Internal[0].Href)
}

func TestClientCrawlEngineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine on fire", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	_, err := c.Crawl(context.Background(), CrawlRequest{URL: "https://a.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine returned 500")
}

func TestClientCrawlFailedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(CrawlResult{Success: false, Error: "page unreachable"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	res, err := c.Crawl(context.Background(), CrawlRequest{URL: "https://a.com"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "page unreachable", res.Error)
}

func TestClientCrawlHTMLFallback(t *testing.T) {
	page := `<html><body>
		<a href="/about" title="About us">About</a>
		<a href="https://a.com/blog/">Blog</a>
		<a href="https://other.com/x">Elsewhere</a>
		<a href="#top">Top</a>
		<a href="javascript:void(0)">Noop</a>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(CrawlResult{Success: true, URL: "https://a.com/page", HTML: page})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	res, err := c.Crawl(context.Background(), CrawlRequest{URL: "https://a.com/page"})
	require.NoError(t, err)

	require.Len(t, res.Links.Internal, 2)
	assert.Equal(t, "https://a.com/about", res.Links.Internal[0].Href)
	assert.Equal(t, "About", res.Links.Internal[0].Text)
	assert.Equal(t, "About us", res.Links.Internal[0].Title)
	assert.Equal(t, "https://a.com/blog/", res.Links.Internal[1].Href)

	require.Len(t, res.Links.External, 1)
	assert.Equal(t, "https://other.com/x", res.Links.External[0].Href)
}

func TestClientHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	assert.NoError(t, c.Health(context.Background()))

	srv.Close()
	assert.Error(t, c.Health(context.Background()))
}

func TestSameSite(t *testing.T) {
	assert.True(t, sameSite("a.com", "a.com"))
	assert.True(t, sameSite("www.a.com", "a.com"))
	assert.False(t, sameSite("sub.a.com", "a.com"))
	assert.False(t, sameSite("b.com", "a.com"))
}
