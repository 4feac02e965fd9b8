package crawlapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"linksift/internal/logger"

	"github.com/PuerkitoBio/goquery"
)

// Client talks to the remote crawl engine. The engine owns all fetching,
// rendering and robots handling; this client only submits requests and
// decodes responses.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     logger.New("CrawlClient"),
	}
}

// Crawl fetches the link inventory for a single page.
func (c *Client) Crawl(ctx context.Context, req CrawlRequest) (*CrawlResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal crawl request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/crawl", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build crawl request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("crawl request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("engine returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var result CrawlResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode crawl response: %w", err)
	}

	// Some engine configurations return rendered HTML without an
	// extracted inventory. Recover the anchors locally in that case.
	if result.Success && len(result.Links.Internal) == 0 && len(result.Links.External) == 0 && result.HTML != "" {
		pageURL := result.URL
		if pageURL == "" {
			pageURL = req.URL
		}
		if col, err := extractAnchors(pageURL, result.HTML); err == nil {
			c.log.LogDebugf("engine returned no inventory for %s, extracted %d/%d anchors from html",
				pageURL, len(col.Internal), len(col.External))
			result.Links = col
		} else {
			c.log.LogWarnf("anchor extraction fallback failed for %s: %v", pageURL, err)
		}
	}

	return &result, nil
}

// Health probes the engine's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("engine unreachable: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("engine health returned %d", resp.StatusCode)
	}
	return nil
}

// extractAnchors pulls a[href] elements out of a rendered page and
// partitions them by host the same way the engine would have.
func extractAnchors(pageURL, html string) (LinkCollection, error) {
	var col LinkCollection
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return col, fmt.Errorf("unusable page url %q", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return col, err
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		link := Link{
			Href: href,
			Text: strings.TrimSpace(sel.Text()),
		}
		if title, ok := sel.Attr("title"); ok {
			link.Title = strings.TrimSpace(title)
		}
		if abs, err := base.Parse(href); err == nil {
			link.Href = abs.String()
			if sameSite(abs.Hostname(), base.Hostname()) {
				col.Internal = append(col.Internal, link)
			} else {
				col.External = append(col.External, link)
			}
			return
		}
		// Unresolvable hrefs stay internal: they came from this page and
		// cannot point off-site.
		col.Internal = append(col.Internal, link)
	})

	return col, nil
}

func sameSite(a, b string) bool {
	a = strings.TrimPrefix(strings.ToLower(a), "www.")
	b = strings.TrimPrefix(strings.ToLower(b), "www.")
	return a == b
}
