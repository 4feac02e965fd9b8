package crawlapi

// Link is one hyperlink reported by the crawl engine. Href is passed
// through as found on the page, so it may be relative or malformed.
type Link struct {
	Href  string `json:"href"`
	Text  string `json:"text,omitempty"`
	Title string `json:"title,omitempty"`
}

// LinkCollection is the engine's partition of a page's links into
// same-site (internal) and off-site (external). The partition is decided
// at crawl time; nothing downstream recomputes it.
type LinkCollection struct {
	Internal []Link `json:"internal"`
	External []Link `json:"external"`
}

// CrawlRequest is the payload sent to the engine's crawl endpoint.
type CrawlRequest struct {
	URL       string `json:"url"`
	RenderJS  bool   `json:"render_js,omitempty"`
	Fresh     bool   `json:"fresh,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// CrawlResult is the engine's response for a single page. When the engine
// could not produce a link inventory it may still return the rendered
// HTML, which the client falls back to for anchor extraction.
type CrawlResult struct {
	Success bool           `json:"success"`
	URL     string         `json:"url,omitempty"`
	Error   string         `json:"error,omitempty"`
	Links   LinkCollection `json:"links"`
	HTML    string         `json:"html,omitempty"`
}
