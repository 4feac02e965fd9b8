package links

import (
	"net/url"
	"regexp"
	"strings"

	"linksift/internal/platform/crawlapi"
)

// Domains treated as social media when the social block is active. A host
// is blocked when it equals one of these or is a subdomain of one.
var socialMediaDomains = []string{
	"facebook.com",
	"twitter.com",
	"x.com",
	"instagram.com",
	"linkedin.com",
	"tiktok.com",
	"pinterest.com",
	"reddit.com",
	"snapchat.com",
	"youtube.com",
	"whatsapp.com",
	"telegram.org",
	"threads.net",
}

// CriteriaConfig is the raw, user-facing filter configuration. Pattern
// and extension fields are comma-separated strings as entered in a form.
type CriteriaConfig struct {
	IncludePatterns    string
	ExcludePatterns    string
	ExcludeFileTypes   string
	ExcludeSocialMedia bool
	RequireText        bool

	// Deployment-wide additions, usually from the filters file.
	ExtraSocialDomains []string
	ExtraBlockedExts   []string
}

// Criteria is the compiled predicate set applied to each link. Build one
// per request with NewCriteria; the zero value accepts everything.
type Criteria struct {
	include     []*regexp.Regexp
	exclude     []*regexp.Regexp
	blockedExts []string
	blockSocial bool
	requireText bool
	extraSocial []string
}

func NewCriteria(cfg CriteriaConfig) Criteria {
	exts := normalizeExts(cfg.ExcludeFileTypes)
	for _, e := range cfg.ExtraBlockedExts {
		exts = append(exts, normalizeExt(e))
	}
	extra := make([]string, 0, len(cfg.ExtraSocialDomains))
	for _, d := range cfg.ExtraSocialDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			extra = append(extra, d)
		}
	}
	return Criteria{
		include:     CompilePatterns(cfg.IncludePatterns),
		exclude:     CompilePatterns(cfg.ExcludePatterns),
		blockedExts: exts,
		blockSocial: cfg.ExcludeSocialMedia,
		requireText: cfg.RequireText,
		extraSocial: extra,
	}
}

// Accepts reports whether a link survives every active predicate. Checks
// short-circuit on the first rejection; the order only affects cost, not
// the result set. Classification never errors: hrefs that cannot be
// parsed simply fail to match host-based checks.
func (c Criteria) Accepts(l crawlapi.Link) bool {
	if len(c.include) > 0 && !matchesAny(l.Href, c.include) {
		return false
	}
	if matchesAny(l.Href, c.exclude) {
		return false
	}
	lower := strings.ToLower(l.Href)
	for _, ext := range c.blockedExts {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	if c.blockSocial && c.isSocial(l.Href) {
		return false
	}
	if c.requireText && strings.TrimSpace(l.Text) == "" {
		return false
	}
	return true
}

// isSocial checks the href's host against the blocked domain sets. Hrefs
// without a parseable host cannot be classified and pass this check.
func (c Criteria) isSocial(href string) bool {
	u, err := url.Parse(href)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, dom := range socialMediaDomains {
		if hostWithin(host, dom) {
			return true
		}
	}
	for _, dom := range c.extraSocial {
		if hostWithin(host, dom) {
			return true
		}
	}
	return false
}

func hostWithin(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func normalizeExts(spec string) []string {
	var out []string
	for _, part := range strings.Split(spec, ",") {
		if e := normalizeExt(part); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func normalizeExt(raw string) string {
	e := strings.ToLower(strings.TrimSpace(raw))
	if e == "" {
		return ""
	}
	if !strings.HasPrefix(e, ".") {
		e = "." + e
	}
	return e
}
