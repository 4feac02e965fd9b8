package links

import (
	"net/url"
	"strings"
)

// CanonicalKey reduces an href to the string used for duplicate identity:
// scheme://host/path with a single trailing slash removed (the root path
// keeps its slash), plus the original query verbatim, all lower-cased.
//
// Hrefs that do not parse as absolute URLs fall back to the raw string
// lower-cased. Malformed hrefs may therefore collide (or fail to collide)
// unpredictably; that behavior is inherited and accepted.
func CanonicalKey(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.ToLower(href)
	}
	path := u.Path
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	key := u.Scheme + "://" + u.Host + path
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return strings.ToLower(key)
}
