package links

import (
	"regexp"
	"strings"
)

// CompilePatterns turns a comma-separated wildcard spec into matchers.
// `*` matches any run of characters, everything else is literal. Matching
// is case-insensitive and unanchored, so a pattern only has to occur
// somewhere inside the href. Because every non-`*` character is escaped
// first, arbitrary user input cannot produce a compile error.
func CompilePatterns(spec string) []*regexp.Regexp {
	parts := strings.Split(spec, ",")
	out := make([]*regexp.Regexp, 0, len(parts))
	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		expr := "(?i)" + strings.ReplaceAll(regexp.QuoteMeta(p), `\*`, ".*")
		re, err := regexp.Compile(expr)
		if err != nil {
			continue
		}
		out = append(out, re)
	}
	return out
}

func matchesAny(href string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(href) {
			return true
		}
	}
	return false
}
