package app

import (
	"net/url"
	"strings"
)

// originAllowed reports whether a browser origin matches one of the
// configured patterns. Patterns are compared against the origin's
// "host[:port]" and may be exact ("notes.example.com:8443"), a subdomain
// wildcard ("*.example.com"), or a port wildcard ("localhost:*").
func originAllowed(patterns []string, origin string) bool {
	host := origin
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.ToLower(host)

	for _, p := range patterns {
		p = strings.ToLower(p)
		switch {
		case p == host:
			return true
		case strings.HasPrefix(p, "*.") && strings.HasSuffix(host, p[1:]):
			return true
		case strings.HasSuffix(p, ":*") && strings.HasPrefix(host, p[:len(p)-1]):
			return true
		}
	}
	return false
}
