package storage

import (
	"net/url"
	"strings"
)

// URLRewriter replaces internal network aliases (for example a gateway
// reachable only inside the cluster) with the public origin, so stored and
// returned URLs always resolve for clients.
type URLRewriter struct {
	publicOrigin string
	aliases      []string
}

func NewURLRewriter(publicBaseURL string, aliases []string) *URLRewriter {
	origin := strings.TrimRight(publicBaseURL, "/")
	if u, err := url.Parse(publicBaseURL); err == nil && u.Scheme != "" && u.Host != "" {
		origin = u.Scheme + "://" + u.Host
	}

	cleaned := make([]string, 0, len(aliases))
	for _, a := range aliases {
		if a = strings.TrimRight(strings.TrimSpace(a), "/"); a != "" {
			cleaned = append(cleaned, a)
		}
	}
	return &URLRewriter{publicOrigin: origin, aliases: cleaned}
}

func (r *URLRewriter) Public(raw string) string {
	if r == nil {
		return raw
	}
	for _, alias := range r.aliases {
		if strings.HasPrefix(raw, alias) {
			return r.publicOrigin + strings.TrimPrefix(raw, alias)
		}
	}
	return raw
}
