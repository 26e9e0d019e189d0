package httpapi

import (
	"net/url"
	"strings"

	"github.com/nexus-form/nexus/internal/match"
)

// ShareLink builds the join link Person A sends to Person B. Without a base
// URL the link is relative.
func ShareLink(baseURL, matchID string) string {
	q := match.QueryParam + "=" + url.QueryEscape(matchID)
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return "?" + q
	}
	return base + "/?" + q
}

// RootLink points at a fresh Person A form.
func RootLink(baseURL string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return "/"
	}
	return base + "/"
}
