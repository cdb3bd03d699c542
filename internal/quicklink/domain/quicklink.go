package domain

import (
	"regexp"
	"strings"
	"time"
)

// QuickLink is an org-scoped shortcut shown on the dashboard.
type QuickLink struct {
	ID        string
	OrgID     string
	Label     string
	URL       string
	CreatedBy *string
	CreatedAt time.Time
}

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// NormalizeURL trims the URL and prefixes https:// when no scheme is present.
// Returns "" for blank input.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if schemeRe.MatchString(trimmed) {
		return trimmed
	}
	return "https://" + trimmed
}
