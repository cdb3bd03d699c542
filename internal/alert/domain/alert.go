package domain

import (
	"time"
)

// Alert is an org-scoped crowd event. Severity is a free string; the dashboard
// only distinguishes critical/high/medium (case-insensitive) and treats
// everything else as background noise.
type Alert struct {
	ID        string
	OrgID     string
	Severity  string
	Message   string
	Timestamp time.Time
}
