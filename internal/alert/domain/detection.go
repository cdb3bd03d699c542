package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// Detection is one crowd-event message from the detections topic.
type Detection struct {
	OrganizationID string    `json:"organizationId"`
	Severity       string    `json:"severity"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
}

// ErrInvalidDetection is returned for events that cannot become alerts.
var ErrInvalidDetection = errors.New("invalid detection event")

// ParseDetection decodes a detection event. organizationId and message are
// required; severity defaults to "low" and timestamp to now.
func ParseDetection(data []byte, now time.Time) (*Detection, error) {
	var d Detection
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, ErrInvalidDetection
	}
	if d.OrganizationID == "" || d.Message == "" {
		return nil, ErrInvalidDetection
	}
	if d.Severity == "" {
		d.Severity = "low"
	}
	if d.Timestamp.IsZero() {
		d.Timestamp = now.UTC()
	}
	return &d, nil
}
