package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// InvitationEmail is everything needed to render and address one invitation email.
type InvitationEmail struct {
	To               string
	OrganizationName string
	InviterName      string
	InvitationID     string
	Role             string
}

// Dispatcher sends invitation emails. The HTTP implementation talks to the
// mail service; tests substitute a fake.
type Dispatcher interface {
	SendInvitation(ctx context.Context, email InvitationEmail) error
}

// HTTPDispatcher posts send requests to the standalone mail service (cmd/mailer).
type HTTPDispatcher struct {
	serviceURL  string
	frontendURL string
	client      *http.Client
}

// NewHTTPDispatcher returns a dispatcher that posts to serviceURL/send.
// frontendURL is the base for the accept/reject links embedded in the email.
func NewHTTPDispatcher(serviceURL, frontendURL string) *HTTPDispatcher {
	return &HTTPDispatcher{
		serviceURL:  strings.TrimRight(serviceURL, "/"),
		frontendURL: strings.TrimRight(frontendURL, "/"),
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// SendInvitation posts the invitation template request to the mail service.
// Any non-2xx response is a send failure; the caller compensates by deleting
// the invitation row.
func (d *HTTPDispatcher) SendInvitation(ctx context.Context, email InvitationEmail) error {
	payload := map[string]any{
		"to":           email.To,
		"templateType": TemplateInvitation,
		"templateData": map[string]any{
			"organizationName": email.OrganizationName,
			"inviterName":      email.InviterName,
			"acceptUrl":        d.frontendURL + "/accept-invitation/" + email.InvitationID,
			"rejectUrl":        d.frontendURL + "/reject-invitation/" + email.InvitationID,
			"role":             email.Role,
			"expiryDays":       7,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.serviceURL+"/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mail service returned %d", resp.StatusCode)
	}
	return nil
}
