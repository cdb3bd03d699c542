// Package mailer renders and dispatches transactional email. The standalone
// mail service (cmd/mailer) serves the render+send endpoint; the API talks to
// it through the Dispatcher client in this package.
package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

// TemplateInvitation is the only template the mail service knows today.
const TemplateInvitation = "invitation"

// InvitationData is the payload for the invitation template.
type InvitationData struct {
	OrganizationName string `json:"organizationName"`
	InviterName      string `json:"inviterName"`
	AcceptURL        string `json:"acceptUrl"`
	RejectURL        string `json:"rejectUrl"`
	Role             string `json:"role"`
	ExpiryDays       int    `json:"expiryDays"`
}

// Email is a rendered message ready for the SMTP sender.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

const invitationHTML = `<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: 'Arial', sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
  .container { background-color: #f9fafb; border-radius: 10px; padding: 30px; border: 1px solid #e5e7eb; }
  .logo { font-size: 28px; font-weight: bold; color: #ea580c; text-align: center; margin-bottom: 30px; }
  .content { background-color: white; padding: 25px; border-radius: 8px; margin-bottom: 20px; }
  .buttons { text-align: center; margin: 30px 0; }
  .button { display: inline-block; padding: 12px 30px; margin: 0 10px; text-decoration: none; border-radius: 6px; font-weight: bold; }
  .accept-button { background-color: #ea580c; color: white; }
  .reject-button { background-color: #6b7280; color: white; }
  .expiry-notice { background-color: #fef3c7; padding: 15px; border-radius: 6px; border-left: 4px solid #f59e0b; margin: 20px 0; }
  .org-name { font-weight: bold; color: #ea580c; }
  .footer { text-align: center; color: #6b7280; font-size: 12px; margin-top: 20px; }
</style>
</head>
<body>
  <div class="container">
    <div class="logo">CrowdGuard</div>
    <div class="content">
      <h1>You've Been Invited!</h1>
      <p>Hi there,</p>
      <p><strong>{{.InviterName}}</strong> has invited you to join
        <span class="org-name">{{.OrganizationName}}</span> on CrowdGuard.</p>
      <p>CrowdGuard is a comprehensive platform for managing crowd events,
        monitoring alerts, and coordinating team activities.</p>
      <div class="expiry-notice"><strong>Note:</strong> This invitation expires in {{.ExpiryDays}} days.</div>
      <div class="buttons">
        <a href="{{.AcceptURL}}" class="button accept-button">Accept Invitation</a>
        <a href="{{.RejectURL}}" class="button reject-button">Decline</a>
      </div>
      <p>If you don't want to join this organization, you can safely ignore this
        email or click the decline button.</p>
    </div>
    <div class="footer">
      <p>&copy; {{.Year}} CrowdGuard. All rights reserved.</p>
      <p>This is an automated message. Please do not reply to this email.</p>
    </div>
  </div>
</body>
</html>`

const invitationText = `You've Been Invited to {{.OrganizationName}}!

{{.InviterName}} has invited you to join {{.OrganizationName}} on CrowdGuard.

Accept Invitation: {{.AcceptURL}}
Decline Invitation: {{.RejectURL}}

This invitation expires in {{.ExpiryDays}} days.

(c) {{.Year}} CrowdGuard. All rights reserved.`

var (
	invitationHTMLTmpl = htmltemplate.Must(htmltemplate.New("invitation_html").Parse(invitationHTML))
	invitationTextTmpl = texttemplate.Must(texttemplate.New("invitation_text").Parse(invitationText))
)

// RenderInvitation renders the invitation email for data. The To field is left
// for the caller to fill.
func RenderInvitation(data InvitationData) (Email, error) {
	ctx := struct {
		InvitationData
		Year int
	}{data, time.Now().Year()}

	var html, text bytes.Buffer
	if err := invitationHTMLTmpl.Execute(&html, ctx); err != nil {
		return Email{}, fmt.Errorf("render invitation html: %w", err)
	}
	if err := invitationTextTmpl.Execute(&text, ctx); err != nil {
		return Email{}, fmt.Errorf("render invitation text: %w", err)
	}
	return Email{
		Subject:  fmt.Sprintf("Invitation to join %s", data.OrganizationName),
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}
