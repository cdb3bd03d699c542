package mailer

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
)

// Sender delivers rendered email. The SMTP implementation is the only real one;
// tests substitute a fake.
type Sender interface {
	// Send delivers the email and returns a message ID for the caller's response.
	Send(email Email) (messageID string, err error)
}

// SMTPSender delivers mail over a single SMTP submission endpoint with PLAIN auth.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether credentials are present. The handler refuses to
// send when they are not.
func (s *SMTPSender) Configured() bool {
	return s.Username != "" && s.Password != ""
}

// Send builds a multipart/alternative message (text + HTML) and submits it.
func (s *SMTPSender) Send(email Email) (string, error) {
	messageID := uuid.NewString()
	boundary := "crowdguard-" + messageID

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", mime.QEncoding.Encode("utf-8", "CrowdGuard")+" <"+s.From+">")
	fmt.Fprintf(&b, "To: %s\r\n", email.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	fmt.Fprintf(&b, "Message-ID: <%s@crowdguard>\r\n", messageID)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(email.TextBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(email.HTMLBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	if err := smtp.SendMail(addr, auth, s.From, []string{email.To}, []byte(b.String())); err != nil {
		return "", err
	}
	return messageID, nil
}
