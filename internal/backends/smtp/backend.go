// Package smtp implements the generic SMTP delivery backend.
package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/lattiq/mailrouter/internal/core"
)

// Backend sends mail through a generic SMTP server.
type Backend struct {
	core.Draft
	name     string
	settings core.Settings
}

// New creates a new SMTP backend instance.
func New(name string, settings core.Settings) (core.Backend, error) {
	host := settings.Get("host")
	if host == "" {
		return nil, core.NewValidationError("host", "SMTP host is required")
	}

	port := settings.Get("port")
	if port == "" {
		return nil, core.NewValidationError("port", "SMTP port is required")
	}
	if _, err := strconv.Atoi(port); err != nil {
		return nil, core.NewValidationError("port", "invalid port number: "+port)
	}

	return &Backend{
		name:     name,
		settings: settings,
	}, nil
}

// Identifier returns the configured backend name.
func (b *Backend) Identifier() string {
	return b.name
}

// Deliver sends the accumulated message to the single recipient.
func (b *Backend) Deliver(ctx context.Context) (int, error) {
	host := b.settings.Get("host")
	addr := host + ":" + b.settings.Get("port")

	var auth smtp.Auth
	username := b.settings.Get("username")
	password := b.settings.Get("password")
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	message := b.buildMessage()

	if err := smtp.SendMail(addr, auth, b.From, []string{b.To}, message); err != nil {
		return 0, core.WrapBackendError(b.name, "send_error", err)
	}
	return 1, nil
}

// buildMessage renders the draft in RFC 5322 format.
func (b *Backend) buildMessage() []byte {
	var message strings.Builder

	message.WriteString("From: " + b.Sender().String() + "\r\n")
	message.WriteString("To: " + b.Recipient().String() + "\r\n")
	if b.ReplyTo != "" {
		message.WriteString("Reply-To: " + b.ReplyTo + "\r\n")
	}
	message.WriteString("Subject: " + b.Subject + "\r\n")
	message.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	message.WriteString("MIME-Version: 1.0\r\n")

	for _, h := range b.Headers {
		message.WriteString(h.Name + ": " + h.Value + "\r\n")
	}

	switch {
	case b.HTML != "" && b.Text != "":
		boundary := fmt.Sprintf("boundary_%d", time.Now().UnixNano())
		message.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n")
		message.WriteString("\r\n")

		message.WriteString("--" + boundary + "\r\n")
		writeBody(&message, "text/plain", b.Text)

		message.WriteString("--" + boundary + "\r\n")
		writeBody(&message, "text/html", b.HTML)

		message.WriteString("--" + boundary + "--\r\n")
	case b.HTML != "":
		writeBody(&message, "text/html", b.HTML)
	default:
		writeBody(&message, "text/plain", b.Text)
	}

	return []byte(message.String())
}

func writeBody(message *strings.Builder, contentType, body string) {
	message.WriteString("Content-Type: " + contentType + "; charset=UTF-8\r\n")
	message.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
	message.WriteString("\r\n")
	message.WriteString(body + "\r\n")
	message.WriteString("\r\n")
}
