// Copyright 2025 Argus Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/argus-sec/argus/internal/console/core"
)

// smtpTimeout caps one SMTP conversation when the caller's context carries
// no earlier deadline.
const smtpTimeout = 30 * time.Second

// Mailer delivers a single email. Implementations report delivery failure
// through the returned error; no receipt or bounce handling is assumed.
type Mailer interface {
	Send(ctx context.Context, opts EmailOptions) error
}

// SMTPConfig holds the outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// SMTPMailer sends template-rendered mail over SMTP.
type SMTPMailer struct {
	cfg SMTPConfig
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer for the given SMTP endpoint.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

type emailTemplate struct {
	subject string
	body    string
}

// Body templates use {{key}} placeholders resolved from EmailOptions.Data.
var templates = map[string]emailTemplate{
	TemplateAdminSignupNotice: {
		subject: "New tenant signup: {{orgName}}",
		body: "A new organization \"{{orgName}}\" was registered by {{username}} ({{email}}).\r\n" +
			"The admin user is awaiting approval in the console.",
	},
	TemplateVerifyEmail: {
		subject: "Verify your email address",
		body: "Hello {{firstName}},\r\n\r\n" +
			"Please verify your email address by opening the link below:\r\n" +
			"{{verifyURL}}\r\n\r\n" +
			"The link is valid for a single use.",
	},
	TemplateStatusUpdate: {
		subject: "Your account has been {{status}}",
		body: "Hello {{firstName}},\r\n\r\n" +
			"Your account for organization \"{{orgName}}\" has been {{status}}.",
	},
}

// RenderTemplate resolves a template id into subject and body, substituting
// {{key}} placeholders with values from data. An explicit subject in the
// options overrides the template subject.
func RenderTemplate(opts EmailOptions) (subject, body string, err error) {
	tpl, ok := templates[opts.Template]
	if !ok {
		return "", "", &core.ValidationError{Field: "template", Message: fmt.Sprintf("unknown template %q", opts.Template)}
	}
	subject = tpl.subject
	if opts.Subject != "" {
		subject = opts.Subject
	}
	body = tpl.body
	for k, v := range opts.Data {
		placeholder := "{{" + k + "}}"
		value := fmt.Sprintf("%v", v)
		subject = strings.ReplaceAll(subject, placeholder, value)
		body = strings.ReplaceAll(body, placeholder, value)
	}
	return subject, body, nil
}

// Send renders the template and delivers the message over SMTP.
func (m *SMTPMailer) Send(ctx context.Context, opts EmailOptions) error {
	if err := m.validate(); err != nil {
		return err
	}
	if opts.To == "" {
		return &core.ValidationError{Field: "to", Message: "recipient is required"}
	}

	subject, body, err := RenderTemplate(opts)
	if err != nil {
		return err
	}

	msg := "From: " + m.cfg.From + "\r\n" +
		"To: " + opts.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.deliver(ctx, addr, auth, opts.To, []byte(msg)); err != nil {
		return &core.DependencyError{Op: "smtp.Send", Err: err}
	}
	return nil
}

// deliver speaks SMTP over a connection whose deadline is bounded by ctx,
// so a hung server cannot stall a delivery goroutine indefinitely.
func (m *SMTPMailer) deliver(ctx context.Context, addr string, auth smtp.Auth, to string, msg []byte) error {
	deadline := time.Now().Add(smtpTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialer := net.Dialer{Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return err
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if auth != nil {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
				return err
			}
		}
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func (m *SMTPMailer) validate() error {
	if m.cfg.Host == "" {
		return &core.ValidationError{Field: "smtp.host", Message: "smtp host is required"}
	}
	if m.cfg.Port <= 0 {
		return &core.ValidationError{Field: "smtp.port", Message: "smtp port is required"}
	}
	if m.cfg.From == "" {
		return &core.ValidationError{Field: "smtp.from", Message: "from address is required"}
	}
	return nil
}
