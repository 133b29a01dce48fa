// Package email sends escalation messages over SMTP.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/linnemanlabs/radalert/internal/notify"
)

// Subject used for every escalation email.
const Subject = "RAD-ALERT"

// sendFunc matches smtp.SendMail; swapped out in tests.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Channel sends plain-text email through an SMTP relay. Without an SMTP
// user the channel reports unconfigured and the dispatcher skips it.
type Channel struct {
	host string
	port int
	user string
	pass string
	send sendFunc
}

// New creates an SMTP email channel.
func New(host string, port int, user, pass string) *Channel {
	return &Channel{
		host: host,
		port: port,
		user: user,
		pass: pass,
		send: smtp.SendMail,
	}
}

// Name implements notify.Channel.
func (c *Channel) Name() string { return notify.ChannelEmail }

// Configured implements notify.Channel.
func (c *Channel) Configured() bool { return c.user != "" }

// Limit implements notify.Channel. Email bodies are not capped.
func (c *Channel) Limit() int { return 0 }

// Send delivers one message. smtp.SendMail negotiates STARTTLS when the
// relay offers it. Context cancellation is not supported by net/smtp; the
// relay connection has the OS-level dial timeout only.
func (c *Channel) Send(_ context.Context, to, body string) error {
	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	auth := smtp.PlainAuth("", c.user, c.pass, c.host)

	msg := buildMessage(c.user, to, Subject, body)

	if err := c.send(addr, auth, c.user, []string{to}, msg); err != nil {
		return fmt.Errorf("email: send via %s: %w", addr, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
