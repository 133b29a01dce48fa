// Package whatsapp sends escalation messages over WhatsApp via the Twilio
// Messages API.
package whatsapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/linnemanlabs/radalert/internal/notify"
)

const (
	// maxBodyLen is Twilio's per-message limit; longer bodies are
	// truncated by the dispatcher.
	maxBodyLen = 1600

	httpTimeout = 10 * time.Second

	defaultBaseURL = "https://api.twilio.com"
)

// Channel sends WhatsApp messages through Twilio. With no account SID the
// channel reports unconfigured and the dispatcher skips it.
type Channel struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
}

// New creates a Twilio WhatsApp channel.
func New(accountSID, authToken, from string) *Channel {
	return &Channel{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    defaultBaseURL,
		client:     &http.Client{Timeout: httpTimeout},
	}
}

// Name implements notify.Channel.
func (c *Channel) Name() string { return notify.ChannelWhatsApp }

// Configured implements notify.Channel.
func (c *Channel) Configured() bool { return c.accountSID != "" }

// Limit implements notify.Channel.
func (c *Channel) Limit() int { return maxBodyLen }

// Send posts one message to the Twilio Messages endpoint. Twilio replies
// 201 with a message SID on success.
func (c *Channel) Send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("whatsapp: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: post message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp: twilio returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// SetBaseURL overrides the Twilio API base URL. Used by tests.
func (c *Channel) SetBaseURL(u string) { c.baseURL = u }
