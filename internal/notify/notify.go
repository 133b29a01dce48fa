// Package notify dispatches escalation messages over the configured
// channels. Channel failures are contained here: a send error, auth
// problem, or missing channel config becomes success=false for that
// channel and never propagates to the pipeline.
package notify

import (
	"context"

	"github.com/linnemanlabs/go-core/log"
)

// Channel is a single outbound notification transport.
type Channel interface {
	// Name identifies the channel in logs, metrics, and receipts.
	Name() string

	// Configured reports whether the channel has the credentials it
	// needs. Unconfigured channels are "off": no attempt, success=false.
	Configured() bool

	// Limit is the channel's maximum message body length in bytes.
	// Zero means unlimited. Longer bodies are truncated, not rejected.
	Limit() int

	// Send delivers the body to the target address.
	Send(ctx context.Context, to, body string) error
}

// Targets holds the per-channel destination addresses for one dispatch.
// An empty address disables that channel for this message.
type Targets struct {
	WhatsApp string
	Email    string
}

// Receipt maps channel name to delivery success for one dispatch.
type Receipt map[string]bool

// Any reports whether at least one channel delivered.
func (r Receipt) Any() bool {
	for _, ok := range r {
		if ok {
			return true
		}
	}
	return false
}

// Observer receives the outcome of each channel attempt (wired by main to
// Prometheus counters).
type Observer func(channel string, delivered bool)

// Dispatcher fans one message out to every registered channel.
type Dispatcher struct {
	channels []Channel
	logger   log.Logger
	observer Observer
}

// NewDispatcher creates a dispatcher over the given channels. The observer
// may be nil.
func NewDispatcher(logger log.Logger, observer Observer, channels ...Channel) *Dispatcher {
	if logger == nil {
		logger = log.Nop()
	}
	return &Dispatcher{
		channels: channels,
		logger:   logger,
		observer: observer,
	}
}

// Dispatch sends the body to each channel's target and returns per-channel
// success flags. It never returns an error: every failure mode is folded
// into the receipt.
func (d *Dispatcher) Dispatch(ctx context.Context, targets Targets, body string) Receipt {
	receipt := make(Receipt, len(d.channels))

	for _, ch := range d.channels {
		name := ch.Name()
		receipt[name] = d.send(ctx, ch, targets.For(name), body)
		if d.observer != nil {
			d.observer(name, receipt[name])
		}
	}

	return receipt
}

func (d *Dispatcher) send(ctx context.Context, ch Channel, to, body string) bool {
	name := ch.Name()

	if !ch.Configured() {
		d.logger.Info(ctx, "notification channel off", "channel", name)
		return false
	}
	if to == "" {
		d.logger.Info(ctx, "no recipient for channel", "channel", name)
		return false
	}

	if limit := ch.Limit(); limit > 0 && len(body) > limit {
		body = body[:limit]
	}

	if err := ch.Send(ctx, to, body); err != nil {
		d.logger.Error(ctx, err, "notification send failed", "channel", name, "to", to)
		return false
	}

	d.logger.Info(ctx, "notification sent", "channel", name, "to", to)
	return true
}

// For returns the target address for the named channel.
func (t Targets) For(channel string) string {
	switch channel {
	case ChannelWhatsApp:
		return t.WhatsApp
	case ChannelEmail:
		return t.Email
	default:
		return ""
	}
}

// Channel names used in receipts, targets, and metrics labels.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
)
