package client

import (
	"context"
	"time"
)

const (
	DefaultPollInterval    = 4 * time.Second
	DefaultPollMaxAttempts = 10
)

type PollOptions struct {
	Interval    time.Duration
	MaxAttempts int
}

func (o PollOptions) withDefaults() PollOptions {
	if o.Interval <= 0 {
		o.Interval = DefaultPollInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultPollMaxAttempts
	}
	return o
}

// WaitForPayment polls an installment until it is PAID. It gives up with
// ErrPollExhausted after MaxAttempts reads, or returns ctx.Err() when cancelled.
// Request errors end the wait immediately.
func (c *Client) WaitForPayment(ctx context.Context, repaymentID string, opts PollOptions) (*Repayment, error) {
	opts = opts.withDefaults()
	t := time.NewTicker(opts.Interval)
	defer t.Stop()
	for attempt := 1; ; attempt++ {
		rep, err := c.Repayment(ctx, repaymentID)
		if err != nil {
			return nil, err
		}
		if rep.Status == "PAID" {
			return rep, nil
		}
		if attempt >= opts.MaxAttempts {
			return rep, ErrPollExhausted
		}
		select {
		case <-ctx.Done():
			return rep, ctx.Err()
		case <-t.C:
		}
	}
}
