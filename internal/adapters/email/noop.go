package email

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"
)

// NoopSender stands in for Resend when ASCEND_RESEND_KEY is unset. Mail is
// logged, never delivered.
type NoopSender struct {
	sent atomic.Int64
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the subject and recipient count.
// PRE: req.To is non-empty
// POST: Returns a local message id; nothing leaves the process
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	if len(req.To) == 0 {
		return SendResult{}, ErrNoRecipients
	}
	n := s.sent.Add(1)
	slog.Info("email_event", "event", "skipped_delivery", "recipients", len(req.To), "subject", req.Subject)
	return SendResult{MessageID: "local-" + strconv.FormatInt(n, 10), SentAt: time.Now()}, nil
}

// Sent is the number of messages accepted since start.
func (s *NoopSender) Sent() int64 {
	return s.sent.Load()
}
