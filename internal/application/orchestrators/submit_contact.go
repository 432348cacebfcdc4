package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	emailAdapter "ascend/internal/adapters/email"
	"ascend/internal/adapters/formrelay"
	"ascend/internal/adapters/notify"
	"ascend/internal/domain/inquiry"
)

// InquiryStoreForContact defines the store interface needed by SubmitContact.
type InquiryStoreForContact interface {
	Create(ctx context.Context, i inquiry.Inquiry) (inquiry.Inquiry, error)
}

// SubmitContactInput carries the contact form fields.
type SubmitContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// SubmitContactDeps holds dependencies for SubmitContact.
// Everything but Relay is optional.
type SubmitContactDeps struct {
	Relay        formrelay.Relay
	InquiryStore InquiryStoreForContact
	EmailSender  emailAdapter.Sender
	NotifyTo     []string
	Notifier     notify.Notifier
}

// ErrRelayFailed means the form service did not accept the submission.
var ErrRelayFailed = errors.New("your message could not be sent, please try again")

// ExecuteSubmitContact validates the form and relays it to the form service.
// PRE: none
// POST: Returns nil only when the relay answered 2xx; the inquiry copy and admin notification are best-effort
func ExecuteSubmitContact(ctx context.Context, input SubmitContactInput, deps SubmitContactDeps) error {
	inq := inquiry.Inquiry{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Subject: input.Subject,
		Message: input.Message,
	}.Trimmed()
	if err := inq.Validate(); err != nil {
		return err
	}

	err := deps.Relay.Submit(ctx, formrelay.Submission{
		Name:    inq.Name,
		Email:   inq.Email,
		Phone:   inq.Phone,
		Subject: inq.Subject,
		Message: inq.Message,
	})
	if err != nil {
		slog.Warn("contact_event", "event", "relay_failed", "error", err)
		return fmt.Errorf("%w: %v", ErrRelayFailed, err)
	}
	slog.Info("contact_event", "event", "relayed", "subject", inq.Subject)

	if deps.InquiryStore != nil {
		if _, err := deps.InquiryStore.Create(ctx, inq); err != nil {
			slog.Error("contact_event", "event", "record_failed", "error", err)
		}
	}

	if deps.EmailSender != nil && len(deps.NotifyTo) > 0 {
		req, err := emailAdapter.InquiryNotification(deps.NotifyTo, emailAdapter.InquiryNotice{
			Name:    inq.Name,
			Email:   inq.Email,
			Phone:   inq.Phone,
			Subject: inq.Subject,
			Message: inq.Message,
		})
		if err == nil {
			_, err = deps.EmailSender.Send(ctx, req)
		}
		if err != nil {
			slog.Error("contact_event", "event", "notify_failed", "error", err)
		}
	}

	if deps.Notifier != nil {
		text := fmt.Sprintf("New inquiry from %s <%s>: %s", inq.Name, inq.Email, inq.Subject)
		if err := deps.Notifier.Notify(ctx, text); err != nil {
			slog.Error("contact_event", "event", "chat_notify_failed", "error", err)
		}
	}
	return nil
}
