package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	emailAdapter "ascend/internal/adapters/email"
	"ascend/internal/adapters/remote"
	"ascend/internal/domain/newsletter"
)

// NewsletterStoreForSubscribe defines the store interface needed by SubscribeNewsletter.
type NewsletterStoreForSubscribe interface {
	Create(ctx context.Context, s newsletter.Subscription) (newsletter.Subscription, error)
	GetByEmail(ctx context.Context, email string) (newsletter.Subscription, error)
}

// SubscribeNewsletterInput carries the subscriber's address.
type SubscribeNewsletterInput struct {
	Email string
}

// SubscribeNewsletterDeps holds dependencies for SubscribeNewsletter.
type SubscribeNewsletterDeps struct {
	NewsletterStore NewsletterStoreForSubscribe
	EmailSender     emailAdapter.Sender
}

// SubscribeNewsletterResult reports whether the address was new.
type SubscribeNewsletterResult struct {
	Subscription      newsletter.Subscription
	AlreadySubscribed bool
}

// ExecuteSubscribeNewsletter records a subscription and sends the welcome email.
// PRE: none
// POST: A subscription exists for the normalized email; the welcome email is sent only for new subscribers
func ExecuteSubscribeNewsletter(ctx context.Context, input SubscribeNewsletterInput, deps SubscribeNewsletterDeps) (SubscribeNewsletterResult, error) {
	sub := newsletter.Subscription{Email: newsletter.NormalizeEmail(input.Email)}
	if err := sub.Validate(); err != nil {
		return SubscribeNewsletterResult{}, err
	}

	existing, err := deps.NewsletterStore.GetByEmail(ctx, sub.Email)
	if err == nil {
		return SubscribeNewsletterResult{Subscription: existing, AlreadySubscribed: true}, nil
	}
	if !errors.Is(err, remote.ErrNotFound) {
		return SubscribeNewsletterResult{}, err
	}

	created, err := deps.NewsletterStore.Create(ctx, sub)
	if err != nil {
		return SubscribeNewsletterResult{}, err
	}
	slog.Info("newsletter_event", "event", "subscribed", "subscription_id", created.ID)

	if deps.EmailSender != nil {
		req, err := emailAdapter.Welcome(created.Email)
		if err == nil {
			_, err = deps.EmailSender.Send(ctx, req)
		}
		if err != nil {
			slog.Error("newsletter_event", "event", "welcome_failed", "subscription_id", created.ID, "error", err)
		}
	}
	return SubscribeNewsletterResult{Subscription: created}, nil
}
