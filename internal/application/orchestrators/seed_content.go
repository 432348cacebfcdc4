package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"ascend/internal/domain/blog"
	"ascend/internal/domain/event"
	"ascend/internal/domain/pricing"
	"ascend/internal/domain/training"
)

// PlanStoreForSeed defines the store interface needed by SeedContent.
type PlanStoreForSeed interface {
	List(ctx context.Context) ([]pricing.Plan, error)
	Create(ctx context.Context, p pricing.Plan) (pricing.Plan, error)
}

// TrainingStoreForSeed defines the store interface needed by SeedContent.
type TrainingStoreForSeed interface {
	Create(ctx context.Context, s training.Session) (training.Session, error)
}

// EventStoreForSeed defines the store interface needed by SeedContent.
type EventStoreForSeed interface {
	Create(ctx context.Context, e event.Event) (event.Event, error)
}

// BlogStoreForSeed defines the store interface needed by SeedContent.
type BlogStoreForSeed interface {
	Create(ctx context.Context, p blog.Post) (blog.Post, error)
}

// SeedContentDeps holds dependencies for SeedContent.
type SeedContentDeps struct {
	PlanStore     PlanStoreForSeed
	TrainingStore TrainingStoreForSeed
	EventStore    EventStoreForSeed
	BlogStore     BlogStoreForSeed
	Now           func() time.Time
}

// ExecuteSeedContent creates demo plans, programs, events and posts if the catalog is empty.
// PRE: the backend is a local development database
// POST: Content exists; a second run is a no-op
func ExecuteSeedContent(ctx context.Context, deps SeedContentDeps) error {
	existing, err := deps.PlanStore.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil // Already seeded
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	today := now().UTC().Truncate(24 * time.Hour)

	plans := []pricing.Plan{
		{Name: "Community", Price: 0, Period: "month", Features: []string{"Monthly newsletter", "Open events"}},
		{Name: "Growth", Price: 49, Period: "month", Features: []string{"Weekly group coaching", "Course library", "Member community"}, IsPopular: true, Badge: "Most popular"},
		{Name: "Accelerator", Price: 149, Period: "month", Features: []string{"Everything in Growth", "1:1 mentoring", "Investor intro sessions"}},
	}
	for _, p := range plans {
		if _, err := deps.PlanStore.Create(ctx, p); err != nil {
			return err
		}
	}

	sessions := []training.Session{
		{Title: "Business Foundations", Instructor: "Amara Okafor", Level: training.LevelBeginner, Schedule: "Tuesdays 6pm", Capacity: 20, Price: 0, Status: training.StatusPublished},
		{Title: "Pricing & Sales", Instructor: "Leilani Kahale", Level: training.LevelIntermediate, Schedule: "Thursdays 6pm", Capacity: 15, Price: 120, Status: training.StatusPublished},
		{Title: "Raising Your First Round", Instructor: "Sofia Marin", Level: training.LevelAdvanced, Schedule: "Saturdays 10am", Capacity: 12, Price: 250, Status: training.StatusPublished},
	}
	for _, s := range sessions {
		if _, err := deps.TrainingStore.Create(ctx, s); err != nil {
			return err
		}
	}

	events := []event.Event{
		{Title: "Founders Breakfast", Description: "Meet other founders over coffee.", EventDate: today.AddDate(0, 0, 14).Add(8 * time.Hour), Location: "Ascend Studio", Capacity: 40, Status: event.StatusPublished},
		{Title: "Pitch Night", Description: "Five founders, five minutes each, real investor feedback.", EventDate: today.AddDate(0, 1, 0).Add(18 * time.Hour), Location: "Ascend Studio", Capacity: 80, Price: 15, Status: event.StatusPublished, RegistrationFields: []string{"name", "email", "company"}},
	}
	for _, e := range events {
		if _, err := deps.EventStore.Create(ctx, e); err != nil {
			return err
		}
	}

	posts := []blog.Post{
		{Title: "Five Questions to Ask Before You Set a Price", Excerpt: "Pricing is positioning.", Content: "Start with the outcome your client wants, then work backwards.", Category: "Pricing", Author: "Leilani Kahale", Published: true},
		{Title: "Building a Board of Mentors", Excerpt: "You do not have to do this alone.", Content: "The best advice comes from people a few steps ahead of you.", Category: "Growth", Author: "Amara Okafor", Published: true},
	}
	for _, p := range posts {
		if _, err := deps.BlogStore.Create(ctx, p); err != nil {
			return err
		}
	}

	slog.Info("seed_event", "event", "content_seeded", "plans", len(plans), "trainings", len(sessions), "events", len(events), "posts", len(posts))
	return nil
}
