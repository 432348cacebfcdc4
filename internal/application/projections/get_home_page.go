package projections

import (
	"context"
	"time"

	"ascend/internal/adapters/storage/blog"
	"ascend/internal/adapters/storage/event"
	"ascend/internal/adapters/storage/training"
	domainBlog "ascend/internal/domain/blog"
	domainEvent "ascend/internal/domain/event"
	domainPricing "ascend/internal/domain/pricing"
	domainTraining "ascend/internal/domain/training"
)

const (
	homeProgramLimit = 6
	homePostLimit    = 3
	homeEventLimit   = 3
)

// Testimonial is a quote shown on the home page.
type Testimonial struct {
	Quote  string
	Author string
	Role   string
}

// Testimonials are curated copy, not stored rows.
var Testimonials = []Testimonial{
	{Quote: "The pricing workshop paid for itself the first week. I finally charge what my work is worth.", Author: "Mere Tane", Role: "Founder, Kōwhai Studio"},
	{Quote: "I came for the coaching and stayed for the community. These women are my board now.", Author: "Priya Nair", Role: "CEO, Spindle Analytics"},
	{Quote: "Pitch Night got me in front of three investors. One of them led our seed round.", Author: "Grace Liu", Role: "Co-founder, Tidepool"},
}

// GetHomePageQuery carries query parameters.
type GetHomePageQuery struct {
	Now time.Time
}

// GetHomePageDeps holds dependencies for GetHomePage.
type GetHomePageDeps struct {
	TrainingStore TrainingStore
	PlanStore     PlanStore
	BlogStore     BlogStore
	EventStore    EventStore
}

// GetHomePageResult carries the landing page sections.
type GetHomePageResult struct {
	Programs     []domainTraining.Session
	Plans        []domainPricing.Plan
	Testimonials []Testimonial
	Posts        []domainBlog.Post
	Events       []domainEvent.Event
}

// QueryGetHomePage assembles the landing page.
// PRE: Now is set
// POST: Returns published programs, every plan, the latest published posts and the next published events
func QueryGetHomePage(ctx context.Context, query GetHomePageQuery, deps GetHomePageDeps) (GetHomePageResult, error) {
	programs, err := deps.TrainingStore.List(ctx, training.ListFilter{Status: domainTraining.StatusPublished, Limit: homeProgramLimit})
	if err != nil {
		return GetHomePageResult{}, err
	}
	plans, err := deps.PlanStore.List(ctx)
	if err != nil {
		return GetHomePageResult{}, err
	}
	posts, err := deps.BlogStore.List(ctx, blog.ListFilter{PublishedOnly: true, Limit: homePostLimit})
	if err != nil {
		return GetHomePageResult{}, err
	}
	events, err := deps.EventStore.List(ctx, event.ListFilter{Status: domainEvent.StatusPublished, From: query.Now, Limit: homeEventLimit})
	if err != nil {
		return GetHomePageResult{}, err
	}
	return GetHomePageResult{
		Programs:     programs,
		Plans:        plans,
		Testimonials: Testimonials,
		Posts:        posts,
		Events:       events,
	}, nil
}
