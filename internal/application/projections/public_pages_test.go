package projections

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"ascend/internal/adapters/remote"
	"ascend/internal/adapters/storage"
	blogStore "ascend/internal/adapters/storage/blog"
	eventStore "ascend/internal/adapters/storage/event"
	pricingStore "ascend/internal/adapters/storage/pricing"
	trainingStore "ascend/internal/adapters/storage/training"
	"ascend/internal/application/listutil"
	"ascend/internal/domain/blog"
	"ascend/internal/domain/event"
	"ascend/internal/domain/pricing"
	"ascend/internal/domain/training"
)

var testNow = time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)

// testSite holds stores over one migrated SQLite backend.
type testSite struct {
	backend   *storage.SQLBackend
	trainings *trainingStore.RemoteStore
	plans     *pricingStore.RemoteStore
	events    *eventStore.RemoteStore
	posts     *blogStore.RemoteStore
}

func newTestSite(t *testing.T) testSite {
	t.Helper()
	db, err := storage.Open(storage.DialectSQLite, storage.SQLiteDSN(filepath.Join(t.TempDir(), "site.db")))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.Migrate(db, storage.DialectSQLite); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	b := storage.NewSQLBackend(db, storage.DialectSQLite, nil)
	return testSite{
		backend:   b,
		trainings: trainingStore.NewRemoteStore(b),
		plans:     pricingStore.NewRemoteStore(b),
		events:    eventStore.NewRemoteStore(b),
		posts:     blogStore.NewRemoteStore(b),
	}
}

func (s testSite) addPost(t *testing.T, p blog.Post) blog.Post {
	t.Helper()
	created, err := s.posts.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return created
}

func (s testSite) addEvent(t *testing.T, e event.Event) event.Event {
	t.Helper()
	created, err := s.events.Create(context.Background(), e)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return created
}

// TestQueryGetHomePage verifies each section only shows public content.
func TestQueryGetHomePage(t *testing.T) {
	s := newTestSite(t)
	ctx := context.Background()

	for _, status := range []string{training.StatusPublished, training.StatusDraft} {
		if _, err := s.trainings.Create(ctx, training.Session{Title: "Foundations " + status, Level: training.LevelBeginner, Status: status}); err != nil {
			t.Fatalf("create training: %v", err)
		}
	}
	for _, price := range []float64{149, 0, 49} {
		if _, err := s.plans.Create(ctx, pricing.Plan{Name: fmt.Sprintf("Plan %v", price), Price: price}); err != nil {
			t.Fatalf("create plan: %v", err)
		}
	}
	for i := 1; i <= 5; i++ {
		s.addPost(t, blog.Post{Title: fmt.Sprintf("Post %d", i), Content: "words", Published: i != 5})
	}
	s.addEvent(t, event.Event{Title: "Past", EventDate: testNow.AddDate(0, -1, 0), Status: event.StatusPublished})
	s.addEvent(t, event.Event{Title: "Later", EventDate: testNow.AddDate(0, 2, 0), Status: event.StatusPublished})
	s.addEvent(t, event.Event{Title: "Soon", EventDate: testNow.AddDate(0, 0, 7), Status: event.StatusPublished})
	s.addEvent(t, event.Event{Title: "Hidden", EventDate: testNow.AddDate(0, 0, 1), Status: event.StatusDraft})

	res, err := QueryGetHomePage(ctx, GetHomePageQuery{Now: testNow}, GetHomePageDeps{
		TrainingStore: s.trainings, PlanStore: s.plans, BlogStore: s.posts, EventStore: s.events,
	})
	if err != nil {
		t.Fatalf("QueryGetHomePage: %v", err)
	}
	if len(res.Programs) != 1 || res.Programs[0].Status != training.StatusPublished {
		t.Errorf("Programs = %+v, want only the published session", res.Programs)
	}
	if len(res.Plans) != 3 || res.Plans[0].Price != 0 || res.Plans[2].Price != 149 {
		t.Errorf("Plans = %+v, want cheapest first", res.Plans)
	}
	if len(res.Posts) != 3 || res.Posts[0].Title != "Post 4" {
		t.Errorf("Posts = %+v, want the latest three published", res.Posts)
	}
	if len(res.Events) != 2 || res.Events[0].Title != "Soon" || res.Events[1].Title != "Later" {
		t.Errorf("Events = %+v, want Soon then Later", res.Events)
	}
	if len(res.Testimonials) == 0 {
		t.Error("Testimonials empty")
	}
}

// TestQueryGetPrograms_LevelFilter verifies known levels narrow the listing and unknown ones are ignored.
func TestQueryGetPrograms_LevelFilter(t *testing.T) {
	s := newTestSite(t)
	ctx := context.Background()
	for _, level := range training.ValidLevels {
		if _, err := s.trainings.Create(ctx, training.Session{Title: level, Level: level, Status: training.StatusPublished}); err != nil {
			t.Fatalf("create training: %v", err)
		}
	}
	deps := GetProgramsDeps{TrainingStore: s.trainings}

	res, err := QueryGetPrograms(ctx, GetProgramsQuery{Level: training.LevelAdvanced}, deps)
	if err != nil {
		t.Fatalf("QueryGetPrograms: %v", err)
	}
	if len(res.Programs) != 1 || res.Programs[0].Level != training.LevelAdvanced {
		t.Errorf("Programs = %+v, want only advanced", res.Programs)
	}

	res, err = QueryGetPrograms(ctx, GetProgramsQuery{Level: "expert"}, deps)
	if err != nil {
		t.Fatalf("QueryGetPrograms: %v", err)
	}
	if res.Level != "" || len(res.Programs) != 3 {
		t.Errorf("unknown level: Level = %q, %d programs; want all 3", res.Level, len(res.Programs))
	}
}

// TestQueryGetEvent verifies drafts are hidden and default form fields apply.
func TestQueryGetEvent(t *testing.T) {
	s := newTestSite(t)
	ctx := context.Background()
	open := s.addEvent(t, event.Event{Title: "Open", EventDate: testNow, Status: event.StatusPublished})
	draft := s.addEvent(t, event.Event{Title: "Draft", EventDate: testNow, Status: event.StatusDraft})
	deps := GetEventsDeps{EventStore: s.events}

	res, err := QueryGetEvent(ctx, GetEventQuery{ID: open.ID}, deps)
	if err != nil {
		t.Fatalf("QueryGetEvent: %v", err)
	}
	if len(res.Fields) != 2 || res.Fields[0] != "name" || res.Fields[1] != "email" {
		t.Errorf("Fields = %v, want [name email]", res.Fields)
	}

	if _, err := QueryGetEvent(ctx, GetEventQuery{ID: draft.ID}, deps); !errors.Is(err, remote.ErrNotFound) {
		t.Errorf("draft: err = %v, want ErrNotFound", err)
	}
	if _, err := QueryGetEvent(ctx, GetEventQuery{ID: 99}, deps); !errors.Is(err, remote.ErrNotFound) {
		t.Errorf("missing: err = %v, want ErrNotFound", err)
	}
}

// TestQueryGetPricing_Selection verifies only listed plans can be selected.
func TestQueryGetPricing_Selection(t *testing.T) {
	s := newTestSite(t)
	ctx := context.Background()
	growth, err := s.plans.Create(ctx, pricing.Plan{Name: "Growth", Price: 49})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	deps := GetPricingDeps{PlanStore: s.plans}

	tests := []struct {
		selected string
		want     int64
	}{
		{fmt.Sprint(growth.ID), growth.ID},
		{"999", 0},
		{"growth", 0},
		{"", 0},
	}
	for _, tt := range tests {
		res, err := QueryGetPricing(ctx, GetPricingQuery{SelectedPlan: tt.selected}, deps)
		if err != nil {
			t.Fatalf("QueryGetPricing(%q): %v", tt.selected, err)
		}
		if res.SelectedID != tt.want {
			t.Errorf("QueryGetPricing(%q).SelectedID = %d, want %d", tt.selected, res.SelectedID, tt.want)
		}
	}

	checkout, err := QueryGetCheckout(ctx, GetCheckoutQuery{PlanID: growth.ID}, deps)
	if err != nil || checkout.Plan.Name != "Growth" {
		t.Errorf("QueryGetCheckout = %+v, %v", checkout, err)
	}
	if _, err := QueryGetCheckout(ctx, GetCheckoutQuery{PlanID: 999}, deps); !errors.Is(err, remote.ErrNotFound) {
		t.Errorf("missing plan: err = %v, want ErrNotFound", err)
	}
}

// TestQueryGetBlogList verifies search, category filter, categories and paging.
func TestQueryGetBlogList(t *testing.T) {
	s := newTestSite(t)
	ctx := context.Background()
	for i := 1; i <= 7; i++ {
		category := "Growth"
		if i%2 == 0 {
			category = "Pricing"
		}
		s.addPost(t, blog.Post{Title: fmt.Sprintf("Lesson %d", i), Category: category, Content: "text", Published: true})
	}
	s.addPost(t, blog.Post{Title: "Draft lesson", Category: "Funding", Published: false})
	deps := GetBlogDeps{BlogStore: s.posts}

	res, err := QueryGetBlogList(ctx, GetBlogListQuery{Page: listutil.PageParams{Page: 2, PerPage: 3}}, deps)
	if err != nil {
		t.Fatalf("QueryGetBlogList: %v", err)
	}
	if res.PageInfo.Total != 7 || res.PageInfo.TotalPages != 3 {
		t.Errorf("PageInfo = %+v, want 7 posts over 3 pages", res.PageInfo)
	}
	if len(res.Posts) != 3 || res.Posts[0].Title != "Lesson 4" {
		t.Errorf("page 2 = %+v, want Lesson 4..2", res.Posts)
	}
	if len(res.Categories) != 2 || res.Categories[0] != "Growth" || res.Categories[1] != "Pricing" {
		t.Errorf("Categories = %v, want [Growth Pricing]", res.Categories)
	}

	res, err = QueryGetBlogList(ctx, GetBlogListQuery{Category: "pricing", Search: "lesson"}, deps)
	if err != nil {
		t.Fatalf("QueryGetBlogList: %v", err)
	}
	if len(res.Posts) != 3 {
		t.Errorf("pricing posts = %d, want 3", len(res.Posts))
	}

	res, err = QueryGetBlogList(ctx, GetBlogListQuery{Search: "nothing matches this"}, deps)
	if err != nil {
		t.Fatalf("QueryGetBlogList: %v", err)
	}
	if len(res.Posts) != 0 || res.PageInfo.Total != 0 {
		t.Errorf("no-match search = %+v", res)
	}
}

// TestQueryGetBlogPost verifies drafts are not reachable by slug.
func TestQueryGetBlogPost(t *testing.T) {
	s := newTestSite(t)
	ctx := context.Background()
	s.addPost(t, blog.Post{Title: "Live Post", Content: "# Hi", Published: true})
	s.addPost(t, blog.Post{Title: "Secret Post", Published: false})
	deps := GetBlogDeps{BlogStore: s.posts}

	post, err := QueryGetBlogPost(ctx, GetBlogPostQuery{Slug: "live-post"}, deps)
	if err != nil {
		t.Fatalf("QueryGetBlogPost: %v", err)
	}
	if post.Title != "Live Post" {
		t.Errorf("Title = %q", post.Title)
	}
	for _, slug := range []string{"secret-post", "missing", ""} {
		if _, err := QueryGetBlogPost(ctx, GetBlogPostQuery{Slug: slug}, deps); !errors.Is(err, remote.ErrNotFound) {
			t.Errorf("slug %q: err = %v, want ErrNotFound", slug, err)
		}
	}
}
