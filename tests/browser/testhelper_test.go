package browser_test

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"ascend/internal/adapters/email"
	"ascend/internal/adapters/formrelay"
	web "ascend/internal/adapters/http"
	"ascend/internal/adapters/http/middleware"
	"ascend/internal/adapters/http/perf"
	"ascend/internal/adapters/objectstore"
	"ascend/internal/adapters/remote"
	"ascend/internal/adapters/storage"
	adminStore "ascend/internal/adapters/storage/admin"
	auditStore "ascend/internal/adapters/storage/audit"
	blogStore "ascend/internal/adapters/storage/blog"
	eventStore "ascend/internal/adapters/storage/event"
	inquiryStore "ascend/internal/adapters/storage/inquiry"
	newsletterStore "ascend/internal/adapters/storage/newsletter"
	pricingStore "ascend/internal/adapters/storage/pricing"
	registrationStore "ascend/internal/adapters/storage/registration"
	trainingStore "ascend/internal/adapters/storage/training"
	uploadStore "ascend/internal/adapters/storage/upload"
	"ascend/internal/application/orchestrators"
	domainAdmin "ascend/internal/domain/admin"
	"ascend/internal/domain/table"
)

const (
	adminEmail    = "admin@ascend.example"
	adminPassword = "TestPass123!"
)

// recordingRelay accepts every contact submission and keeps it.
type recordingRelay struct {
	mu  sync.Mutex
	got []formrelay.Submission
}

func (r *recordingRelay) Submit(_ context.Context, s formrelay.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, s)
	return nil
}

func (r *recordingRelay) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	Backend remote.Backend
	Relay   *recordingRelay
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
// Browser tests only run when ASCEND_BROWSER_TESTS=1, since they need installed browsers.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	if os.Getenv("ASCEND_BROWSER_TESTS") != "1" {
		t.Skip("set ASCEND_BROWSER_TESTS=1 to run browser tests")
	}
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	tmpDir := t.TempDir()
	db, err := storage.Open(storage.DialectSQLite, storage.SQLiteDSN(filepath.Join(tmpDir, "test.db")))
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := storage.Migrate(db, storage.DialectSQLite); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	collector := perf.NewCollector(0)
	uploads := objectstore.NewLocalDir(filepath.Join(tmpDir, "uploads"), "/uploads/")
	client := remote.NewClient(storage.NewSQLBackend(db, storage.DialectSQLite, collector), uploads)

	hash, err := domainAdmin.HashPassword(adminPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	stores := &web.Stores{
		Backend:           client,
		TrainingStore:     trainingStore.NewRemoteStore(client),
		PlanStore:         pricingStore.NewRemoteStore(client),
		EventStore:        eventStore.NewRemoteStore(client),
		BlogStore:         blogStore.NewRemoteStore(client),
		RegistrationStore: registrationStore.NewRemoteStore(client),
		InquiryStore:      inquiryStore.NewRemoteStore(client),
		NewsletterStore:   newsletterStore.NewRemoteStore(client),
		UploadStore:       uploadStore.NewBucketStore(client),
		AdminStore: adminStore.NewDirectory(domainAdmin.User{
			Email:        adminEmail,
			Name:         "Test Admin",
			Role:         domainAdmin.RoleAdmin,
			PasswordHash: hash,
		}),
		ActivityStore: auditStore.NewRemoteStore(client),
		Registry:      table.DefaultRegistry(),
	}

	ctx := context.Background()
	if err := orchestrators.ExecuteSeedContent(ctx, orchestrators.SeedContentDeps{
		PlanStore:     stores.PlanStore,
		TrainingStore: stores.TrainingStore,
		EventStore:    stores.EventStore,
		BlogStore:     stores.BlogStore,
	}); err != nil {
		t.Fatalf("failed to seed content: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	sessions, err := middleware.NewSessionManager([]byte("browser-test-session-key-32-bytes!"), time.Hour)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	relay := &recordingRelay{}
	web.RateLimitPerSecond = 1000
	mux := web.NewMux(stores, &web.Config{
		Relay:         relay,
		EmailSender:   email.NewNoopSender(),
		AdminPanelURL: "/backoffice/",
		Uploads:       uploads.Handler(),
		Location:      time.UTC,
		CSRFKey:       []byte("browser-test-csrf-key-32-bytes!!"),
		TrustedOrigins: []string{
			fmt.Sprintf("127.0.0.1:%d", port),
			fmt.Sprintf("localhost:%d", port),
		},
	}, sessions, collector)

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		Backend: client,
		Relay:   relay,
		Server:  srv,
		PW:      pw,
		Browser: browser,
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})
	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login signs in through the back-office form and waits for the dashboard.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/backoffice/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill(adminEmail); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(adminPassword); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click sign in: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/backoffice/", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}
