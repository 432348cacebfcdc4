package web

import (
	"net/http"
	"net/url"
	"time"

	"ascend/internal/adapters/email"
	"ascend/internal/adapters/formrelay"
	"ascend/internal/adapters/http/middleware"
	"ascend/internal/adapters/http/perf"
	"ascend/internal/adapters/notify"
	"ascend/internal/adapters/remote"
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
	"ascend/internal/domain/table"
)

// Stores holds all storage dependencies.
type Stores struct {
	// Backend serves the generic back-office tables.
	Backend           remote.Backend
	TrainingStore     trainingStore.Store
	PlanStore         pricingStore.Store
	EventStore        eventStore.Store
	BlogStore         blogStore.Store
	RegistrationStore registrationStore.Store
	InquiryStore      inquiryStore.Store
	NewsletterStore   newsletterStore.Store
	UploadStore       uploadStore.Store
	AdminStore        adminStore.Store
	ActivityStore     auditStore.Store // optional: nil logs back-office activity without storing it
	Registry          *table.Registry
}

// Config carries the site settings handlers read at request time.
type Config struct {
	Relay       formrelay.Relay
	EmailSender email.Sender
	NotifyTo    []string
	Notifier    notify.Notifier // optional chat alerts for inquiries and registrations

	CheckoutScriptURL string
	CheckoutPublicKey string
	AdminPanelURL     string
	// ImageOrigins are extra origins allowed to serve <img> sources (the bucket's public URL).
	ImageOrigins []string
	// Uploads serves locally stored objects at /uploads/; nil when a bucket is used.
	Uploads http.Handler

	Location       *time.Location
	SecureCookies  bool
	CSRFKey        []byte
	TrustedOrigins []string
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global site configuration (set by NewMux)
var site *Config

// Global session manager (set by NewMux)
var sessions *middleware.SessionManager

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// NewMux wires HTTP handlers for the app.
// PRE: s, cfg and sm are non-nil; cfg.CSRFKey is 32 bytes
// POST: Returns the routed handler wrapped in the middleware chain
func NewMux(s *Stores, cfg *Config, sm *middleware.SessionManager, collector *perf.Collector) http.Handler {
	stores = s
	site = cfg
	sessions = sm
	perfCollector = collector
	if site.Location == nil {
		site.Location = time.UTC
	}

	mux := http.NewServeMux()
	registerRoutes(mux)

	csp := middleware.ContentSecurityPolicy(middleware.PolicySources{
		Scripts: originsOf(cfg.CheckoutScriptURL),
		Images:  cfg.ImageOrigins,
		Frames:  originsOf(cfg.CheckoutScriptURL),
	})
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: SecurityHeaders -> CSRF -> Auth -> RateLimit -> Timing -> Mux
	return middleware.Chain(mux,
		middleware.Timing(collector),
		middleware.RateLimit(limiter),
		middleware.Auth(sessions),
		middleware.CSRF(cfg.CSRFKey, middleware.CSRFOptions{
			Secure:         cfg.SecureCookies,
			TrustedOrigins: cfg.TrustedOrigins,
		}),
		middleware.SecurityHeaders(csp),
	)
}

// originsOf reduces URLs to their scheme://host origins, skipping blanks and relative URLs.
func originsOf(rawURLs ...string) []string {
	var origins []string
	for _, raw := range rawURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		origins = append(origins, u.Scheme+"://"+u.Host)
	}
	return origins
}

// OriginOf returns the origin of rawURL, or "" when it is not absolute.
func OriginOf(rawURL string) string {
	if o := originsOf(rawURL); len(o) > 0 {
		return o[0]
	}
	return ""
}
