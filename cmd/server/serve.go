package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"ascend/internal/adapters/email"
	"ascend/internal/adapters/formrelay"
	web "ascend/internal/adapters/http"
	"ascend/internal/adapters/http/middleware"
	"ascend/internal/adapters/http/perf"
	"ascend/internal/adapters/notify"
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
	"ascend/internal/config"
	"ascend/internal/domain/table"
)

// shutdownTimeout bounds how long in-flight requests may finish after a signal.
const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// runServe wires every adapter and serves until ctx is cancelled.
// PRE: ctx is cancelled on SIGINT/SIGTERM
// POST: The listener is closed and in-flight requests have drained (or timed out)
func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.FillDevKeys(); err != nil {
		return err
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	backend, closeBackend, err := openBackend(cfg, collector, true)
	if err != nil {
		return err
	}
	defer closeBackend()

	objects, uploads, err := openObjectStore(ctx, cfg)
	if err != nil {
		return err
	}
	client := remote.NewClient(backend, objects)

	directory, err := adminStore.ParseDirectory(cfg.AdminUsers)
	if err != nil {
		return err
	}
	if directory.Len() == 0 {
		slog.Warn("config_event", "event", "no_admin_users", "hint", "set ASCEND_ADMIN_USERS to sign in to the back-office")
	}

	stores := newStores(client, directory)
	if cfg.SeedContent {
		if err := orchestrators.ExecuteSeedContent(ctx, orchestrators.SeedContentDeps{
			PlanStore:     stores.PlanStore,
			TrainingStore: stores.TrainingStore,
			EventStore:    stores.EventStore,
			BlogStore:     stores.BlogStore,
		}); err != nil {
			return fmt.Errorf("seed content: %w", err)
		}
	}

	sessions, err := middleware.NewSessionManager(cfg.SessionKey, cfg.SessionTTL)
	if err != nil {
		return err
	}
	relay, err := newRelay(cfg)
	if err != nil {
		return err
	}
	notifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}

	var imageOrigins []string
	if origin := web.OriginOf(cfg.BucketPublicURL); origin != "" {
		imageOrigins = append(imageOrigins, origin)
	}
	web.RateLimitPerSecond = cfg.RateLimitPerSecond
	handler := web.NewMux(stores, &web.Config{
		Relay:             relay,
		EmailSender:       newEmailSender(cfg),
		NotifyTo:          cfg.NotifyTo,
		Notifier:          notifier,
		CheckoutScriptURL: cfg.CheckoutScriptURL,
		CheckoutPublicKey: cfg.CheckoutPublicKey,
		AdminPanelURL:     cfg.AdminPanelURL,
		ImageOrigins:      imageOrigins,
		Uploads:           uploads,
		Location:          cfg.Location,
		SecureCookies:     cfg.IsProduction(),
		CSRFKey:           cfg.CSRFKey,
		TrustedOrigins:    cfg.TrustedOrigins,
	}, sessions, collector)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_started", "addr", cfg.Addr, "backend", cfg.Backend, "env", cfg.Env, "version", version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_stopping", "timeout", shutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server_stopped")
	return nil
}

// openBackend connects the configured data store. Local SQL backends are migrated
// when migrate is set.
// PRE: cfg passed Validate
// POST: Returns the backend and a close func that is always safe to call
func openBackend(cfg config.Config, collector *perf.Collector, migrate bool) (remote.Backend, func(), error) {
	if cfg.Backend == config.BackendREST {
		b, err := remote.NewRESTBackend(remote.RESTConfig{
			BaseURL: cfg.BackendURL,
			APIKey:  cfg.BackendKey,
			Timeout: cfg.RemoteTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return b, func() {}, nil
	}

	dialect, err := storage.ParseDialect(cfg.Backend)
	if err != nil {
		return nil, nil, err
	}
	dsn := cfg.DatabaseURL
	if dialect == storage.DialectSQLite {
		dsn = storage.SQLiteDSN(dsn)
	}
	db, err := storage.Open(dialect, dsn)
	if err != nil {
		return nil, nil, err
	}
	if migrate {
		if err := storage.Migrate(db, dialect); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	slog.Info("database_ready", "dialect", string(dialect))
	return storage.NewSQLBackend(db, dialect, collector), func() { db.Close() }, nil
}

// openObjectStore picks the S3-compatible bucket when one is configured and the
// local uploads directory otherwise. The returned handler is nil for buckets.
func openObjectStore(ctx context.Context, cfg config.Config) (remote.Storage, http.Handler, error) {
	if cfg.UsesBucket() {
		bucket, err := objectstore.NewS3Bucket(ctx, objectstore.S3Config{
			Endpoint:  cfg.BucketEndpoint,
			Region:    cfg.BucketRegion,
			Bucket:    cfg.BucketName,
			AccessKey: cfg.BucketAccessKey,
			SecretKey: cfg.BucketSecretKey,
			PublicURL: cfg.BucketPublicURL,
			PathStyle: cfg.BucketPathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		return bucket, nil, nil
	}
	dir := objectstore.NewLocalDir(cfg.UploadsDir, "/uploads/")
	return dir, dir.Handler(), nil
}

func newStores(client *remote.Client, directory *adminStore.Directory) *web.Stores {
	return &web.Stores{
		Backend:           client,
		TrainingStore:     trainingStore.NewRemoteStore(client),
		PlanStore:         pricingStore.NewRemoteStore(client),
		EventStore:        eventStore.NewRemoteStore(client),
		BlogStore:         blogStore.NewRemoteStore(client),
		RegistrationStore: registrationStore.NewRemoteStore(client),
		InquiryStore:      inquiryStore.NewRemoteStore(client),
		NewsletterStore:   newsletterStore.NewRemoteStore(client),
		UploadStore:       uploadStore.NewBucketStore(client),
		AdminStore:        directory,
		ActivityStore:     auditStore.NewRemoteStore(client),
		Registry:          table.DefaultRegistry(),
	}
}

func newEmailSender(cfg config.Config) email.Sender {
	if cfg.ResendKey == "" {
		slog.Warn("config_event", "event", "email_disabled", "hint", "set ASCEND_RESEND_KEY to send welcome and notification emails")
		return email.NewNoopSender()
	}
	return email.NewResendSender(cfg.ResendKey, cfg.EmailFrom, cfg.EmailReplyTo)
}

// newNotifier returns nil when no bot token is configured; handlers skip chat alerts then.
func newNotifier(cfg config.Config) (notify.Notifier, error) {
	if cfg.TelegramToken == "" {
		return nil, nil
	}
	n, err := notify.NewTelegramNotifier(notify.TelegramConfig{
		Token:  cfg.TelegramToken,
		ChatID: cfg.TelegramChatID,
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func newRelay(cfg config.Config) (formrelay.Relay, error) {
	if cfg.FormRelayURL == "" {
		if cfg.IsProduction() {
			return nil, errors.New("ASCEND_FORM_RELAY_URL is required in production")
		}
		slog.Warn("config_event", "event", "form_relay_disabled", "hint", "contact submissions are only logged")
		return formrelay.LogRelay{}, nil
	}
	return formrelay.NewHTTPRelay(cfg.FormRelayURL, nil)
}
