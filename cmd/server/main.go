// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/unclebandit/dinerreach/internal/cache"
	"github.com/unclebandit/dinerreach/internal/config"
	"github.com/unclebandit/dinerreach/internal/controller"
	"github.com/unclebandit/dinerreach/internal/db"
	"github.com/unclebandit/dinerreach/internal/fixtures"
	"github.com/unclebandit/dinerreach/internal/handler"
	"github.com/unclebandit/dinerreach/internal/metrics"
	"github.com/unclebandit/dinerreach/internal/queue"
	"github.com/unclebandit/dinerreach/internal/repository"
	"github.com/unclebandit/dinerreach/internal/router"
	"github.com/unclebandit/dinerreach/internal/service"
	"github.com/unclebandit/dinerreach/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	configureLogging(cfg)
	initSentry(cfg)
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logrus.Fatalf("❌ server stopped: %v", err)
	}
	logrus.Info("Server exited properly")
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logrus.StandardLogger()

	store, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	campaignRepo := &repository.CampaignRepository{DB: store}
	dinerRepo := &repository.DinerRepository{DB: store}

	var roster service.RosterSource = fixtures.NewRoster(catalog.Diners)
	if cfg.RosterSource == config.RosterDatabase {
		roster = dinerRepo
	}
	log.WithField("roster", cfg.RosterSource).Info("📇 Diner roster source selected")

	q, closeQueue, err := openQueue(cfg, log)
	if err != nil {
		return err
	}
	defer closeQueue()

	listCache, closeCache, err := openCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	m := metrics.New()

	directory := &service.Directory{Source: roster, Cities: catalog.Cities, Interests: catalog.Interests}
	suggester := &service.CannedSuggester{Pool: catalog.Suggestions, Delay: cfg.SuggestionDelay}
	dashboard := &service.Dashboard{Store: campaignRepo, Cache: listCache, Metrics: m, Log: log}
	if err := dashboard.Subscribe(q); err != nil {
		return err
	}

	sessions := session.NewStore(func() *service.Composer {
		return service.NewComposer(campaignRepo, suggester, dashboard.Notifier(q), m, log)
	}, cfg.SessionIdle)

	h := router.New(router.Deps{
		Diners:     &controller.DinerController{Directory: directory, Suggestions: catalog.Suggestions, Log: log},
		Workspaces: &controller.WorkspaceController{Directory: directory, Suggestions: catalog.Suggestions, Log: log},
		Campaigns:  &controller.CampaignController{Campaigns: campaignRepo, Dashboard: dashboard, Log: log},
		Pages:      &handler.PageHandler{Directory: directory, Dashboard: dashboard, Suggestions: catalog.Suggestions, Log: log},
		Sessions:   sessions,
		Cookie:     cfg.SessionCookie,
		Metrics:    m,
		Log:        log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("🚀 Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return sweepSessions(gctx, sessions, log)
	})

	return g.Wait()
}

func sweepSessions(ctx context.Context, sessions *session.Store, log logrus.FieldLogger) error {
	if sessions.IdleTimeout <= 0 {
		return nil
	}
	ticker := time.NewTicker(sessions.IdleTimeout / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				log.WithField("removed", n).Debug("Evicted idle workspaces")
			}
		}
	}
}

func openQueue(cfg *config.Config, log logrus.FieldLogger) (queue.Queue, func(), error) {
	if cfg.RabbitMQURL == "" {
		log.Info("📨 Using in-memory event queue")
		return queue.NewInMemoryQueue(log), func() {}, nil
	}
	q, err := queue.DialAMQP(cfg.RabbitMQURL, cfg.RabbitMQExchange, log)
	if err != nil {
		return nil, nil, err
	}
	log.WithField("exchange", cfg.RabbitMQExchange).Info("📨 Connected to RabbitMQ")
	return q, func() {
		if err := q.Close(); err != nil {
			log.WithError(err).Warn("⚠️ failed to close RabbitMQ connection")
		}
	}, nil
}

func openCache(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (cache.CampaignListCache, func(), error) {
	if cfg.Redis.Addr == "" {
		return cache.NewMemory(cfg.CacheTTL), func() {}, nil
	}
	client, err := cache.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	log.WithField("addr", cfg.Redis.Addr).Info("🗄️ Using Redis campaign cache")
	return cache.NewRedis(client, cfg.CacheTTL), func() { client.Close() }, nil
}

func loadCatalog(path string) (*fixtures.Catalog, error) {
	if path != "" {
		return fixtures.LoadFile(path)
	}
	return fixtures.Default()
}

func configureLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// initSentry leaves the SDK disabled when no DSN is configured.
func initSentry(cfg *config.Config) {
	if cfg.SentryDSN == "" {
		return
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
		logrus.WithError(err).Warn("⚠️ sentry init failed, error reporting disabled")
		return
	}
	logrus.Info("Sentry initialized")
}
