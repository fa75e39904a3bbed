package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	assetshandler "nachlass/internal/assets/handler"
	assetsservice "nachlass/internal/assets/service"
	assetsstore "nachlass/internal/assets/store"
	"nachlass/internal/audit"
	familyhandler "nachlass/internal/family/handler"
	familymetrics "nachlass/internal/family/metrics"
	familyservice "nachlass/internal/family/service"
	familystore "nachlass/internal/family/store"
	"nachlass/internal/platform/config"
	"nachlass/internal/platform/httpserver"
	"nachlass/internal/platform/logger"
	"nachlass/internal/platform/metrics"
	"nachlass/internal/platform/middleware"
	platformredis "nachlass/internal/platform/redis"
	"nachlass/internal/token"
	universehandler "nachlass/internal/universe/handler"
	universemetrics "nachlass/internal/universe/metrics"
	universeservice "nachlass/internal/universe/service"
	universestore "nachlass/internal/universe/store"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		memberStore   familyservice.MemberStore
		universeStore universeservice.UniverseStore
		assetStore    assetsservice.AssetStore
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		members := familystore.NewPostgres(db)
		universes := universestore.NewPostgres(db)
		assets := assetsstore.NewPostgres(db)
		for _, ensure := range []func(context.Context) error{
			members.EnsureSchema, universes.EnsureSchema, assets.EnsureSchema,
		} {
			if err := ensure(ctx); err != nil {
				log.Error("failed to ensure schema", "error", err)
				os.Exit(1)
			}
		}
		memberStore, universeStore, assetStore = members, universes, assets
	} else {
		log.Warn("POSTGRES_DSN not set, using in-memory stores")
		memberStore = familystore.NewInMemory()
		universeStore = universestore.NewInMemory()
		assetStore = assetsstore.NewInMemory()
	}

	auditQueue := audit.NewQueue(audit.NewMemoryStore(), 256)
	auditPublisher := audit.NewPublisher(auditQueue)

	familyOpts := []familyservice.Option{
		familyservice.WithLogger(log),
		familyservice.WithAuditPublisher(auditPublisher),
		familyservice.WithMetrics(familymetrics.New()),
	}
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		familyOpts = append(familyOpts,
			familyservice.WithGroupCache(familystore.NewRedisGroupCache(redisClient.Client, config.GroupCacheTTL)))
	}

	familySvc := familyservice.New(memberStore, familyOpts...)
	universeSvc := universeservice.New(universeStore, memberStore,
		universeservice.WithLogger(log),
		universeservice.WithAuditPublisher(auditPublisher),
		universeservice.WithMetrics(universemetrics.New()),
	)
	assetsSvc := assetsservice.New(assetStore, familySvc,
		assetsservice.WithLogger(log),
		assetsservice.WithAuditPublisher(auditPublisher),
	)

	tokenSvc := token.NewService(cfg.JWTSigningKey, "nachlass", "nachlass-app")

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(chimw.Timeout(30 * time.Second))
	router.Use(chimw.AllowContentType("application/json"))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Universe creation and sign-in are the only unauthenticated domain
	// routes; both return the session token the rest of the API requires.
	universeH := universehandler.New(universeSvc, log,
		universehandler.WithTokenIssuer(tokenSvc, cfg.TokenTTL),
		universehandler.WithAuditLog(auditPublisher))
	router.Post("/universes", universeH.HandleCreateUniverse)
	router.Post("/sessions", universeH.HandleSignIn)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(token.NewServiceAdapter(tokenSvc), log))
		r.Route("/universe", func(r chi.Router) {
			r.Get("/", universeH.HandleGetUniverse)
			r.Patch("/settings", universeH.HandleUpdateSettings)
			r.Get("/audit", universeH.HandleAuditTrail)
		})
		familyhandler.New(familySvc, log).Register(r)
		assetshandler.New(assetsSvc, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return auditQueue.Run(groupCtx)
	})
	group.Go(func() error {
		log.Info("starting nachlass server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
