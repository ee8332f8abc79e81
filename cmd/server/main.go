package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "quickpoll/docs"
	"quickpoll/internal/config"
	"quickpoll/internal/domain/poll"
	"quickpoll/internal/domain/user"
	"quickpoll/internal/domain/vote"
	api "quickpoll/internal/http"
	"quickpoll/internal/identity"
	"quickpoll/internal/metrics"
	"quickpoll/internal/platform/cache"
	"quickpoll/internal/platform/database"
	jwtpkg "quickpoll/internal/platform/jwt"
	"quickpoll/internal/realtime"
	"quickpoll/internal/repository/postgres"
	"quickpoll/internal/worker"
)

// @title           QuickPoll API
// @version         1.0
// @description     Real-time polls with idempotent votes and likes and websocket fan-out
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	api.SetLogger(logger)
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.DB_DSN)
	if err != nil {
		fatal(logger, "db connect error", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		fatal(logger, "migration error", err)
	}

	userRepo := postgres.NewUserRepo(db)
	pollRepo := postgres.NewPollRepo(db)
	voteRepo := postgres.NewVoteRepo(db)

	pollCache, err := cache.NewPollCache(cfg.CacheMaxItems, cfg.CacheTTL, logger)
	if err != nil {
		fatal(logger, "cache init error", err)
	}

	hub := realtime.NewHub(realtime.Options{
		QueueSize:  cfg.BroadcastQueue,
		SendBuffer: cfg.WSSendBuffer,
		Logger:     logger,
	})
	notifier := realtime.NewNotifier(hub)

	userSvc := user.NewService(userRepo)
	pollSvc := poll.NewService(pollRepo, voteRepo, pollCache, notifier)
	voteSvc := vote.NewService(voteRepo, pollRepo, notifier)

	jwtMgr := jwtpkg.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	resolver := identity.NewResolver(jwtMgr, identity.CookieOptions{
		Name:   cfg.SessionCookie,
		MaxAge: cfg.SessionMaxAge,
		Secure: cfg.CookieSecure,
	})

	ws := realtime.NewWSHandler(hub, realtime.WSConfig{
		WriteTimeout:   cfg.WSWriteTimeout,
		PingInterval:   cfg.WSPingInterval,
		PongWait:       cfg.WSPongWait,
		AllowedOrigins: cfg.AllowedOrigins,
	}, logger)

	scheduler, err := worker.NewScheduler(voteSvc, pollSvc, worker.Schedules{
		Reconcile: cfg.ReconcileSchedule,
		Expiry:    cfg.ExpirySchedule,
	}, logger)
	if err != nil {
		fatal(logger, "scheduler init error", err)
	}

	router := api.NewRouter(api.Deps{
		Users:          userSvc,
		Polls:          pollSvc,
		Votes:          voteSvc,
		Tokens:         jwtMgr,
		Resolver:       resolver,
		Live:           ws,
		DB:             db,
		AllowedOrigins: cfg.AllowedOrigins,
		VoteRatePerMin: cfg.VoteRatePerMin,
		VoteRateBurst:  cfg.VoteRateBurst,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go hub.Run(ctx)
	go scheduler.Run(ctx)

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "listen error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}

	logger.Info("server stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}
