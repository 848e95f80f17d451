package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/baharkarakas/rentacar-backend/internal/api"
	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/events"
	"github.com/baharkarakas/rentacar-backend/internal/metrics"
	"github.com/baharkarakas/rentacar-backend/internal/services"
	"github.com/baharkarakas/rentacar-backend/internal/worker"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply migrations before serving")
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, store, err := boot(ctx, migrateOnStart)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())
	log := slog.Default()

	rdb, err := auth.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return err
	}
	if rdb == nil {
		log.Warn("REDIS_ADDR not set; refresh tokens are not revocable")
	} else {
		defer rdb.Close()
	}
	sessions := auth.NewRedisSessions(rdb)

	var emitter events.Emitter = events.Noop{}
	if cfg.AMQPURL != "" {
		mq, err := events.DialRabbitMQ(cfg.AMQPURL, "rentals")
		if err != nil {
			return err
		}
		defer mq.Close()

		// stopped before the broker connection closes so queued events drain
		wp := worker.NewPool(cfg.Workers)
		defer wp.Stop()
		emitter = events.NewDispatcher(wp, mq)
	}

	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Cfg:       cfg,
		Tokens:    tm,
		Accounts:  store.Repos().Users,
		UserSvc:   services.NewUserService(store, tm, sessions),
		StaffSvc:  services.NewStaffService(store, sessions),
		CarSvc:    services.NewCarService(store),
		RentalSvc: services.NewRentalService(store, emitter),
		ReviewSvc: services.NewReviewService(store, emitter),
		ReportSvc: services.NewReportService(store),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "db", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
