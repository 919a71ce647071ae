package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/service-marketplace/internal/audit"
	"github.com/BruksfildServices01/service-marketplace/internal/config"
	dbpkg "github.com/BruksfildServices01/service-marketplace/internal/db"
	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/handlers"
	"github.com/BruksfildServices01/service-marketplace/internal/infra/cache"
	"github.com/BruksfildServices01/service-marketplace/internal/infra/storage"
	"github.com/BruksfildServices01/service-marketplace/internal/routes"
	"github.com/BruksfildServices01/service-marketplace/internal/scheduler"
	"github.com/BruksfildServices01/service-marketplace/internal/timezone"
	ucBooking "github.com/BruksfildServices01/service-marketplace/internal/usecase/booking"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	defer func() { _ = dbpkg.Close(db) }()

	if cfg.MigrateOnStart {
		if err := dbpkg.Migrate(ctx, db, log, dbpkg.MigrateUp); err != nil {
			return err
		}
	}

	loc, err := timezone.Load(cfg.Timezone)
	if err != nil {
		return err
	}

	// ======================================================
	// Infra opcional
	// ======================================================
	slotCache, redisClient := buildCache(ctx, cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	var uploader handlers.ImageUploader
	if cfg.UploadsEnabled() {
		uploader = storage.NewImageStore(cfg, log)
	} else {
		log.Info("S3_BUCKET not set, image upload disabled")
	}

	dispatcher := audit.NewDispatcher(audit.New(db), log)
	defer dispatcher.Close()

	deps := routes.Dependencies{
		DB:       db,
		Config:   cfg,
		Logger:   log,
		Location: loc,
		Cache:    slotCache,
		Uploader: uploader,
		Audit:    dispatcher,
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, deps)

	// ======================================================
	// Reaper de pendentes
	// ======================================================
	if cfg.ReaperEnabled() {
		bookingDeps, bookingCfg := routes.BookingUseCaseDeps(deps)
		reaper := scheduler.NewReaper(
			ucBooking.NewExpirePendingBookings(bookingDeps, bookingCfg, cfg.PendingTTL),
			cfg.PendingSweepInterval,
			log,
		)
		reaper.Start(ctx)
		defer reaper.Stop()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()), zap.String("timezone", loc.String()))
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

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildCache cai para o Nop quando o redis não está configurado ou não responde;
// o cache é só uma otimização.
func buildCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (domain.SlotCache, *redis.Client) {
	if !cfg.CacheEnabled() {
		return cache.Nop{}, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn("redis unavailable, availability cache disabled", zap.Error(err))
		return cache.Nop{}, nil
	}

	log.Info("availability cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.AvailabilityCacheTTL))
	return cache.NewAvailabilityCache(client, cfg.AvailabilityCacheTTL, log), client
}
