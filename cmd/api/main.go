// Command api serves the ClientOps Hub REST API.
//
// @title                       ClientOps Hub API
// @version                     1.0
// @description                 Clients, leads and invoices with soft-delete, role-gated access and an audit trail.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/clientops/hub/docs"
	"github.com/clientops/hub/internal/api"
	"github.com/clientops/hub/internal/api/handler"
	"github.com/clientops/hub/internal/core/ports"
	"github.com/clientops/hub/internal/core/service"
	mongostore "github.com/clientops/hub/internal/infrastructure/db/mongo"
	redisstore "github.com/clientops/hub/internal/infrastructure/db/redis"
	"github.com/clientops/hub/internal/infrastructure/db/sqlstore"
	"github.com/clientops/hub/internal/pkg/config"
	"github.com/clientops/hub/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: cfg.AppName,
	})

	store, err := sqlstore.Open(ctx, sqlstore.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.URL})
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ApplyMigrations(); err != nil {
		return err
	}
	log.Info().Str("driver", store.DriverName()).Msg("database ready")

	readiness := []handler.Check{handler.PingerCheck("database", store)}

	var auditRepo ports.AuditRepository = store.Audit()
	if cfg.AuditStore == "mongo" {
		db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  cfg.AppName,
		})
		if err != nil {
			return err
		}
		defer mongostore.Disconnect(context.WithoutCancel(ctx), db)

		repo := mongostore.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		auditRepo = repo
		readiness = append(readiness, handler.MongoCheck(db))
		log.Info().Str("database", cfg.Mongo.Database).Msg("audit log stored in mongodb")
	}

	var userCache ports.UserCache
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		userCache = redisstore.NewUserCache(rdb, cfg.Redis.UserTTL)
		readiness = append(readiness, handler.RedisCheck(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("user cache enabled")
	}

	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := service.NewAuthService(store.Users(), tokens, userCache, log)
	auditService := service.NewAuditService(auditRepo, log)

	if cfg.SeedOnStart {
		if err := service.NewSeeder(store, authService, log).Seed(ctx); err != nil {
			return err
		}
	}

	docs.SwaggerInfo.Title = cfg.AppName
	docs.SwaggerInfo.BasePath = cfg.APIPrefix

	deps := api.Deps{
		Config:    cfg,
		Logger:    log,
		Auth:      authService,
		Clients:   service.NewClientService(store, auditService, log),
		Leads:     service.NewLeadService(store, auditService, log),
		Invoices:  service.NewInvoiceService(store, auditService, log),
		Audit:     auditService,
		Readiness: readiness,
	}
	if cfg.MetricsEnabled {
		deps.Registerer = prometheus.DefaultRegisterer
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := api.NewRouter(deps)
	return serve(ctx, e, cfg, log)
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests within the configured shutdown timeout.
func serve(ctx context.Context, srv interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
}, cfg *config.Config, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
