package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/storefront/commerce-api/internal/api"
	"github.com/storefront/commerce-api/internal/core/service"
	mongostore "github.com/storefront/commerce-api/internal/infrastructure/db/mongo"
	redisstore "github.com/storefront/commerce-api/internal/infrastructure/db/redis"
	"github.com/storefront/commerce-api/internal/infrastructure/http/handlers"
	"github.com/storefront/commerce-api/internal/infrastructure/queue"
	"github.com/storefront/commerce-api/internal/infrastructure/security"
	"github.com/storefront/commerce-api/internal/infrastructure/token"
	"github.com/storefront/commerce-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API server",
	Long: `Starts the HTTP API server. Usage:

	commerce-api serve
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to mongo")
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to redis")
		return err
	}
	defer rdb.Close()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Error().Err(err).Msg("failed to ensure indexes")
		return err
	}

	// --- Infrastructure ---
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := token.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration)

	admins := mongostore.NewAdminRepository(db)
	users := mongostore.NewUserRepository(db)
	products := mongostore.NewProductRepository(db)
	orders := mongostore.NewOrderRepository(db)
	coupons := mongostore.NewCouponRepository(db)

	audit := queue.NewAuditDispatcher(cfg.Audit.Workers, mongostore.NewAuditRepository(db), logger.Component("audit"))
	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()
	audit.Start(auditCtx)

	if _, err := service.EnsureAdmin(ctx, admins, hasher, service.SeedAdminInput{
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}, log); err != nil {
		log.Error().Err(err).Msg("failed to seed admin")
		return err
	}

	// --- Services ---
	authService := service.NewAuthService(service.AuthDeps{
		Admins:           mongostore.NewAdminAccountRepository(db),
		Users:            mongostore.NewUserAccountRepository(db),
		Profiles:         users,
		Products:         products,
		Hasher:           hasher,
		Tokens:           tokens,
		Throttle:         redisstore.NewLoginThrottle(rdb, cfg.Auth.LoginWindow),
		LoginMaxAttempts: cfg.Auth.LoginMaxAttempts,
		Audit:            audit,
	}, logger.Component("auth"))

	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Users:    service.NewUserService(users, products, hasher, logger.Component("users")),
		Products: service.NewProductService(products, logger.Component("products")),
		Orders:   service.NewOrderService(orders, users, products, logger.Component("orders")),
		Coupons:  service.NewCouponService(coupons, logger.Component("coupons")),
		Tokens:   tokens,
		Checks: map[string]handlers.Check{
			"mongo": handlers.MongoCheck(db),
			"redis": handlers.RedisCheck(rdb),
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
