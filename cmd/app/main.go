package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"github.com/wichananm65/sales-backend/internal/auth"
	"github.com/wichananm65/sales-backend/internal/config"
	"github.com/wichananm65/sales-backend/internal/database"
	"github.com/wichananm65/sales-backend/internal/importer"
	"github.com/wichananm65/sales-backend/internal/location"
	"github.com/wichananm65/sales-backend/internal/logging"
	"github.com/wichananm65/sales-backend/internal/sale"
	"github.com/wichananm65/sales-backend/internal/statistics"
	"github.com/wichananm65/sales-backend/internal/user"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db := mustOpenDB(cfg, logger)
	defer db.Close()

	revoker := newRevoker(cfg, logger)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	app := fiber.New(fiber.Config{BodyLimit: cfg.UploadMaxBytes})
	setupCORS(app, cfg.CORSOrigins)
	app.Use(requestid.New())
	// recover sits inside the logger so panics are logged as 500s
	app.Use(logging.Middleware(logger))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	locationRepo := location.NewPostgresRepository(db)
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo, locationRepo, logger)
	userHandler := user.NewHandler(userService, issuer, revoker, logger)

	saleRepo := sale.NewPostgresRepository(db)
	saleHandler := sale.NewHandler(sale.NewService(saleRepo, logger), logger)
	statisticsHandler := statistics.NewHandler(statistics.NewService(saleRepo, logger), logger)
	importHandler := importer.NewHandler(importer.NewService(userService, saleRepo, logger), logger)

	locationHandler := location.NewHandler(location.NewService(locationRepo), logger)

	userHandler.RegisterPublicRoutes(app)
	locationHandler.RegisterPublicRoutes(app)

	app.Use(auth.Middleware(cfg.JWTSecret, revoker, logger))

	userHandler.RegisterProtectedRoutes(app)
	// statistics before the /sales/:id routes
	statisticsHandler.RegisterProtectedRoutes(app)
	saleHandler.RegisterProtectedRoutes(app)
	importHandler.RegisterProtectedRoutes(app)

	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			logger.Error("server stopped", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("addr", cfg.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(cfg config.Config, logger *zap.Logger) *sql.DB {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
	return db
}

// newRevoker keeps revoked tokens in Redis when REDIS_URL is set.
func newRevoker(cfg config.Config, logger *zap.Logger) auth.Revoker {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, revoked tokens are kept in memory")
		return auth.NewMemoryRevoker()
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("invalid REDIS_URL", zap.Error(err))
	}
	return auth.NewRedisRevoker(redis.NewClient(opts))
}
