// Command blogd-server starts the blogd HTTP API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/and161185/blogd/internal/cache"
	"github.com/and161185/blogd/internal/config"
	"github.com/and161185/blogd/internal/errs"
	"github.com/and161185/blogd/internal/limiter"
	"github.com/and161185/blogd/internal/migrate"
	"github.com/and161185/blogd/internal/model"
	"github.com/and161185/blogd/internal/repository/postgres"
	httpserver "github.com/and161185/blogd/internal/server/http"
	"github.com/and161185/blogd/internal/service"
	"github.com/and161185/blogd/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, seeds the superuser, and serves
// the HTTP API until interrupted.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.ListenAddr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()

	// Optional read cache; the API works the same without it.
	userCache, err := cache.New(ctx, cfg.RedisAddr, cfg.CacheTTL)
	if err != nil {
		logger.Warn("cache disabled", zap.Error(err))
		userCache = nil
	}

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	blogRepo := postgres.NewBlogRepo(db)
	postRepo := postgres.NewPostRepo(db)
	roleRepo := postgres.NewRoleRepo(db)

	lim := limiter.NewPG(db.Pool, cfg.LoginWindow, cfg.LoginMaxFails, cfg.LoginBlockFor)
	issuer := token.NewIssuer(
		[]byte(cfg.AccessSecret), []byte(cfg.RefreshSecret),
		cfg.AccessTTL, cfg.RefreshTTL,
	)

	// Services
	usersSvc := service.NewUsers(userRepo, userCache)
	blogsSvc := service.NewBlogs(blogRepo)
	postsSvc := service.NewPosts(postRepo)
	rolesSvc := service.NewRoles(roleRepo)
	authSvc := service.NewAuth(userRepo, userRepo, issuer, lim, userCache)

	seed(ctx, logger, cfg, usersSvc, rolesSvc)

	app := httpserver.New(logger, authSvc, usersSvc, blogsSvc, postsSvc, rolesSvc)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

// seed creates the superuser role and account when configured. Re-running
// against an already seeded database is a no-op.
func seed(ctx context.Context, log *zap.Logger, cfg *config.Config, users *service.Users, roles *service.Roles) {
	if !cfg.SeedEnabled() {
		return
	}

	_, err := roles.Create(ctx, (model.RoleCreate{
		Name:        cfg.SuperuserRole,
		Description: "seeded on startup",
	}).Role())
	if err != nil && !errors.Is(err, errs.ErrAlreadyExists) {
		log.Fatal("seed role", zap.Error(err))
	}

	_, err = users.Create(ctx, (model.UserCreate{
		FirstName: "Super",
		LastName:  "Admin",
		Username:  cfg.SuperuserUsername,
		Email:     cfg.SuperuserEmail,
		Password:  cfg.SuperuserPassword,
	}).User())
	if err != nil && !errors.Is(err, errs.ErrAlreadyExists) {
		log.Fatal("seed superuser", zap.Error(err))
	}
	log.Info("superuser ready", zap.String("username", cfg.SuperuserUsername))
}
