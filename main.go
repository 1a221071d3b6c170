package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"libris-backend/internal/platform/auth"
	"libris-backend/internal/platform/clock"
	"libris-backend/internal/platform/config"
	"libris-backend/internal/platform/db"
	"libris-backend/internal/platform/logging"
)

// @title                      Libris API
// @version                    1.0
// @description                Library backend: catalog, loans, fines, reservations and reports.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	path := config.DefaultPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Mode)
	slog.SetDefault(logger)
	logger.Info("starting", "mode", cfg.Mode, "version", cfg.Version)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer conn.Close()
	logger.Info("connected to DB", "dbname", cfg.DB.DBName)

	if cfg.DB.Migrate {
		if err := db.Migrate(ctx, conn); err != nil {
			return err
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r, authSvc := newRouter(deps{
		cfg:      cfg,
		log:      logger,
		conn:     conn,
		sessions: auth.NewRedisSessionStore(rdb),
		clock:    clock.Real(),
	})

	if a := cfg.Auth.BootstrapAdmin; a.Email != "" {
		if a.Password == "" {
			logger.Warn("bootstrap admin skipped: no password set", "email", a.Email)
		} else if _, err := authSvc.EnsureAdmin(ctx, auth.RegisterInput{
			FullName: a.FullName, Email: a.Email, Password: a.Password,
		}); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cert, key, ok := cfg.TLSFiles(); ok {
			logger.Info("listening (tls)", "addr", srv.Addr)
			err = srv.ListenAndServeTLS(cert, key)
		} else {
			logger.Info("listening", "addr", srv.Addr)
			err = srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
