package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/cardsync/internal/logging"
	"github.com/iudanet/cardsync/internal/server"
	"github.com/iudanet/cardsync/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const (
	shutdownTimeout = 5 * time.Second
	janitorInterval = 10 * time.Minute
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg, err := server.LoadFileConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Listen = *addr
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}
	if cfg.Secret == "" {
		cfg.Secret = os.Getenv("FAKEICLOUD_SECRET")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *server.FileConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	secrets := &logging.Secrets{}
	secrets.Add(cfg.Secret)
	for _, a := range cfg.Accounts {
		secrets.Add(a.Password)
	}
	logger := logging.New(os.Stderr, level, secrets)

	authCfg, err := cfg.AuthConfig()
	if err != nil {
		return err
	}

	store, err := sqlite.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	for _, a := range cfg.Accounts {
		if err := server.EnsureAccount(ctx, store, a.AppleID, a.Password, a.FullName); err != nil {
			return err
		}
		logger.Info("account ready", slog.String("apple_id", a.AppleID))
	}

	srv := server.New(server.Config{
		Logger:  logger,
		Store:   store,
		Version: Version,
		Auth:    authCfg,
		Limit:   cfg.RateLimit.Limit(),
		Signin:  cfg.SigninRateLimit.Limit(),
	})
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("fakeicloud listening",
			slog.String("addr", cfg.Listen),
			slog.String("second_factor", string(authCfg.SecondFactor)),
			slog.String("version", Version))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return srv.RunJanitor(gctx, janitorInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func printVersion() {
	fmt.Printf("fakeicloud\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
