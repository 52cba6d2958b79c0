package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	server "github.com/kazz187/novapm/internal"
	"github.com/kazz187/novapm/internal/apiclient"
	"github.com/kazz187/novapm/internal/config"
	"github.com/kazz187/novapm/internal/console"
	"github.com/kazz187/novapm/internal/session"
	settingsrepo "github.com/kazz187/novapm/internal/settings/repositoryimpl"
	"github.com/kazz187/novapm/internal/testrun"
	testrunrepo "github.com/kazz187/novapm/internal/testrun/repositoryimpl"
	"github.com/kazz187/novapm/pkg/clog"
	"github.com/kazz187/novapm/pkg/storage"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.IsLocal() {
		handler = clog.NewHTTPTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Setup storage
	var store storage.Storage
	switch env.StorageEnv.Type {
	case "s3":
		store, err = storage.NewS3Storage(ctx, env.StorageEnv.S3Bucket, env.StorageEnv.S3Prefix, env.StorageEnv.S3Region)
		if err != nil {
			slog.Error("failed to create S3 storage", "error", err)
			os.Exit(1)
		}
	default:
		store, err = storage.NewLocalStorage(env.StorageEnv.BaseDir)
		if err != nil {
			slog.Error("failed to create local storage", "error", err)
			os.Exit(1)
		}
	}

	// Setup repositories
	settingsRepo := settingsrepo.NewYAMLRepository(store)
	testRunRepo := testrunrepo.NewYAMLRepository(store)
	seeded, err := testRunRepo.Seed(ctx, testrun.SampleRuns())
	if err != nil {
		slog.Error("failed to seed test run catalogue", "error", err)
		os.Exit(1)
	}
	if seeded {
		slog.Warn("seeded sample test runs into the catalogue")
	}

	templates, err := console.LoadTemplates(env.TemplateDir)
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}
	go func() {
		if err := templates.Watch(ctx); err != nil {
			slog.Error("template watcher stopped", "error", err)
		}
	}()

	api := apiclient.New(env.APIEnv.BaseURL, apiclient.WithTimeout(env.APIEnv.Timeout))
	c := console.New(
		api,
		session.NewManager(env.CookieSecure, session.WithRefresher(api.RefreshSession)),
		settingsRepo,
		testrun.NewService(api, testRunRepo),
		templates,
	)

	slog.Info("console configured", "api_base_url", api.BaseURL(), "storage", env.StorageEnv.Type)
	srv := server.NewServer(env, c.Routes())
	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
