package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"diskowner/application"
	"diskowner/infrastructure/config"
	"diskowner/infrastructure/crashreport"
	"diskowner/infrastructure/credstore"
	"diskowner/infrastructure/y360client"
	"diskowner/interfaces/cli/handlers"
	"diskowner/interfaces/cli/presenters"
	"diskowner/interfaces/cli/prompt"
	"diskowner/logging"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

// Dependencies holds the objects owned by one session.
type Dependencies struct {
	Logger   *logging.Logger
	Reporter *crashreport.Reporter
	Console  *presenters.Console
	Session  *handlers.Session
}

func run() (code int) {
	console := presenters.NewConsole(os.Stdout)
	envLoaded, envErr := loadEnvironment()

	cfg, err := config.LoadAppConfigFromEnv()
	if err != nil {
		console.Error(fmt.Sprintf("unexpected error: %v", err))
		return 1
	}

	logger := initializeLogging(cfg, envLoaded, envErr)
	reporter := initializeCrashReporting(cfg, logger)
	defer reporter.Flush(2 * time.Second)

	defer func() {
		if r := recover(); r != nil {
			reporter.CapturePanic(r)
			logger.Error("Unexpected panic", "panic", r)
			console.Error(fmt.Sprintf("unexpected error: %v", r))
			code = 1
		}
	}()

	deps, err := buildDependencies(cfg, logger, reporter, console)
	if err != nil {
		return fail(logger, reporter, console, err)
	}

	// Ctrl-C and SIGTERM cancel ctx; the session reports the interrupt and exits 0.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := deps.Session.Run(ctx); err != nil {
		return fail(logger, reporter, console, err)
	}
	return 0
}

func fail(logger *logging.Logger, reporter *crashreport.Reporter, console *presenters.Console, err error) int {
	logger.Error("Unexpected error", "error", err)
	reporter.CaptureError(err, "session failed")
	console.Error(fmt.Sprintf("unexpected error: %v", err))
	return 1
}

// loadEnvironment reads ./.env when present. Existing variables win.
func loadEnvironment() (bool, error) {
	err := godotenv.Load()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func initializeLogging(cfg *config.AppConfig, envLoaded bool, envErr error) *logging.Logger {
	logger := logging.NewLogger(&cfg.Logging)
	logging.SetDefault(logger)

	if envErr != nil {
		logger.Warn("Ignoring unreadable .env file", "error", envErr)
	}
	logger.Info("Application starting",
		"version", version,
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"env_file", envLoaded,
		"directory_api", cfg.API.DirectoryBaseURL,
		"disk_api", cfg.API.DiskBaseURL,
	)
	return logger
}

func initializeCrashReporting(cfg *config.AppConfig, logger *logging.Logger) *crashreport.Reporter {
	reporter, err := crashreport.New(cfg.CrashReport, "diskowner@"+version)
	if err != nil {
		logger.Warn("Crash reporting disabled", "error", err)
	}
	return reporter
}

func buildDependencies(cfg *config.AppConfig, logger *logging.Logger, reporter *crashreport.Reporter, console *presenters.Console) (*Dependencies, error) {
	store, err := credstore.New(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	credentials := application.NewCredentialService(store, y360client.Factory(&cfg.API))
	session := handlers.NewSession(
		console,
		prompt.New(os.Stdin, os.Stdout),
		credentials,
		store,
	)

	return &Dependencies{
		Logger:   logger,
		Reporter: reporter,
		Console:  console,
		Session:  session,
	}, nil
}
