package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/example/deskbooker/internal/access"
	"github.com/example/deskbooker/internal/application"
	"github.com/example/deskbooker/internal/commands"
	"github.com/example/deskbooker/internal/config"
	"github.com/example/deskbooker/internal/dispatch"
	httptransport "github.com/example/deskbooker/internal/http"
	"github.com/example/deskbooker/internal/logging"
	"github.com/example/deskbooker/internal/persistence/sqlite"
	"github.com/example/deskbooker/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "deskbot:", err)
			os.Exit(1)
		}
	}
}

type options struct {
	envFile string
	dbPath  string
	port    int
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("deskbot", pflag.ContinueOnError)
	fs.StringVar(&opts.envFile, "env-file", "", "dotenv file to read (default .env when present)")
	fs.StringVar(&opts.dbPath, "db-path", "", "SQLite database file, overrides DESKBOT_DB_PATH")
	fs.IntVar(&opts.port, "port", 0, "webhook listen port, overrides DESKBOT_HTTP_PORT")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.port < 0 || opts.port > 65535 {
		return options{}, fmt.Errorf("invalid --port %d", opts.port)
	}
	return opts, nil
}

func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.LoadWithEnvFile(opts.envFile)
	if err != nil {
		return config.Config{}, err
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if opts.port != 0 {
		cfg.HTTPPort = opts.port
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := logging.New(cfg.LogLevel, stdout)

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return err
	}
	defer app.close()

	loopDone := make(chan struct{})
	loopCtx, stopLoop := context.WithCancel(context.Background())
	go func() {
		defer close(loopDone)
		_ = app.loop.Run(loopCtx)
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.ListenAndServe()
	}()
	logger.Info("desk booking assistant listening", "addr", server.Addr, "db_path", cfg.DBPath)

	var serveErr error
	select {
	case serveErr = <-serveDone:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
		cancel()
		serveErr = <-serveDone
	}

	// Shutdown has drained in-flight requests; stop the worker afterwards.
	stopLoop()
	<-loopDone

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", serveErr)
		return serveErr
	}
	logger.Info("desk booking assistant stopped")
	return nil
}

type app struct {
	store   *sqlite.Store
	loop    *dispatch.Loop
	counter *telemetry.Counter
	handler http.Handler
	logger  *slog.Logger
}

// newApp opens and seeds the store and wires the dispatch pipeline behind the
// webhook handler. The caller runs app.loop and closes the app.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	store, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.DBPath}, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	created, err := sqlite.SeedSuperadmin(ctx, store.Users, cfg.SuperadminID, cfg.SuperadminName)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("seed superadmin: %w", err)
	}
	logger.Info("superadmin ready", "user_id", cfg.SuperadminID, "created", created)

	resolver := access.NewResolver(cfg.SuperadminID, store.Users, logger)
	counter := telemetry.NewCounter()
	router := dispatch.NewRouter(dispatch.NewGate(resolver, logger), counter, logger)

	commands.New(commands.Deps{
		Users:    application.NewUserService(store.Users, logger),
		Rooms:    application.NewRoomService(store.Rooms, store.Desks, logger),
		Desks:    application.NewDeskService(store.Rooms, store.Desks, logger),
		Bookings: application.NewBookingService(store.Bookings, cfg.BookingHorizonDays, time.Now, logger),
		Identity: resolver,
		Stats:    counter,
		Logger:   logger,
	}).Register(router)

	loop := dispatch.NewLoop(router.Dispatch, logger)

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Updates:    httptransport.NewUpdateHandler(loop, logger),
		Health:     httptransport.NewHealthHandler(store, logger),
		Secret:     cfg.WebhookSecret,
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	return &app{store: store, loop: loop, counter: counter, handler: handler, logger: logger}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close storage", "error", err)
	}
}
