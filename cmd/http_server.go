package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/budgetoffice/staff-portal/internal"
	"github.com/budgetoffice/staff-portal/internal/gateway"
	"github.com/budgetoffice/staff-portal/internal/session"
	"github.com/budgetoffice/staff-portal/internal/store"
	"github.com/budgetoffice/staff-portal/internal/transport/rest"
	"github.com/budgetoffice/staff-portal/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the portal HTTP server",
	Long:  `Start the local portal server that owns the session and application state.`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	Service *store.Service
	Router  *chi.Mux
	Logger  *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.Service, deps.Config.Gateway.BaseURL, deps.Config.Server.AllowedOrigins, deps.Logger)

	// Resume a persisted session before accepting requests.
	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 15*time.Second)
	if deps.Service.CheckAuthentication(bootCtx) {
		snap := deps.Service.Store().Snapshot()
		deps.Logger.Info("restored previous session", "user", snap.User.Email, "role", snap.User.Role)
	} else {
		deps.Logger.Info("no session restored, sign-in required")
	}
	cancelBoot()

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.L()

	gw := gateway.NewHTTPClient(gateway.Config{
		BaseURL:        config.Gateway.BaseURL,
		APIKey:         config.Gateway.APIKey,
		RequestTimeout: config.Gateway.RequestTimeout,
	}, lg)

	credsPath, err := config.Session.ResolveCredentialsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credentials path: %w", err)
	}
	creds := session.NewFileCredentialStore(credsPath)

	st := store.New(lg)
	svc := store.NewService(st, gw, creds, lg)

	return &Dependencies{
		Config:  config,
		Service: svc,
		Router:  chi.NewRouter(),
		Logger:  lg,
	}, nil
}
