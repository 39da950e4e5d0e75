package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/budgetoffice/staff-portal/internal"
	"github.com/budgetoffice/staff-portal/internal/stubgateway"
	"github.com/budgetoffice/staff-portal/pkg/logger"
)

var stubGatewayCmd = &cobra.Command{
	Use:   "stub-gateway",
	Short: "Start the bundled stub backend",
	Long:  `Start a local stand-in for the budget office backend, for development without network access.`,
	Run: func(cmd *cobra.Command, args []string) {
		startStubGateway()
	},
}

func startStubGateway() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.L()

	db, err := openGormDB(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to access database pool: %v\n", err)
		os.Exit(1)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	repo := stubgateway.NewRepository(db)
	svc := stubgateway.NewService(repo, stubgateway.Config{
		JWTSecret:     cfg.StubGateway.JWTSecret,
		TokenTTL:      cfg.StubGateway.TokenTTL,
		ResetTokenTTL: cfg.StubGateway.ResetTokenTTL,
		BCryptCost:    cfg.StubGateway.BCryptCost,
	}, lg)

	handler := stubgateway.NewHandler(svc, sqlDB)
	router := stubgateway.Routes(handler, lg)

	addr := fmt.Sprintf(":%d", cfg.StubGateway.Port)
	lg.Info("starting stub gateway", "address", addr, "driver", cfg.Database.Driver)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("stub gateway shutdown error", "error", err)
		}
		if err := sqlDB.Close(); err != nil {
			lg.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			lg.Error("stub gateway failed to start", "error", err)
			os.Exit(1)
		}
	}

	lg.Info("stub gateway stopped")
}

func openGormDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.Source), &gorm.Config{})
	case "", "sqlite":
		return gorm.Open(sqlite.Open(cfg.Source), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
