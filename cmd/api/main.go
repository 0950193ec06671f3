package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"

	_ "github.com/liauzhanyi/splitwiser/docs"
	"github.com/liauzhanyi/splitwiser/internal/config"
	"github.com/liauzhanyi/splitwiser/internal/database"
	"github.com/liauzhanyi/splitwiser/internal/expense"
	"github.com/liauzhanyi/splitwiser/internal/group"
	"github.com/liauzhanyi/splitwiser/internal/metrics"
	"github.com/liauzhanyi/splitwiser/internal/notification"
	"github.com/liauzhanyi/splitwiser/internal/settlement"
	"github.com/liauzhanyi/splitwiser/internal/user"
	"github.com/liauzhanyi/splitwiser/pkg/logging"
	mw "github.com/liauzhanyi/splitwiser/pkg/middleware"
)

// @title           SplitWiser API
// @version         1.0
// @description     Expense ledger and settlement engine with split calculation, balance tracking and debt simplification.
// @BasePath        /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready")

	// Notification feature (consumed by the others)
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, notificationService)
	groupHandler := group.NewHandler(groupService)

	// Expense feature
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, userRepo, groupRepo, notificationService)
	expenseHandler := expense.NewHandler(expenseService)

	// Settlement feature
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo, expenseRepo, userRepo, groupService, notificationService)
	settlementHandler := settlement.NewHandler(settlementService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.Identity)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
