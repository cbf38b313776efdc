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

	"github.com/cmlabs-hris/hris-shift-engine/internal/config"
	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/hris-shift-engine/internal/handler/http"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-shift-engine/internal/repository/memory"
	"github.com/cmlabs-hris/hris-shift-engine/internal/repository/postgresql"
	shiftService "github.com/cmlabs-hris/hris-shift-engine/internal/service/shift"
)

type repositories struct {
	tx          database.Transactor
	patterns    shift.ShiftPatternRepository
	assignments shift.EmployeeShiftAssignmentRepository
	overtime    shift.OvertimeRepository
	calendar    shift.WorkingCalendarRepository
	inbox       shift.PunchInboxRepository
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewLogger(cfg.App.Env, cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := newRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "store", cfg.App.Store, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	shiftSvc := shiftService.NewShiftService(
		repos.tx,
		repos.patterns,
		repos.assignments,
		repos.overtime,
		repos.calendar,
		repos.inbox,
		cfg.Punch.Workers,
	)

	scheduler := cron.NewScheduler(ctx)
	cron.NewPunchJobs(shiftSvc, cfg.Punch.SyncInterval, cfg.Punch.BatchSize).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
	}, shiftHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "store", cfg.App.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server error", "error", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}

func newRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.App.Store {
	case config.StoreMemory:
		return newMemoryRepositories(ctx)
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(),
			database.WithPoolSize(cfg.Database.MinConns, cfg.Database.MaxConns))
		if err != nil {
			return repositories{}, fmt.Errorf("connect to database: %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return repositories{}, fmt.Errorf("migrate database: %w", err)
		}

		return repositories{
			tx:          postgresql.NewTransactor(db),
			patterns:    postgresql.NewShiftPatternRepository(db),
			assignments: postgresql.NewEmployeeShiftAssignmentRepository(db),
			overtime:    postgresql.NewOvertimeRepository(db),
			calendar:    postgresql.NewWorkingCalendarRepository(db),
			inbox:       postgresql.NewPunchInboxRepository(db),
			close:       db.Close,
		}, nil
	}
}

// newMemoryRepositories starts with the default shift patterns so the engine
// endpoints have something to resolve against.
func newMemoryRepositories(ctx context.Context) (repositories, error) {
	patterns := memory.NewShiftPatternStore()
	for _, p := range fixtures.GetAllDefaultShiftPatterns("") {
		if err := shiftService.ValidatePattern(p); err != nil {
			return repositories{}, fmt.Errorf("default pattern %q: %w", p.Name, err)
		}
		created, err := patterns.Create(ctx, p)
		if err != nil {
			return repositories{}, err
		}
		slog.Info("Seeded shift pattern", "id", created.ID, "name", created.Name)
	}

	return repositories{
		tx:          memory.NewTransactor(),
		patterns:    patterns,
		assignments: memory.NewAssignmentStore(),
		overtime:    memory.NewOvertimeStore(),
		calendar:    memory.NewCalendarStore(),
		inbox:       memory.NewPunchInboxStore(),
		close:       func() {},
	}, nil
}
