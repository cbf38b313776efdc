package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-shift-engine/internal/config"
	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/hris-shift-engine/internal/handler/http"
	"github.com/cmlabs-hris/hris-shift-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-shift-engine/internal/repository/postgresql"
	shiftService "github.com/cmlabs-hris/hris-shift-engine/internal/service/shift"
)

func main() {
	patternsPath := flag.String("patterns", "config/shift_patterns.yaml", "YAML file with extra shift patterns, empty to skip")
	companyID := flag.String("company", "", "company ID to attach the default patterns to")
	withDefaults := flag.Bool("defaults", true, "seed the built-in default patterns")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	slog.SetDefault(appHTTP.NewLogger(cfg.App.Env, cfg.SlogLevel()))

	var patterns []shift.ShiftPattern
	if *withDefaults {
		patterns = append(patterns, fixtures.GetAllDefaultShiftPatterns(*companyID)...)
	}
	if *patternsPath != "" {
		loaded, err := fixtures.LoadPatternsFile(*patternsPath)
		if err != nil {
			slog.Error("Failed to load pattern file", "path", *patternsPath, "error", err)
			os.Exit(1)
		}
		patterns = append(patterns, loaded...)
	}

	for _, p := range patterns {
		if err := shiftService.ValidatePattern(p); err != nil {
			slog.Error("Invalid shift pattern", "name", p.Name, "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(),
		database.WithPoolSize(cfg.Database.MinConns, cfg.Database.MaxConns))
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	repo := postgresql.NewShiftPatternRepository(db)
	for _, p := range patterns {
		created, err := repo.Create(ctx, p)
		if err != nil {
			slog.Error("Failed to seed shift pattern", "name", p.Name, "error", err)
			os.Exit(1)
		}
		slog.Info("Seeded shift pattern", "id", created.ID, "name", created.Name, "type", created.Type, "days", len(created.Days))
	}
}
