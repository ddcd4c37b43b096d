package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alexanderramin/obra/internal/catalog"
	"github.com/alexanderramin/obra/internal/cli"
	"github.com/alexanderramin/obra/internal/config"
	"github.com/alexanderramin/obra/internal/db"
	"github.com/alexanderramin/obra/internal/events"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/alexanderramin/obra/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	// Wire repositories. Postgres relies on its own cascade for project
	// deletes, so it runs without a unit of work.
	var (
		projectRepo  repository.ProjectRepo
		activityRepo repository.ActivityRepo
		uow          db.UnitOfWork
	)
	if cfg.UsesPostgres() {
		pool, err := db.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("opening postgres: %w", err)
		}
		defer pool.Close()
		projectRepo = repository.NewPostgresProjectRepo(pool)
		activityRepo = repository.NewPostgresActivityRepo(pool)
	} else {
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		projectRepo = repository.NewSQLiteProjectRepo(database)
		activityRepo = repository.NewSQLiteActivityRepo(database)
		uow = db.NewSQLiteUnitOfWork(database)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.EventsEnabled {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	defer publisher.Close()

	var observerOut io.Writer
	if cfg.LogUseCases {
		observerOut = os.Stderr
	}
	observer := service.NewLogUseCaseObserver(observerOut)

	templates, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	app := &cli.App{
		Projects:   service.NewProjectService(projectRepo, uow, observer),
		Activities: service.NewActivityService(activityRepo, projectRepo, observer),
		Planning: service.NewPlanningService(activityRepo, projectRepo, publisher,
			service.WithPlanningObserver(observer),
			service.WithPlanningLogger(logger),
			service.WithDefaultRecurrenceWeeks(cfg.RecurrenceWeeks),
		),
		Catalog:     templates,
		HTTPAddress: cfg.HTTPAddress,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
