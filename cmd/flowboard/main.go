package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/alexanderramin/flowboard/internal/cli"
	"github.com/alexanderramin/flowboard/internal/config"
	"github.com/alexanderramin/flowboard/internal/db"
	"github.com/alexanderramin/flowboard/internal/export"
	"github.com/alexanderramin/flowboard/internal/ident"
	"github.com/alexanderramin/flowboard/internal/logging"
	"github.com/alexanderramin/flowboard/internal/publish"
	"github.com/alexanderramin/flowboard/internal/repository"
	"github.com/alexanderramin/flowboard/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if cfg.Path != "" {
		logger.Debug("config loaded", "path", cfg.Path)
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	templateRepo := repository.NewSQLiteTemplateRepo(database)
	flowRepo := repository.NewSQLiteFlowRepo(database)
	executionRepo := repository.NewSQLiteExecutionRepo(database)
	linkRepo := repository.NewSQLiteLinkGroupRepo(database)
	boardRepo := repository.NewSQLiteBoardRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	ids := ident.TypeID{}
	engine := export.NewEngine(export.WithIDs(ids))
	observer := service.NewLogUseCaseObserver(logger)

	// Remote publishing is optional; a nil sink keeps boards local.
	var remote publish.BoardSink
	if cfg.BoardSink.URL != "" {
		remote = publish.NewHTTPSink(cfg.BoardSink.URL,
			publish.WithHTTPClient(&http.Client{Timeout: cfg.BoardSink.Timeout}),
			publish.WithLogger(logger),
		)
		logger.Info("publishing boards", "url", cfg.BoardSink.URL)
	}

	app := &cli.App{
		Templates: service.NewTemplateService(templateRepo, observer),
		Flows:     service.NewFlowService(flowRepo, executionRepo, linkRepo, templateRepo, uow, ids, logger, observer),
		Imports:   service.NewImportService(templateRepo, uow, observer),
		Export:    service.NewExportService(flowRepo, executionRepo, uow, engine, remote, observer),
		Boards:    service.NewBoardService(boardRepo),
		Logger:    logger,
		HTTPAddr:  cfg.HTTPAddr,
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
