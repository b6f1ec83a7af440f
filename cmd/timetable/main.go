package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/loader"
	"github.com/noah-isme/sma-timetable/internal/optimizer"
	"github.com/noah-isme/sma-timetable/internal/report"
	"github.com/noah-isme/sma-timetable/internal/repository"
	"github.com/noah-isme/sma-timetable/internal/service"
	"github.com/noah-isme/sma-timetable/pkg/config"
	"github.com/noah-isme/sma-timetable/pkg/database"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/export"
	"github.com/noah-isme/sma-timetable/pkg/logger"
	"github.com/noah-isme/sma-timetable/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, logr)
	stop()
	_ = logr.Sync()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) int {
	logr.Sugar().Infow("timetable run starting", "input", cfg.Input.File, "output", cfg.Output.File, "env", cfg.Env)

	opts := service.TimetableOptions{
		Metrics: service.NewMetricsService(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job),
		Stdout:  os.Stdout,
	}

	if cfg.Exports.CSV || cfg.Exports.PDF {
		store, err := storage.NewLocalStorage(cfg.Exports.Dir)
		if err != nil {
			return fail(logr, appErrors.WrapAs(appErrors.ErrExport, err, "failed to prepare export directory"))
		}
		opts.Store = store
		if cfg.Exports.CSV {
			opts.Exporters = append(opts.Exporters, export.NewCSVExporter())
		}
		if cfg.Exports.PDF {
			opts.Exporters = append(opts.Exporters, export.NewPDFExporter())
		}
	}

	if cfg.Publish.Enabled {
		s3cfg := cfg.Publish.S3
		publisher, err := storage.NewS3Publisher(ctx, storage.S3Options{
			Bucket:          s3cfg.Bucket,
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			PathStyle:       s3cfg.PathStyle,
			Prefix:          s3cfg.Prefix,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
		})
		if err != nil {
			return fail(logr, appErrors.WrapAs(appErrors.ErrOutput, err, "failed to configure s3 publisher"))
		}
		opts.Publisher = publisher
	}

	if cfg.Archive.Enabled {
		db, err := database.Open(cfg.Archive)
		if err != nil {
			return fail(logr, appErrors.WrapAs(appErrors.ErrArchive, err, "failed to open archive database"))
		}
		defer db.Close() //nolint:errcheck

		runs := repository.NewScheduleRunRepository(db)
		if err := runs.EnsureSchema(ctx); err != nil {
			return fail(logr, appErrors.WrapAs(appErrors.ErrArchive, err, ""))
		}
		opts.Archiver = service.NewArchiveService(runs, logr)
	}

	svc := service.NewTimetableService(
		loader.New(cfg.Input.Columns, validator.New(), logr),
		optimizer.NewGLPKSolver(optimizer.GLPKConfig{Presolve: cfg.Solver.Presolve, MsgLevel: cfg.Solver.MsgLevel}, logr),
		report.NewWorkbookWriter(cfg.Output.Sheet, logr),
		service.TimetableConfig{
			InputFile:   cfg.Input.File,
			InputSheet:  cfg.Input.Sheet,
			OutputFile:  cfg.Output.File,
			OutputSheet: cfg.Output.Sheet,
		},
		opts,
		logr,
	)

	if _, err := svc.Run(ctx); err != nil {
		return fail(logr, err)
	}
	return appErrors.ExitOK
}

func fail(logr *zap.Logger, err error) int {
	appErr := appErrors.FromError(err)
	logr.Error("timetable run failed", zap.String("code", appErr.Code), zap.Error(err))
	return appErr.ExitCode
}
