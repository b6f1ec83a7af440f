package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/optimizer"
	"github.com/noah-isme/sma-timetable/internal/report"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/export"
)

const (
	runStatusSucceeded = "succeeded"
	runStatusFailed    = "failed"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type catalogLoader interface {
	Load(ctx context.Context, path, sheet string) (*models.Catalog, error)
}

type scheduleWriter interface {
	Write(path string, schedule models.Schedule) error
}

// TableExporter renders a schedule table into a file format.
type TableExporter interface {
	Render(data export.Table) ([]byte, error)
	Extension() string
	ContentType() string
}

// ExportStore persists rendered exports and returns where they landed.
type ExportStore interface {
	Save(filename string, data []byte) (string, error)
}

// SchedulePublisher uploads the output workbook and returns its location.
type SchedulePublisher interface {
	Publish(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error)
}

// RunArchiver records a solved run.
type RunArchiver interface {
	Archive(ctx context.Context, run *models.ScheduleRun, schedule models.Schedule) error
}

// TimetableConfig names the files a run reads and writes.
type TimetableConfig struct {
	InputFile   string
	InputSheet  string
	OutputFile  string
	OutputSheet string
}

// TimetableOptions carries the optional post-write stages. Nil members are skipped.
type TimetableOptions struct {
	Exporters []TableExporter
	Store     ExportStore
	Publisher SchedulePublisher
	Archiver  RunArchiver
	Metrics   *MetricsService
	Stdout    io.Writer
	Clock     func() time.Time
}

// RunResult describes a finished run.
type RunResult struct {
	RunID     string
	Status    string
	Schedule  models.Schedule
	Exports   []string
	Published []string
}

type exportedFile struct {
	name        string
	path        string
	content     []byte
	contentType string
}

// TimetableService runs the load, build, solve, report pipeline once.
type TimetableService struct {
	loader  catalogLoader
	solver  optimizer.Solver
	writer  scheduleWriter
	cfg     TimetableConfig
	opts    TimetableOptions
	logger  *zap.Logger
	metrics *MetricsService
}

// NewTimetableService wires the pipeline.
func NewTimetableService(loader catalogLoader, solver optimizer.Solver, writer scheduleWriter, cfg TimetableConfig, opts TimetableOptions, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &TimetableService{
		loader:  loader,
		solver:  solver,
		writer:  writer,
		cfg:     cfg,
		opts:    opts,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// Run executes every stage in order and stops at the first failure.
func (s *TimetableService) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{RunID: uuid.NewString(), Status: runStatusFailed}
	logger := s.logger.With(zap.String("run_id", result.RunID))
	startedAt := s.opts.Clock()

	err := s.run(ctx, logger, result)
	if err == nil {
		result.Status = runStatusSucceeded
	}
	s.metrics.RecordRun(result.Status, s.opts.Clock())
	if pushErr := s.metrics.Push(ctx); pushErr != nil {
		logger.Warn("failed to push metrics", zap.Error(pushErr))
		if err == nil {
			err = appErrors.WrapAs(appErrors.ErrInternal, pushErr, "failed to push metrics")
			result.Status = runStatusFailed
		}
	}
	if err != nil {
		return result, err
	}

	logger.Info("timetable run finished",
		zap.Int("assignments", len(result.Schedule.Assignments)),
		zap.Float64("total_cost", result.Schedule.TotalCost),
		zap.Duration("elapsed", s.opts.Clock().Sub(startedAt)),
	)
	return result, nil
}

func (s *TimetableService) run(ctx context.Context, logger *zap.Logger, result *RunResult) error {
	var catalog *models.Catalog
	if err := s.stage("load", func() error {
		var err error
		catalog, err = s.loader.Load(ctx, s.cfg.InputFile, s.cfg.InputSheet)
		return err
	}); err != nil {
		return err
	}
	logger.Info("catalog loaded",
		zap.Int("teachers", len(catalog.Teachers)),
		zap.Int("subjects", len(catalog.Subjects)),
		zap.Int("rooms", len(catalog.Rooms)),
		zap.Int("slots", len(catalog.Slots)),
	)

	buildStarted := s.opts.Clock()
	program := optimizer.Build(catalog)
	s.metrics.ObserveStage("build", s.opts.Clock().Sub(buildStarted))
	s.metrics.RecordProgram(len(program.Variables), len(program.Constraints))
	logger.Debug("program built", zap.Int("variables", len(program.Variables)), zap.Int("constraints", len(program.Constraints)))

	var solution *optimizer.Solution
	if err := s.stage("solve", func() error {
		var err error
		solution, err = s.solver.Solve(ctx, program)
		return err
	}); err != nil {
		return err
	}
	if solution.Status != optimizer.StatusOptimal {
		logger.Warn("solver stopped before proving optimality", zap.String("status", string(solution.Status)))
	}

	result.Schedule = optimizer.Extract(program, solution)
	s.metrics.RecordSchedule(result.Schedule)

	if err := report.PrintSummary(s.opts.Stdout, result.Schedule); err != nil {
		return appErrors.WrapAs(appErrors.ErrOutput, err, "failed to print schedule")
	}
	if err := s.stage("write", func() error {
		return s.writer.Write(s.cfg.OutputFile, result.Schedule)
	}); err != nil {
		return err
	}
	if err := report.PrintConfirmation(s.opts.Stdout, s.cfg.OutputFile); err != nil {
		return appErrors.WrapAs(appErrors.ErrOutput, err, "failed to print confirmation")
	}

	var exported []exportedFile
	if err := s.stage("export", func() error {
		var err error
		exported, err = s.export(result.Schedule)
		return err
	}); err != nil {
		return err
	}
	for _, file := range exported {
		result.Exports = append(result.Exports, file.path)
		logger.Info("schedule exported", zap.String("file", file.path))
	}

	if err := s.stage("publish", func() error {
		var err error
		result.Published, err = s.publish(ctx, result.RunID, exported)
		return err
	}); err != nil {
		return err
	}
	for _, location := range result.Published {
		logger.Info("artifact published", zap.String("location", location))
	}

	return s.stage("archive", func() error {
		if s.opts.Archiver == nil {
			return nil
		}
		run := &models.ScheduleRun{
			ID:         result.RunID,
			SourceFile: s.cfg.InputFile,
			OutputFile: s.cfg.OutputFile,
			CreatedAt:  s.opts.Clock().UTC(),
		}
		return s.opts.Archiver.Archive(ctx, run, result.Schedule)
	})
}

func (s *TimetableService) stage(name string, fn func() error) error {
	started := s.opts.Clock()
	err := fn()
	s.metrics.ObserveStage(name, s.opts.Clock().Sub(started))
	return err
}

func (s *TimetableService) export(schedule models.Schedule) ([]exportedFile, error) {
	if len(s.opts.Exporters) == 0 || s.opts.Store == nil {
		return nil, nil
	}
	table := report.Table(s.cfg.OutputSheet, schedule)
	base := strings.TrimSuffix(filepath.Base(s.cfg.OutputFile), filepath.Ext(s.cfg.OutputFile))

	files := make([]exportedFile, 0, len(s.opts.Exporters))
	for _, exporter := range s.opts.Exporters {
		content, err := exporter.Render(table)
		if err != nil {
			return files, appErrors.WrapAs(appErrors.ErrExport, err, fmt.Sprintf("failed to render %s export", exporter.Extension()))
		}
		name := base + exporter.Extension()
		saved, err := s.opts.Store.Save(name, content)
		if err != nil {
			return files, appErrors.WrapAs(appErrors.ErrExport, err, "failed to store export")
		}
		files = append(files, exportedFile{name: name, path: saved, content: content, contentType: exporter.ContentType()})
	}
	return files, nil
}

// publish uploads the output workbook, then every export, under the run id.
func (s *TimetableService) publish(ctx context.Context, runID string, exported []exportedFile) ([]string, error) {
	if s.opts.Publisher == nil {
		return nil, nil
	}
	location, err := s.publishWorkbook(ctx, runID)
	if err != nil {
		return nil, err
	}
	locations := []string{location}
	for _, file := range exported {
		location, err := s.opts.Publisher.Publish(ctx, path.Join(runID, file.name), bytes.NewReader(file.content), file.contentType)
		if err != nil {
			return locations, appErrors.WrapAs(appErrors.ErrExport, err, fmt.Sprintf("failed to publish %s", file.name))
		}
		locations = append(locations, location)
	}
	return locations, nil
}

func (s *TimetableService) publishWorkbook(ctx context.Context, runID string) (location string, err error) {
	f, err := os.Open(s.cfg.OutputFile)
	if err != nil {
		return "", appErrors.WrapAs(appErrors.ErrOutput, err, "failed to open output workbook for publishing")
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = appErrors.WrapAs(appErrors.ErrOutput, closeErr, "")
		}
	}()

	key := path.Join(runID, filepath.Base(s.cfg.OutputFile))
	location, err = s.opts.Publisher.Publish(ctx, key, f, xlsxContentType)
	if err != nil {
		return "", appErrors.WrapAs(appErrors.ErrOutput, err, "failed to publish output workbook")
	}
	return location, nil
}
