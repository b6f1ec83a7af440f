package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/models"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

type scheduleRunStore interface {
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
	Create(ctx context.Context, exec sqlx.ExtContext, run *models.ScheduleRun) error
	InsertAssignments(ctx context.Context, exec sqlx.ExtContext, runID string, items []models.ScheduleRunAssignment) error
}

// ArchiveService records a solved run and its assignments in one transaction.
type ArchiveService struct {
	runs   scheduleRunStore
	logger *zap.Logger
}

// NewArchiveService wires archive dependencies.
func NewArchiveService(runs scheduleRunStore, logger *zap.Logger) *ArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveService{runs: runs, logger: logger}
}

// Archive persists the run header and every assignment.
func (s *ArchiveService) Archive(ctx context.Context, run *models.ScheduleRun, schedule models.Schedule) (err error) {
	tx, err := s.runs.BeginTxx(ctx)
	if err != nil {
		return appErrors.WrapAs(appErrors.ErrArchive, err, "failed to begin archive transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	run.Status = models.ScheduleRunStatusSolved
	run.TotalCost = schedule.TotalCost
	run.Assignments = len(schedule.Assignments)
	if err = s.runs.Create(ctx, tx, run); err != nil {
		err = appErrors.WrapAs(appErrors.ErrArchive, err, "failed to create schedule run")
		return err
	}

	items := make([]models.ScheduleRunAssignment, 0, len(schedule.Assignments))
	for _, a := range schedule.Assignments {
		items = append(items, models.ScheduleRunAssignment{
			TeacherID: a.Teacher,
			SubjectID: a.Subject,
			TimeSlot:  a.TimeSlot,
			Room:      a.Room,
			Cost:      a.Cost,
		})
	}
	if err = s.runs.InsertAssignments(ctx, tx, run.ID, items); err != nil {
		err = appErrors.WrapAs(appErrors.ErrArchive, err, "failed to persist schedule run assignments")
		return err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.WrapAs(appErrors.ErrArchive, err, "failed to commit schedule run")
		return err
	}
	s.logger.Info("schedule run archived", zap.String("run_id", run.ID), zap.Int("assignments", len(items)))
	return nil
}
