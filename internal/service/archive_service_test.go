package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/repository"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

func newArchiveServiceMock(t *testing.T) (*ArchiveService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := repository.NewScheduleRunRepository(sqlx.NewDb(db, "sqlmock"))
	return NewArchiveService(repo, nil), mock
}

func archivedSchedule() models.Schedule {
	return models.Schedule{
		Assignments: []models.Assignment{
			{Teacher: "P1", Subject: "A", Room: "R1", TimeSlot: "1", Cost: 4},
			{Teacher: "P2", Subject: "B", Room: "R1", TimeSlot: "2", Cost: 6},
		},
		TotalCost: 10,
	}
}

func TestArchiveServiceCommitsRunAndAssignments(t *testing.T) {
	svc, mock := newArchiveServiceMock(t)
	created := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_runs")).
		WithArgs("run-1", "SOLVED", "in.xlsx", "out.xlsx", 10.0, 2, created).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_run_assignments")).
		WithArgs(sqlmock.AnyArg(), "run-1", 1, "P1", "A", "1", "R1", 4.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_run_assignments")).
		WithArgs(sqlmock.AnyArg(), "run-1", 2, "P2", "B", "2", "R1", 6.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	run := &models.ScheduleRun{ID: "run-1", SourceFile: "in.xlsx", OutputFile: "out.xlsx", CreatedAt: created}
	require.NoError(t, svc.Archive(context.Background(), run, archivedSchedule()))

	assert.Equal(t, models.ScheduleRunStatusSolved, run.Status)
	assert.Equal(t, 2, run.Assignments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveServiceRollsBackOnAssignmentFailure(t *testing.T) {
	svc, mock := newArchiveServiceMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_runs")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_run_assignments")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	run := &models.ScheduleRun{ID: "run-1", SourceFile: "in.xlsx", OutputFile: "out.xlsx"}
	err := svc.Archive(context.Background(), run, archivedSchedule())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrArchive))
	assert.Equal(t, appErrors.ExitOutput, appErrors.FromError(err).ExitCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveServiceReportsBeginFailure(t *testing.T) {
	svc, mock := newArchiveServiceMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := svc.Archive(context.Background(), &models.ScheduleRun{ID: "run-1"}, archivedSchedule())
	assert.ErrorIs(t, err, appErrors.ErrArchive)
	assert.NoError(t, mock.ExpectationsWereMet())
}
