package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable/internal/models"
)

var scheduleRunSchema = []string{
	`CREATE TABLE IF NOT EXISTS schedule_runs (
    id TEXT PRIMARY KEY,
    status TEXT NOT NULL,
    source_file TEXT NOT NULL,
    output_file TEXT NOT NULL,
    total_cost DOUBLE PRECISION NOT NULL,
    assignment_count INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS schedule_run_assignments (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL REFERENCES schedule_runs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    teacher_id TEXT NOT NULL,
    subject_id TEXT NOT NULL,
    time_slot TEXT NOT NULL,
    room TEXT NOT NULL,
    cost DOUBLE PRECISION NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (run_id, position)
)`,
}

// ScheduleRunRepository records solved runs and their assignments.
type ScheduleRunRepository struct {
	db *sqlx.DB
}

// NewScheduleRunRepository builds repository.
func NewScheduleRunRepository(db *sqlx.DB) *ScheduleRunRepository {
	return &ScheduleRunRepository{db: db}
}

func (r *ScheduleRunRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// EnsureSchema creates the archive tables when they are missing.
func (r *ScheduleRunRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range scheduleRunSchema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schedule run schema: %w", err)
		}
	}
	return nil
}

// BeginTxx starts a transaction on the archive database.
func (r *ScheduleRunRepository) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

// Create inserts a run, assigning an id and timestamp when absent.
func (r *ScheduleRunRepository) Create(ctx context.Context, exec sqlx.ExtContext, run *models.ScheduleRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	const query = `
INSERT INTO schedule_runs (id, status, source_file, output_file, total_cost, assignment_count, created_at)
VALUES (:id, :status, :source_file, :output_file, :total_cost, :assignment_count, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, run); err != nil {
		return fmt.Errorf("insert schedule run: %w", err)
	}
	return nil
}

// InsertAssignments stores the assignments of a run in their schedule order.
func (r *ScheduleRunRepository) InsertAssignments(ctx context.Context, exec sqlx.ExtContext, runID string, items []models.ScheduleRunAssignment) error {
	if len(items) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO schedule_run_assignments (id, run_id, position, teacher_id, subject_id, time_slot, room, cost, created_at)
VALUES (:id, :run_id, :position, :teacher_id, :subject_id, :time_slot, :room, :cost, :created_at)`

	for i := range items {
		item := &items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.RunID = runID
		item.Position = i + 1
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, item); err != nil {
			return fmt.Errorf("insert schedule run assignment: %w", err)
		}
	}
	return nil
}

// FindByID returns a single run.
func (r *ScheduleRunRepository) FindByID(ctx context.Context, id string) (*models.ScheduleRun, error) {
	query := r.db.Rebind(`SELECT id, status, source_file, output_file, total_cost, assignment_count, created_at
FROM schedule_runs WHERE id = ?`)
	var run models.ScheduleRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListAssignments returns the assignments of a run in schedule order.
func (r *ScheduleRunRepository) ListAssignments(ctx context.Context, runID string) ([]models.ScheduleRunAssignment, error) {
	query := r.db.Rebind(`SELECT id, run_id, position, teacher_id, subject_id, time_slot, room, cost, created_at
FROM schedule_run_assignments WHERE run_id = ? ORDER BY position ASC`)
	var items []models.ScheduleRunAssignment
	if err := r.db.SelectContext(ctx, &items, query, runID); err != nil {
		return nil, fmt.Errorf("list schedule run assignments: %w", err)
	}
	return items, nil
}
