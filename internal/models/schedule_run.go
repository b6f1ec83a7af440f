package models

import "time"

// ScheduleRunStatus represents the outcome recorded for a run.
type ScheduleRunStatus string

const (
	ScheduleRunStatusSolved ScheduleRunStatus = "SOLVED"
)

// ScheduleRun captures one batch execution in the archive.
type ScheduleRun struct {
	ID          string            `db:"id" json:"id"`
	Status      ScheduleRunStatus `db:"status" json:"status"`
	SourceFile  string            `db:"source_file" json:"source_file"`
	OutputFile  string            `db:"output_file" json:"output_file"`
	TotalCost   float64           `db:"total_cost" json:"total_cost"`
	Assignments int               `db:"assignment_count" json:"assignment_count"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}

// ScheduleRunAssignment is an archived assignment row.
type ScheduleRunAssignment struct {
	ID        string    `db:"id" json:"id"`
	RunID     string    `db:"run_id" json:"run_id"`
	Position  int       `db:"position" json:"position"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	TimeSlot  string    `db:"time_slot" json:"time_slot"`
	Room      string    `db:"room" json:"room"`
	Cost      float64   `db:"cost" json:"cost"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
