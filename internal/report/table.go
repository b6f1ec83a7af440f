package report

import (
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/pkg/export"
)

// Table lays a schedule out the same way as the output sheet: cost line, header, one row per assignment.
func Table(title string, schedule models.Schedule) export.Table {
	rows := make([][]string, 0, len(schedule.Assignments))
	for _, a := range schedule.Assignments {
		rows = append(rows, []string{a.Teacher, a.Subject, a.TimeSlot, a.Room})
	}
	return export.Table{
		Title:    title,
		Preamble: [][]string{{"Cost", FormatCost(schedule.TotalCost)}},
		Headers:  append([]string(nil), Headers...),
		Rows:     rows,
	}
}
