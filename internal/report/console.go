// Package report prints and persists a solved schedule.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/noah-isme/sma-timetable/internal/models"
)

// PrintSummary writes the total cost followed by one line per assignment.
func PrintSummary(w io.Writer, schedule models.Schedule) error {
	if _, err := fmt.Fprintf(w, "Total cost: %s\n\nSchedule:\n", FormatCost(schedule.TotalCost)); err != nil {
		return err
	}
	for _, a := range schedule.Assignments {
		if _, err := fmt.Fprintf(w, "Room %s, TimeSlot %s, Teacher %s, Subject %s\n", a.Room, a.TimeSlot, a.Teacher, a.Subject); err != nil {
			return err
		}
	}
	return nil
}

// PrintConfirmation names the workbook the schedule was saved to.
func PrintConfirmation(w io.Writer, path string) error {
	_, err := fmt.Fprintf(w, "The assigned schedule has been saved to '%s'\n", path)
	return err
}

// FormatCost renders a cost without trailing zeros.
func FormatCost(cost float64) string {
	return strconv.FormatFloat(cost, 'f', -1, 64)
}
