package optimizer

import (
	"github.com/noah-isme/sma-timetable/internal/models"
)

// Status is the outcome reported by a solver.
type Status string

const (
	StatusOptimal    Status = "OPTIMAL"
	StatusFeasible   Status = "FEASIBLE"
	StatusInfeasible Status = "INFEASIBLE"
)

// Solution carries the solved column values, indexed like Program.Variables.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
}

// Extract collects every column set to one, walking rooms, then slots, then teachers, then subjects.
func Extract(p *Program, sol *Solution) models.Schedule {
	c := p.Catalog
	schedule := models.Schedule{Objective: sol.Objective}
	for r, room := range c.Rooms {
		for h, slot := range c.Slots {
			for t, teacher := range c.Teachers {
				for s, subject := range c.Subjects {
					col := p.Column(t, s, r, h)
					if col >= len(sol.Values) || sol.Values[col] <= 0.5 {
						continue
					}
					cost := p.Variables[col].Cost
					schedule.Assignments = append(schedule.Assignments, models.Assignment{
						Teacher:  teacher.ID,
						Subject:  subject.ID,
						Room:     room.ID,
						TimeSlot: slot.ID,
						Cost:     cost,
					})
					schedule.TotalCost += cost
				}
			}
		}
	}
	return schedule
}
