// Package optimizer turns a catalog into a binary integer program, solves it and reads the chosen assignments back.
package optimizer

import (
	"fmt"

	"github.com/noah-isme/sma-timetable/internal/models"
)

// Variable is one binary decision: does (teacher, subject, room, slot) get scheduled.
type Variable struct {
	Teacher int
	Subject int
	Room    int
	Slot    int
	Cost    float64
}

// Constraint states that the listed columns sum to Value.
type Constraint struct {
	Name    string
	Columns []int
	Value   float64
}

// Program is a solver-neutral minimisation model over binary columns.
type Program struct {
	Catalog     *models.Catalog
	Variables   []Variable
	Constraints []Constraint
}

// Build creates one column per teacher×subject×room×slot combination with the combined cost as its
// objective coefficient, plus the equality rows that keep the schedule valid.
func Build(catalog *models.Catalog) *Program {
	p := &Program{Catalog: catalog}
	nt, ns, nr, nh := len(catalog.Teachers), len(catalog.Subjects), len(catalog.Rooms), len(catalog.Slots)

	p.Variables = make([]Variable, 0, nt*ns*nr*nh)
	for t, teacher := range catalog.Teachers {
		for s, subject := range catalog.Subjects {
			for r, room := range catalog.Rooms {
				for h, slot := range catalog.Slots {
					p.Variables = append(p.Variables, Variable{
						Teacher: t,
						Subject: s,
						Room:    r,
						Slot:    h,
						Cost:    teacher.Cost + subject.Cost + slot.Cost + room.Cost,
					})
				}
			}
		}
	}

	for s, subject := range catalog.Subjects {
		cols := make([]int, 0, nt*nr*nh)
		for t := 0; t < nt; t++ {
			for r := 0; r < nr; r++ {
				for h := 0; h < nh; h++ {
					cols = append(cols, p.Column(t, s, r, h))
				}
			}
		}
		p.Constraints = append(p.Constraints, Constraint{Name: "subject_" + subject.ID, Columns: cols, Value: 1})
	}

	for h, slot := range catalog.Slots {
		cols := make([]int, 0, nt*ns*nr)
		for t := 0; t < nt; t++ {
			for s := 0; s < ns; s++ {
				for r := 0; r < nr; r++ {
					cols = append(cols, p.Column(t, s, r, h))
				}
			}
		}
		p.Constraints = append(p.Constraints, Constraint{Name: "slot_" + slot.ID, Columns: cols, Value: 1})
	}

	for t, teacher := range catalog.Teachers {
		for s, subject := range catalog.Subjects {
			permitted := catalog.CanTeach(teacher.ID, subject.ID)
			for h, slot := range catalog.Slots {
				if permitted && catalog.IsAvailable(teacher.ID, slot.ID) {
					continue
				}
				reason := "unavailable"
				if !permitted {
					reason = "not_permitted"
				}
				cols := make([]int, 0, nr)
				for r := 0; r < nr; r++ {
					cols = append(cols, p.Column(t, s, r, h))
				}
				p.Constraints = append(p.Constraints, Constraint{
					Name:    fmt.Sprintf("%s_%s_%s_%s", reason, teacher.ID, subject.ID, slot.ID),
					Columns: cols,
					Value:   0,
				})
			}
		}
	}

	return p
}

// Column returns the zero-based column of a combination.
func (p *Program) Column(teacher, subject, room, slot int) int {
	ns, nr, nh := len(p.Catalog.Subjects), len(p.Catalog.Rooms), len(p.Catalog.Slots)
	return ((teacher*ns+subject)*nr+room)*nh + slot
}

// ColumnName names a column after its entities, for solver diagnostics.
func (p *Program) ColumnName(col int) string {
	v := p.Variables[col]
	return fmt.Sprintf("x_%s_%s_%s_%s",
		p.Catalog.Teachers[v.Teacher].ID,
		p.Catalog.Subjects[v.Subject].ID,
		p.Catalog.Rooms[v.Room].ID,
		p.Catalog.Slots[v.Slot].ID,
	)
}
