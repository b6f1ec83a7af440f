package optimizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/models"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

func twoByTwoCatalog() *models.Catalog {
	return models.NewCatalog(
		[]models.Teacher{
			{ID: "P1", Subjects: []string{"A"}, Slots: []string{"1"}},
			{ID: "P2", Subjects: []string{"B"}, Slots: []string{"2"}},
		},
		[]models.Subject{{ID: "A"}, {ID: "B"}},
		[]models.Room{{ID: "R1"}},
		[]models.TimeSlot{{ID: "1"}, {ID: "2"}},
	)
}

func TestBuildCreatesOneColumnPerCombination(t *testing.T) {
	catalog := models.NewCatalog(
		[]models.Teacher{{ID: "P1", Cost: 1, Subjects: []string{"A", "B"}, Slots: []string{"1", "2"}}},
		[]models.Subject{{ID: "A", Cost: 10}, {ID: "B", Cost: 20}},
		[]models.Room{{ID: "R1", Cost: 100}, {ID: "R2", Cost: 200}},
		[]models.TimeSlot{{ID: "1", Cost: 1000}, {ID: "2", Cost: 2000}},
	)

	p := Build(catalog)
	require.Len(t, p.Variables, 8)

	col := p.Column(0, 1, 1, 0)
	v := p.Variables[col]
	assert.Equal(t, Variable{Teacher: 0, Subject: 1, Room: 1, Slot: 0, Cost: 1 + 20 + 200 + 1000}, v)
	assert.Equal(t, "x_P1_B_R2_1", p.ColumnName(col))

	// Everything is permitted: only the subject and slot rows exist.
	require.Len(t, p.Constraints, 4)
	for _, c := range p.Constraints {
		assert.Equal(t, 1.0, c.Value)
		assert.Len(t, c.Columns, 4)
	}
}

func TestBuildForbidsUnpermittedSubjectsAndSlots(t *testing.T) {
	p := Build(twoByTwoCatalog())

	var zeroRows []Constraint
	for _, c := range p.Constraints {
		if c.Value == 0 {
			zeroRows = append(zeroRows, c)
		}
	}
	// Each teacher: one forbidden subject over two slots, plus one unavailable slot for the permitted subject.
	require.Len(t, zeroRows, 6)

	names := make([]string, 0, len(zeroRows))
	for _, c := range zeroRows {
		names = append(names, c.Name)
		assert.Len(t, c.Columns, 1)
	}
	assert.Contains(t, names, "not_permitted_P1_B_1")
	assert.Contains(t, names, "not_permitted_P1_B_2")
	assert.Contains(t, names, "unavailable_P1_A_2")
	assert.Contains(t, names, "unavailable_P2_B_1")
	assert.NotContains(t, names, "unavailable_P1_A_1")
}

func TestExtractWalksRoomSlotTeacherSubject(t *testing.T) {
	p := Build(twoByTwoCatalog())
	sol := &Solution{Status: StatusOptimal, Values: make([]float64, len(p.Variables))}
	sol.Values[p.Column(1, 1, 0, 1)] = 1
	sol.Values[p.Column(0, 0, 0, 0)] = 0.9999999

	schedule := Extract(p, sol)
	require.Len(t, schedule.Assignments, 2)
	assert.Equal(t, models.Assignment{Teacher: "P1", Subject: "A", Room: "R1", TimeSlot: "1"}, schedule.Assignments[0])
	assert.Equal(t, models.Assignment{Teacher: "P2", Subject: "B", Room: "R1", TimeSlot: "2"}, schedule.Assignments[1])
	assert.Equal(t, 0.0, schedule.TotalCost)
}

func TestCheckFeasibilityRejectsMoreSubjectsThanSlots(t *testing.T) {
	catalog := models.NewCatalog(
		[]models.Teacher{{ID: "P1", Subjects: []string{"A", "B", "C"}, Slots: []string{"1", "2"}}},
		[]models.Subject{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		[]models.Room{{ID: "R1"}},
		[]models.TimeSlot{{ID: "1"}, {ID: "2"}},
	)

	err := CheckFeasibility(Build(catalog))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInfeasible))
}
