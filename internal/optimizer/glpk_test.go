package optimizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/models"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

func solve(t *testing.T, catalog *models.Catalog) (models.Schedule, error) {
	t.Helper()
	p := Build(catalog)
	sol, err := NewGLPKSolver(GLPKConfig{Presolve: true, MsgLevel: "off"}, zap.NewNop()).Solve(context.Background(), p)
	if err != nil {
		return models.Schedule{}, err
	}
	return Extract(p, sol), nil
}

func TestGLPKSolverPairsTeachersWithTheirOnlyOption(t *testing.T) {
	schedule, err := solve(t, twoByTwoCatalog())
	require.NoError(t, err)

	assert.Equal(t, []models.Assignment{
		{Teacher: "P1", Subject: "A", Room: "R1", TimeSlot: "1"},
		{Teacher: "P2", Subject: "B", Room: "R1", TimeSlot: "2"},
	}, schedule.Assignments)
	assert.Equal(t, 0.0, schedule.TotalCost)
	assert.InDelta(t, 0.0, schedule.Objective, 1e-9)
}

func TestGLPKSolverPicksCheapestTeacherAndRoom(t *testing.T) {
	all := []string{"A", "B", "C"}
	slots := []string{"1", "2", "3"}
	catalog := models.NewCatalog(
		[]models.Teacher{
			{ID: "P1", Cost: 50, Subjects: all, Slots: slots},
			{ID: "P2", Cost: 5, Subjects: all, Slots: slots},
		},
		[]models.Subject{{ID: "A", Cost: 1}, {ID: "B", Cost: 2}, {ID: "C", Cost: 3}},
		[]models.Room{{ID: "R1", Cost: 30}, {ID: "R2", Cost: 7}},
		[]models.TimeSlot{{ID: "1", Cost: 1}, {ID: "2", Cost: 1}, {ID: "3", Cost: 1}},
	)

	schedule, err := solve(t, catalog)
	require.NoError(t, err)
	require.Len(t, schedule.Assignments, 3)
	for _, a := range schedule.Assignments {
		assert.Equal(t, "P2", a.Teacher)
		assert.Equal(t, "R2", a.Room)
	}
	assert.Equal(t, 3*(5+7)+(1+2+3)+3.0, schedule.TotalCost)
	assert.InDelta(t, schedule.TotalCost, schedule.Objective, 1e-6)
}

func TestGLPKSolverHonoursRestrictions(t *testing.T) {
	catalog := models.NewCatalog(
		[]models.Teacher{
			{ID: "P1", Cost: 1, Subjects: []string{"A", "B"}, Slots: []string{"1", "3"}},
			{ID: "P2", Cost: 2, Subjects: []string{"C"}, Slots: []string{"1", "2"}},
			{ID: "P3", Cost: 9, Subjects: []string{"A", "B", "C"}, Slots: []string{"2"}},
		},
		[]models.Subject{{ID: "A", Cost: 4}, {ID: "B", Cost: 1}, {ID: "C", Cost: 2}},
		[]models.Room{{ID: "R1", Cost: 3}, {ID: "R2", Cost: 1}},
		[]models.TimeSlot{{ID: "1", Cost: 2}, {ID: "2", Cost: 5}, {ID: "3", Cost: 1}},
	)

	schedule, err := solve(t, catalog)
	require.NoError(t, err)
	require.Len(t, schedule.Assignments, 3)

	subjects := map[string]int{}
	slots := map[string]int{}
	var total float64
	for _, a := range schedule.Assignments {
		subjects[a.Subject]++
		slots[a.TimeSlot]++
		assert.True(t, catalog.CanTeach(a.Teacher, a.Subject), "%s cannot teach %s", a.Teacher, a.Subject)
		assert.True(t, catalog.IsAvailable(a.Teacher, a.TimeSlot), "%s unavailable at %s", a.Teacher, a.TimeSlot)
		total += a.Cost
	}
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 1}, subjects)
	assert.Equal(t, map[string]int{"1": 1, "2": 1, "3": 1}, slots)
	assert.Equal(t, total, schedule.TotalCost)
	assert.InDelta(t, total, schedule.Objective, 1e-6)
}

func TestGLPKSolverReportsInfeasibleWhenSubjectsExceedSlots(t *testing.T) {
	catalog := models.NewCatalog(
		[]models.Teacher{{ID: "P1", Subjects: []string{"A", "B", "C"}, Slots: []string{"1", "2"}}},
		[]models.Subject{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		[]models.Room{{ID: "R1"}},
		[]models.TimeSlot{{ID: "1"}, {ID: "2"}},
	)

	_, err := solve(t, catalog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInfeasible))
}

func TestGLPKSolverReportsInfeasibleRestrictions(t *testing.T) {
	catalog := models.NewCatalog(
		[]models.Teacher{
			{ID: "P1", Subjects: []string{"A"}, Slots: []string{"1", "2"}},
			{ID: "P2", Subjects: []string{"A"}, Slots: []string{"1", "2"}},
		},
		[]models.Subject{{ID: "A"}, {ID: "B"}},
		[]models.Room{{ID: "R1"}},
		[]models.TimeSlot{{ID: "1"}, {ID: "2"}},
	)

	_, err := solve(t, catalog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInfeasible))
}

func TestGLPKSolverHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGLPKSolver(GLPKConfig{}, nil).Solve(ctx, Build(twoByTwoCatalog()))
	assert.ErrorIs(t, err, context.Canceled)
}
