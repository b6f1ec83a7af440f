// Package loader reads teachers, subjects, rooms and time slots from the source workbook.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/pkg/config"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

// Loader builds a catalog from a workbook laid out with one column per entity kind.
type Loader struct {
	columns   config.ColumnsConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// New wires loader dependencies.
func New(columns config.ColumnsConfig, validate *validator.Validate, logger *zap.Logger) *Loader {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{columns: columns, validator: validate, logger: logger}
}

// Load opens the workbook at path and reads the named sheet, or the first sheet when sheet is empty.
func (l *Loader) Load(ctx context.Context, path, sheet string) (*models.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.WrapAs(appErrors.ErrInputNotFound, err, fmt.Sprintf("input workbook %q not found", path))
		}
		return nil, appErrors.WrapAs(appErrors.ErrInputMalformed, err, "failed to stat input workbook")
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrInputMalformed, err, fmt.Sprintf("failed to open input workbook %q", path))
	}
	defer f.Close() //nolint:errcheck

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrInputMalformed, err, fmt.Sprintf("failed to read sheet %q", sheet))
	}

	catalog, err := l.FromRows(rows)
	if err != nil {
		return nil, err
	}
	l.logger.Info("catalog loaded",
		zap.String("file", path),
		zap.String("sheet", sheet),
		zap.Int("teachers", len(catalog.Teachers)),
		zap.Int("subjects", len(catalog.Subjects)),
		zap.Int("rooms", len(catalog.Rooms)),
		zap.Int("slots", len(catalog.Slots)),
	)
	return catalog, nil
}

// FromRows builds a catalog from a header row followed by data rows.
func (l *Loader) FromRows(rows [][]string) (*models.Catalog, error) {
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInputMalformed, "input sheet is empty")
	}
	t, err := newTable(rows, l.columns)
	if err != nil {
		return nil, err
	}

	// The i-th distinct teacher takes permissions and availability from data row i,
	// while its cost comes from its own first row.
	teacherRows := t.firstOccurrences(l.columns.Teachers)
	teachers := make([]models.Teacher, 0, len(teacherRows))
	for i, entry := range teacherRows {
		cost, err := t.cost(l.columns.TeacherCosts, entry.row)
		if err != nil {
			return nil, err
		}
		slots, err := DecodeSlots(t.cellAt(i, l.columns.TeacherSlots))
		if err != nil {
			return nil, appErrors.WrapAs(appErrors.ErrInputMalformed, err, fmt.Sprintf("teacher %q availability", entry.id))
		}
		teachers = append(teachers, models.Teacher{
			ID:       entry.id,
			Cost:     cost,
			Subjects: DecodeSubjects(t.cellAt(i, l.columns.TeacherSubjects)),
			Slots:    slots,
		})
	}

	subjectRows := t.firstOccurrences(l.columns.Subjects)
	subjects := make([]models.Subject, 0, len(subjectRows))
	for _, entry := range subjectRows {
		cost, err := t.cost(l.columns.SubjectCosts, entry.row)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, models.Subject{ID: entry.id, Cost: cost})
	}

	roomRows := t.firstOccurrences(l.columns.Rooms)
	rooms := make([]models.Room, 0, len(roomRows))
	for _, entry := range roomRows {
		cost, err := t.cost(l.columns.RoomCosts, entry.row)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, models.Room{ID: entry.id, Cost: cost})
	}

	slotRows := t.firstOccurrences(l.columns.TimeSlots)
	slots := make([]models.TimeSlot, 0, len(slotRows))
	for _, entry := range slotRows {
		cost, err := t.cost(l.columns.TimeSlotCosts, entry.row)
		if err != nil {
			return nil, err
		}
		slots = append(slots, models.TimeSlot{ID: entry.id, Cost: cost})
	}

	catalog := models.NewCatalog(teachers, subjects, rooms, slots)
	if err := l.validator.Struct(catalog); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrValidation, err, "input workbook must list at least one teacher, subject, room and time slot")
	}
	return catalog, nil
}

type table struct {
	header map[string]int
	rows   [][]string
}

type occurrence struct {
	id  string
	row int
}

func newTable(rows [][]string, columns config.ColumnsConfig) (*table, error) {
	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		if _, dup := header[name]; !dup {
			header[name] = i
		}
	}
	required := []string{
		columns.Teachers, columns.Subjects, columns.TimeSlots, columns.Rooms,
		columns.TeacherSubjects, columns.TeacherSlots,
		columns.TeacherCosts, columns.SubjectCosts, columns.TimeSlotCosts, columns.RoomCosts,
	}
	var missing []string
	for _, name := range required {
		if _, ok := header[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrInputMalformed, fmt.Sprintf("input sheet is missing columns: %s", strings.Join(missing, ", ")))
	}
	return &table{header: header, rows: rows[1:]}, nil
}

func (t *table) cell(row int, column string) string {
	idx := t.header[column]
	if idx >= len(t.rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][idx])
}

// cellAt is cell with rows past the end of the sheet read as blank.
func (t *table) cellAt(row int, column string) string {
	if row >= len(t.rows) {
		return ""
	}
	return t.cell(row, column)
}

// firstOccurrences returns the distinct non-blank values of a column in reading order.
func (t *table) firstOccurrences(column string) []occurrence {
	seen := make(map[string]struct{})
	var out []occurrence
	for i := range t.rows {
		id := t.cell(i, column)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, occurrence{id: id, row: i})
	}
	return out
}

func (t *table) cost(column string, row int) (float64, error) {
	raw := t.cell(row, column)
	if raw == "" {
		return 0, appErrors.Clone(appErrors.ErrInputMalformed, fmt.Sprintf("column %q is empty on row %d", column, row+2))
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, appErrors.WrapAs(appErrors.ErrInputMalformed, err, fmt.Sprintf("column %q row %d is not a number", column, row+2))
	}
	return value, nil
}
