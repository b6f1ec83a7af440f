package models

// Teacher is a person who may teach a subset of subjects during a subset of time slots.
type Teacher struct {
	ID       string   `json:"id" validate:"required"`
	Cost     float64  `json:"cost"`
	Subjects []string `json:"subjects"`
	Slots    []string `json:"slots"`
}

// Subject must be scheduled exactly once.
type Subject struct {
	ID   string  `json:"id" validate:"required"`
	Cost float64 `json:"cost"`
}

// Room hosts assignments; rooms carry no capacity limit.
type Room struct {
	ID   string  `json:"id" validate:"required"`
	Cost float64 `json:"cost"`
}

// TimeSlot hosts exactly one assignment.
type TimeSlot struct {
	ID   string  `json:"id" validate:"required"`
	Cost float64 `json:"cost"`
}

// Catalog holds the deduplicated entity sets read from the source workbook.
type Catalog struct {
	Teachers []Teacher  `json:"teachers" validate:"required,min=1,dive"`
	Subjects []Subject  `json:"subjects" validate:"required,min=1,dive"`
	Rooms    []Room     `json:"rooms" validate:"required,min=1,dive"`
	Slots    []TimeSlot `json:"slots" validate:"required,min=1,dive"`

	subjectsByTeacher map[string]map[string]struct{}
	slotsByTeacher    map[string]map[string]struct{}
}

// NewCatalog builds a catalog and its teacher lookup tables.
func NewCatalog(teachers []Teacher, subjects []Subject, rooms []Room, slots []TimeSlot) *Catalog {
	c := &Catalog{
		Teachers:          teachers,
		Subjects:          subjects,
		Rooms:             rooms,
		Slots:             slots,
		subjectsByTeacher: make(map[string]map[string]struct{}, len(teachers)),
		slotsByTeacher:    make(map[string]map[string]struct{}, len(teachers)),
	}
	for _, t := range teachers {
		c.subjectsByTeacher[t.ID] = toSet(t.Subjects)
		c.slotsByTeacher[t.ID] = toSet(t.Slots)
	}
	return c
}

// CanTeach reports whether the teacher is permitted to teach the subject.
func (c *Catalog) CanTeach(teacherID, subjectID string) bool {
	_, ok := c.subjectsByTeacher[teacherID][subjectID]
	return ok
}

// IsAvailable reports whether the teacher is available during the slot.
func (c *Catalog) IsAvailable(teacherID, slotID string) bool {
	_, ok := c.slotsByTeacher[teacherID][slotID]
	return ok
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// Assignment is one chosen (teacher, subject, room, time slot) combination.
type Assignment struct {
	Teacher  string  `json:"teacher"`
	Subject  string  `json:"subject"`
	Room     string  `json:"room"`
	TimeSlot string  `json:"time_slot"`
	Cost     float64 `json:"cost"`
}

// Schedule is the solved timetable. It is derived once from a solution and not modified afterwards.
type Schedule struct {
	Assignments []Assignment `json:"assignments"`
	TotalCost   float64      `json:"total_cost"`
	Objective   float64      `json:"objective"`
}
