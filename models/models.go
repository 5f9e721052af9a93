package models

// Gender is the canonical three-way gender label of a student
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// English ability bands used by the triangle strategy
const (
	EnglishAbilityMin       = 1
	EnglishAbilityMax       = 5
	EnglishAbilityLow       = 1
	EnglishAbilityStrongMin = 3
	EnglishAbilityStrongMax = 4
)

// Student represents a student on the class roster
type Student struct {
	ID             string `json:"id" validate:"required"`                // Unique student ID
	Name           string `json:"name" validate:"required"`              // Student name
	Nationality    string `json:"nationality" validate:"required"`       // Free-text nationality label
	EnglishAbility int    `json:"englishAbility" validate:"min=1,max=5"` // 1 (lowest) to 5 (highest)
	Gender         Gender `json:"gender" validate:"oneof=male female other"`
}

// Seat is one occupiable position at a table
type Seat struct {
	ID        string  `json:"id"`        // e.g. table-xxx-slot-0
	StudentID *string `json:"studentId"` // nil when empty
}

// Occupied reports whether a student sits in the seat
func (s Seat) Occupied() bool {
	return s.StudentID != nil && *s.StudentID != ""
}

// Occupant returns the seated student ID or "" when empty
func (s Seat) Occupant() string {
	if s.StudentID == nil {
		return ""
	}
	return *s.StudentID
}

// Table is a physical set of seats with a fixed capacity of 1, 2 or 4
type Table struct {
	ID           string  `json:"id" validate:"required"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Capacity     int     `json:"capacity" validate:"capacity"`
	Rotation     float64 `json:"rotation"`
	StudentSlots []Seat  `json:"studentSlots" validate:"required"`
}

// EmptySeats counts the seats without an occupant
func (t Table) EmptySeats() int {
	n := 0
	for _, s := range t.StudentSlots {
		if !s.Occupied() {
			n++
		}
	}
	return n
}

// TeacherDesk is the single optional teacher desk of a layout
type TeacherDesk struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// TableGroup clusters tables into one seating pool
type TableGroup struct {
	ID       string   `json:"id"`
	TableIDs []string `json:"tableIds" validate:"required,dive,required"`
	Name     string   `json:"name,omitempty"`
}

// ClassroomLayout is the editable layout state
type ClassroomLayout struct {
	Tables      []Table      `json:"tables" validate:"dive"`
	TeacherDesk *TeacherDesk `json:"teacherDesk"`
	TableGroups []TableGroup `json:"tableGroups" validate:"dive"`
}

// AppSettings is the full persisted state of one classroom
type AppSettings struct {
	ClassName string    `json:"className" validate:"required"`
	Students  []Student `json:"students" validate:"dive"`
	ClassroomLayout
}

// ClassSummary is the short form of a stored classroom
type ClassSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StudentCount int    `json:"studentCount"`
	TableCount   int    `json:"tableCount"`
}

// AlgorithmType names a seat assignment strategy
type AlgorithmType string

const (
	AlgorithmNone             AlgorithmType = "none"
	AlgorithmRandomized       AlgorithmType = "randomized"
	AlgorithmMichaelsTriangle AlgorithmType = "michaels_triangle"
)

// Known reports whether a is one of the named strategies
func (a AlgorithmType) Known() bool {
	switch a {
	case AlgorithmNone, AlgorithmRandomized, AlgorithmMichaelsTriangle:
		return true
	}
	return false
}
