package seating

import "seating-chart-server-go/models"

// Summary describes how a roster ended up on a set of tables.
type Summary struct {
	TotalSeats int      `json:"totalSeats"`
	Seated     int      `json:"seated"`
	EmptySeats int      `json:"emptySeats"`
	Unseated   []string `json:"unseatedStudentIds"`
}

// Summarize counts seats and lists roster students that have no seat.
// Occupants that are not on the roster count as seated seats only.
func Summarize(students []models.Student, tables []models.Table) Summary {
	sum := Summary{Unseated: []string{}}
	seated := make(map[string]struct{})
	for _, t := range tables {
		for _, s := range t.StudentSlots {
			sum.TotalSeats++
			if s.Occupied() {
				sum.Seated++
				seated[s.Occupant()] = struct{}{}
			} else {
				sum.EmptySeats++
			}
		}
	}
	for _, st := range students {
		if _, ok := seated[st.ID]; !ok {
			sum.Unseated = append(sum.Unseated, st.ID)
		}
	}
	return sum
}
